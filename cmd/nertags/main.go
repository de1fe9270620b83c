// Command nertags converts documents annotated with nested entity spans into layered BIO tag columns, written
// as CoNLL files or as a parquet table.
//
// Usage:
//
//	nertags encode --config tagger.yaml --out conll/ docs/*.json
//	nertags encode --strategy top-down --columns 3 --format parquet --out corpus.parquet docs.jsonl
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"k8s.io/klog/v2"
)

const version = "0.1.0"

// CLI defines the command-line interface of nertags.
var CLI struct {
	Verbosity int `name:"verbosity" short:"v" help:"Log verbosity level (klog -v)."`

	Encode  EncodeCmd  `cmd:"" help:"Encode annotated documents into BIO tag columns"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// VersionCmd prints the version.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Printf("nertags version %s\n", version)
	return nil
}

// setupLogging routes the verbosity flag to klog.
func setupLogging(verbosity int) {
	flags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(flags)
	if err := flags.Set("v", strconv.Itoa(verbosity)); err != nil {
		klog.Warningf("failed to set log verbosity: %v", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx := kong.Parse(&CLI,
		kong.Name("nertags"),
		kong.Description("Layered BIO tagging of nested entity spans"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	setupLogging(CLI.Verbosity)
	err := kctx.Run()
	klog.Flush()
	kctx.FatalIfErrorf(err)
}
