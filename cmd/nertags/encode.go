package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gomlx/go-nertags/corpus"
	"github.com/gomlx/go-nertags/tagger"
	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// EncodeCmd encodes documents and writes their tag columns.
type EncodeCmd struct {
	Inputs []string `arg:"" help:"JSON documents, or .jsonl files with one document per line" type:"existingfile"`
	Out    string   `short:"o" required:"" help:"Output directory for conll, output file for parquet" type:"path"`
	Format string   `short:"f" enum:"conll,parquet" default:"conll" help:"Output format (conll, parquet)"`

	Config string `short:"c" help:"YAML tagger configuration; the flags below override it" type:"existingfile"`

	Strategy    string   `help:"Column strategy: top-first-bottom-up, top-down, bottom-up, max-coverage or fixed-type-columns"`
	Columns     int      `short:"n" help:"Number of tag columns"`
	IOB         string   `name:"iob" help:"BIO scheme: iob2 or iob1"`
	Duplicates  string   `help:"Duplicate removal: none, any, same-begin or same-end"`
	Layering    string   `help:"Level construction: breadth-first or naive"`
	Containment string   `help:"Which spans nest: all or same-category"`
	Labels      string   `help:"Label source: type or value"`
	TypeColumns []string `name:"type-columns" sep:"," help:"Type names of the fixed-type-columns strategy"`
	OnlyPresent bool     `name:"only-present" help:"Only write the type columns present in each document"`
	Flags       bool     `help:"Append span flags to the tags"`
	TagAllAs    string   `name:"tag-all-as" help:"Replace every label with this one"`

	Separator          string `default:" " help:"CoNLL field separator"`
	KeepEmptySentences bool   `name:"keep-empty-sentences" help:"Also write sentences without any tag"`
	NoPOS              bool   `name:"no-pos" help:"Write _ instead of the part-of-speech"`
	NoLemma            bool   `name:"no-lemma" help:"Write _ instead of the lemma"`
	ExportRaw          bool   `name:"export-raw" help:"Also write the document text next to each CoNLL file"`
	Overwrite          bool   `help:"Overwrite existing output files"`
	Workers            int    `short:"w" help:"Documents processed in parallel (default: one per CPU)"`
}

// Run executes the encode command.
func (c *EncodeCmd) Run(ctx context.Context) error {
	config, err := c.config()
	if err != nil {
		return err
	}
	encoder, err := tagger.New(config)
	if err != nil {
		return err
	}
	options := c.options()

	start := time.Now()
	var summary corpus.Summary
	switch c.Format {
	case "parquet":
		var columnNames []string
		if config.Strategy == api.FixedTypeColumns && !config.OnlyPresentTypes {
			columnNames = config.TypeColumns
		}
		err = corpus.WriteLocked(c.Out, c.Overwrite, func(w io.Writer) error {
			writer := corpus.NewParquetWriter(w, options, columnNames)
			var runErr error
			summary, runErr = corpus.NewBatch(encoder, writer).WithWorkers(c.Workers).RunFiles(ctx, c.Inputs)
			if runErr != nil {
				return runErr
			}
			return writer.Close()
		})
	default:
		sink := corpus.NewConllDir(c.Out, options)
		summary, err = corpus.NewBatch(encoder, sink).WithWorkers(c.Workers).RunFiles(ctx, c.Inputs)
	}
	fmt.Println(renderSummary(summary, time.Since(start)))
	if err != nil {
		return errors.WithMessagef(err, "while encoding into %q", c.Out)
	}
	return nil
}

// config loads the configuration file, if any, and applies the flags on top of it.
func (c *EncodeCmd) config() (*api.Config, error) {
	config := api.NewConfig()
	if c.Config != "" {
		var err error
		if config, err = api.LoadConfigFile(c.Config); err != nil {
			return nil, err
		}
	}
	overrides := []struct {
		value  string
		target interface{ UnmarshalText([]byte) error }
	}{
		{c.Strategy, &config.Strategy},
		{c.IOB, &config.IOB},
		{c.Duplicates, &config.DuplicateRemoval},
		{c.Layering, &config.Layering},
		{c.Containment, &config.Containment},
		{c.Labels, &config.LabelSource},
	}
	for _, override := range overrides {
		if override.value == "" {
			continue
		}
		if err := override.target.UnmarshalText([]byte(override.value)); err != nil {
			return nil, errors.WithMessage(err, "invalid flag")
		}
	}
	if c.Columns > 0 {
		config.Columns = c.Columns
	}
	if len(c.TypeColumns) > 0 {
		config.WithTypeColumns(c.OnlyPresent || config.OnlyPresentTypes, c.TypeColumns...)
	} else if c.OnlyPresent {
		config.OnlyPresentTypes = true
	}
	if c.Flags {
		config.WithFlags(true)
	}
	if c.TagAllAs != "" {
		config.WithTagAllAs(c.TagAllAs)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	klog.V(1).Infof("tagger configuration: %+v", *config)
	return config, nil
}

func (c *EncodeCmd) options() corpus.Options {
	options := corpus.DefaultOptions()
	options.Separator = c.Separator
	options.FilterEmptySentences = !c.KeepEmptySentences
	options.WritePOS = !c.NoPOS
	options.WriteLemma = !c.NoLemma
	options.ExportRaw = c.ExportRaw
	options.Overwrite = c.Overwrite
	return options
}
