package corpus

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Batch encodes many documents in parallel and hands the results to a Sink.
//
// Documents that fail to load are logged and counted, documents without any span are skipped with a
// warning; an error from the Sink stops the batch.
type Batch struct {
	encoder api.Encoder
	sink    Sink
	workers int
}

// Summary holds the counters of a Batch run.
type Summary struct {
	Documents    int64
	Written      int64
	Skipped      int64
	Failed       int64
	Spans        int64
	TaggedTokens int64
	Misses       int64
}

type summaryCounters struct {
	documents, written, skipped, failed, spans, tagged, misses atomic.Int64
}

func (c *summaryCounters) summary() Summary {
	return Summary{
		Documents:    c.documents.Load(),
		Written:      c.written.Load(),
		Skipped:      c.skipped.Load(),
		Failed:       c.failed.Load(),
		Spans:        c.spans.Load(),
		TaggedTokens: c.tagged.Load(),
		Misses:       c.misses.Load(),
	}
}

// NewBatch creates a Batch with one worker per CPU.
func NewBatch(encoder api.Encoder, sink Sink) *Batch {
	return &Batch{encoder: encoder, sink: sink, workers: runtime.NumCPU()}
}

// WithWorkers sets the maximum number of documents processed in parallel. If <= 0, one per CPU.
func (b *Batch) WithWorkers(n int) *Batch {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	b.workers = n
	return b
}

// RunFiles reads, encodes and writes the documents in the given files. Files ending in ".jsonl" hold one
// document per line, any other file holds one document.
func (b *Batch) RunFiles(ctx context.Context, paths []string) (Summary, error) {
	var counters summaryCounters
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			var docs []*Document
			var err error
			if strings.HasSuffix(path, ".jsonl") {
				docs, err = ReadDocumentsFile(path)
			} else {
				var doc *Document
				doc, err = ReadDocumentFile(path)
				docs = []*Document{doc}
			}
			if err != nil {
				klog.Errorf("Skipping %q: %+v", path, err)
				counters.failed.Add(1)
				return nil
			}
			for _, doc := range docs {
				if err := b.process(gctx, doc, &counters); err != nil {
					return err
				}
			}
			return nil
		})
	}
	// The errgroup context is always cancelled by Wait: only the caller's one tells an interruption.
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return counters.summary(), err
}

// Run encodes and writes the given documents.
func (b *Batch) Run(ctx context.Context, docs []*Document) (Summary, error) {
	var counters summaryCounters
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return b.process(gctx, doc, &counters)
		})
	}
	// The errgroup context is always cancelled by Wait: only the caller's one tells an interruption.
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return counters.summary(), err
}

func (b *Batch) process(ctx context.Context, doc *Document, counters *summaryCounters) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	counters.documents.Add(1)
	result := b.encoder.Encode(doc.Tokens, doc.Entities)
	defer func() { counters.misses.Add(result.Misses()) }()
	if result.SpanCount() == 0 {
		klog.Warningf("Skipping document %q as it does not contain any spans", doc.ID)
		counters.skipped.Add(1)
		return nil
	}
	if err := b.sink.Write(doc, result); err != nil {
		return errors.WithMessagef(err, "while writing document %q", doc.ID)
	}
	counters.written.Add(1)
	counters.spans.Add(int64(result.SpanCount()))
	counters.tagged.Add(int64(result.TaggedTokens()))
	return nil
}
