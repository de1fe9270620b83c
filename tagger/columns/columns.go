// Package columns implements the one-column-per-type tagger: every output column is pinned to one type
// name, and a token gets a tag in that column if a span of exactly that type covers it.
//
// Spans of the same type that overlap compete for the same column; the one listed last wins. Enable
// duplicate removal to get rid of contained same-type spans first.
package columns

import (
	"slices"
	"sync/atomic"

	"github.com/gomlx/go-nertags/internal/bio"
	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/gomlx/go-nertags/tagger/layered"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Encoder is the one-column-per-type tagger. It is safe for concurrent use on distinct documents.
type Encoder struct {
	config *api.Config
	tagger *bio.Encoder
	match  api.TypeMatcher
}

// Compile time assert that Encoder implements api.Encoder.
var _ api.Encoder = &Encoder{}

// New validates the configuration, which must use the FixedTypeColumns strategy, and creates an Encoder
// from a copy of it.
func New(config *api.Config) (*Encoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Strategy != api.FixedTypeColumns {
		return nil, errors.Wrapf(api.ErrInvalidConfig, "columns tagger requires strategy %s, got %s",
			api.FixedTypeColumns, config.Strategy)
	}
	config = config.Clone()
	return &Encoder{
		config: config,
		tagger: bio.NewEncoder(config),
		match:  config.DuplicateTypeMatch.Matcher(),
	}, nil
}

// Encode implements api.Encoder.
func (e *Encoder) Encode(tokens []spans.Token, entities []spans.Span) api.Result {
	return e.EncodeDocument(tokens, entities)
}

// EncodeDocument encodes one document. The input slices are not modified.
func (e *Encoder) EncodeDocument(tokens []spans.Token, entities []spans.Span) *Encoding {
	tokens, entities = spans.Prepare(tokens, entities)
	names := e.config.TypeColumns
	if e.config.OnlyPresentTypes {
		names = presentTypes(names, entities)
	}
	enc := &Encoding{tokens: tokens, names: names}
	if len(tokens) == 0 {
		return enc
	}

	layered.RemoveDuplicates(&entities, e.config.DuplicateRemoval, e.match)
	enc.spanCount = len(entities)
	column := make(map[string]int, len(names))
	for ii, name := range names {
		column[name] = ii
	}
	grid := make([][]int, len(tokens))
	for t := range grid {
		grid[t] = make([]int, len(names))
		for ii := range grid[t] {
			grid[t][ii] = bio.NoSpan
		}
	}
	covered := make([][]int, len(entities))
	for s, span := range entities {
		col, found := column[span.Type]
		if !found {
			continue
		}
		covered[s] = spans.Covered(tokens, span)
		for _, t := range covered[s] {
			grid[t][col] = s
		}
	}
	tags, misses := e.tagger.Encode(tokens, entities, bio.FirstTokens(covered), grid)
	enc.tags = tags
	enc.misses.Add(int64(misses))
	for _, row := range tags {
		if len(row) > 0 && !row[0].IsOutside() {
			enc.tagged++
		}
	}
	klog.V(1).Infof("encoded %d tokens in %d type columns: %d spans, %d tagged tokens, %d lookup misses",
		len(tokens), len(names), enc.spanCount, enc.tagged, misses)
	return enc
}

// presentTypes returns the configured type names that occur in the document, sorted.
func presentTypes(names []string, entities []spans.Span) []string {
	var present []string
	for _, span := range entities {
		if slices.Contains(names, span.Type) && !slices.Contains(present, span.Type) {
			present = append(present, span.Type)
		}
	}
	slices.Sort(present)
	return present
}

// Encoding is the result of encoding one document with the columns tagger.
type Encoding struct {
	tokens    []spans.Token
	names     []string
	tags      [][]api.Tag
	spanCount int
	tagged    int
	misses    atomic.Int64
}

// Compile time assert that Encoding implements api.Result.
var _ api.Result = &Encoding{}

// Tokens implements api.Result.
func (enc *Encoding) Tokens() []spans.Token { return enc.tokens }

// ColumnNames returns the type name of every column of this document.
func (enc *Encoding) ColumnNames() []string { return enc.names }

// SpanCount implements api.Result. Retained spans whose type has no column are counted too.
func (enc *Encoding) SpanCount() int { return enc.spanCount }

// TaggedTokens implements api.Result.
func (enc *Encoding) TaggedTokens() int { return enc.tagged }

// Misses implements api.Result.
func (enc *Encoding) Misses() int64 { return enc.misses.Load() }

// Columns implements api.Result: one tag per column name.
func (enc *Encoding) Columns(token int) []string {
	columns := make([]string, len(enc.names))
	if token < 0 || token >= len(enc.tags) {
		enc.misses.Add(1)
		for ii := range columns {
			columns[ii] = api.Outside
		}
		return columns
	}
	for ii, tag := range enc.tags[token] {
		columns[ii] = tag.String()
	}
	return columns
}
