// Package layered implements the hierarchical tagger: overlapping and nested spans are distributed over
// several levels of BIO tags per token, so that no level holds two overlapping spans.
//
// The pipeline for one document is:
//
//  1. Duplicate removal: same-type spans contained in another one are dropped (RemoveDuplicates).
//  2. Ranking: every span gets its nesting depth (BuildHierarchy).
//  3. Layering: spans are assigned to levels breadth-first, deeper spans filling the gaps of the upper
//     levels when they don't collide.
//  4. Coverage: levels are ranked by the number of tokens they tag (CoverageOrder).
//  5. Projection: the requested number of columns is read from the levels following the strategy.
//
// Example:
//
//	encoder, err := layered.New(api.NewConfig().WithStrategy(api.TopDown, 2))
//	if err != nil {
//		panic(err)
//	}
//	result := encoder.EncodeDocument(tokens, entities)
//	for ii := range result.Tokens() {
//		fmt.Println(result.Columns(ii))
//	}
package layered

import (
	"sync/atomic"

	"github.com/gomlx/go-nertags/internal/bio"
	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Encoder is the hierarchical tagger. It holds only its read-only configuration and is safe for concurrent
// use on distinct documents.
type Encoder struct {
	config      *api.Config
	tagger      *bio.Encoder
	containment api.ContainmentPolicy
	match       api.TypeMatcher
}

// Compile time assert that Encoder implements api.Encoder.
var _ api.Encoder = &Encoder{}

// New validates the configuration and creates an Encoder from a copy of it.
func New(config *api.Config) (*Encoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Strategy == api.FixedTypeColumns {
		return nil, errors.Wrapf(api.ErrInvalidConfig, "strategy %s is implemented by the columns tagger", config.Strategy)
	}
	config = config.Clone()
	return &Encoder{
		config:      config,
		tagger:      bio.NewEncoder(config),
		containment: config.ContainmentPolicy(),
		match:       config.DuplicateTypeMatch.Matcher(),
	}, nil
}

// Encode implements api.Encoder.
func (e *Encoder) Encode(tokens []spans.Token, entities []spans.Span) api.Result {
	return e.EncodeDocument(tokens, entities)
}

// EncodeDocument encodes one document. The input slices are not modified.
func (e *Encoder) EncodeDocument(tokens []spans.Token, entities []spans.Span) *Encoding {
	tokens, entities = spans.Prepare(tokens, entities)
	enc := &Encoding{config: e.config, tokens: tokens}
	if len(tokens) == 0 {
		enc.hierarchy = BuildHierarchy(nil, e.containment)
		return enc
	}

	RemoveDuplicates(&entities, e.config.DuplicateRemoval, e.match)
	enc.entities = entities
	enc.hierarchy = BuildHierarchy(entities, e.containment)

	covered := make([][]int, len(entities))
	for s, span := range entities {
		covered[s] = spans.Covered(tokens, span)
	}
	rows := assignLayers(len(tokens), covered, enc.hierarchy.Buckets, e.config.Layering == api.BreadthFirst)
	tags, misses := e.tagger.Encode(tokens, entities, bio.FirstTokens(covered), rows)
	enc.tags = tags
	enc.misses.Add(int64(misses))
	enc.coverage = countCoverage(tags)
	enc.order = CoverageOrder(enc.coverage)
	for t := range tags {
		if level := enc.selectLevel(e.config.Strategy, 0, len(tags[t])); level >= 0 && !tags[t][level].IsOutside() {
			enc.tagged++
		}
	}

	klog.V(1).Infof("encoded %d tokens: %d spans, %d ranks, %d levels, %d tagged tokens, %d lookup misses",
		len(tokens), len(entities), enc.hierarchy.Len(), enc.Levels(), enc.tagged, misses)
	if klog.V(2).Enabled() {
		klog.Infof("level coverage %v, coverage order %v", enc.coverage, enc.order)
	}
	return enc
}

// Encoding is the result of encoding one document with the hierarchical tagger.
type Encoding struct {
	config    *api.Config
	tokens    []spans.Token
	entities  []spans.Span
	hierarchy *Hierarchy
	tags      [][]api.Tag
	coverage  []int
	order     []int
	tagged    int
	misses    atomic.Int64
}

// Compile time assert that Encoding implements api.Result.
var _ api.Result = &Encoding{}

// Tokens implements api.Result.
func (enc *Encoding) Tokens() []spans.Token { return enc.tokens }

// Entities returns the spans retained after validation and duplicate removal.
func (enc *Encoding) Entities() []spans.Span { return enc.entities }

// Hierarchy returns the ranks of the retained spans.
func (enc *Encoding) Hierarchy() *Hierarchy { return enc.hierarchy }

// SpanCount implements api.Result.
func (enc *Encoding) SpanCount() int { return len(enc.entities) }

// TaggedTokens implements api.Result.
func (enc *Encoding) TaggedTokens() int { return enc.tagged }

// Misses implements api.Result.
func (enc *Encoding) Misses() int64 { return enc.misses.Load() }

// Levels returns the number of levels, the same for every token. It is 0 only for an empty document.
func (enc *Encoding) Levels() int {
	if len(enc.tags) == 0 {
		return 0
	}
	return len(enc.tags[0])
}

// Tags returns the level list of a token, outermost level first.
func (enc *Encoding) Tags(token int) []api.Tag {
	if token < 0 || token >= len(enc.tags) {
		enc.misses.Add(1)
		return nil
	}
	return enc.tags[token]
}

// Coverage returns, for every level, the number of tokens with a tag other than "O".
func (enc *Encoding) Coverage() []int { return enc.coverage }

// CoverageOrder returns the level indices from most to least covered.
func (enc *Encoding) CoverageOrder() []int { return enc.order }
