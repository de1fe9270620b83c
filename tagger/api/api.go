// Package api defines the tagger API: configuration, tag values, the pluggable label and containment
// policies, and the Encoder/Result interfaces.
//
// It is kept separate so that the implementations (tagger/layered, tagger/columns) and the package selecting
// among them (tagger) can all depend on it without cycles.
package api

import (
	"strings"

	"github.com/gomlx/go-nertags/spans"
)

// Outside is the tag of a token not covered by any span at a given level.
const Outside = "O"

// BIO prefixes.
const (
	PrefixBegin  = "B-"
	PrefixInside = "I-"
)

// Tag is the output unit for one token at one level.
//
// The zero value is the Outside tag.
type Tag struct {
	Label  string
	Prefix string
	Flags  []string
}

// IsOutside returns whether the tag carries no span information.
// A "B-O" tag, which some annotation tools emit, is also considered outside.
func (t Tag) IsOutside() bool {
	return t.Label == "" || t.Label == Outside
}

// String renders the tag as "O", "B-<label>" or "I-<label>", followed by ",<flag>" for every flag.
func (t Tag) String() string {
	if t.IsOutside() {
		return Outside
	}
	if len(t.Flags) == 0 {
		return t.Prefix + t.Label
	}
	return t.Prefix + t.Label + "," + strings.Join(t.Flags, ",")
}

// Encoder converts one document's tokens and spans into per-token tag columns.
//
// Implementations hold only read-only configuration, so one Encoder may be used concurrently on
// distinct documents.
type Encoder interface {
	Encode(tokens []spans.Token, entities []spans.Span) Result
}

// Result is the encoding of one document.
type Result interface {
	// Tokens returns the tokens the result is indexed by: the input tokens after sub-token filtering.
	Tokens() []spans.Token

	// Columns returns the configured tag columns for the token with the given index.
	// It never fails: unknown tokens yield "O" columns and are counted in Misses.
	Columns(token int) []string

	// SpanCount is the number of spans retained after validation and duplicate removal.
	SpanCount() int

	// TaggedTokens is the number of tokens whose first column is not "O". Diagnostic only.
	TaggedTokens() int

	// Misses counts internal lookup misses substituted with "O".
	Misses() int64
}
