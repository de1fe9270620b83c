// Package spans defines the input model of the tagger: tokens and labeled entity spans anchored over the
// document text.
//
// All offsets are byte offsets (not rune offsets) into the document text, with half-open intervals
// [Begin, End), so that text[token.Begin:token.End] returns the covered text.
package spans

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Token is one element of the document's token sequence.
type Token struct {
	Index int    `json:"-"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Text  string `json:"text,omitempty"`
	POS   string `json:"pos,omitempty"`
	Lemma string `json:"lemma,omitempty"`
}

// Category is the structural family of a span, e.g. an ordinary named entity or an abstract/conceptual one.
// Containment and duplicate policies may be configured to look only within a category.
type Category int

const (
	CategoryEntity Category = iota
	CategoryAbstract
	CategoryCount
)

var categoryNames = [...]string{
	CategoryEntity:   "entity",
	CategoryAbstract: "abstract",
}

// String returns the name of the category.
func (c Category) String() string {
	if c >= 0 && c < CategoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value means CategoryEntity.
func (c *Category) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*c = CategoryEntity
		return nil
	}
	for ii, known := range categoryNames {
		if known == name {
			*c = Category(ii)
			return nil
		}
	}
	return errors.Errorf("unknown span category %q", string(text))
}

// Flags are semantic markers carried through to the tag. They never affect layering.
type Flags struct {
	Abstract bool `json:"abstract,omitempty"`
	Metaphor bool `json:"metaphor,omitempty"`
	Metonym  bool `json:"metonym,omitempty"`
	Specific bool `json:"specific,omitempty"`
}

// Span is a labeled entity occurrence over [Begin, End).
type Span struct {
	Begin    int      `json:"begin"`
	End      int      `json:"end"`
	Type     string   `json:"type"`
	Value    string   `json:"value,omitempty"`
	Category Category `json:"category,omitempty"`
	Flags
}

// String returns a compact representation, e.g. ORG[0,28).
func (s Span) String() string {
	return fmt.Sprintf("%s[%d,%d)", s.Type, s.Begin, s.End)
}

// Len returns the length of the interval in bytes.
func (s Span) Len() int {
	return s.End - s.Begin
}

// SameBounds returns whether both spans cover exactly the same interval.
func (s Span) SameBounds(other Span) bool {
	return s.Begin == other.Begin && s.End == other.End
}

// Identical returns whether type, begin and end all match.
func (s Span) Identical(other Span) bool {
	return s.Type == other.Type && s.SameBounds(other)
}

// Covers returns whether other lies within s, boundaries inclusive. A span covers itself.
func (s Span) Covers(other Span) bool {
	return s.Begin <= other.Begin && other.End <= s.End
}

// Contains returns whether other is properly contained in s: it lies within s and the boundaries differ.
func (s Span) Contains(other Span) bool {
	return s.Covers(other) && !s.SameBounds(other)
}

// Overlaps returns whether the two intervals share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Begin < other.End && other.Begin < s.End
}
