package api

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects how the requested columns are extracted from a token's levels.
type Strategy int

const (
	// TopFirstBottomUp takes the outermost level for the first column and the deepest levels for the rest.
	TopFirstBottomUp Strategy = iota
	// TopDown takes the first levels in construction order (rank 0 first).
	TopDown
	// BottomUp takes the last levels in reverse order (deepest nesting first).
	BottomUp
	// MaxCoverage takes the levels with the most non-"O" tags first.
	MaxCoverage
	// FixedTypeColumns pins every column to one type name instead of a level.
	FixedTypeColumns
	StrategyCount
)

var strategyNames = [...]string{
	TopFirstBottomUp: "top-first-bottom-up",
	TopDown:          "top-down",
	BottomUp:         "bottom-up",
	MaxCoverage:      "max-coverage",
	FixedTypeColumns: "fixed-type-columns",
}

// String returns the name of the strategy.
func (s Strategy) String() string { return enumName(strategyNames[:], int(s), "Strategy") }

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := parseEnum(strategyNames[:], string(text), "strategy")
	if err != nil {
		return err
	}
	*s = Strategy(v)
	return nil
}

// StrategyByIndex returns the strategy with the given numeric index, as used by older configurations
// (0: top-first-bottom-up, 1: top-down, 2: bottom-up, 3: max-coverage).
func StrategyByIndex(index int) (Strategy, error) {
	if index < 0 || index >= int(StrategyCount) {
		return 0, errors.Errorf("the strategy index %d is out of bounds", index)
	}
	return Strategy(index), nil
}

// IOBMode selects the BIO scheme.
type IOBMode int

const (
	// IOB2 marks the first token of every span with "B-".
	IOB2 IOBMode = iota
	// IOB1 uses "B-" only to separate adjacent spans of the same label.
	IOB1
	IOBModeCount
)

var iobModeNames = [...]string{
	IOB2: "iob2",
	IOB1: "iob1",
}

func (m IOBMode) String() string { return enumName(iobModeNames[:], int(m), "IOBMode") }

// MarshalText implements encoding.TextMarshaler.
func (m IOBMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *IOBMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(iobModeNames[:], string(text), "IOB mode")
	if err != nil {
		return err
	}
	*m = IOBMode(v)
	return nil
}

// DuplicateRemoval selects the containment constraint under which same-type spans are considered duplicates.
type DuplicateRemoval int

const (
	// DuplicatesNone keeps all spans.
	DuplicatesNone DuplicateRemoval = iota
	// DuplicatesAny drops any span contained in a same-type span.
	DuplicatesAny
	// DuplicatesSameBegin drops contained same-type spans only if both begin at the same offset.
	DuplicatesSameBegin
	// DuplicatesSameEnd drops contained same-type spans only if both end at the same offset.
	DuplicatesSameEnd
	DuplicateRemovalCount
)

var duplicateRemovalNames = [...]string{
	DuplicatesNone:      "none",
	DuplicatesAny:       "any",
	DuplicatesSameBegin: "same-begin",
	DuplicatesSameEnd:   "same-end",
}

func (d DuplicateRemoval) String() string {
	return enumName(duplicateRemovalNames[:], int(d), "DuplicateRemoval")
}

// MarshalText implements encoding.TextMarshaler.
func (d DuplicateRemoval) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DuplicateRemoval) UnmarshalText(text []byte) error {
	v, err := parseEnum(duplicateRemovalNames[:], string(text), "duplicate removal")
	if err != nil {
		return err
	}
	*d = DuplicateRemoval(v)
	return nil
}

// TypeMatch selects what "same type" means for duplicate removal.
type TypeMatch int

const (
	// MatchTypeName compares the exact type names.
	MatchTypeName TypeMatch = iota
	// MatchCategory compares the structural categories (entity vs. abstract).
	MatchCategory
	TypeMatchCount
)

var typeMatchNames = [...]string{
	MatchTypeName: "type",
	MatchCategory: "category",
}

func (m TypeMatch) String() string { return enumName(typeMatchNames[:], int(m), "TypeMatch") }

// MarshalText implements encoding.TextMarshaler.
func (m TypeMatch) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TypeMatch) UnmarshalText(text []byte) error {
	v, err := parseEnum(typeMatchNames[:], string(text), "type match")
	if err != nil {
		return err
	}
	*m = TypeMatch(v)
	return nil
}

// Layering selects the level construction algorithm.
type Layering int

const (
	// BreadthFirst fills gaps of a level with deeper spans that don't collide.
	BreadthFirst Layering = iota
	// NaiveStacking emits the spans of each rank on their own levels, without gap filling.
	NaiveStacking
	LayeringCount
)

var layeringNames = [...]string{
	BreadthFirst:  "breadth-first",
	NaiveStacking: "naive",
}

func (l Layering) String() string { return enumName(layeringNames[:], int(l), "Layering") }

// MarshalText implements encoding.TextMarshaler.
func (l Layering) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layering) UnmarshalText(text []byte) error {
	v, err := parseEnum(layeringNames[:], string(text), "layering")
	if err != nil {
		return err
	}
	*l = Layering(v)
	return nil
}

// LabelSource selects where the tag label of a span comes from.
type LabelSource int

const (
	// LabelFromType uses the span type name.
	LabelFromType LabelSource = iota
	// LabelFromValue uses the span value, falling back to an abbreviation of the type.
	LabelFromValue
	LabelSourceCount
)

var labelSourceNames = [...]string{
	LabelFromType:  "type",
	LabelFromValue: "value",
}

func (l LabelSource) String() string { return enumName(labelSourceNames[:], int(l), "LabelSource") }

// MarshalText implements encoding.TextMarshaler.
func (l LabelSource) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LabelSource) UnmarshalText(text []byte) error {
	v, err := parseEnum(labelSourceNames[:], string(text), "label source")
	if err != nil {
		return err
	}
	*l = LabelSource(v)
	return nil
}

// Containment selects the built-in containment policy used for ranking.
type Containment int

const (
	// ContainAcrossCategories counts containment within and across categories.
	ContainAcrossCategories Containment = iota
	// ContainWithinCategory counts containment only between spans of the same category.
	ContainWithinCategory
	ContainmentCount
)

var containmentNames = [...]string{
	ContainAcrossCategories: "all",
	ContainWithinCategory:   "same-category",
}

func (c Containment) String() string { return enumName(containmentNames[:], int(c), "Containment") }

// MarshalText implements encoding.TextMarshaler.
func (c Containment) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Containment) UnmarshalText(text []byte) error {
	v, err := parseEnum(containmentNames[:], string(text), "containment")
	if err != nil {
		return err
	}
	*c = Containment(v)
	return nil
}

func enumName(names []string, v int, typeName string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", typeName, v)
}

// parseEnum accepts the names case-insensitively, with "_" in place of "-".
func parseEnum(names []string, text, what string) (int, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "_", "-")
	for ii, known := range names {
		if known == name {
			return ii, nil
		}
	}
	return 0, errors.Errorf("unknown %s %q, valid values are %s", what, text, strings.Join(names, ", "))
}
