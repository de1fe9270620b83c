package api

import (
	"regexp"

	"github.com/gomlx/go-nertags/spans"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagPolicy derives the label of a span. An empty label turns the tag into "O".
type TagPolicy interface {
	Label(span spans.Span) string
}

// TagPolicyFunc adapts a function to the TagPolicy interface.
type TagPolicyFunc func(span spans.Span) string

// Label implements TagPolicy.
func (fn TagPolicyFunc) Label(span spans.Span) string { return fn(span) }

// TypeLabel labels spans with their type name.
type TypeLabel struct{}

// Label implements TagPolicy.
func (TypeLabel) Label(span spans.Span) string { return CleanLabel(span.Type) }

// ValueLabel labels spans with their value. Spans without a value, typically the supertype-only ones, are
// labeled with the first three letters of their type, upper-cased: "Location" becomes "LOC".
type ValueLabel struct{}

var upper = cases.Upper(language.Und)

// Label implements TagPolicy.
func (ValueLabel) Label(span spans.Span) string {
	if span.Value != "" {
		return CleanLabel(span.Value)
	}
	name := []rune(span.Type)
	if len(name) > 3 {
		name = name[:3]
	}
	return CleanLabel(upper.String(string(name)))
}

// FixedLabel labels every span with the same label.
type FixedLabel string

// Label implements TagPolicy.
func (l FixedLabel) Label(spans.Span) string { return CleanLabel(string(l)) }

var bioPrefixes = regexp.MustCompile(`([IB]-)+`)

// CleanLabel removes BIO prefixes already present in a label, so that "B-PER" doesn't become "B-B-PER".
func CleanLabel(label string) string {
	return bioPrefixes.ReplaceAllString(label, "")
}

// ContainmentPolicy decides whether a properly containing span counts as a parent when ranking.
type ContainmentPolicy interface {
	Admits(parent, child spans.Span) bool
}

// ContainmentPolicyFunc adapts a function to the ContainmentPolicy interface.
type ContainmentPolicyFunc func(parent, child spans.Span) bool

// Admits implements ContainmentPolicy.
func (fn ContainmentPolicyFunc) Admits(parent, child spans.Span) bool { return fn(parent, child) }

// CategoryPairs admits containment for the listed (parent, child) category pairs only.
type CategoryPairs map[[2]spans.Category]bool

// Admits implements ContainmentPolicy.
func (p CategoryPairs) Admits(parent, child spans.Span) bool {
	return p[[2]spans.Category{parent.Category, child.Category}]
}

// AllCategoryPairs returns the policy admitting same-family and cross-family containment.
func AllCategoryPairs() CategoryPairs {
	pairs := make(CategoryPairs)
	for parent := spans.Category(0); parent < spans.CategoryCount; parent++ {
		for child := spans.Category(0); child < spans.CategoryCount; child++ {
			pairs[[2]spans.Category{parent, child}] = true
		}
	}
	return pairs
}

// SameCategoryPairs returns the policy admitting only same-family containment.
func SameCategoryPairs() CategoryPairs {
	pairs := make(CategoryPairs)
	for c := spans.Category(0); c < spans.CategoryCount; c++ {
		pairs[[2]spans.Category{c, c}] = true
	}
	return pairs
}

// TypeMatcher reports whether two spans are of the "same type" for duplicate removal.
type TypeMatcher func(a, b spans.Span) bool

// Matcher returns the TypeMatcher for the mode.
func (m TypeMatch) Matcher() TypeMatcher {
	if m == MatchCategory {
		return func(a, b spans.Span) bool { return a.Category == b.Category }
	}
	return func(a, b spans.Span) bool { return a.Type == b.Type }
}

// Flag markers emitted when Config.EmitFlags is set.
const (
	FlagAbstract = "<ABSTRACT>"
	FlagConcrete = "<CONCRETE>"
	FlagMetaphor = "<METAPHOR>"
	FlagDirect   = "<DIRECT>"
	FlagMetonym  = "<METONYM>"
)

// SpanFlags returns the flag markers of a span: abstractness, metaphor and, if set, metonymy.
func SpanFlags(span spans.Span) []string {
	flags := make([]string, 0, 3)
	if span.Abstract || span.Category == spans.CategoryAbstract {
		flags = append(flags, FlagAbstract)
	} else {
		flags = append(flags, FlagConcrete)
	}
	if span.Metaphor {
		flags = append(flags, FlagMetaphor)
	} else {
		flags = append(flags, FlagDirect)
	}
	if span.Metonym {
		flags = append(flags, FlagMetonym)
	}
	return flags
}
