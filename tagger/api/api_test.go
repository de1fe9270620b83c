package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/go-nertags/spans"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagString(t *testing.T) {
	assert.Equal(t, "O", Tag{}.String())
	assert.Equal(t, "O", Tag{Label: "O", Prefix: PrefixBegin}.String())
	assert.Equal(t, "B-ORG", Tag{Label: "ORG", Prefix: PrefixBegin}.String())
	assert.Equal(t, "I-LOC,<CONCRETE>,<DIRECT>",
		Tag{Label: "LOC", Prefix: PrefixInside, Flags: []string{FlagConcrete, FlagDirect}}.String())
	assert.True(t, Tag{}.IsOutside())
	assert.False(t, Tag{Label: "PER", Prefix: PrefixInside}.IsOutside())
}

func TestEnumsText(t *testing.T) {
	var s Strategy
	require.NoError(t, s.UnmarshalText([]byte("Max_Coverage")))
	assert.Equal(t, MaxCoverage, s)
	assert.Error(t, s.UnmarshalText([]byte("sideways")))
	assert.Equal(t, MaxCoverage, s, "failed parse must not change the value")

	text, err := BottomUp.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "bottom-up", string(text))

	strategy, err := StrategyByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, TopDown, strategy)
	_, err = StrategyByIndex(7)
	assert.Error(t, err)

	var d DuplicateRemoval
	require.NoError(t, d.UnmarshalText([]byte("same-end")))
	assert.Equal(t, DuplicatesSameEnd, d)
	assert.Equal(t, "Strategy(42)", Strategy(42).String())
}

func TestLabels(t *testing.T) {
	span := spans.Span{Begin: 0, End: 6, Type: "Location"}
	assert.Equal(t, "Location", TypeLabel{}.Label(span))
	assert.Equal(t, "LOC", ValueLabel{}.Label(span))
	span.Value = "I-Frankfurt"
	assert.Equal(t, "Frankfurt", ValueLabel{}.Label(span))
	assert.Equal(t, "NE", FixedLabel("NE").Label(span))
	assert.Equal(t, "PE", ValueLabel{}.Label(spans.Span{Type: "pe"}))
	assert.Equal(t, "", TypeLabel{}.Label(spans.Span{Type: "B-"}))
}

func TestSpanFlags(t *testing.T) {
	assert.Equal(t, []string{FlagConcrete, FlagDirect}, SpanFlags(spans.Span{Type: "PER"}))
	abstract := spans.Span{Type: "PER", Category: spans.CategoryAbstract, Flags: spans.Flags{Metaphor: true, Metonym: true}}
	assert.Equal(t, []string{FlagAbstract, FlagMetaphor, FlagMetonym}, SpanFlags(abstract))
}

func TestContainmentPolicies(t *testing.T) {
	parent := spans.Span{Begin: 0, End: 10, Type: "ORG"}
	child := spans.Span{Begin: 0, End: 5, Type: "Concept", Category: spans.CategoryAbstract}
	assert.True(t, AllCategoryPairs().Admits(parent, child))
	assert.False(t, SameCategoryPairs().Admits(parent, child))
	assert.True(t, SameCategoryPairs().Admits(parent, spans.Span{Begin: 1, End: 2}))

	c := NewConfig()
	assert.IsType(t, CategoryPairs{}, c.ContainmentPolicy())
	c.WithContainmentPolicy(ContainmentPolicyFunc(func(parent, child spans.Span) bool { return false }))
	assert.False(t, c.ContainmentPolicy().Admits(parent, child))
}

func TestTypeMatcher(t *testing.T) {
	a := spans.Span{Type: "ORG"}
	b := spans.Span{Type: "LOC"}
	assert.False(t, MatchTypeName.Matcher()(a, b))
	assert.True(t, MatchCategory.Matcher()(a, b))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, NewConfig().Validate())

	tests := []struct {
		name   string
		config *Config
	}{
		{"zero columns", NewConfig().WithStrategy(TopDown, 0)},
		{"unknown strategy", NewConfig().WithStrategy(Strategy(99), 1)},
		{"type columns without list", NewConfig().WithStrategy(FixedTypeColumns, 1)},
		{"duplicate type column", NewConfig().WithTypeColumns(false, "Taxon", "Taxon")},
		{"unknown iob", NewConfig().WithIOB(IOBMode(-1))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}

	require.NoError(t, NewConfig().WithTypeColumns(true, "Taxon", "Plant_Flora").Validate())
}

func TestConfigTagPolicy(t *testing.T) {
	span := spans.Span{Type: "Person", Value: "PER"}
	c := NewConfig()
	assert.Equal(t, "Person", c.TagPolicy().Label(span))
	c.WithLabelSource(LabelFromValue)
	assert.Equal(t, "PER", c.TagPolicy().Label(span))
	c.WithTagAllAs("NE")
	assert.Equal(t, "NE", c.TagPolicy().Label(span))
	c.WithTagPolicy(TagPolicyFunc(func(s spans.Span) string { return "X" }))
	assert.Equal(t, "X", c.TagPolicy().Label(span))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagger.yaml")
	content := `
strategy: top-down
columns: 3
iob: iob1
duplicate_removal: same_begin
emit_flags: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	c, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, TopDown, c.Strategy)
	assert.Equal(t, 3, c.Columns)
	assert.Equal(t, IOB1, c.IOB)
	assert.Equal(t, DuplicatesSameBegin, c.DuplicateRemoval)
	assert.True(t, c.EmitFlags)
	assert.Equal(t, BreadthFirst, c.Layering, "defaults are kept for missing keys")
	require.NoError(t, c.Validate())

	require.NoError(t, os.WriteFile(path, []byte("strategy: diagonal\n"), 0o644))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
