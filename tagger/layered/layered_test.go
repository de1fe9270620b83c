package layered

import (
	"math/rand"
	"testing"

	"github.com/gomlx/go-nertags/internal/bio"
	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goetheTokens are the tokens of "Goethe Universität Frankfurt am Main", with character offsets.
var goetheTokens = []spans.Token{
	{Begin: 0, End: 6, Text: "Goethe"},
	{Begin: 7, End: 18, Text: "Universität"},
	{Begin: 19, End: 28, Text: "Frankfurt"},
	{Begin: 29, End: 31, Text: "am"},
	{Begin: 32, End: 36, Text: "Main"},
}

// goetheSpans are listed the way a span provider does: by begin, longer spans first.
func goetheSpans() []spans.Span {
	return []spans.Span{
		{Begin: 0, End: 28, Type: "ORG"},  // Goethe Universität Frankfurt
		{Begin: 0, End: 18, Type: "ORG"},  // Goethe Universität
		{Begin: 0, End: 6, Type: "PER"},   // Goethe
		{Begin: 7, End: 28, Type: "ORG"},  // Universität Frankfurt
		{Begin: 19, End: 36, Type: "LOC"}, // Frankfurt am Main
		{Begin: 19, End: 28, Type: "LOC"}, // Frankfurt
	}
}

func mustNew(t *testing.T, config *api.Config) *Encoder {
	encoder, err := New(config)
	require.NoError(t, err)
	return encoder
}

// levelStrings returns the tags of the given level for every token.
func levelStrings(enc *Encoding, level int) []string {
	out := make([]string, len(enc.Tokens()))
	for t := range out {
		out[t] = enc.Tags(t)[level].String()
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(api.NewConfig().WithStrategy(api.TopDown, 0))
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
	_, err = New(api.NewConfig().WithTypeColumns(false, "Taxon"))
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
}

func TestGoetheWithoutDuplicateRemoval(t *testing.T) {
	config := api.NewConfig().WithDuplicateRemoval(api.DuplicatesNone, api.MatchTypeName)
	enc := mustNew(t, config).EncodeDocument(goetheTokens, goetheSpans())
	require.Equal(t, 6, enc.SpanCount())

	// ORG[0,28) and LOC[19,36) are not contained in anything.
	assert.Equal(t, []int{0, 1, 2, 1, 0, 2}, enc.Hierarchy().Ranks)
	assert.Equal(t, [][]int{{0, 4}, {1, 3}, {2, 5}}, enc.Hierarchy().Buckets)

	require.Equal(t, 4, enc.Levels())
	assert.Equal(t, []string{"B-ORG", "I-ORG", "I-ORG", "O", "O"}, levelStrings(enc, 0))
	// LOC[19,36) collided with ORG[0,28) at level 0, ORG[0,18) fills the gap next to it.
	assert.Equal(t, []string{"B-ORG", "I-ORG", "B-LOC", "I-LOC", "I-LOC"}, levelStrings(enc, 1))
	assert.Equal(t, []string{"B-PER", "B-ORG", "I-ORG", "O", "O"}, levelStrings(enc, 2))
	assert.Equal(t, []string{"O", "O", "B-LOC", "O", "O"}, levelStrings(enc, 3))

	assert.Equal(t, []int{3, 5, 3, 1}, enc.Coverage())
	assert.Equal(t, []int{1, 0, 2, 3}, enc.CoverageOrder())

	// Max coverage with one column picks the level tagging every token.
	for tok, want := range []string{"B-ORG", "I-ORG", "B-LOC", "I-LOC", "I-LOC"} {
		assert.Equal(t, []string{want}, enc.Columns(tok))
	}
	assert.Equal(t, 5, enc.TaggedTokens())
	assert.Zero(t, enc.Misses())
}

func TestGoetheWithDuplicateRemoval(t *testing.T) {
	enc := mustNew(t, api.NewConfig().WithStrategy(api.TopDown, 3)).EncodeDocument(goetheTokens, goetheSpans())
	// The inner ORGs fall into ORG[0,28), LOC[19,28) into LOC[19,36).
	require.Equal(t, 3, enc.SpanCount())
	assert.Equal(t, []int{0, 1, 0}, enc.Hierarchy().Ranks)
	require.Equal(t, 2, enc.Levels())
	assert.Equal(t, []string{"B-ORG", "B-PER", "O"}, enc.Columns(0))
	assert.Equal(t, []string{"I-ORG", "O", "O"}, enc.Columns(1))
	assert.Equal(t, []string{"I-ORG", "B-LOC", "O"}, enc.Columns(2))
	assert.Equal(t, []string{"O", "I-LOC", "O"}, enc.Columns(3))
	assert.Equal(t, 3, enc.TaggedTokens())
}

func TestStrategies(t *testing.T) {
	config := api.NewConfig().WithDuplicateRemoval(api.DuplicatesNone, api.MatchTypeName)
	enc := mustNew(t, config).EncodeDocument(goetheTokens, goetheSpans())
	tests := []struct {
		strategy api.Strategy
		n        int
		want     []string
	}{
		{api.TopDown, 2, []string{"I-ORG", "B-LOC"}},
		{api.BottomUp, 2, []string{"B-LOC", "I-ORG"}},
		{api.MaxCoverage, 3, []string{"B-LOC", "I-ORG", "I-ORG"}},
		{api.TopFirstBottomUp, 3, []string{"I-ORG", "B-LOC", "I-ORG"}},
		{api.TopDown, 6, []string{"I-ORG", "B-LOC", "I-ORG", "B-LOC", "O", "O"}},
		{api.MaxCoverage, 0, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.strategy.String(), func(t *testing.T) {
			// Token "Frankfurt".
			assert.Equal(t, tc.want, enc.ColumnsFor(2, tc.strategy, tc.n))
		})
	}
}

func TestIdenticalDuplicates(t *testing.T) {
	entities := []spans.Span{
		{Begin: 0, End: 28, Type: "ORG"},
		{Begin: 0, End: 28, Type: "ORG"},
	}
	withoutRemoval := mustNew(t, api.NewConfig().WithDuplicateRemoval(api.DuplicatesNone, api.MatchTypeName))
	enc := withoutRemoval.EncodeDocument(goetheTokens, entities)
	assert.Equal(t, 2, enc.SpanCount())
	assert.Equal(t, 2, enc.Levels(), "identical spans can't share a level")

	enc = mustNew(t, api.NewConfig()).EncodeDocument(goetheTokens, entities)
	assert.Equal(t, 1, enc.SpanCount())
	assert.Equal(t, 1, enc.Levels())
	assert.Equal(t, []string{"B-ORG"}, enc.Columns(0))
}

func TestEmptyDocument(t *testing.T) {
	encoder := mustNew(t, api.NewConfig().WithStrategy(api.MaxCoverage, 3))

	enc := encoder.EncodeDocument(goetheTokens, nil)
	assert.Equal(t, 0, enc.SpanCount())
	assert.Equal(t, 1, enc.Levels())
	for tok := range goetheTokens {
		assert.Equal(t, []string{"O", "O", "O"}, enc.Columns(tok))
	}
	assert.Equal(t, 0, enc.TaggedTokens())

	enc = encoder.EncodeDocument(nil, goetheSpans())
	assert.Empty(t, enc.Tokens())
	assert.Equal(t, 0, enc.SpanCount())
	assert.Equal(t, 0, enc.Levels())
}

func TestLookupMiss(t *testing.T) {
	enc := mustNew(t, api.NewConfig().WithStrategy(api.TopDown, 2)).EncodeDocument(goetheTokens, goetheSpans())
	assert.Equal(t, []string{"O", "O"}, enc.Columns(17))
	assert.Equal(t, []string{"O", "O"}, enc.Columns(-1))
	assert.Nil(t, enc.Tags(99))
	assert.EqualValues(t, 3, enc.Misses())
}

func TestMalformedSpansDropped(t *testing.T) {
	entities := append(goetheSpans(), spans.Span{Begin: 20, End: 10, Type: "BAD"}, spans.Span{Begin: 0, End: 99, Type: "BAD"})
	enc := mustNew(t, api.NewConfig()).EncodeDocument(goetheTokens, entities)
	assert.Equal(t, 3, enc.SpanCount())
	for _, span := range enc.Entities() {
		assert.NotEqual(t, "BAD", span.Type)
	}
}

func TestIOB1AndFlags(t *testing.T) {
	entities := []spans.Span{
		{Begin: 0, End: 6, Type: "PER"},
		{Begin: 7, End: 18, Type: "PER", Flags: spans.Flags{Metaphor: true}},
	}
	config := api.NewConfig().WithIOB(api.IOB1).WithFlags(true).WithStrategy(api.TopDown, 1)
	enc := mustNew(t, config).EncodeDocument(goetheTokens, entities)
	assert.Equal(t, []string{"I-PER,<CONCRETE>,<DIRECT>"}, enc.Columns(0))
	assert.Equal(t, []string{"B-PER,<CONCRETE>,<METAPHOR>"}, enc.Columns(1))
	assert.Equal(t, []string{"O"}, enc.Columns(2))
}

func TestTagAllAs(t *testing.T) {
	config := api.NewConfig().WithTagAllAs("NE").WithStrategy(api.TopDown, 2)
	enc := mustNew(t, config).EncodeDocument(goetheTokens, goetheSpans())
	assert.Equal(t, []string{"B-NE", "B-NE"}, enc.Columns(0))
}

func TestNaiveStacking(t *testing.T) {
	// Tokens t0..t3; Q over t0-t2, S over t2-t3, C over t3 inside S.
	tokens := []spans.Token{{Begin: 0, End: 1}, {Begin: 2, End: 3}, {Begin: 4, End: 5}, {Begin: 6, End: 7}}
	entities := []spans.Span{
		{Begin: 0, End: 5, Type: "Q"},
		{Begin: 4, End: 7, Type: "S"},
		{Begin: 6, End: 7, Type: "C"},
	}
	config := api.NewConfig().WithStrategy(api.TopDown, 3)

	enc := mustNew(t, config).EncodeDocument(tokens, entities)
	require.Equal(t, 2, enc.Levels())
	assert.Equal(t, []string{"B-Q", "I-Q", "I-Q", "B-C"}, levelStrings(enc, 0))
	assert.Equal(t, []string{"O", "O", "B-S", "I-S"}, levelStrings(enc, 1))

	enc = mustNew(t, config.WithLayering(api.NaiveStacking)).EncodeDocument(tokens, entities)
	require.Equal(t, 3, enc.Levels())
	assert.Equal(t, []string{"B-Q", "I-Q", "I-Q", "O"}, levelStrings(enc, 0))
	assert.Equal(t, []string{"O", "O", "B-S", "I-S"}, levelStrings(enc, 1))
	assert.Equal(t, []string{"O", "O", "O", "B-C"}, levelStrings(enc, 2))
}

func TestEncoderDoesNotModifyInput(t *testing.T) {
	entities := goetheSpans()
	mustNew(t, api.NewConfig()).EncodeDocument(goetheTokens, entities)
	assert.Equal(t, goetheSpans(), entities)
}

// randomDocument generates tokens [2i, 2i+1) and spans aligned on token boundaries, listed by begin with
// longer spans first, as a span provider would.
func randomDocument(rng *rand.Rand) ([]spans.Token, []spans.Span) {
	numTokens := 1 + rng.Intn(12)
	tokens := make([]spans.Token, numTokens)
	for ii := range tokens {
		tokens[ii] = spans.Token{Begin: 2 * ii, End: 2*ii + 1}
	}
	types := []string{"PER", "ORG", "LOC"}
	numSpans := rng.Intn(10)
	entities := make([]spans.Span, numSpans)
	for ii := range entities {
		first := rng.Intn(numTokens)
		last := first + rng.Intn(numTokens-first)
		entities[ii] = spans.Span{
			Begin:    tokens[first].Begin,
			End:      tokens[last].End,
			Type:     types[rng.Intn(len(types))],
			Category: spans.Category(rng.Intn(int(spans.CategoryCount))),
		}
	}
	sortProviderOrder(entities)
	return tokens, entities
}

func sortProviderOrder(entities []spans.Span) {
	for ii := 1; ii < len(entities); ii++ {
		for jj := ii; jj > 0; jj-- {
			a, b := entities[jj-1], entities[jj]
			if a.Begin < b.Begin || (a.Begin == b.Begin && a.End >= b.End) {
				break
			}
			entities[jj-1], entities[jj] = b, a
		}
	}
}

func TestLayeringProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, removal := range []api.DuplicateRemoval{api.DuplicatesNone, api.DuplicatesAny} {
		for _, gapFill := range []bool{true, false} {
			for iter := 0; iter < 200; iter++ {
				tokens, entities := randomDocument(rng)
				RemoveDuplicates(&entities, removal, api.MatchTypeName.Matcher())
				h := BuildHierarchy(entities, api.AllCategoryPairs())
				covered := make([][]int, len(entities))
				for s, span := range entities {
					covered[s] = spans.Covered(tokens, span)
				}
				rows := assignLayers(len(tokens), covered, h.Buckets, gapFill)

				// Uniform length.
				depth := len(rows[0])
				require.GreaterOrEqual(t, depth, 1)
				for _, row := range rows {
					require.Len(t, row, depth)
				}

				// Conservation: every span occupies exactly its covered tokens, on exactly one level.
				for s := range entities {
					var levels []int
					for level := 0; level < depth; level++ {
						var at []int
						for tok, row := range rows {
							if row[level] == s {
								at = append(at, tok)
							}
						}
						if len(at) > 0 {
							assert.Equal(t, covered[s], at)
							levels = append(levels, level)
						}
					}
					if len(covered[s]) > 0 {
						assert.Len(t, levels, 1, "span %s placed on levels %v", entities[s], levels)
					}
				}

				// No overlap on one level.
				for level := 0; level < depth; level++ {
					var at []int
					for _, row := range rows {
						if s := row[level]; s != bio.NoSpan && (len(at) == 0 || at[len(at)-1] != s) {
							at = append(at, s)
						}
					}
					for ii := range at {
						for jj := ii + 1; jj < len(at); jj++ {
							assert.False(t, entities[at[ii]].Overlaps(entities[at[jj]]),
								"%s and %s overlap on level %d", entities[at[ii]], entities[at[jj]], level)
						}
					}
				}

				// Only the last level may be empty if it is the sole level.
				if depth > 1 {
					empty := true
					for _, row := range rows {
						if row[depth-1] != bio.NoSpan {
							empty = false
						}
					}
					assert.False(t, empty, "trailing empty level not trimmed")
				}
			}
		}
	}
}
