// Package bio turns a grid of span assignments into BIO tags.
//
// The grid has one row per token and one cell per column (a level or a type column); a cell holds the
// index of the span owning it, or NoSpan.
package bio

import (
	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
)

// NoSpan marks a cell not covered by any span.
const NoSpan = -1

// Encoder builds tags following the configured label policy, IOB mode and flag profile.
type Encoder struct {
	policy api.TagPolicy
	iob    api.IOBMode
	flags  bool
}

// NewEncoder creates an Encoder for a validated configuration.
func NewEncoder(config *api.Config) *Encoder {
	return &Encoder{
		policy: config.TagPolicy(),
		iob:    config.IOB,
		flags:  config.EmitFlags,
	}
}

// Encode returns the tags for the grid, tags[token][column].
//
// first[s] is the index of the first token covered by span s, used by IOB1. Cells referring to unknown spans
// are replaced by "O" and counted in misses.
func (e *Encoder) Encode(tokens []spans.Token, entities []spans.Span, first []int, grid [][]int) (tags [][]api.Tag, misses int) {
	labels := make([]string, len(entities))
	for ii, span := range entities {
		labels[ii] = e.policy.Label(span)
	}
	valid := func(s int) bool { return s >= 0 && s < len(entities) }

	tags = make([][]api.Tag, len(grid))
	for t, row := range grid {
		tags[t] = make([]api.Tag, len(row))
		for col, s := range row {
			if s == NoSpan {
				continue
			}
			if !valid(s) || t >= len(tokens) {
				misses++
				continue
			}
			label := labels[s]
			if label == "" || label == api.Outside {
				continue
			}
			prefix := api.PrefixInside
			switch e.iob {
			case api.IOB2:
				if entities[s].Begin == tokens[t].Begin {
					prefix = api.PrefixBegin
				}
			case api.IOB1:
				if t > 0 && s < len(first) && first[s] == t && col < len(grid[t-1]) {
					prev := grid[t-1][col]
					if valid(prev) && prev != s && labels[prev] == label {
						prefix = api.PrefixBegin
					}
				}
			}
			tag := api.Tag{Label: label, Prefix: prefix}
			if e.flags {
				tag.Flags = api.SpanFlags(entities[s])
			}
			tags[t][col] = tag
		}
	}
	return tags, misses
}

// FirstTokens returns, for every span, the index of its first covered token, or NoSpan if it covers none.
func FirstTokens(covered [][]int) []int {
	first := make([]int, len(covered))
	for ii, tokens := range covered {
		first[ii] = NoSpan
		if len(tokens) > 0 {
			first[ii] = tokens[0]
		}
	}
	return first
}
