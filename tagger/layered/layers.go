package layered

import (
	"github.com/gomlx/go-nertags/internal/bio"
)

// assignLayers builds the level list of every token: rows[token][level] is the index of the span tagging
// the token at that level, or bio.NoSpan.
//
// covered[s] lists the tokens covered by span s. Levels are filled breadth-first: each level starts with the
// spans of the lowest rank not yet placed, then, if gapFill is set, promotes spans of higher ranks whose
// tokens are all still free at this level. Spans are visited in bucket order (ascending rank, then begin
// offset, then input order), so the first span found claims a contested token. A span colliding with one
// already placed at this level waits for a later level; hence no level holds two overlapping spans and
// every span is placed exactly once.
//
// Without gapFill, a level only takes spans of one rank (naive stacking).
//
// There are at least as many levels as ranks, trailing levels without any span are trimmed, and every
// token has the same number of levels, at least one.
func assignLayers(numTokens int, covered [][]int, buckets [][]int, gapFill bool) [][]int {
	rows := make([][]int, numTokens)
	visited := make([]bool, len(covered))
	remaining := len(covered)
	level := make([]int, numTokens)
	for depth := 0; depth < len(buckets) || remaining > 0; depth++ {
		for t := range level {
			level[t] = bio.NoSpan
		}
		primary := -1
		for b, bucket := range buckets {
			if !gapFill && primary >= 0 && b > primary {
				break
			}
			for _, s := range bucket {
				if visited[s] || collides(covered[s], level) {
					continue
				}
				for _, t := range covered[s] {
					level[t] = s
				}
				visited[s] = true
				remaining--
				if primary < 0 {
					primary = b
				}
			}
		}
		for t := range rows {
			rows[t] = append(rows[t], level[t])
		}
	}
	return trimLevels(rows)
}

// collides returns whether any of the tokens is already claimed at this level.
func collides(tokens []int, level []int) bool {
	for _, t := range tokens {
		if level[t] != bio.NoSpan {
			return true
		}
	}
	return false
}

// trimLevels removes trailing levels without any span, keeping at least one level. Inner empty levels are
// kept so that levels stay aligned across tokens.
func trimLevels(rows [][]int) [][]int {
	if len(rows) == 0 {
		return rows
	}
	depth := len(rows[0])
	for ; depth > 1; depth-- {
		empty := true
		for _, row := range rows {
			if row[depth-1] != bio.NoSpan {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
	}
	if depth == 0 {
		depth = 1
	}
	for t, row := range rows {
		if len(row) < depth {
			row = append(row, bio.NoSpan)
		}
		rows[t] = row[:depth]
	}
	return rows
}
