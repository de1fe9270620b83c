package layered

import (
	"sort"

	"github.com/gomlx/go-nertags/tagger/api"
)

// countCoverage returns, for every level, the number of tokens whose tag at that level is not "O".
// All rows must have the same length.
func countCoverage(tags [][]api.Tag) []int {
	if len(tags) == 0 {
		return nil
	}
	counts := make([]int, len(tags[0]))
	for _, row := range tags {
		for level, tag := range row {
			if !tag.IsOutside() {
				counts[level]++
			}
		}
	}
	return counts
}

// CoverageOrder returns the level indices ordered by coverage count, highest first. Levels with equal
// counts keep their ascending order.
func CoverageOrder(counts []int) []int {
	order := make([]int, len(counts))
	for ii := range order {
		order[ii] = ii
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}
