package layered

import (
	"sort"

	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
)

// Hierarchy holds the nesting rank of every span of a document and the spans grouped by rank.
type Hierarchy struct {
	// Ranks[s] is the rank of span s: 0 if no span contains it, else one more than the highest ranked
	// span containing it.
	Ranks []int

	// Buckets[r] lists the indices of the spans of rank r, ordered by begin offset and then by input order.
	Buckets [][]int
}

// BuildHierarchy ranks the spans. A span A is a parent of B if A properly contains B (A.Begin <= B.Begin,
// B.End <= A.End and the boundaries differ) and the policy admits the pair.
//
// The input order is the tie-break within a bucket: the span provider lists outer spans before inner ones
// at equal begin offsets, and the layering relies on it.
func BuildHierarchy(entities []spans.Span, policy api.ContainmentPolicy) *Hierarchy {
	n := len(entities)
	h := &Hierarchy{Ranks: make([]int, n)}
	if n == 0 {
		return h
	}

	// A proper container is strictly longer than its children, so visiting spans from the longest down
	// guarantees every parent is ranked before its children.
	byLength := make([]int, n)
	for ii := range byLength {
		byLength[ii] = ii
	}
	sort.SliceStable(byLength, func(i, j int) bool {
		return entities[byLength[i]].Len() > entities[byLength[j]].Len()
	})
	maxRank := 0
	for ii, child := range byLength {
		for _, parent := range byLength[:ii] {
			if h.Ranks[parent]+1 <= h.Ranks[child] {
				continue
			}
			if entities[parent].Contains(entities[child]) && policy.Admits(entities[parent], entities[child]) {
				h.Ranks[child] = h.Ranks[parent] + 1
			}
		}
		maxRank = max(maxRank, h.Ranks[child])
	}

	h.Buckets = make([][]int, maxRank+1)
	for s := range entities {
		h.Buckets[h.Ranks[s]] = append(h.Buckets[h.Ranks[s]], s)
	}
	for _, bucket := range h.Buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return entities[bucket[i]].Begin < entities[bucket[j]].Begin
		})
	}
	return h
}

// Len returns the number of ranks.
func (h *Hierarchy) Len() int {
	return len(h.Buckets)
}
