package layered

import (
	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
)

// RemoveDuplicates drops from *entities every span lying within another span (boundaries inclusive) of the
// same type, as decided by match, and satisfying the removal constraint. The slice is shrunk in place.
//
// All decisions are taken against the original set before any span is removed, so the result doesn't
// depend on the order in which containers are visited. Of a group of identical spans the first one is kept.
func RemoveDuplicates(entities *[]spans.Span, removal api.DuplicateRemoval, match api.TypeMatcher) {
	if removal == api.DuplicatesNone || len(*entities) < 2 {
		return
	}
	list := *entities
	remove := make([]bool, len(list))
	for p, parent := range list {
		for c, child := range list {
			if c == p || remove[c] || !parent.Covers(child) {
				continue
			}
			if parent.SameBounds(child) && c < p {
				// Identical boundaries: only the later span is the duplicate.
				continue
			}
			if !match(parent, child) {
				continue
			}
			switch removal {
			case api.DuplicatesSameBegin:
				if parent.Begin != child.Begin {
					continue
				}
			case api.DuplicatesSameEnd:
				if parent.End != child.End {
					continue
				}
			}
			remove[c] = true
		}
	}
	kept := list[:0]
	for ii, span := range list {
		if !remove[ii] {
			kept = append(kept, span)
		}
	}
	*entities = kept
}
