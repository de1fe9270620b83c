package spans

import (
	"sort"

	"k8s.io/klog/v2"
)

// DropSubTokens removes tokens that lie within another token (e.g. the halves of a hyphenated word that a
// tokenizer emitted next to the full word), and renumbers the remaining tokens.
//
// The input must be ordered by Begin; tokens with equal Begin are expected longest first.
func DropSubTokens(tokens []Token) []Token {
	kept := make([]Token, 0, len(tokens))
	for _, token := range tokens {
		if n := len(kept); n > 0 {
			last := kept[n-1]
			if last.Begin <= token.Begin && token.End <= last.End {
				continue
			}
		}
		token.Index = len(kept)
		kept = append(kept, token)
	}
	return kept
}

// Covered returns the indices of the tokens lying entirely within the span.
// Tokens must be ordered by Begin.
func Covered(tokens []Token, span Span) []int {
	first := sort.Search(len(tokens), func(ii int) bool {
		return tokens[ii].Begin >= span.Begin
	})
	var covered []int
	for ii := first; ii < len(tokens) && tokens[ii].Begin < span.End; ii++ {
		if tokens[ii].End <= span.End {
			covered = append(covered, ii)
		}
	}
	return covered
}

// Validate returns the spans that are well-formed with respect to the token sequence: Begin <= End and the
// interval inside the range covered by the tokens. Malformed spans are logged and dropped, never fatal.
//
// The order of the kept spans is preserved.
func Validate(tokens []Token, entities []Span) (kept []Span, dropped int) {
	if len(tokens) == 0 {
		return nil, len(entities)
	}
	low, high := tokens[0].Begin, tokens[len(tokens)-1].End
	kept = make([]Span, 0, len(entities))
	for _, span := range entities {
		switch {
		case span.Begin > span.End:
			klog.Warningf("dropping span %s: begin after end", span)
		case span.Begin < low || span.End > high:
			klog.Warningf("dropping span %s: outside of token range [%d,%d)", span, low, high)
		default:
			kept = append(kept, span)
			continue
		}
		dropped++
	}
	return kept, dropped
}

// Prepare normalizes one document's input: sub-tokens are dropped and malformed spans removed.
// Either returned slice may be empty; an empty token sequence means an empty document.
func Prepare(tokens []Token, entities []Span) ([]Token, []Span) {
	tokens = DropSubTokens(tokens)
	entities, dropped := Validate(tokens, entities)
	if dropped > 0 && len(tokens) > 0 {
		klog.V(1).Infof("dropped %d malformed spans", dropped)
	}
	return tokens, entities
}
