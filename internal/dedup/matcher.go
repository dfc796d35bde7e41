// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package dedup

import (
	"sort"
	"strings"
	"unicode"
)

// Matcher scores the similarity of two titles in [0,1]. Implementations
// must be symmetric: Match(a, b) == Match(b, a).
type Matcher interface {
	Match(a, b string) float64
}

// TitleMatcher is the production Matcher. It blends two measures over
// normalized titles:
//
//	token sort:    tokenize, sort tokens, compare the joined sequences
//	partial sort:  best-window comparison of the same sorted sequences
//
// and returns their arithmetic mean. Token sorting absorbs word
// reordering ("Ghost Princess" vs "Princess Ghost"), the partial measure
// absorbs one title embedding the other ("Attack on Titan" vs
// "Attack on Titan: Complete Edition"), which plain edit distance
// penalizes heavily.
type TitleMatcher struct{}

// NewTitleMatcher creates the fuzzy title matcher.
func NewTitleMatcher() *TitleMatcher {
	return &TitleMatcher{}
}

// Match scores two titles in [0,1]. A title that normalizes to nothing
// (empty or all punctuation) scores 0 against everything: absence of
// signal is never treated as identity.
func (m *TitleMatcher) Match(a, b string) float64 {
	na := tokenSort(a)
	nb := tokenSort(b)
	if na == "" || nb == "" {
		return 0
	}

	ra := []rune(na)
	rb := []rune(nb)
	return (indelRatio(ra, rb) + partialRatio(ra, rb)) / 2
}

// tokenSort normalizes a title for comparison: lower-case, strip
// punctuation to whitespace, tokenize, sort, re-join. "Fate/Zero" and
// "fate zero" normalize identically.
func tokenSort(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	tokens := strings.Fields(sb.String())
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// indelRatio is the normalized insert/delete similarity of two rune
// sequences:
//
//	ratio = 2*LCS(a,b) / (len(a)+len(b))
//
// 1.0 for identical sequences, 0.0 for disjoint ones.
func indelRatio(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// partialRatio returns the best indelRatio between the shorter sequence
// and any equal-length window of the longer one. This rewards a short
// title fully contained in a long one.
func partialRatio(a, b []rune) float64 {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 1
		}
		return 0
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		r := indelRatio(shorter, longer[i:i+len(shorter)])
		if r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program, O(len(a)*len(b)) time and O(min) space.
func lcsLength(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
