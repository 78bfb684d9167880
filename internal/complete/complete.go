// Package complete matches partial input against answer candidates.
package complete

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Matches returns the candidates whose representation starts with prefix,
// preserving candidate order. An empty prefix matches every candidate; no
// match returns an empty result.
func Matches(prefix string, candidates []string) []string {
	if prefix == "" {
		out := make([]string, len(candidates))
		copy(out, candidates)
		return out
	}
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Close returns up to n candidates whose similarity to s is at least cutoff,
// best match first. Equal scores keep candidate order.
func Close(s string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}
	type scored struct {
		value string
		score float64
	}
	var hits []scored
	for _, c := range candidates {
		score := levenshtein.Match(s, c, nil)
		if score >= cutoff {
			hits = append(hits, scored{value: c, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if n > len(hits) {
		n = len(hits)
	}
	out := make([]string, 0, n)
	for _, h := range hits[:n] {
		out = append(out, h.value)
	}
	return out
}

// Suggest builds the dropdown candidate list for a partial input: prefix
// matches first, else matches anywhere in the word, else close matches at
// the given cutoff. Callers normalize the input (lower-case or kana) before
// calling.
func Suggest(input string, candidates []string, cutoff float64) []string {
	if input == "" {
		return Matches("", candidates)
	}
	if out := Matches(input, candidates); len(out) > 0 {
		return out
	}
	if out := containing(input, candidates); len(out) > 0 {
		return out
	}
	return Close(input, candidates, len(candidates), cutoff)
}

func containing(sub string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if strings.Contains(c, sub) {
			out = append(out, c)
		}
	}
	return out
}
