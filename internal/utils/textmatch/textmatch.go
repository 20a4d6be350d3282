// Package textmatch holds the pure scoring primitives behind the fuzzy
// match engine: per-field similarity scoring and the merge/rank/dedupe of
// multiple per-field rankings into one result list.
package textmatch

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/mozillazg/go-pinyin"
)

// Candidate is one scored hit: the index of the candidate in the choice
// list and its similarity score (0-100, higher is better).
type Candidate struct {
	Index int
	Score int
}

// ExtractAll scores query against every choice using the weighted ratio
// scorer. Exact substring and token matches score highest.
func ExtractAll(query string, choices []string) []Candidate {
	res := make([]Candidate, len(choices))
	for i, choice := range choices {
		res[i] = Candidate{Index: i, Score: fuzzy.WRatio(query, choice)}
	}
	return res
}

// RankAndDedup merges per-field candidate lists in field order, sorts the
// merged list by score descending (stable, so ties keep field order), drops
// hits scoring below minScore, deduplicates by candidate index keeping the
// first (highest-scoring) occurrence, and truncates to top. It returns the
// surviving candidate indexes in rank order.
func RankAndDedup(lists [][]Candidate, minScore, top int) []int {
	var merged []Candidate
	for _, list := range lists {
		merged = append(merged, list...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	res := make([]int, 0, top)
	seen := make(map[int]struct{}, len(merged))
	for _, c := range merged {
		if c.Score < minScore {
			continue
		}
		if _, dup := seen[c.Index]; dup {
			continue
		}
		seen[c.Index] = struct{}{}
		res = append(res, c.Index)
		if top > 0 && len(res) >= top {
			break
		}
	}
	return res
}

var transliterateArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	// Keep non-Chinese runes as-is instead of dropping them.
	a.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
	return a
}()

// Transliterate returns the lowercase phonetic reading of s: Chinese
// characters become toneless pinyin, everything else passes through.
func Transliterate(s string) string {
	var b strings.Builder
	for _, readings := range pinyin.Pinyin(s, transliterateArgs) {
		if len(readings) > 0 {
			b.WriteString(readings[0])
		}
	}
	return strings.ToLower(b.String())
}
