package feature_aggregator

import (
	"sort"
	"strings"
	"unicode"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

const minKeywordLetters = 4

var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "also": true, "among": true,
	"been": true, "before": true, "being": true, "below": true, "between": true,
	"both": true, "could": true, "does": true, "done": true, "during": true,
	"each": true, "either": true, "from": true, "have": true, "having": true,
	"here": true, "include": true, "includes": true, "including": true, "into": true,
	"more": true, "most": true, "much": true, "must": true, "only": true,
	"other": true, "over": true, "same": true, "shall": true, "should": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "upon": true,
	"very": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "within": true,
	"without": true, "would": true, "your": true,
}

// tokens lower-cases s and yields its letter runs of at least four letters.
func tokens(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) })
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= minKeywordLetters && !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// rankKeywords orders section tokens by frequency descending, then
// alphabetically, and keeps the first limit.
func rankKeywords(sections []dpr.Section, limit int) []string {
	freq := map[string]int{}
	for _, s := range sections {
		for _, w := range tokens(s.Content) {
			freq[w]++
		}
	}
	out := make([]string, 0, len(freq))
	for w := range freq {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if freq[out[i]] != freq[out[j]] {
			return freq[out[i]] > freq[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

//Personal.AI order the ending
