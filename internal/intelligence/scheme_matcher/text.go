package scheme_matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// normalizeName lower-cases s and collapses whitespace.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// levRatio is 1 − distance/longer length, in [0,1].
func levRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// bestRatio compares n against the normalised name and code of s.
func bestRatio(n, name, code string) float64 {
	r := levRatio(n, name)
	if code != "" {
		if rc := levRatio(n, code); rc > r {
			r = rc
		}
	}
	return r
}

var tokenStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "of": true, "to": true, "in": true,
	"a": true, "an": true, "on": true, "by": true, "with": true, "scheme": true,
}

// tokenize splits on anything that is not a letter or digit and drops stop
// words.
func tokenize(parts ...string) []string {
	var out []string
	for _, p := range parts {
		for _, w := range strings.FieldsFunc(strings.ToLower(p), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			if !tokenStopWords[w] {
				out = append(out, w)
			}
		}
	}
	return out
}

func tokenSet(parts ...string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range tokenize(parts...) {
		set[t] = struct{}{}
	}
	return set
}

// overlap is the fraction of tokens found in set.
func overlap(tokens []string, set map[string]struct{}) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hit := 0
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(tokens))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

//Personal.AI order the ending
