package scheme_matcher

import (
	"sort"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
)

// Match types, strongest first.
const (
	MatchExactName = "exact_name"
	MatchExactCode = "exact_code"
	MatchFuzzy     = "fuzzy"
)

// Reasons a verified mention is still an incorrect reference.
const (
	ReasonMisspelling = "misspelling"
	ReasonInactive    = "inactive_scheme"
)

// VerifiedScheme is a mention resolved to a registry entry.
type VerifiedScheme struct {
	Mention    string  `json:"mention"`
	SchemeID   string  `json:"scheme_id"`
	SchemeName string  `json:"scheme_name"`
	Code       string  `json:"code"`
	MatchType  string  `json:"match_type"`
	Similarity float64 `json:"similarity"`
}

// IncorrectReference is a mention that resolved, but not cleanly.
type IncorrectReference struct {
	Mention      string `json:"mention"`
	SchemeID     string `json:"scheme_id"`
	CorrectName  string `json:"correct_name"`
	Reason       string `json:"reason"`
	SchemeStatus string `json:"scheme_status"`
}

// Suggestion proposes a registry entry for an unverified mention.
type Suggestion struct {
	Mention    string  `json:"mention"`
	SchemeID   string  `json:"scheme_id"`
	SchemeName string  `json:"scheme_name"`
	Code       string  `json:"code"`
	Score      float64 `json:"score"`
}

// VerificationResult is the output of Verify.
type VerificationResult struct {
	Mentions            []string             `json:"mentions"`
	Verified            []VerifiedScheme     `json:"verified"`
	Unverified          []string             `json:"unverified"`
	Suggestions         []Suggestion         `json:"suggestions"`
	IncorrectReferences []IncorrectReference `json:"incorrect_references"`
}

// VerifiedIDs returns the distinct scheme ids that were verified.
func (r *VerificationResult) VerifiedIDs() map[string]bool {
	ids := make(map[string]bool, len(r.Verified))
	for _, v := range r.Verified {
		ids[v.SchemeID] = true
	}
	return ids
}

// distinctCounts counts schemes rather than mentions: repeated references to
// one scheme count once, as do unverified mentions equal after normalisation.
// A scheme with any incorrect mention counts as incorrect.
func (r *VerificationResult) distinctCounts() (refs, verified, incorrect int) {
	verified = len(r.VerifiedIDs())
	bad := make(map[string]bool, len(r.IncorrectReferences))
	for _, ir := range r.IncorrectReferences {
		bad[ir.SchemeID] = true
	}
	unknown := make(map[string]bool, len(r.Unverified))
	for _, u := range r.Unverified {
		unknown[normalizeName(u)] = true
	}
	return verified + len(unknown), verified, len(bad)
}

// Verify resolves each mention against the registry. Exact name wins over
// exact code, which wins over a fuzzy containment match.
func (m *Matcher) Verify(mentions []string, registry []scheme.GovernmentScheme) *VerificationResult {
	res := &VerificationResult{
		Mentions:            []string{},
		Verified:            []VerifiedScheme{},
		Unverified:          []string{},
		Suggestions:         []Suggestion{},
		IncorrectReferences: []IncorrectReference{},
	}
	var unverified []string
	for _, raw := range mentions {
		mention := strings.TrimSpace(raw)
		if mention == "" {
			continue
		}
		res.Mentions = append(res.Mentions, mention)

		s, matchType, sim, ok := m.resolve(mention, registry)
		if !ok {
			unverified = append(unverified, mention)
			continue
		}
		res.Verified = append(res.Verified, VerifiedScheme{
			Mention: mention, SchemeID: s.ID, SchemeName: s.Name, Code: s.Code,
			MatchType: matchType, Similarity: sim,
		})
		switch {
		case !s.IsActive():
			res.IncorrectReferences = append(res.IncorrectReferences, IncorrectReference{
				Mention: mention, SchemeID: s.ID, CorrectName: s.Name,
				Reason: ReasonInactive, SchemeStatus: string(s.Status),
			})
		case matchType == MatchFuzzy:
			res.IncorrectReferences = append(res.IncorrectReferences, IncorrectReference{
				Mention: mention, SchemeID: s.ID, CorrectName: s.Name,
				Reason: ReasonMisspelling, SchemeStatus: string(s.Status),
			})
		}
	}

	res.Unverified = append(res.Unverified, unverified...)
	for _, mention := range unverified {
		for _, sg := range m.suggest(mention, registry) {
			if len(res.Suggestions) >= m.cfg.MaxSuggestions {
				break
			}
			res.Suggestions = append(res.Suggestions, sg)
		}
	}
	return res
}

func (m *Matcher) resolve(mention string, registry []scheme.GovernmentScheme) (scheme.GovernmentScheme, string, float64, bool) {
	n := normalizeName(mention)
	for _, s := range registry {
		if normalizeName(s.Name) == n {
			return s, MatchExactName, 1, true
		}
	}
	for _, s := range registry {
		if s.Code != "" && normalizeName(s.Code) == n {
			return s, MatchExactCode, 1, true
		}
	}

	var (
		best  scheme.GovernmentScheme
		top   float64
		found bool
	)
	for _, s := range registry {
		name, code := normalizeName(s.Name), normalizeName(s.Code)
		contained := strings.Contains(name, n) || strings.Contains(n, name) ||
			(code != "" && (strings.Contains(n, code) || strings.Contains(code, n)))
		if !contained {
			continue
		}
		r := bestRatio(n, name, code)
		if r < m.cfg.FuzzyThreshold {
			continue
		}
		if !found || r > top || (r == top && s.Name < best.Name) {
			best, top, found = s, r, true
		}
	}
	return best, MatchFuzzy, top, found
}

// suggest scores every registry entry for an unverified mention and returns
// those above the suggestion threshold, best first.
func (m *Matcher) suggest(mention string, registry []scheme.GovernmentScheme) []Suggestion {
	n := normalizeName(mention)
	toks := tokenize(mention)
	var out []Suggestion
	for _, s := range registry {
		score := 0.6*bestRatio(n, normalizeName(s.Name), normalizeName(s.Code)) +
			0.25*overlap(toks, tokenSet(s.Keywords...)) +
			0.15*overlap(toks, tokenSet(s.Description))
		if score <= m.cfg.SuggestionThreshold {
			continue
		}
		out = append(out, Suggestion{
			Mention: mention, SchemeID: s.ID, SchemeName: s.Name, Code: s.Code,
			Score: roundScore(score),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].SchemeName < out[j].SchemeName
	})
	return out
}

//Personal.AI order the ending
