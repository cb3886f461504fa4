package scheme_matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
)

// ComplexityTier grades how hard a scheme is to apply for.
type ComplexityTier string

const (
	ComplexityLow    ComplexityTier = "LOW"
	ComplexityMedium ComplexityTier = "MEDIUM"
	ComplexityHigh   ComplexityTier = "HIGH"
)

// preparationDays is the document preparation time added per tier.
var preparationDays = map[ComplexityTier]int{
	ComplexityLow:    14,
	ComplexityMedium: 30,
	ComplexityHigh:   60,
}

// ProjectProfile is what opportunity discovery knows about the project.
type ProjectProfile struct {
	Sector        string   `json:"sector,omitempty"`
	State         string   `json:"state,omitempty"`
	EstimatedCost float64  `json:"estimated_cost,omitempty"`
	Description   string   `json:"description,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// MissingOpportunity is an active scheme the project could apply to but does
// not mention.
type MissingOpportunity struct {
	SchemeID         string         `json:"scheme_id"`
	SchemeName       string         `json:"scheme_name"`
	Code             string         `json:"code"`
	Ministry         string         `json:"ministry"`
	Relevance        float64        `json:"relevance"`
	Complexity       ComplexityTier `json:"complexity"`
	EstimatedDays    int            `json:"estimated_days"`
	EstimatedTime    string         `json:"estimated_time"`
	PotentialFunding float64        `json:"potential_funding"`
	MatchReasons     []string       `json:"match_reasons"`
}

// tierPoints gives 0, 1 or 2 points for a count against two cut-offs.
func tierPoints(n, low, mid int) int {
	switch {
	case n <= low:
		return 0
	case n <= mid:
		return 1
	default:
		return 2
	}
}

// Complexity rates the application burden of s.
func Complexity(s scheme.GovernmentScheme) ComplexityTier {
	points := tierPoints(len(s.RequiredDocuments), 3, 6) +
		tierPoints(s.ProcessingTimeDays, 30, 90) +
		tierPoints(len(s.EligibilityCriteria), 3, 6)
	switch {
	case points <= 1:
		return ComplexityLow
	case points <= 3:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// humanDays renders a day count the way applicants plan: weeks up to two
// months, months beyond.
func humanDays(days int) string {
	switch {
	case days <= 0:
		return "immediate"
	case days <= 60:
		w := int(math.Ceil(float64(days) / 7))
		if w == 1 {
			return "about 1 week"
		}
		return fmt.Sprintf("about %d weeks", w)
	default:
		mo := int(math.Round(float64(days) / 30))
		return fmt.Sprintf("about %d months", mo)
	}
}

func sectorScore(sector string, s scheme.GovernmentScheme) (float64, string) {
	sec := normalizeName(sector)
	if sec == "" {
		return 0, ""
	}
	best, match := 0.0, ""
	secTokens := tokenSet(sec)
	for _, raw := range s.Sectors {
		cand := normalizeName(raw)
		if cand == sec || cand == "all" {
			return 1, raw
		}
		if best < 0.5 && jaccard(secTokens, tokenSet(cand)) > 0 {
			best, match = 0.5, raw
		}
	}
	return best, match
}

func regionScore(state string, s scheme.GovernmentScheme) float64 {
	st := normalizeName(state)
	if st != "" {
		for _, r := range s.Regions {
			if normalizeName(r) == st {
				return 1
			}
		}
	}
	if s.IsNational() {
		return 0.8
	}
	return 0
}

func fundingScore(cost float64, s scheme.GovernmentScheme) float64 {
	if cost <= 0 || (s.MinFunding <= 0 && s.MaxFunding <= 0) {
		return 0.5
	}
	if s.MinFunding > 0 && cost < s.MinFunding {
		return cost / s.MinFunding
	}
	if s.MaxFunding > 0 && cost > s.MaxFunding {
		return s.MaxFunding / cost
	}
	return 1
}

func statusScore(v scheme.VerificationStatus) float64 {
	switch scheme.VerificationStatus(strings.ToUpper(string(v))) {
	case scheme.Verified:
		return 1
	case scheme.Pending:
		return 0.5
	default:
		return 0
	}
}

func potentialFunding(cost float64, s scheme.GovernmentScheme) float64 {
	switch {
	case s.MaxFunding <= 0:
		return cost
	case cost <= 0:
		return s.MaxFunding
	default:
		return math.Min(cost, s.MaxFunding)
	}
}

// DiscoverOpportunities ranks active, unverified schemes by relevance to the
// project and keeps the best MaxOpportunities at or above MinRelevance.
func (m *Matcher) DiscoverOpportunities(profile ProjectProfile, registry []scheme.GovernmentScheme, verifiedIDs map[string]bool) []MissingOpportunity {
	projectTokens := tokenSet(append([]string{profile.Description}, profile.Keywords...)...)
	out := []MissingOpportunity{}
	for _, s := range registry {
		if !s.IsActive() || verifiedIDs[s.ID] {
			continue
		}
		sector, sectorMatch := sectorScore(profile.Sector, s)
		region := regionScore(profile.State, s)
		funding := fundingScore(profile.EstimatedCost, s)
		schemeTokens := tokenSet(append(append([]string{s.Description}, s.Objectives...), s.Keywords...)...)
		sim := jaccard(projectTokens, schemeTokens)

		relevance := dpr.Clamp01(0.4*sector + 0.2*region + 0.2*funding + 0.15*sim + 0.05*statusScore(s.VerificationStatus))
		if relevance < m.cfg.MinRelevance {
			continue
		}

		var reasons []string
		if sector > 0 {
			reasons = append(reasons, "sector match: "+sectorMatch)
		}
		switch {
		case region == 1:
			reasons = append(reasons, "available in "+profile.State)
		case region > 0:
			reasons = append(reasons, "national scheme")
		}
		if funding == 1 {
			reasons = append(reasons, "project cost within funding range")
		}
		if sim > 0 {
			reasons = append(reasons, "objectives overlap project description")
		}

		tier := Complexity(s)
		days := s.ProcessingTimeDays + preparationDays[tier]
		out = append(out, MissingOpportunity{
			SchemeID:         s.ID,
			SchemeName:       s.Name,
			Code:             s.Code,
			Ministry:         s.Ministry,
			Relevance:        roundScore(relevance),
			Complexity:       tier,
			EstimatedDays:    days,
			EstimatedTime:    humanDays(days),
			PotentialFunding: potentialFunding(profile.EstimatedCost, s),
			MatchReasons:     reasons,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return out[i].SchemeName < out[j].SchemeName
	})
	if len(out) > m.cfg.MaxOpportunities {
		out = out[:m.cfg.MaxOpportunities]
	}
	return out
}

//Personal.AI order the ending
