package profile

import (
	"regexp"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// term is a weighted phrase. Weights add up and the total is clamped.
type term struct {
	phrase string
	weight float64
	re     *regexp.Regexp
}

func terms(pairs ...interface{}) []term {
	out := make([]term, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		p := pairs[i].(string)
		out = append(out, term{phrase: p, weight: pairs[i+1].(float64), re: phraseRe(p)})
	}
	return out
}

func phraseRe(p string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(p), " ", `[\s-]+`) + `(?:e?s)?\b`)
}

var (
	technicalTerms = terms(
		"bridge", 0.3, "tunnel", 0.4, "flyover", 0.3, "viaduct", 0.3, "dam", 0.4,
		"interchange", 0.2, "underpass", 0.2, "elevated", 0.2, "high rise", 0.3,
		"treatment plant", 0.2, "pumping station", 0.15,
	)
	regulatoryTerms = terms(
		"forest clearance", 0.35, "environmental clearance", 0.3, "land acquisition", 0.3,
		"rehabilitation", 0.2, "resettlement", 0.2, "coastal regulation", 0.25,
		"wildlife clearance", 0.3, "railway approval", 0.2,
	)
	environmentalTerms = terms(
		"forest", 0.3, "river", 0.2, "wetland", 0.3, "coastal", 0.25, "mangrove", 0.3,
		"wildlife sanctuary", 0.35, "national park", 0.35, "eco sensitive", 0.3,
	)
	accessibilityTerms = terms(
		"hilly", -0.15, "remote", -0.2, "tribal", -0.1, "island", -0.2, "no road", -0.2,
		"paved", 0.1, "highway", 0.1, "railway station", 0.1,
	)
	terrainTerms = terms(
		"hilly", 0.3, "mountain", 0.3, "rocky", 0.2, "marshy", 0.2, "swamp", 0.2,
		"flood prone", 0.2, "landslide", 0.2, "plain", -0.1, "flat", -0.1,
	)
	fundingSecuredTerms = terms(
		"sanctioned", 0.5, "funds released", 0.5, "budget allocated", 0.5,
		"approved funding", 0.5, "funding approved", 0.5, "administrative approval", 0.4,
	)
	fundingProposedTerms = terms(
		"proposed under", 0.2, "to be funded", 0.2, "funding sought", 0.2,
	)
)

// Feature baselines before dictionary terms apply.
const (
	baseTechnical     = 0.2
	baseRegulatory    = 0.1
	baseEnvironmental = 0.1
	baseAccessibility = 0.6
	baseTerrain       = 0.2
	baseFunding       = 0.3
)

// resolvedRe marks a sentence in which a trigger is already dealt with.
var resolvedRe = regexp.MustCompile(`(?i)\b(?:complete[d]?|obtained|granted|acquired|not required|already available)\b`)

// mitigatedRe marks a sentence that names a provision against the trigger.
var mitigatedRe = regexp.MustCompile(`(?i)\b(?:contingency|buffer|provision(?:ed)? for|insurance)\b`)

// score sums the weights of the terms found in an unresolved sentence and
// adds them to base, clamped to [0,1]. Each term counts once.
func score(sents []string, base float64, dict []term) float64 {
	v := base
	for _, t := range dict {
		for _, s := range sents {
			if t.re.MatchString(s) && !resolvedRe.MatchString(s) {
				v += t.weight
				break
			}
		}
	}
	return dpr.Clamp01(v)
}

// trigger derives a risk factor from a phrase.
type trigger struct {
	id          string
	re          *regexp.Regexp
	riskType    dpr.RiskType
	impact      dpr.ImpactLevel
	probability float64
	description string
}

func newTrigger(id, pattern string, rt dpr.RiskType, impact dpr.ImpactLevel, p float64, desc string) trigger {
	return trigger{id: id, re: regexp.MustCompile(`(?i)\b(?:` + pattern + `)`), riskType: rt, impact: impact, probability: p, description: desc}
}

var riskTriggers = []trigger{
	newTrigger("risk-land-acquisition", `land\s+acquisition`, dpr.RiskRegulatory, dpr.ImpactHigh, 0.6, "Land acquisition pending"),
	newTrigger("risk-monsoon", `monsoon`, dpr.RiskTimeline, dpr.ImpactMedium, 0.5, "Monsoon season delays"),
	newTrigger("risk-forest-clearance", `forest\s+clearance`, dpr.RiskEnvironmental, dpr.ImpactHigh, 0.5, "Forest clearance required"),
	newTrigger("risk-flood", `flood`, dpr.RiskEnvironmental, dpr.ImpactMedium, 0.4, "Flooding at site"),
	newTrigger("risk-terrain", `hilly|landslide|mountainous`, dpr.RiskLocation, dpr.ImpactMedium, 0.4, "Difficult terrain"),
	newTrigger("risk-remote", `remote|inaccessible`, dpr.RiskLocation, dpr.ImpactMedium, 0.4, "Remote site access"),
	newTrigger("risk-escalation", `price\s+escalation|cost\s+escalation`, dpr.RiskFinancial, dpr.ImpactMedium, 0.4, "Price escalation"),
	newTrigger("risk-shortage", `(?:labou?r|material|manpower)\s+shortage|shortage\s+of`, dpr.RiskResource, dpr.ImpactMedium, 0.5, "Resource shortage"),
	newTrigger("risk-utility-shifting", `utility\s+shifting`, dpr.RiskTimeline, dpr.ImpactLow, 0.4, "Utility shifting"),
	newTrigger("risk-litigation", `litigation|court\s+case|stay\s+order`, dpr.RiskRegulatory, dpr.ImpactHigh, 0.5, "Pending litigation"),
	newTrigger("risk-design-complexity", `tunnel|viaduct|cable[\s-]+stayed`, dpr.RiskComplexity, dpr.ImpactMedium, 0.4, "Complex structures"),
}

//Personal.AI order the ending
