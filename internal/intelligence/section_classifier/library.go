package section_classifier

import (
	"regexp"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// Score weights.
const (
	keywordWeight        = 1.0
	patternWeight        = 1.5
	contextWeight        = 0.5
	headerKeywordWeight  = 2.0
	positionalBonus      = 1.0
	executiveLengthLimit = 1500
)

// library is the scoring vocabulary of one section type.
type library struct {
	keywords []*regexp.Regexp
	patterns []*regexp.Regexp
	context  []*regexp.Regexp
}

func wordRes(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w))
	}
	return out
}

func patternRes(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

const monthNames = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var currencyMarkerRe = regexp.MustCompile(`(?i)(?:\b(?:rs|inr|lakhs?|lacs?|crores?)\b|₹)`)

func newLibraries() map[dpr.SectionType]*library {
	return map[dpr.SectionType]*library{
		dpr.SectionExecutiveSummary: {
			keywords: wordRes("executive summary", "summary", "introduction", "overview", "background",
				"objective", "project brief", "abstract", "purpose", "scope"),
			patterns: patternRes(
				`(?i)\bexecutive\s+summary\b`,
				`(?i)\bthe\s+(?:proposed\s+)?project\s+(?:aims|envisages|proposes|involves|seeks)\b`,
				`(?i)\bobjectives?\s+of\s+the\s+(?:project|scheme|proposal)\b`,
			),
			context: wordRes("proposed", "project", "beneficiar", "rationale", "need for", "justification"),
		},
		dpr.SectionCostEstimate: {
			keywords: wordRes("cost", "estimate", "budget", "expenditure", "financial", "amount",
				"rate", "contingency", "funding", "outlay"),
			patterns: patternRes(
				`(?i)(?:\brs\.?|\binr|₹)\s*\d`,
				`(?i)\d[\d,.]*\s*(?:lakhs?|lacs?|crores?)\b`,
				`(?i)\btotal\s+(?:project\s+)?cost\b`,
				`(?i)\bcost\s+(?:estimate|breakdown|abstract)\b`,
			),
			context: wordRes("gst", "tax", "escalation", "per unit", "quantity", "schedule of rates", "sor"),
		},
		dpr.SectionTimeline: {
			keywords: wordRes("timeline", "schedule", "duration", "milestone", "phase", "completion",
				"months", "implementation", "gantt", "commencement"),
			patterns: patternRes(
				`(?i)\b\d+\s*(?:months?|years?|weeks?|days?)\b`,
				`(?i)\b(?:phase|stage)[\s-]*(?:\d+|iv|i{1,3})\b`,
				`(?i)\b`+monthNames+`\s+\d{4}\b`,
				`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{4}\b`,
			),
			context: wordRes("start", "end", "deadline", "target", "quarter", "progress"),
		},
		dpr.SectionResources: {
			keywords: wordRes("resource", "manpower", "labour", "labor", "workers", "material",
				"equipment", "machinery", "staff", "personnel"),
			patterns: patternRes(
				`(?i)\b\d+\s*(?:workers|labou?rers|engineers|supervisors|persons|man-?days)\b`,
				`(?i)\b\d[\d,.]*\s*(?:tonnes?|tons?|mt|cum|cubic\s+met(?:re|er)s?|bags?)\b`,
				`(?i)\b\d+\s*(?:excavators?|trucks?|tippers?|cranes?|rollers?|jcbs?|mixers?)\b`,
			),
			context: wordRes("skilled", "unskilled", "cement", "steel", "sand", "aggregate", "deploy", "procure"),
		},
		dpr.SectionTechnicalSpecs: {
			keywords: wordRes("technical", "specification", "design", "standard", "engineering",
				"structural", "survey", "alignment", "drawing", "geotechnical"),
			patterns: patternRes(
				`\b(?:IRC|IS)\s*[:-]?\s*\d+`,
				`(?i)\b\d+(?:\.\d+)?\s*(?:mm|cm|m|km|metres?|meters?)\s+(?:wide|width|thick|thickness|long|length|depth|deep)\b`,
				`\b(?:M|Fe)\s?\d{2,3}\b`,
				`(?i)\bload\s+(?:bearing|capacity)\b`,
			),
			context: wordRes("carriageway", "pavement", "foundation", "reinforcement", "hydraulic",
				"soil", "culvert", "bridge"),
		},
	}
}

func countMatches(res []*regexp.Regexp, s string) int {
	n := 0
	for _, re := range res {
		if re.MatchString(s) {
			n++
		}
	}
	return n
}

// score returns the raw (unbounded) score of content for one library.
// Positional bonuses are applied by the caller.
func (l *library) score(title, content string) float64 {
	s := float64(countMatches(l.keywords, content))*keywordWeight +
		float64(countMatches(l.patterns, content))*patternWeight +
		float64(countMatches(l.context, content))*contextWeight
	if title != "" && countMatches(l.keywords, title) > 0 {
		s += headerKeywordWeight
	}
	return s
}

//Personal.AI order the ending
