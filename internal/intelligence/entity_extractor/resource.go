package entity_extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

const quantityExpr = `(\d+(?:,\d+)*(?:\.\d+)?)`

var resourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b` + quantityExpr + `\s+(?:(?:skilled|unskilled|semi-skilled)\s+)?` +
		`(workers?|labou?rers?|engineers?|supervisors?|masons?|technicians?|operators?|persons?|man-?days|mandays|staff|personnel)\b`),
	regexp.MustCompile(`(?i)\b` + quantityExpr + `\s*` +
		`(metric\s+tonnes?|tonnes?|tons?|mt|cubic\s+met(?:re|er)s?|cum|cu\.?\s?m|bags?|kilomet(?:re|er)s?|km|square\s+met(?:re|er)s?|sq\.?\s?m|litres?|liters?|kl)\b` +
		`(?:\s+of\s+([a-z]+))?`),
	regexp.MustCompile(`(?i)\b` + quantityExpr + `\s+` +
		`(excavators?|trucks?|tippers?|cranes?|rollers?|jcbs?|mixers?|bulldozers?|graders?|pavers?|dumpers?|tractors?)\b`),
}

var resourceCategory = []string{dpr.ResourceHuman, dpr.ResourceMaterial, dpr.ResourceEquipment}

// unitAliases maps a lower-cased unit to its normal form. Units missing here
// are generic and earn no unit bonus.
var unitAliases = map[string]string{
	"worker": "worker", "workers": "worker",
	"labourer": "labourer", "labourers": "labourer", "laborer": "labourer", "laborers": "labourer",
	"engineer": "engineer", "engineers": "engineer",
	"supervisor": "supervisor", "supervisors": "supervisor",
	"mason": "mason", "masons": "mason",
	"technician": "technician", "technicians": "technician",
	"operator": "operator", "operators": "operator",
	"man-days": "man_day", "mandays": "man_day", "man-day": "man_day",

	"tonne": "tonne", "tonnes": "tonne", "ton": "tonne", "tons": "tonne", "mt": "tonne",
	"metric tonne": "tonne", "metric tonnes": "tonne",
	"cubic metre": "cubic_metre", "cubic metres": "cubic_metre", "cubic meter": "cubic_metre",
	"cubic meters": "cubic_metre", "cum": "cubic_metre", "cu m": "cubic_metre", "cu.m": "cubic_metre",
	"cu. m": "cubic_metre",
	"bag": "bag", "bags": "bag",
	"km": "km", "kilometre": "km", "kilometres": "km", "kilometer": "km", "kilometers": "km",
	"square metre": "sq_m", "square metres": "sq_m", "square meter": "sq_m", "square meters": "sq_m",
	"sq m": "sq_m", "sq.m": "sq_m", "sq. m": "sq_m", "sqm": "sq_m",
	"litre": "litre", "litres": "litre", "liter": "litre", "liters": "litre",
	"kl": "kilolitre",

	"excavator": "excavator", "excavators": "excavator",
	"truck": "truck", "trucks": "truck",
	"tipper": "tipper", "tippers": "tipper",
	"crane": "crane", "cranes": "crane",
	"roller": "roller", "rollers": "roller",
	"jcb": "jcb", "jcbs": "jcb",
	"mixer": "mixer", "mixers": "mixer",
	"bulldozer": "bulldozer", "bulldozers": "bulldozer",
	"grader": "grader", "graders": "grader",
	"paver": "paver", "pavers": "paver",
	"dumper": "dumper", "dumpers": "dumper",
	"tractor": "tractor", "tractors": "tractor",
}

var deploymentCueRe = regexp.MustCompile(`(?i)\b(?:requir|deploy|procur|allocat)`)

// normalizeUnit lower-cases and collapses whitespace. The bool reports
// whether the unit is a known one.
func normalizeUnit(raw string) (string, bool) {
	u := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if n, ok := unitAliases[u]; ok {
		return n, true
	}
	return u, false
}

func extractResources(text string, window int) []dpr.ResourceEntity {
	var out []dpr.ResourceEntity
	for _, m := range findAll(text, resourcePatterns) {
		qty, err := strconv.ParseFloat(strings.ReplaceAll(m.groups[0], ",", ""), 64)
		if err != nil || qty <= 0 {
			continue
		}
		unit, known := normalizeUnit(m.groups[1])
		value := text[m.start:m.end]

		conf := 0.65
		if known {
			conf += 0.1
		}
		before, after := surrounding(text, m.start, m.end, window)
		if deploymentCueRe.MatchString(before) || deploymentCueRe.MatchString(after) {
			conf += 0.1
		}
		if runeLen(value) > 10 {
			conf += 0.05
		}

		category := resourceCategory[m.pattern]
		out = append(out, dpr.ResourceEntity{
			ExtractedEntity: dpr.ExtractedEntity{
				Type:        dpr.EntityResource,
				Value:       value,
				Confidence:  capConfidence(conf),
				Position:    m.start,
				EndPosition: m.end,
				SubType:     category,
			},
			Quantity: qty,
			Unit:     unit,
			Category: category,
		})
	}
	return out
}

//Personal.AI order the ending
