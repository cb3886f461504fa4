package entity_extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

const (
	numberExpr     = `\d+(?:,\d+)*(?:\.\d+)?`
	multiplierExpr = `lakhs?|lacs?|crores?|cr|thousand`
)

// Pattern order matters only for ties; containment decides the rest.
var monetaryPatterns = []*regexp.Regexp{
	// Rs. 5.4 crore, INR 1,20,000, ₹ 30 lakh
	regexp.MustCompile(`(?i)(\brs\b\.?|\binr\b|₹)\s*(` + numberExpr + `)(?:\s*(` + multiplierExpr + `)\b)?`),
	// 50 lakh rupees, 3 crore
	regexp.MustCompile(`(?i)\b(` + numberExpr + `)\s*(lakhs?|lacs?|crores?|thousand)\b(?:\s*(rupees\b|rs\b\.?|inr\b))?`),
	// 25000 rupees
	regexp.MustCompile(`(?i)\b(` + numberExpr + `)\s*(rupees|inr)\b`),
}

var costCues = []cue{
	{dpr.CostContingency, regexp.MustCompile(`(?i)\bcontingenc`)},
	{dpr.CostLabor, regexp.MustCompile(`(?i)\b(?:labou?r|wages?\b|manpower)`)},
	{dpr.CostMaterial, regexp.MustCompile(`(?i)\bmaterials?\b`)},
	{dpr.CostEquipment, regexp.MustCompile(`(?i)\b(?:equipment|machinery|plant\b)`)},
	{dpr.CostTotal, regexp.MustCompile(`(?i)\b(?:total|overall|project\s+cost|estimated\s+cost|cost\s+estimate|sanctioned\s+cost)`)},
}

func multiplierValue(word string) float64 {
	w := strings.ToLower(word)
	switch {
	case strings.HasPrefix(w, "lakh"), strings.HasPrefix(w, "lac"):
		return 1e5
	case strings.HasPrefix(w, "cr"):
		return 1e7
	case w == "thousand":
		return 1e3
	}
	return 1
}

// parseAmount strips grouping commas and applies the multiplier word.
func parseAmount(num, mult string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	amount := dpr.Round2(v * multiplierValue(mult))
	return amount, amount > 0
}

func extractMonetary(text string, window int) []dpr.MonetaryEntity {
	var out []dpr.MonetaryEntity
	for _, m := range findAll(text, monetaryPatterns) {
		var num, mult string
		marker := false
		switch m.pattern {
		case 0:
			num, mult, marker = m.groups[1], m.groups[2], true
		case 1:
			num, mult, marker = m.groups[0], m.groups[1], m.groups[2] != ""
		case 2:
			num, marker = m.groups[0], true
		}
		amount, ok := parseAmount(num, mult)
		if !ok {
			continue
		}

		conf := 0.6
		if marker {
			conf += 0.2
		}
		if mult != "" {
			conf += 0.1
		}
		if strings.Contains(num, ",") {
			conf += 0.05
		}

		before, after := surrounding(text, m.start, m.end, window)
		out = append(out, dpr.MonetaryEntity{
			ExtractedEntity: dpr.ExtractedEntity{
				Type:        dpr.EntityMonetary,
				Value:       text[m.start:m.end],
				Confidence:  capConfidence(conf),
				Position:    m.start,
				EndPosition: m.end,
				SubType:     nearestCue(costCues, before, after),
			},
			Amount:   amount,
			Currency: "INR",
		})
	}
	return out
}

//Personal.AI order the ending
