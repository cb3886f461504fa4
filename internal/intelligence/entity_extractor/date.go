package entity_extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

const (
	monthExpr   = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b\.?`
	ordinalExpr = `(?:st|nd|rd|th)?`
	minYear     = 1900
	maxYear     = 2100
)

const (
	dateNumeric = iota
	dateISO
	dateDayMonth
	dateMonthDay
	dateMonthYear
)

var datePatterns = []*regexp.Regexp{
	dateNumeric:   regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`),
	dateISO:       regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`),
	dateDayMonth:  regexp.MustCompile(`(?i)\b(\d{1,2})` + ordinalExpr + `\s+(?:of\s+)?` + monthExpr + `,?\s+(\d{4})\b`),
	dateMonthDay:  regexp.MustCompile(`(?i)\b` + monthExpr + `\s+(\d{1,2})` + ordinalExpr + `,?\s+(\d{4})\b`),
	dateMonthYear: regexp.MustCompile(`(?i)\b` + monthExpr + `,?\s+(\d{4})\b`),
}

var dateCues = []cue{
	{dpr.DateStart, regexp.MustCompile(`(?i)\b(?:commenc|start|begin|from\b)`)},
	{dpr.DateEnd, regexp.MustCompile(`(?i)\b(?:complet|end\b|ending\b|finish|till\b|until\b|up\s?to\b)`)},
	{dpr.DateMilestone, regexp.MustCompile(`(?i)\b(?:milestone|phase\b|stage\b|deadline)`)},
	{dpr.DateApproval, regexp.MustCompile(`(?i)\b(?:approv|sanction)`)},
}

func monthFromName(name string) time.Month {
	prefix := strings.ToLower(name)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == prefix {
			return m
		}
	}
	return 0
}

// calendarDate builds a UTC date and rejects impossible days and years out
// of range.
func calendarDate(y int, m time.Month, d int) (time.Time, bool) {
	if y < minYear || y > maxYear || m < time.January || m > time.December || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func parseDate(m match) (time.Time, bool) {
	g := m.groups
	switch m.pattern {
	case dateNumeric:
		return calendarDate(atoi(g[2]), time.Month(atoi(g[1])), atoi(g[0]))
	case dateISO:
		return calendarDate(atoi(g[0]), time.Month(atoi(g[1])), atoi(g[2]))
	case dateDayMonth:
		return calendarDate(atoi(g[2]), monthFromName(g[1]), atoi(g[0]))
	case dateMonthDay:
		return calendarDate(atoi(g[2]), monthFromName(g[0]), atoi(g[1]))
	case dateMonthYear:
		return calendarDate(atoi(g[1]), monthFromName(g[0]), 1)
	}
	return time.Time{}, false
}

func extractDates(text string, window int) []dpr.DateEntity {
	var out []dpr.DateEntity
	for _, m := range findAll(text, datePatterns) {
		parsed, ok := parseDate(m)
		if !ok {
			continue
		}
		before, after := surrounding(text, m.start, m.end, window)
		subType := nearestCue(dateCues, before, after)

		conf := 0.7
		if m.pattern != dateMonthYear {
			conf += 0.15
		}
		if subType != dpr.SubTypeOther {
			conf += 0.1
		}
		out = append(out, dpr.DateEntity{
			ExtractedEntity: dpr.ExtractedEntity{
				Type:        dpr.EntityDate,
				Value:       text[m.start:m.end],
				Confidence:  capConfidence(conf),
				Position:    m.start,
				EndPosition: m.end,
				SubType:     subType,
			},
			ParsedDate: parsed,
		})
	}
	return out
}

//Personal.AI order the ending
