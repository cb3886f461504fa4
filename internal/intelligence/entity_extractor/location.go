package entity_extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// States and union territories, longest names first so alternation prefers
// the full name.
var indianStates = []string{
	"Dadra and Nagar Haveli and Daman and Diu", "Andaman and Nicobar Islands",
	"Jammu and Kashmir", "Arunachal Pradesh", "Himachal Pradesh", "Andhra Pradesh",
	"Madhya Pradesh", "Uttar Pradesh", "Chhattisgarh", "West Bengal", "Maharashtra",
	"Uttarakhand", "Lakshadweep", "Puducherry", "Chandigarh", "Karnataka", "Telangana",
	"Jharkhand", "Meghalaya", "Rajasthan", "Tamil Nadu", "Tripura", "Nagaland",
	"Mizoram", "Manipur", "Haryana", "Gujarat", "Odisha", "Kerala", "Punjab", "Sikkim",
	"Ladakh", "Assam", "Bihar", "Delhi", "Goa",
}

var canonicalState = func() map[string]string {
	m := make(map[string]string, len(indianStates))
	for _, s := range indianStates {
		m[strings.ToLower(s)] = s
	}
	return m
}()

// CanonicalState returns the canonical spelling of a state or union
// territory name, matched case-insensitively.
func CanonicalState(name string) (string, bool) {
	s, ok := canonicalState[strings.ToLower(strings.Join(strings.Fields(name), " "))]
	return s, ok
}

func stateExpr() string {
	parts := make([]string, len(indianStates))
	for i, s := range indianStates {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(s), " ", `\s+`)
	}
	return `(?i)\b(` + strings.Join(parts, "|") + `)\b`
}

const (
	locCoordinates = iota
	locState
	locAdminSuffix
	locAdminPrefix
)

const properNameExpr = `(\p{Lu}\p{L}+(?:[ \t]+\p{Lu}\p{L}+)?)`

var locationPatterns = []*regexp.Regexp{
	locCoordinates: regexp.MustCompile(`(-?\b\d{1,3}\.\d{2,})\s*°?\s*([NnSs])?\s*,\s*(-?\b\d{1,3}\.\d{2,})\s*°?\s*(?:([EeWw])\b)?`),
	locState:       regexp.MustCompile(stateExpr()),
	locAdminSuffix: regexp.MustCompile(properNameExpr + `[ \t]+((?i:district|village|taluka|taluk|tehsil|block|city))\b`),
	locAdminPrefix: regexp.MustCompile(`\b((?i:district|village|taluka|tehsil|block|city))[ \t]+of[ \t]+` + properNameExpr),
}

// Leading words that are capitalised but never part of a place name.
var nameStopWords = map[string]bool{
	"The": true, "This": true, "That": true, "Each": true, "Every": true,
	"Any": true, "Same": true, "Said": true, "Whole": true, "Entire": true,
}

func adminKind(word string) string {
	switch strings.ToLower(word) {
	case "district":
		return dpr.LocationDistrict
	case "village":
		return dpr.LocationVillage
	case "taluka", "taluk":
		return dpr.LocationTaluka
	case "tehsil":
		return dpr.LocationTehsil
	case "block":
		return dpr.LocationBlock
	case "city":
		return dpr.LocationCity
	}
	return dpr.SubTypeOther
}

// inIndia reports whether a coordinate pair falls inside India's bounding box.
func inIndia(lat, lon float64) bool {
	return lat >= 6 && lat <= 38 && lon >= 68 && lon <= 98
}

func locationEntity(text string, start, end int, kind string, conf float64) dpr.LocationEntity {
	value := text[start:end]
	if runeLen(value) > 10 {
		conf += 0.05
	}
	return dpr.LocationEntity{
		ExtractedEntity: dpr.ExtractedEntity{
			Type:        dpr.EntityLocation,
			Value:       value,
			Confidence:  capConfidence(conf),
			Position:    start,
			EndPosition: end,
			SubType:     kind,
		},
		LocationKind: kind,
	}
}

// trimLeadingStopWord drops a leading stop word from a suffix-form name and
// returns the new start offset, or -1 when nothing usable remains.
func trimLeadingStopWord(start int, name string) int {
	fields := strings.Fields(name)
	if len(fields) == 0 || !nameStopWords[fields[0]] {
		return start
	}
	if len(fields) == 1 {
		return -1
	}
	return start + strings.Index(name, fields[1])
}

func extractLocations(text string) []dpr.LocationEntity {
	var out []dpr.LocationEntity
	for _, m := range findAll(text, locationPatterns) {
		switch m.pattern {
		case locCoordinates:
			lat, errLat := strconv.ParseFloat(m.groups[0], 64)
			lon, errLon := strconv.ParseFloat(m.groups[2], 64)
			if errLat != nil || errLon != nil {
				continue
			}
			if strings.EqualFold(m.groups[1], "S") {
				lat = -lat
			}
			if strings.EqualFold(m.groups[3], "W") {
				lon = -lon
			}
			if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
				continue
			}
			conf := 0.7
			if inIndia(lat, lon) {
				conf += 0.15
			}
			end := m.start + len(strings.TrimRight(text[m.start:m.end], " \t,"))
			loc := locationEntity(text, m.start, end, dpr.LocationCoordinates, conf)
			loc.Latitude, loc.Longitude, loc.HasCoordinates = lat, lon, true
			out = append(out, loc)

		case locState:
			loc := locationEntity(text, m.start, m.end, dpr.LocationState, 0.85)
			if canon, ok := CanonicalState(m.groups[0]); ok {
				loc.Value = canon
			}
			out = append(out, loc)

		case locAdminSuffix:
			start := trimLeadingStopWord(m.start, m.groups[0])
			if start < 0 {
				continue
			}
			out = append(out, locationEntity(text, start, m.end, adminKind(m.groups[1]), 0.75))

		case locAdminPrefix:
			out = append(out, locationEntity(text, m.start, m.end, adminKind(m.groups[0]), 0.75))
		}
	}
	return out
}

//Personal.AI order the ending
