package gap_analyzer

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// Evidence sources, strongest first.
const (
	SourceEntity  = "entity"
	SourcePattern = "pattern"
	SourceKeyword = "keyword"
)

const (
	patternConfidence = 0.6
	keywordConfidence = 0.5
	maxValueRunes     = 200
	// keywordProximity is how far before an entity a field keyword may sit
	// to count as pointing at it.
	keywordProximity = 60
)

// typePatterns find values of an entity type directly in section content
// when no extracted entity is available.
var typePatterns = map[dpr.EntityType]*regexp.Regexp{
	dpr.EntityMonetary: regexp.MustCompile(`(?i)(?:\brs\b\.?|\binr\b|₹)\s*\d[\d,]*(?:\.\d+)?(?:\s*(?:lakhs?|lacs?|crores?|cr|thousand)\b)?|\b\d[\d,]*(?:\.\d+)?\s*(?:lakhs?|lacs?|crores?)\b`),
	dpr.EntityDate:     regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{4}\b|\b\d{4}-\d{1,2}-\d{1,2}\b|(?i:\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\b)`),
	dpr.EntityLocation: regexp.MustCompile(`\b\p{Lu}\p{L}+[ \t]+(?i:district|village|taluka|tehsil|block|city)\b|-?\d{1,3}\.\d{2,}\s*[NnSs]?\s*,\s*-?\d{1,3}\.\d{2,}`),
	dpr.EntityResource: regexp.MustCompile(`(?i)\b\d[\d,]*(?:\.\d+)?\s+(?:workers?|labou?rers?|engineers?|tonnes?|bags?|excavators?|trucks?|cranes?|rollers?|cum|cubic\s+met(?:re|er)s?)\b`),
}

// Keyword regexps are compiled on first use. Checklists can be edited at
// runtime, so the caches are bounded and entries for keywords no longer in
// use age out.
const (
	regexpCacheSize = 1024
	regexpCacheTTL  = time.Hour
)

var (
	keywordCache  = expirable.NewLRU[string, *regexp.Regexp](regexpCacheSize, nil, regexpCacheTTL)
	sentenceCache = expirable.NewLRU[string, *regexp.Regexp](regexpCacheSize, nil, regexpCacheTTL)
)

func keywordRe(kw string) *regexp.Regexp {
	return cachedRe(keywordCache, kw, `(?i)\b`+regexp.QuoteMeta(kw))
}

func sentenceRe(kw string) *regexp.Regexp {
	return cachedRe(sentenceCache, kw, `(?i)[^.\n]*\b`+regexp.QuoteMeta(kw)+`[^.\n]*`)
}

func cachedRe(cache *expirable.LRU[string, *regexp.Regexp], kw, expr string) *regexp.Regexp {
	if re, ok := cache.Get(kw); ok {
		return re
	}
	re := regexp.MustCompile(expr)
	cache.Add(kw, re)
	return re
}

func containsKeyword(keywords []string, s string) bool {
	for _, kw := range keywords {
		if kw != "" && keywordRe(kw).MatchString(s) {
			return true
		}
	}
	return false
}

// evidence is the best value found for one field.
type evidence struct {
	value      string
	confidence float64
	source     string
	position   int
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxValueRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxValueRunes])
}

func hasEntityType(types []dpr.EntityType, t dpr.EntityType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// keywordNear reports whether a field keyword is in the entity value or in
// the section text just before it.
func keywordNear(f checklist.ChecklistField, sec dpr.Section, e dpr.ExtractedEntity) bool {
	if containsKeyword(f.Keywords, e.Value) {
		return true
	}
	rel := e.Position - sec.StartOffset
	if rel <= 0 || rel > len(sec.Content) {
		return false
	}
	from := rel - keywordProximity
	if from < 0 {
		from = 0
	}
	return containsKeyword(f.Keywords, sec.Content[from:rel])
}

// findEvidence runs the entity, pattern and keyword stages in turn. entities
// must already be limited to the section span.
func findEvidence(f checklist.ChecklistField, sec dpr.Section, entities []dpr.ExtractedEntity) (evidence, bool) {
	var (
		best     dpr.ExtractedEntity
		bestNear bool
		found    bool
	)
	for _, e := range entities {
		if !hasEntityType(f.EntityTypes, e.Type) && !containsKeyword(f.Keywords, e.Value) {
			continue
		}
		near := keywordNear(f, sec, e)
		switch {
		case !found,
			e.Confidence > best.Confidence,
			e.Confidence == best.Confidence && near && !bestNear,
			e.Confidence == best.Confidence && near == bestNear && e.Position < best.Position:
			best, bestNear, found = e, near, true
		}
	}
	if found {
		return evidence{value: best.Value, confidence: best.Confidence, source: SourceEntity, position: best.Position}, true
	}

	content := sec.Content
	if len(f.EntityTypes) > 0 {
		for _, t := range f.EntityTypes {
			if re, ok := typePatterns[t]; ok {
				if loc := re.FindStringIndex(content); loc != nil {
					return evidence{value: truncate(content[loc[0]:loc[1]]), confidence: patternConfidence, source: SourcePattern, position: sec.StartOffset + loc[0]}, true
				}
			}
		}
	} else {
		for _, kw := range f.Keywords {
			if kw == "" {
				continue
			}
			if loc := sentenceRe(kw).FindStringIndex(content); loc != nil {
				return evidence{value: truncate(content[loc[0]:loc[1]]), confidence: patternConfidence, source: SourcePattern, position: sec.StartOffset + loc[0]}, true
			}
		}
	}

	for _, kw := range f.Keywords {
		if kw == "" {
			continue
		}
		if loc := keywordRe(kw).FindStringIndex(content); loc != nil {
			return evidence{value: kw, confidence: keywordConfidence, source: SourceKeyword, position: sec.StartOffset + loc[0]}, true
		}
	}
	return evidence{}, false
}

// validate checks the rule against the found value and the section content.
func validate(rule *checklist.ValidationRule, value, content string) []string {
	if rule == nil {
		return nil
	}
	var errs []string
	n := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && n < rule.MinLength {
		errs = append(errs, "value shorter than minimum length")
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		errs = append(errs, "value longer than maximum length")
	}
	if rule.Pattern != "" {
		if re, err := regexp.Compile(rule.Pattern); err != nil || !re.MatchString(value) {
			errs = append(errs, "value does not match pattern")
		}
	}
	lower := strings.ToLower(content)
	for _, kw := range rule.RequiredKeywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			errs = append(errs, "missing required keyword: "+kw)
		}
	}
	return errs
}

//Personal.AI order the ending
