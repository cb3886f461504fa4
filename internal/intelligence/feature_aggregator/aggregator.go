// Package feature_aggregator merges classification, extraction and gap
// results into flat search metadata for the document index.
package feature_aggregator

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config tunes aggregation.
type Config struct {
	MaxKeywords  int `json:"max_keywords"`
	SummaryRunes int `json:"summary_runes"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{MaxKeywords: 25, SummaryRunes: 300}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = d.MaxKeywords
	}
	if c.SummaryRunes <= 0 {
		c.SummaryRunes = d.SummaryRunes
	}
	return c
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

// GeoPoint is a coordinate pair in OpenSearch geo_point form.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SearchMetadata is everything the index stores for one document.
type SearchMetadata struct {
	DocumentID          string                        `json:"document_id"`
	Summary             string                        `json:"summary"`
	Keywords            []string                      `json:"keywords"`
	Tags                []string                      `json:"tags"`
	SectionTypes        []dpr.SectionType             `json:"section_types"`
	EntityCounts        map[dpr.EntityType]int        `json:"entity_counts"`
	TotalCost           float64                       `json:"total_cost,omitempty"`
	Currency            string                        `json:"currency,omitempty"`
	StartDate           *time.Time                    `json:"start_date,omitempty"`
	EndDate             *time.Time                    `json:"end_date,omitempty"`
	DurationMonths      float64                       `json:"duration_months,omitempty"`
	States              []string                      `json:"states"`
	Districts           []string                      `json:"districts"`
	Locations           []GeoPoint                    `json:"locations"`
	ResourceTotals      map[string]map[string]float64 `json:"resource_totals"`
	ChecklistVersion    string                        `json:"checklist_version,omitempty"`
	OverallScore        float64                       `json:"overall_score"`
	CompletenessPercent float64                       `json:"completeness_percent"`
	MissingSections     []string                      `json:"missing_sections"`
}

// Completeness bands for the completeness tag.
const (
	bandHigh   = 75.0
	bandMedium = 50.0
)

// CompletenessBand buckets a completeness percentage.
func CompletenessBand(pct float64) string {
	switch {
	case pct >= bandHigh:
		return "high"
	case pct >= bandMedium:
		return "medium"
	default:
		return "low"
	}
}

// CostBand buckets a rupee amount by crore.
func CostBand(amount float64) string {
	cr := amount / dpr.Crore
	switch {
	case cr < 1:
		return "under-1cr"
	case cr < 10:
		return "1-10cr"
	case cr < 100:
		return "10-100cr"
	default:
		return "over-100cr"
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.Join(strings.Fields(s), " ")), " ", "-")
}

// ---------------------------------------------------------------------------
// Aggregator
// ---------------------------------------------------------------------------

// Aggregator is stateless and safe for concurrent use.
type Aggregator struct {
	cfg    Config
	logger logging.Logger
}

// New builds an Aggregator.
func New(cfg Config, logger logging.Logger) *Aggregator {
	return &Aggregator{cfg: cfg.withDefaults(), logger: logging.OrNop(logger).Named("feature_aggregator")}
}

// Aggregate builds the search metadata for one document. Any of the inputs
// may be nil; the matching fields are then left empty. Output is
// deterministic for equal inputs.
func (a *Aggregator) Aggregate(documentID string, cls *section_classifier.ClassificationResult, ext *entity_extractor.ExtractionResult, gap *gap_analyzer.GapAnalysisResult) *SearchMetadata {
	start := time.Now()
	md := &SearchMetadata{
		DocumentID:      documentID,
		Keywords:        []string{},
		Tags:            []string{},
		SectionTypes:    []dpr.SectionType{},
		EntityCounts:    map[dpr.EntityType]int{},
		States:          []string{},
		Districts:       []string{},
		Locations:       []GeoPoint{},
		ResourceTotals:  map[string]map[string]float64{},
		MissingSections: []string{},
	}

	if cls != nil {
		md.SectionTypes = cls.SectionTypes()
		md.Keywords = rankKeywords(cls.Sections, a.cfg.MaxKeywords)
		if es, ok := dpr.BestSectionOfType(cls.Sections, dpr.SectionExecutiveSummary); ok {
			md.Summary = firstRunes(strings.TrimSpace(es.Content), a.cfg.SummaryRunes)
		}
	}
	if ext != nil {
		a.fillEntities(md, ext)
	}
	if gap != nil {
		md.ChecklistVersion = gap.ChecklistVersion
		md.OverallScore = gap.OverallScore
		md.CompletenessPercent = gap.CompletenessPercent
		md.MissingSections = append(md.MissingSections, gap.MissingSections...)
	}
	md.Tags = buildTags(md, gap != nil)

	a.logger.Debug("metadata aggregated",
		logging.String("document_id", documentID),
		logging.Int("keywords", len(md.Keywords)),
		logging.Int("tags", len(md.Tags)),
		logging.Duration("elapsed", time.Since(start)))
	return md
}

func (a *Aggregator) fillEntities(md *SearchMetadata, ext *entity_extractor.ExtractionResult) {
	for t, n := range ext.Counts {
		md.EntityCounts[t] = n
	}
	if cost, ok := ext.TotalCost(); ok {
		md.TotalCost = cost
		md.Currency = ext.Monetary[0].Currency
	}
	if s, e, ok := ext.DateRange(); ok {
		md.StartDate, md.EndDate = &s, &e
		md.DurationMonths = dpr.MonthsBetween(s, e)
	}

	states := map[string]bool{}
	districts := map[string]bool{}
	points := map[GeoPoint]bool{}
	for _, l := range ext.Locations {
		switch l.LocationKind {
		case dpr.LocationState:
			states[l.Value] = true
		case dpr.LocationDistrict:
			if name := adminName(l.Value); name != "" {
				districts[name] = true
			}
		case dpr.LocationCoordinates:
			points[GeoPoint{Lat: l.Latitude, Lon: l.Longitude}] = true
		}
	}
	md.States = sortedKeys(states)
	md.Districts = sortedKeys(districts)
	for p := range points {
		md.Locations = append(md.Locations, p)
	}
	sort.Slice(md.Locations, func(i, j int) bool {
		if md.Locations[i].Lat != md.Locations[j].Lat {
			return md.Locations[i].Lat < md.Locations[j].Lat
		}
		return md.Locations[i].Lon < md.Locations[j].Lon
	})

	for _, r := range ext.Resources {
		units, ok := md.ResourceTotals[r.Category]
		if !ok {
			units = map[string]float64{}
			md.ResourceTotals[r.Category] = units
		}
		units[r.Unit] += r.Quantity
	}
}

func buildTags(md *SearchMetadata, haveGap bool) []string {
	tags := make([]string, 0, len(md.SectionTypes)+len(md.States)+len(md.MissingSections)+3)
	for _, t := range md.SectionTypes {
		tags = append(tags, "section:"+t.Slug())
	}
	if haveGap {
		tags = append(tags, "completeness:"+CompletenessBand(md.CompletenessPercent))
	}
	if md.TotalCost > 0 {
		tags = append(tags, "cost-band:"+CostBand(md.TotalCost))
	}
	for _, s := range md.States {
		tags = append(tags, "state:"+slug(s))
	}
	if len(md.Locations) > 0 {
		tags = append(tags, "has-coordinates")
	}
	for _, id := range md.MissingSections {
		tags = append(tags, "missing:"+id)
	}
	return tags
}

// adminName strips the administrative word from "Ganjam District" or
// "District of Ganjam".
func adminName(value string) string {
	fields := strings.Fields(value)
	out := fields[:0]
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "district", "of":
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

// ToDocument renders the metadata as an index document. Dates are RFC 3339
// day strings so the index can map them as date fields.
func (m *SearchMetadata) ToDocument() map[string]interface{} {
	counts := make(map[string]int, len(m.EntityCounts))
	for t, n := range m.EntityCounts {
		counts[strings.ToLower(string(t))] = n
	}
	sections := make([]string, len(m.SectionTypes))
	for i, t := range m.SectionTypes {
		sections[i] = string(t)
	}
	doc := map[string]interface{}{
		"document_id":          m.DocumentID,
		"summary":              m.Summary,
		"keywords":             m.Keywords,
		"tags":                 m.Tags,
		"section_types":        sections,
		"entity_counts":        counts,
		"states":               m.States,
		"districts":            m.Districts,
		"locations":            m.Locations,
		"resource_totals":      m.ResourceTotals,
		"overall_score":        m.OverallScore,
		"completeness_percent": m.CompletenessPercent,
		"missing_sections":     m.MissingSections,
	}
	if m.ChecklistVersion != "" {
		doc["checklist_version"] = m.ChecklistVersion
	}
	if m.TotalCost > 0 {
		doc["total_cost"] = m.TotalCost
		doc["currency"] = m.Currency
	}
	if m.StartDate != nil {
		doc["start_date"] = m.StartDate.Format("2006-01-02")
	}
	if m.EndDate != nil {
		doc["end_date"] = m.EndDate.Format("2006-01-02")
	}
	if m.DurationMonths > 0 {
		doc["duration_months"] = m.DurationMonths
	}
	return doc
}

//Personal.AI order the ending
