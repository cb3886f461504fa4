// Package entity_extractor pulls monetary amounts, dates, locations and
// resource quantities out of DPR text with deterministic pattern families.
package entity_extractor

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config tunes extraction.
type Config struct {
	MinConfidence    float64 `json:"min_confidence"`
	ContextWindow    int     `json:"context_window"`
	BatchConcurrency int     `json:"batch_concurrency"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidence:    0.5,
		ContextWindow:    50,
		BatchConcurrency: 4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinConfidence <= 0 {
		c.MinConfidence = d.MinConfidence
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = d.ContextWindow
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = d.BatchConcurrency
	}
	return c
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// ExtractionResult holds the typed entity lists and their flattened union.
type ExtractionResult struct {
	Monetary         []dpr.MonetaryEntity   `json:"monetary"`
	Dates            []dpr.DateEntity       `json:"dates"`
	Locations        []dpr.LocationEntity   `json:"locations"`
	Resources        []dpr.ResourceEntity   `json:"resources"`
	Entities         []dpr.ExtractedEntity  `json:"entities"`
	Counts           map[dpr.EntityType]int `json:"counts"`
	TotalEntities    int                    `json:"total_entities"`
	TextLength       int                    `json:"text_length"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

// TotalCost returns the largest TOTAL_COST amount, or the largest amount of
// any sub-type when none is tagged as the total.
func (r *ExtractionResult) TotalCost() (float64, bool) {
	if r == nil || len(r.Monetary) == 0 {
		return 0, false
	}
	var total, largest float64
	for _, m := range r.Monetary {
		if m.Amount > largest {
			largest = m.Amount
		}
		if m.SubType == dpr.CostTotal && m.Amount > total {
			total = m.Amount
		}
	}
	if total > 0 {
		return total, true
	}
	return largest, largest > 0
}

// DateRange returns the project start and end. START_DATE and END_DATE
// entities win; otherwise the earliest and latest dates are used.
func (r *ExtractionResult) DateRange() (start, end time.Time, ok bool) {
	if r == nil || len(r.Dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	var earliest, latest, tagStart, tagEnd time.Time
	for _, d := range r.Dates {
		p := d.ParsedDate
		if earliest.IsZero() || p.Before(earliest) {
			earliest = p
		}
		if latest.IsZero() || p.After(latest) {
			latest = p
		}
		switch d.SubType {
		case dpr.DateStart:
			if tagStart.IsZero() || p.Before(tagStart) {
				tagStart = p
			}
		case dpr.DateEnd:
			if tagEnd.IsZero() || p.After(tagEnd) {
				tagEnd = p
			}
		}
	}
	start, end = earliest, latest
	if !tagStart.IsZero() {
		start = tagStart
	}
	if !tagEnd.IsZero() {
		end = tagEnd
	}
	return start, end, end.After(start)
}

// ---------------------------------------------------------------------------
// Extractor
// ---------------------------------------------------------------------------

// Extractor is stateless and safe for concurrent use.
type Extractor struct {
	cfg    Config
	logger logging.Logger
}

// New builds an Extractor. Zero config fields take the defaults.
func New(cfg Config, logger logging.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg.withDefaults(),
		logger: logging.OrNop(logger).Named("entity_extractor"),
	}
}

// Config returns the effective configuration.
func (e *Extractor) Config() Config { return e.cfg }

// Normalize returns the NFC form of text. Entity positions are byte offsets
// into this form.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Extract runs every pattern family over the NFC form of text.
func (e *Extractor) Extract(text string) *ExtractionResult {
	start := time.Now()
	t := Normalize(text)
	win := e.cfg.ContextWindow

	res := &ExtractionResult{
		Monetary:   keep(extractMonetary(t, win), e.cfg.MinConfidence, func(m dpr.MonetaryEntity) dpr.ExtractedEntity { return m.ExtractedEntity }),
		Dates:      keep(extractDates(t, win), e.cfg.MinConfidence, func(d dpr.DateEntity) dpr.ExtractedEntity { return d.ExtractedEntity }),
		Locations:  keep(extractLocations(t), e.cfg.MinConfidence, func(l dpr.LocationEntity) dpr.ExtractedEntity { return l.ExtractedEntity }),
		Resources:  keep(extractResources(t, win), e.cfg.MinConfidence, func(r dpr.ResourceEntity) dpr.ExtractedEntity { return r.ExtractedEntity }),
		Counts:     make(map[dpr.EntityType]int, len(dpr.AllEntityTypes)),
		TextLength: len(t),
	}

	flat := make([]dpr.ExtractedEntity, 0, len(res.Monetary)+len(res.Dates)+len(res.Locations)+len(res.Resources))
	for _, m := range res.Monetary {
		flat = append(flat, m.ExtractedEntity)
	}
	for _, d := range res.Dates {
		flat = append(flat, d.ExtractedEntity)
	}
	for _, l := range res.Locations {
		flat = append(flat, l.ExtractedEntity)
	}
	for _, r := range res.Resources {
		flat = append(flat, r.ExtractedEntity)
	}
	dpr.SortEntities(flat)
	res.Entities = dpr.DedupEntities(flat)
	for _, en := range res.Entities {
		res.Counts[en.Type]++
	}
	res.TotalEntities = len(res.Entities)
	res.ProcessingTimeMs = time.Since(start).Milliseconds()

	e.logger.Debug("extracted entities",
		logging.Int("entities", res.TotalEntities),
		logging.Int("text_length", res.TextLength),
		logging.Duration("elapsed", time.Since(start)))
	return res
}

// ExtractBatch extracts every text with bounded concurrency. Results keep the
// input order. A cancelled context stops scheduling and is returned.
func (e *Extractor) ExtractBatch(ctx context.Context, texts []string) ([]*ExtractionResult, error) {
	if len(texts) == 0 {
		return []*ExtractionResult{}, nil
	}

	results := make([]*ExtractionResult, len(texts))
	sem := make(chan struct{}, e.cfg.BatchConcurrency)
	var wg sync.WaitGroup

	cancelled := func() ([]*ExtractionResult, error) {
		wg.Wait()
		return results, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeExtractionFailed, "batch extraction cancelled")
	}
	for i, txt := range texts {
		if ctx.Err() != nil {
			return cancelled()
		}
		select {
		case <-ctx.Done():
			return cancelled()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(idx int, t string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = e.Extract(t)
		}(i, txt)
	}
	wg.Wait()
	return results, nil
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// match is a raw pattern hit before parsing.
type match struct {
	start, end int
	groups     []string
	pattern    int
}

// findAll runs the patterns of one family and suppresses any hit contained in
// an already accepted one. Longer hits at the same start are accepted first.
func findAll(text string, patterns []*regexp.Regexp) []match {
	var all []match
	for pi, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			m := match{start: loc[0], end: loc[1], pattern: pi}
			for g := 1; g*2 < len(loc); g++ {
				if loc[2*g] < 0 {
					m.groups = append(m.groups, "")
					continue
				}
				m.groups = append(m.groups, text[loc[2*g]:loc[2*g+1]])
			}
			all = append(all, m)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		if all[i].end != all[j].end {
			return all[i].end > all[j].end
		}
		return all[i].pattern < all[j].pattern
	})

	accepted := all[:0:0]
	for _, m := range all {
		contained := false
		for _, a := range accepted {
			if m.start >= a.start && m.end <= a.end {
				contained = true
				break
			}
		}
		if !contained {
			accepted = append(accepted, m)
		}
	}
	return accepted
}

// surrounding returns up to n runes either side of [start, end).
func surrounding(text string, start, end, n int) (before, after string) {
	b := start
	for i := 0; i < n && b > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:b])
		b -= size
	}
	a := end
	for i := 0; i < n && a < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[a:])
		a += size
	}
	return text[b:start], text[end:a]
}

// cue ties a context pattern to the sub-type it implies.
type cue struct {
	subType string
	re      *regexp.Regexp
}

// nearestCue picks the sub-type whose cue sits closest to the match,
// preferring the preceding context. Ties go to the earlier cue.
func nearestCue(cues []cue, before, after string) string {
	best, bestDist := dpr.SubTypeOther, -1
	for _, c := range cues {
		locs := c.re.FindAllStringIndex(before, -1)
		if len(locs) == 0 {
			continue
		}
		if d := len(before) - locs[len(locs)-1][1]; bestDist < 0 || d < bestDist {
			best, bestDist = c.subType, d
		}
	}
	if bestDist >= 0 {
		return best
	}
	for _, c := range cues {
		loc := c.re.FindStringIndex(after)
		if loc == nil {
			continue
		}
		if d := loc[0]; bestDist < 0 || d < bestDist {
			best, bestDist = c.subType, d
		}
	}
	return best
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// capConfidence bounds a family confidence to [0, 0.95].
func capConfidence(c float64) float64 { return dpr.Clamp(c, 0, 0.95) }

func keep[T any](in []T, threshold float64, base func(T) dpr.ExtractedEntity) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if base(v).Confidence >= threshold {
			out = append(out, v)
		}
	}
	return out
}

//Personal.AI order the ending
