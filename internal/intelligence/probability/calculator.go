// Package probability estimates how likely a DPR project is to complete on
// plan, analyses its risk profile and suggests improvements. Every function
// here is pure and deterministic.
package probability

import (
	"math"
	"time"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/history"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config bounds the probability calculus.
type Config struct {
	MaxRiskAdjustment  float64 `json:"max_risk_adjustment"`
	MinProbability     float64 `json:"min_probability"`
	MaxProbability     float64 `json:"max_probability"`
	MaxRecommendations int     `json:"max_recommendations"`
	MaxImprovement     float64 `json:"max_improvement"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxRiskAdjustment:  0.4,
		MinProbability:     0.05,
		MaxProbability:     0.95,
		MaxRecommendations: 8,
		MaxImprovement:     25,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRiskAdjustment <= 0 {
		c.MaxRiskAdjustment = d.MaxRiskAdjustment
	}
	if c.MinProbability <= 0 {
		c.MinProbability = d.MinProbability
	}
	if c.MaxProbability <= 0 || c.MaxProbability > 1 {
		c.MaxProbability = d.MaxProbability
	}
	if c.MinProbability > c.MaxProbability {
		c.MinProbability, c.MaxProbability = d.MinProbability, d.MaxProbability
	}
	if c.MaxRecommendations <= 0 {
		c.MaxRecommendations = d.MaxRecommendations
	}
	if c.MaxImprovement <= 0 {
		c.MaxImprovement = d.MaxImprovement
	}
	return c
}

// Sub-score weights. The risk analyzer reuses them for category risks.
const (
	weightTimeline   = 0.25
	weightResource   = 0.20
	weightComplexity = 0.25
	weightLocation   = 0.15
	weightHistorical = 0.15
)

// largeProjectCost marks projects above 100 crore.
const largeProjectCost = 100 * dpr.Crore

// impactWeight is the risk adjustment per unit of probability.
func impactWeight(l dpr.ImpactLevel) float64 {
	switch l.Normalize() {
	case dpr.ImpactLow:
		return 0.05
	case dpr.ImpactHigh:
		return 0.20
	default:
		return 0.10
	}
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// SubScores are the five 0–1 components of the base score.
type SubScores struct {
	Timeline   float64 `json:"timeline"`
	Resource   float64 `json:"resource"`
	Complexity float64 `json:"complexity"`
	Location   float64 `json:"location"`
	Historical float64 `json:"historical"`
}

// Weighted returns the weighted base score.
func (s SubScores) Weighted() float64 {
	return weightTimeline*s.Timeline + weightResource*s.Resource + weightComplexity*s.Complexity +
		weightLocation*s.Location + weightHistorical*s.Historical
}

// ProbabilityCalculationResult is the output of CalculateCompletionProbability.
type ProbabilityCalculationResult struct {
	// CompletionProbability is a percentage in [5,95].
	CompletionProbability float64             `json:"completion_probability"`
	BaseScore             float64             `json:"base_score"`
	RiskAdjustment        float64             `json:"risk_adjustment"`
	SubScores             SubScores           `json:"sub_scores"`
	RiskAnalysis          *RiskAnalysis       `json:"risk_analysis"`
	Classification        RiskClassification  `json:"classification"`
	Recommendations       []Recommendation    `json:"recommendations"`
	PotentialImprovement  float64             `json:"potential_improvement"`
	Features              dpr.ProjectFeatures `json:"features"`
	Risks                 []dpr.RiskFactor    `json:"risks"`
	ProcessingTimeMs      int64               `json:"processing_time_ms"`
}

// ---------------------------------------------------------------------------
// Calculator
// ---------------------------------------------------------------------------

// Calculator is stateless and safe for concurrent use.
type Calculator struct {
	cfg        Config
	analyzer   *RiskAnalyzer
	classifier *RiskClassifier
	logger     logging.Logger
}

// NewCalculator builds a Calculator with its risk analyzer and classifier.
func NewCalculator(cfg Config, logger logging.Logger) *Calculator {
	return &Calculator{
		cfg:        cfg.withDefaults(),
		analyzer:   NewRiskAnalyzer(),
		classifier: NewRiskClassifier(),
		logger:     logging.OrNop(logger).Named("probability"),
	}
}

// Config returns the bounds in effect.
func (c *Calculator) Config() Config { return c.cfg }

// ComputeSubScores derives the five sub-scores from clamped features.
func ComputeSubScores(f dpr.ProjectFeatures) SubScores {
	f = f.Normalized()

	timeline := 0.8
	if f.DurationMonths > 36 {
		timeline -= math.Min(0.01*(f.DurationMonths-36), 0.3)
	}
	if f.DurationMonths > 0 && f.DurationMonths < 6 {
		timeline -= 0.1
	}
	timeline -= 0.1 * f.RegulatoryComplexity

	resource := 0.7 + 0.4*(f.ResourceAvailability-0.5) + 0.2*(f.FundingSecured-0.5)
	if f.EstimatedCost > largeProjectCost {
		resource -= 0.1
	}

	complexity := 0.8 - 0.3*f.TechnicalComplexity - 0.2*f.RegulatoryComplexity - 0.1*f.EnvironmentalComplexity

	location := 0.7 + 0.5*(f.SiteAccessibility-0.5) - 0.2*f.TerrainDifficulty

	b := math.Min(float64(f.SimilarProjectsCount), 10) / 10
	historical := 0.6*(1-b) + f.HistoricalSuccessRate*b

	return SubScores{
		Timeline:   dpr.Clamp01(timeline),
		Resource:   dpr.Clamp01(resource),
		Complexity: dpr.Clamp01(complexity),
		Location:   dpr.Clamp01(location),
		Historical: dpr.Clamp01(historical),
	}
}

// RiskAdjustment sums impact-weighted probabilities, capped at limit.
func RiskAdjustment(risks []dpr.RiskFactor, limit float64) float64 {
	sum := 0.0
	for _, r := range risks {
		sum += impactWeight(r.Impact) * dpr.Clamp01(r.Probability)
	}
	return math.Min(sum, limit)
}

// CalculateCompletionProbability scores the project. Adding risk factors
// never raises the probability.
func (c *Calculator) CalculateCompletionProbability(features dpr.ProjectFeatures, risks []dpr.RiskFactor) *ProbabilityCalculationResult {
	start := time.Now()
	f := features.Normalized()
	risks = dpr.NormalizeRisks(risks)
	sub := ComputeSubScores(f)
	base := sub.Weighted()
	adj := RiskAdjustment(risks, c.cfg.MaxRiskAdjustment)
	p := dpr.Clamp(base-adj, c.cfg.MinProbability, c.cfg.MaxProbability) * 100

	analysis := c.analyzer.Analyze(f, sub, risks)
	recs := GenerateRecommendations(f, sub, risks, c.cfg.MaxRecommendations)

	res := &ProbabilityCalculationResult{
		CompletionProbability: dpr.Round2(p),
		BaseScore:             dpr.Round2(base * 100),
		RiskAdjustment:        dpr.Round2(adj * 100),
		SubScores:             sub,
		RiskAnalysis:          analysis,
		Classification:        c.classifier.Classify(sub, f, risks),
		Recommendations:       recs,
		PotentialImprovement:  PotentialImprovement(recs, c.cfg.MaxImprovement),
		Features:              f,
		Risks:                 risks,
		ProcessingTimeMs:      time.Since(start).Milliseconds(),
	}

	c.logger.Debug("completion probability calculated",
		logging.Float64("probability", res.CompletionProbability),
		logging.Float64("risk_score", analysis.RiskScore),
		logging.String("risk_level", string(analysis.Level)),
		logging.Int("risk_factors", len(risks)),
		logging.Duration("elapsed", time.Since(start)))
	return res
}

// PrecedentFromHistory returns the success rate and count of comparable past
// projects. A project succeeded when it completed within the overrun
// tolerance of its planned duration.
func PrecedentFromHistory(projects []history.HistoricalProject) (float64, int) {
	if len(projects) == 0 {
		return 0, 0
	}
	ok := 0
	for _, p := range projects {
		if p.Succeeded() {
			ok++
		}
	}
	return float64(ok) / float64(len(projects)), len(projects)
}

//Personal.AI order the ending
