// Package whatif re-runs the probability calculus on perturbed copies of a
// baseline project and keeps the results in a session.
package whatif

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config tunes the simulator.
type Config struct {
	MaxHistory               int     `mapstructure:"max_history"`
	DefaultMitigation        float64 `mapstructure:"default_mitigation"`
	DowngradeEffectiveness   float64 `mapstructure:"downgrade_effectiveness"`
	ResourceCostWeight       float64 `mapstructure:"resource_cost_weight"`
	FeasibilityCostReference float64 `mapstructure:"feasibility_cost_reference"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxHistory:               50,
		DefaultMitigation:        0.5,
		DowngradeEffectiveness:   0.5,
		ResourceCostWeight:       50,
		FeasibilityCostReference: 50,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxHistory <= 0 {
		c.MaxHistory = d.MaxHistory
	}
	if c.DefaultMitigation <= 0 || c.DefaultMitigation > 1 {
		c.DefaultMitigation = d.DefaultMitigation
	}
	if c.DowngradeEffectiveness <= 0 || c.DowngradeEffectiveness > 1 {
		c.DowngradeEffectiveness = d.DowngradeEffectiveness
	}
	if c.ResourceCostWeight <= 0 {
		c.ResourceCostWeight = d.ResourceCostWeight
	}
	if c.FeasibilityCostReference <= 0 {
		c.FeasibilityCostReference = d.FeasibilityCostReference
	}
	return c
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// ScenarioParameters perturb the baseline. Zero multipliers mean 1.
type ScenarioParameters struct {
	Name                    string         `json:"name,omitempty"`
	TimelineMultiplier      float64        `json:"timeline_multiplier,omitempty"`
	ResourceMultiplier      float64        `json:"resource_multiplier,omitempty"`
	ComplexityMultiplier    float64        `json:"complexity_multiplier,omitempty"`
	AccessibilityMultiplier float64        `json:"accessibility_multiplier,omitempty"`
	CostMultiplier          float64        `json:"cost_multiplier,omitempty"`
	MitigatedRiskTypes      []dpr.RiskType `json:"mitigated_risk_types,omitempty"`
	MitigationEffectiveness float64        `json:"mitigation_effectiveness,omitempty"`
}

func one(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return math.Max(v, 0)
}

// Resolved returns p with every zero multiplier replaced by 1 and the
// effectiveness clamped to [0,1].
func (p ScenarioParameters) Resolved() ScenarioParameters {
	p.TimelineMultiplier = one(p.TimelineMultiplier)
	p.ResourceMultiplier = one(p.ResourceMultiplier)
	p.ComplexityMultiplier = one(p.ComplexityMultiplier)
	p.AccessibilityMultiplier = one(p.AccessibilityMultiplier)
	p.CostMultiplier = one(p.CostMultiplier)
	p.MitigationEffectiveness = dpr.Clamp01(p.MitigationEffectiveness)
	return p
}

// FeasibilityRating grades a scenario.
type FeasibilityRating string

const (
	FeasibilityExcellent FeasibilityRating = "EXCELLENT"
	FeasibilityGood      FeasibilityRating = "GOOD"
	FeasibilityFair      FeasibilityRating = "FAIR"
	FeasibilityPoor      FeasibilityRating = "POOR"
)

// RatingFor grades a 0–1 feasibility score.
func RatingFor(score float64) FeasibilityRating {
	switch {
	case score >= 0.75:
		return FeasibilityExcellent
	case score >= 0.6:
		return FeasibilityGood
	case score >= 0.45:
		return FeasibilityFair
	default:
		return FeasibilityPoor
	}
}

// AppliedMitigation records how one risk factor was mitigated.
type AppliedMitigation struct {
	RiskID        string       `json:"risk_id"`
	RiskType      dpr.RiskType `json:"risk_type"`
	StrategyID    string       `json:"strategy_id,omitempty"`
	Effectiveness float64      `json:"effectiveness"`
	CostPercent   float64      `json:"cost_percent"`
}

// SimulationResult is one scenario run.
type SimulationResult struct {
	ID                    string                                    `json:"id"`
	Name                  string                                    `json:"name,omitempty"`
	Parameters            ScenarioParameters                        `json:"parameters"`
	CompletionProbability float64                                   `json:"completion_probability"`
	RiskScore             float64                                   `json:"risk_score"`
	ProbabilityDelta      float64                                   `json:"probability_delta"`
	RiskDelta             float64                                   `json:"risk_delta"`
	CostImpactPercent     float64                                   `json:"cost_impact_percent"`
	TimeImpactMonths      float64                                   `json:"time_impact_months"`
	FeasibilityScore      float64                                   `json:"feasibility_score"`
	Feasibility           FeasibilityRating                         `json:"feasibility"`
	Mitigations           []AppliedMitigation                       `json:"mitigations"`
	Result                *probability.ProbabilityCalculationResult `json:"result"`
	CreatedAt             time.Time                                 `json:"created_at"`
}

// ScenarioSummary names a scenario and its headline numbers.
type ScenarioSummary struct {
	Name                  string            `json:"name"`
	CompletionProbability float64           `json:"completion_probability"`
	RiskScore             float64           `json:"risk_score"`
	Feasibility           FeasibilityRating `json:"feasibility,omitempty"`
}

// ComprehensiveAnalysis compares the baseline with the named scenarios.
type ComprehensiveAnalysis struct {
	SessionID string             `json:"session_id"`
	Baseline  ScenarioSummary    `json:"baseline"`
	Scenarios []SimulationResult `json:"scenarios"`
	Best      ScenarioSummary    `json:"best"`
	Worst     ScenarioSummary    `json:"worst"`
}

// BaselineName labels the unperturbed project in comparisons.
const BaselineName = "baseline"

// ---------------------------------------------------------------------------
// Simulator
// ---------------------------------------------------------------------------

// Simulator runs scenarios against stored sessions. mu serialises the runs'
// read-modify-write cycles. A close racing a run wins: the run writes back
// through SessionStore.Update, which refuses a deleted session.
type Simulator struct {
	calc       *probability.Calculator
	store      SessionStore
	strategies mitigation.Provider
	cfg        Config
	logger     logging.Logger
	now        func() time.Time
	newID      func() string

	mu sync.Mutex
}

// NewSimulator wires a simulator. A nil store selects a default MemoryStore.
// strategies may be nil, in which case mitigation uses the configured default
// effectiveness.
func NewSimulator(calc *probability.Calculator, store SessionStore, strategies mitigation.Provider, cfg Config, logger logging.Logger) *Simulator {
	if calc == nil {
		calc = probability.NewCalculator(probability.DefaultConfig(), logger)
	}
	if store == nil {
		store = NewMemoryStore(0, 0)
	}
	return &Simulator{
		calc:       calc,
		store:      store,
		strategies: strategies,
		cfg:        cfg.withDefaults(),
		logger:     logging.OrNop(logger),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// StartSession computes the baseline and stores a new session.
func (s *Simulator) StartSession(ctx context.Context, features dpr.ProjectFeatures, risks []dpr.RiskFactor) (*SimulationSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSimulationFailed, "start session")
	}
	f := features.Normalized()
	risks = dpr.NormalizeRisks(risks)
	now := s.now()
	sess := &SimulationSession{
		ID:               s.newID(),
		BaselineFeatures: f,
		BaselineRisks:    risks,
		Baseline:         s.calc.CalculateCompletionProbability(f, risks),
		History:          []SimulationResult{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSessionStoreFailed, "save session")
	}
	s.logger.Info("simulation session started",
		logging.String("session_id", sess.ID),
		logging.Float64("baseline_probability", sess.Baseline.CompletionProbability),
		logging.Int("risk_factors", len(risks)))
	return sess, nil
}

// GetSession returns the session or SIM_001.
func (s *Simulator) GetSession(ctx context.Context, id string) (*SimulationSession, error) {
	return s.store.Get(ctx, id)
}

// CloseSession deletes the session or returns SIM_001.
func (s *Simulator) CloseSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("simulation session closed", logging.String("session_id", id))
	return nil
}

// RunSimulation applies params to the session baseline, records the result
// in the session history and returns it.
func (s *Simulator) RunSimulation(ctx context.Context, sessionID string, params ScenarioParameters) (*SimulationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSimulationFailed, "run simulation")
	}
	res := s.simulate(sess, params)
	sess.appendHistory(res, s.cfg.MaxHistory)
	sess.UpdatedAt = s.now()
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, updateErr(err)
	}

	s.logger.Debug("scenario simulated",
		logging.String("session_id", sessionID),
		logging.String("scenario", res.Name),
		logging.Float64("probability_delta", res.ProbabilityDelta),
		logging.String("feasibility", string(res.Feasibility)))
	return &res, nil
}

// RunComprehensiveAnalysis runs every named scenario, records them in the
// session and reports the best and worst by completion probability. The
// baseline takes part in the comparison and wins ties, then scenarios in
// their fixed order.
func (s *Simulator) RunComprehensiveAnalysis(ctx context.Context, sessionID string) (*ComprehensiveAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	base := ScenarioSummary{
		Name:                  BaselineName,
		CompletionProbability: sess.Baseline.CompletionProbability,
		RiskScore:             sess.Baseline.RiskAnalysis.RiskScore,
		Feasibility:           RatingFor(s.feasibility(sess.Baseline, 0)),
	}
	out := &ComprehensiveAnalysis{
		SessionID: sessionID,
		Baseline:  base,
		Scenarios: make([]SimulationResult, 0, len(NamedScenarios())),
		Best:      base,
		Worst:     base,
	}
	for _, p := range NamedScenarios() {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeSimulationFailed, "comprehensive analysis")
		}
		res := s.simulate(sess, p)
		out.Scenarios = append(out.Scenarios, res)
		sess.appendHistory(res, s.cfg.MaxHistory)

		sum := ScenarioSummary{Name: res.Name, CompletionProbability: res.CompletionProbability, RiskScore: res.RiskScore, Feasibility: res.Feasibility}
		if sum.CompletionProbability > out.Best.CompletionProbability {
			out.Best = sum
		}
		if sum.CompletionProbability < out.Worst.CompletionProbability {
			out.Worst = sum
		}
	}
	sess.UpdatedAt = s.now()
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, updateErr(err)
	}

	s.logger.Info("comprehensive analysis completed",
		logging.String("session_id", sessionID),
		logging.String("best", out.Best.Name),
		logging.String("worst", out.Worst.Name))
	return out, nil
}

// updateErr keeps SIM_001 for a session closed mid-run.
func updateErr(err error) error {
	if apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound) {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeSessionStoreFailed, "save session")
}

// ---------------------------------------------------------------------------
// Scenario application
// ---------------------------------------------------------------------------

// ApplyFeatures returns the baseline scaled by the resolved parameters.
func ApplyFeatures(f dpr.ProjectFeatures, p ScenarioParameters) dpr.ProjectFeatures {
	p = p.Resolved()
	f.DurationMonths *= p.TimelineMultiplier
	f.ResourceAvailability *= p.ResourceMultiplier
	f.TechnicalComplexity *= p.ComplexityMultiplier
	f.RegulatoryComplexity *= p.ComplexityMultiplier
	f.EnvironmentalComplexity *= p.ComplexityMultiplier
	f.SiteAccessibility *= p.AccessibilityMultiplier
	f.EstimatedCost *= p.CostMultiplier
	return f.Normalized()
}

// applyRisks mitigates every factor whose type is targeted. An explicit
// effectiveness wins over the best registry strategy, which wins over the
// configured default.
func (s *Simulator) applyRisks(risks []dpr.RiskFactor, p ScenarioParameters) ([]dpr.RiskFactor, []AppliedMitigation) {
	out := dpr.CloneRisks(risks)
	applied := []AppliedMitigation{}
	if len(p.MitigatedRiskTypes) == 0 {
		return out, applied
	}
	targeted := make(map[dpr.RiskType]bool, len(p.MitigatedRiskTypes))
	for _, t := range p.MitigatedRiskTypes {
		targeted[t.Normalize()] = true
	}

	for i := range out {
		r := &out[i]
		r.Type = r.Type.Normalize()
		if !targeted[r.Type] {
			continue
		}
		m := AppliedMitigation{RiskID: r.ID, RiskType: r.Type, Effectiveness: s.cfg.DefaultMitigation}
		if s.strategies != nil {
			if st, ok := s.strategies.BestFor(r.Type); ok {
				m.StrategyID = st.ID
				m.Effectiveness = st.Effectiveness
				m.CostPercent = st.CostPercent
				if r.Mitigation == "" {
					r.Mitigation = st.Title
				}
			}
		}
		if p.MitigationEffectiveness > 0 {
			m.Effectiveness = p.MitigationEffectiveness
		}
		r.Probability = dpr.Clamp01(r.Probability) * (1 - m.Effectiveness)
		if m.Effectiveness >= s.cfg.DowngradeEffectiveness {
			r.Impact = r.Impact.Normalize().Downgrade()
		}
		applied = append(applied, m)
	}
	return out, applied
}

func (s *Simulator) feasibility(r *probability.ProbabilityCalculationResult, costImpact float64) float64 {
	p := r.CompletionProbability / 100
	risk := r.RiskAnalysis.OverallRisk
	cost := math.Min(math.Abs(costImpact)/s.cfg.FeasibilityCostReference, 1)
	return dpr.Clamp01(0.5*p + 0.3*(1-risk) + 0.2*(1-cost))
}

func (s *Simulator) simulate(sess *SimulationSession, params ScenarioParameters) SimulationResult {
	p := params.Resolved()
	f := ApplyFeatures(sess.BaselineFeatures, p)
	risks, applied := s.applyRisks(sess.BaselineRisks, p)
	calc := s.calc.CalculateCompletionProbability(f, risks)

	cost := (p.CostMultiplier-1)*100 + math.Max(p.ResourceMultiplier-1, 0)*s.cfg.ResourceCostWeight
	for _, m := range applied {
		cost += m.CostPercent
	}
	feas := s.feasibility(calc, cost)

	return SimulationResult{
		ID:                    s.newID(),
		Name:                  p.Name,
		Parameters:            p,
		CompletionProbability: calc.CompletionProbability,
		RiskScore:             calc.RiskAnalysis.RiskScore,
		ProbabilityDelta:      dpr.Round2(calc.CompletionProbability - sess.Baseline.CompletionProbability),
		RiskDelta:             dpr.Round2(calc.RiskAnalysis.RiskScore - sess.Baseline.RiskAnalysis.RiskScore),
		CostImpactPercent:     dpr.Round2(cost),
		TimeImpactMonths:      dpr.Round2(sess.BaselineFeatures.DurationMonths * (p.TimelineMultiplier - 1)),
		FeasibilityScore:      dpr.Round2(feas),
		Feasibility:           RatingFor(feas),
		Mitigations:           applied,
		Result:                calc,
		CreatedAt:             s.now(),
	}
}

//Personal.AI order the ending
