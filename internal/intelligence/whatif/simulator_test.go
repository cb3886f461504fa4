package whatif

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/internal/testutil"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

type staticProvider map[dpr.RiskType]mitigation.Strategy

func (p staticProvider) BestFor(rt dpr.RiskType) (mitigation.Strategy, bool) {
	s, ok := p[rt]
	return s, ok
}

func defaultProvider() staticProvider {
	p := staticProvider{}
	for _, s := range mitigation.DefaultStrategies() {
		if cur, ok := p[s.RiskType]; !ok || s.Effectiveness > cur.Effectiveness {
			p[s.RiskType] = s
		}
	}
	return p
}

func baselineFeatures() dpr.ProjectFeatures {
	return dpr.ProjectFeatures{
		DurationMonths:          24,
		EstimatedCost:           5.4e7,
		TechnicalComplexity:     0.3,
		RegulatoryComplexity:    0.2,
		EnvironmentalComplexity: 0.2,
		ResourceAvailability:    0.7,
		FundingSecured:          0.8,
		SiteAccessibility:       0.6,
		TerrainDifficulty:       0.3,
		HistoricalSuccessRate:   0.75,
		SimilarProjectsCount:    4,
	}
}

func baselineRisks() []dpr.RiskFactor {
	return []dpr.RiskFactor{
		{ID: "r1", Type: dpr.RiskTimeline, Impact: dpr.ImpactMedium, Probability: 0.5, Description: "Monsoon delays"},
		{ID: "r2", Type: dpr.RiskRegulatory, Impact: dpr.ImpactHigh, Probability: 0.6, Description: "Land acquisition pending"},
	}
}

func newTestSimulator(provider mitigation.Provider, cfg Config) *Simulator {
	calc := probability.NewCalculator(probability.DefaultConfig(), nil)
	return NewSimulator(calc, NewMemoryStore(0, 0), provider, cfg, testutil.NewMockLogger())
}

func startSession(t *testing.T, s *Simulator) *SimulationSession {
	t.Helper()
	sess, err := s.StartSession(context.Background(), baselineFeatures(), baselineRisks())
	require.NoError(t, err)
	return sess
}

func TestStartSession(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	sess := startSession(t, s)

	assert.NotEmpty(t, sess.ID)
	assert.InDelta(t, 55.8, sess.Baseline.CompletionProbability, 1e-9)
	assert.Empty(t, sess.History)
	assert.Len(t, sess.BaselineRisks, 2)

	got, err := s.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.BaselineFeatures, got.BaselineFeatures)
}

func TestRunSimulation_IdentityScenario(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	sess := startSession(t, s)

	res, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{Name: "as-is"})
	require.NoError(t, err)
	assert.Equal(t, "as-is", res.Name)
	assert.Zero(t, res.ProbabilityDelta)
	assert.Zero(t, res.RiskDelta)
	assert.Zero(t, res.CostImpactPercent)
	assert.Zero(t, res.TimeImpactMonths)
	assert.Equal(t, 1.0, res.Parameters.TimelineMultiplier)
	assert.Empty(t, res.Mitigations)

	got, err := s.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, res.ID, got.History[0].ID)
}

func TestRunSimulation_ExplicitMitigation(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	sess := startSession(t, s)

	res, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{
		MitigatedRiskTypes:      []dpr.RiskType{dpr.RiskRegulatory},
		MitigationEffectiveness: 0.5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 64.8, res.CompletionProbability, 1e-9)
	assert.InDelta(t, 9.0, res.ProbabilityDelta, 1e-9)
	require.Len(t, res.Mitigations, 1)
	assert.Equal(t, AppliedMitigation{RiskID: "r2", RiskType: dpr.RiskRegulatory, Effectiveness: 0.5}, res.Mitigations[0])

	r2 := res.Result.Risks[1]
	assert.InDelta(t, 0.3, r2.Probability, 1e-9)
	assert.Equal(t, dpr.ImpactMedium, r2.Impact)
	assert.Equal(t, dpr.ImpactMedium, res.Result.Risks[0].Impact, "untargeted risk is untouched")

	got, err := s.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, dpr.ImpactHigh, got.BaselineRisks[1].Impact, "baseline is never mutated")
}

func TestRunSimulation_StrategyMitigation(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(defaultProvider(), DefaultConfig())
	sess := startSession(t, s)

	res, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{
		MitigatedRiskTypes: []dpr.RiskType{dpr.RiskRegulatory},
	})
	require.NoError(t, err)

	require.Len(t, res.Mitigations, 1)
	m := res.Mitigations[0]
	assert.Equal(t, "mit-regulatory-cell", m.StrategyID)
	assert.Equal(t, 0.55, m.Effectiveness)
	assert.InDelta(t, 1.0, res.CostImpactPercent, 1e-9)
	assert.InDelta(t, 65.1, res.CompletionProbability, 1e-9)
	assert.Equal(t, "Dedicated land and approvals cell", res.Result.Risks[1].Mitigation)
}

func TestRunSimulation_FallbackEffectiveness(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(staticProvider{}, DefaultConfig())
	sess := startSession(t, s)

	res, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{
		MitigatedRiskTypes: []dpr.RiskType{dpr.RiskTimeline},
	})
	require.NoError(t, err)
	require.Len(t, res.Mitigations, 1)
	assert.Equal(t, 0.5, res.Mitigations[0].Effectiveness)
	assert.Empty(t, res.Mitigations[0].StrategyID)
	assert.Equal(t, dpr.ImpactLow, res.Result.Risks[0].Impact)
}

func TestRunSimulation_RiskTypeCaseInsensitive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var full ScenarioParameters
	for _, p := range NamedScenarios() {
		if p.Name == ScenarioFullRiskMitigation {
			full = p
		}
	}
	require.Equal(t, ScenarioFullRiskMitigation, full.Name)

	s := newTestSimulator(defaultProvider(), DefaultConfig())
	canonical := startSession(t, s)
	lower := baselineRisks()
	lower[0].Type = "timeline"
	lower[1].Type = "Regulatory"
	mixed, err := s.StartSession(ctx, baselineFeatures(), lower)
	require.NoError(t, err)
	assert.Equal(t, dpr.RiskTimeline, mixed.BaselineRisks[0].Type)
	assert.Equal(t, canonical.Baseline.CompletionProbability, mixed.Baseline.CompletionProbability)

	want, err := s.RunSimulation(ctx, canonical.ID, full)
	require.NoError(t, err)
	got, err := s.RunSimulation(ctx, mixed.ID, full)
	require.NoError(t, err)
	assert.Len(t, got.Mitigations, 2)
	assert.Greater(t, got.ProbabilityDelta, 0.0)
	assert.Equal(t, want.ProbabilityDelta, got.ProbabilityDelta)

	targeted, err := s.RunSimulation(ctx, canonical.ID, ScenarioParameters{
		MitigatedRiskTypes: []dpr.RiskType{"regulatory"},
	})
	require.NoError(t, err)
	require.Len(t, targeted.Mitigations, 1)
	assert.Equal(t, "mit-regulatory-cell", targeted.Mitigations[0].StrategyID)
}

func TestRunSimulation_Impacts(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	sess := startSession(t, s)

	res, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{
		TimelineMultiplier: 1.5,
		ResourceMultiplier: 1.2,
		CostMultiplier:     1.1,
	})
	require.NoError(t, err)

	assert.InDelta(t, 20.0, res.CostImpactPercent, 1e-9)
	assert.InDelta(t, 12.0, res.TimeImpactMonths, 1e-9)
	assert.InDelta(t, 36.0, res.Result.Features.DurationMonths, 1e-9)

	want := 0.5*res.CompletionProbability/100 + 0.3*(1-res.Result.RiskAnalysis.OverallRisk) + 0.2*(1-20.0/50)
	assert.InDelta(t, want, res.FeasibilityScore, 0.006)
	assert.Equal(t, RatingFor(res.FeasibilityScore), res.Feasibility)
	assert.InDelta(t, res.CompletionProbability-sess.Baseline.CompletionProbability, res.ProbabilityDelta, 0.011)
}

func TestRunComprehensiveAnalysis(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(defaultProvider(), DefaultConfig())
	sess := startSession(t, s)

	out, err := s.RunComprehensiveAnalysis(context.Background(), sess.ID)
	require.NoError(t, err)

	require.Len(t, out.Scenarios, 6)
	names := make([]string, 0, 6)
	for _, r := range out.Scenarios {
		names = append(names, r.Name)
		assert.GreaterOrEqual(t, out.Best.CompletionProbability, r.CompletionProbability)
		assert.LessOrEqual(t, out.Worst.CompletionProbability, r.CompletionProbability)
	}
	assert.Equal(t, []string{
		ScenarioOptimistic, ScenarioPessimistic, ScenarioAcceleratedTimeline,
		ScenarioResourceConstrained, ScenarioFullRiskMitigation, ScenarioImprovedAccess,
	}, names)

	assert.Equal(t, BaselineName, out.Baseline.Name)
	assert.InDelta(t, 55.8, out.Baseline.CompletionProbability, 1e-9)
	assert.Equal(t, ScenarioFullRiskMitigation, out.Best.Name)
	assert.InDelta(t, 69.1, out.Best.CompletionProbability, 1e-9)
	assert.Equal(t, ScenarioPessimistic, out.Worst.Name)

	got, err := s.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 6)
}

func TestRunComprehensiveAnalysis_NoRisksBaselineWinsTies(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(defaultProvider(), DefaultConfig())
	sess, err := s.StartSession(context.Background(), baselineFeatures(), nil)
	require.NoError(t, err)

	out, err := s.RunComprehensiveAnalysis(context.Background(), sess.ID)
	require.NoError(t, err)
	for _, r := range out.Scenarios {
		if r.Name == ScenarioFullRiskMitigation {
			assert.Equal(t, out.Baseline.CompletionProbability, r.CompletionProbability)
		}
	}
	assert.NotEqual(t, ScenarioFullRiskMitigation, out.Best.Name)
}

func TestHistoryCap(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, Config{MaxHistory: 3})
	sess := startSession(t, s)

	for i := 0; i < 5; i++ {
		_, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{Name: fmt.Sprintf("run-%d", i)})
		require.NoError(t, err)
	}
	got, err := s.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 3)
	assert.Equal(t, "run-2", got.History[0].Name)
	assert.Equal(t, "run-4", got.History[2].Name)
}

func TestUnknownSession(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	ctx := context.Background()

	_, err := s.RunSimulation(ctx, "missing", ScenarioParameters{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))

	_, err = s.RunComprehensiveAnalysis(ctx, "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))

	_, err = s.GetSession(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrSessionNotFound))

	err = s.CloseSession(ctx, "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))
}

func TestCloseSession(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	sess := startSession(t, s)

	require.NoError(t, s.CloseSession(context.Background(), sess.ID))
	_, err := s.GetSession(context.Background(), sess.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))
}

// closingStore closes the session right after a run has read it.
type closingStore struct {
	*MemoryStore
	onGet func(id string)
}

func (c *closingStore) Get(ctx context.Context, id string) (*SimulationSession, error) {
	sess, err := c.MemoryStore.Get(ctx, id)
	if err == nil && c.onGet != nil {
		hook := c.onGet
		c.onGet = nil
		hook(id)
	}
	return sess, err
}

func TestCloseSession_DuringRunIsNotUndone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(s *Simulator, id string) error
	}{
		{"run simulation", func(s *Simulator, id string) error {
			_, err := s.RunSimulation(ctx, id, ScenarioParameters{Name: "slower", TimelineMultiplier: 1.2})
			return err
		}},
		{"comprehensive analysis", func(s *Simulator, id string) error {
			_, err := s.RunComprehensiveAnalysis(ctx, id)
			return err
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &closingStore{MemoryStore: NewMemoryStore(0, 0)}
			s := NewSimulator(probability.NewCalculator(probability.DefaultConfig(), nil), store, nil, DefaultConfig(), testutil.NewMockLogger())
			sess := startSession(t, s)

			var closeErr error
			store.onGet = func(id string) { closeErr = s.CloseSession(ctx, id) }

			err := tt.run(s, sess.ID)
			require.NoError(t, closeErr)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))

			_, err = s.GetSession(ctx, sess.ID)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))
			assert.Zero(t, store.Len())
		})
	}
}

func TestRunSimulation_Concurrent(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(defaultProvider(), DefaultConfig())
	sess := startSession(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.RunSimulation(context.Background(), sess.ID, ScenarioParameters{TimelineMultiplier: 1 + float64(i)/100})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 20)
}

func TestRunSimulation_CancelledContext(t *testing.T) {
	t.Parallel()
	s := newTestSimulator(nil, DefaultConfig())
	sess := startSession(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.RunSimulation(ctx, sess.ID, ScenarioParameters{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSimulationFailed))
}

func TestScenarioParameters_Resolved(t *testing.T) {
	t.Parallel()
	p := ScenarioParameters{ResourceMultiplier: 1.2, CostMultiplier: -1, MitigationEffectiveness: 3}.Resolved()
	assert.Equal(t, 1.0, p.TimelineMultiplier)
	assert.Equal(t, 1.2, p.ResourceMultiplier)
	assert.Equal(t, 1.0, p.ComplexityMultiplier)
	assert.Equal(t, 1.0, p.AccessibilityMultiplier)
	assert.Equal(t, 0.0, p.CostMultiplier)
	assert.Equal(t, 1.0, p.MitigationEffectiveness)
}

func TestApplyFeatures_Clamps(t *testing.T) {
	t.Parallel()
	f := ApplyFeatures(baselineFeatures(), ScenarioParameters{AccessibilityMultiplier: 2, ComplexityMultiplier: 0.5})
	assert.Equal(t, 1.0, f.SiteAccessibility)
	assert.InDelta(t, 0.15, f.TechnicalComplexity, 1e-9)
	assert.InDelta(t, 0.1, f.RegulatoryComplexity, 1e-9)
	assert.Equal(t, 24.0, f.DurationMonths)
}

func TestRatingFor(t *testing.T) {
	t.Parallel()
	cases := []struct {
		score float64
		want  FeasibilityRating
	}{
		{0.9, FeasibilityExcellent},
		{0.75, FeasibilityExcellent},
		{0.6, FeasibilityGood},
		{0.45, FeasibilityFair},
		{0.44, FeasibilityPoor},
		{0, FeasibilityPoor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RatingFor(tc.score), "score %v", tc.score)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("copies on save and get", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryStore(10, time.Hour)
		sess := &SimulationSession{ID: "a", BaselineRisks: baselineRisks()}
		require.NoError(t, m.Save(ctx, sess))
		sess.BaselineRisks[0].Probability = 0.99

		got, err := m.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 0.5, got.BaselineRisks[0].Probability)
		got.History = append(got.History, SimulationResult{ID: "x"})

		again, err := m.Get(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, again.History)
	})

	t.Run("evicts at capacity", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryStore(2, time.Hour)
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, m.Save(ctx, &SimulationSession{ID: id}))
		}
		assert.Equal(t, 2, m.Len())
		_, err := m.Get(ctx, "a")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))
	})

	t.Run("expires after ttl", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryStore(10, 20*time.Millisecond)
		require.NoError(t, m.Save(ctx, &SimulationSession{ID: "a"}))
		time.Sleep(60 * time.Millisecond)
		_, err := m.Get(ctx, "a")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))
	})

	t.Run("update refuses a deleted session", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryStore(10, time.Hour)
		require.NoError(t, m.Save(ctx, &SimulationSession{ID: "a"}))
		require.NoError(t, m.Update(ctx, &SimulationSession{ID: "a", History: []SimulationResult{{ID: "r1"}}}))

		got, err := m.Get(ctx, "a")
		require.NoError(t, err)
		assert.Len(t, got.History, 1)

		require.NoError(t, m.Delete(ctx, "a"))
		err = m.Update(ctx, got)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionNotFound))
		assert.Zero(t, m.Len())
	})

	t.Run("rejects empty id", func(t *testing.T) {
		t.Parallel()
		err := NewMemoryStore(0, 0).Save(ctx, &SimulationSession{})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSessionStoreFailed))
	})
}

//Personal.AI order the ending
