// Package simulation exposes what-if sessions to the transports. It adds
// metrics, named scenario lookup and sessions opened directly from text on
// top of the simulator.
package simulation

import (
	"context"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ProfileBuilder derives a baseline from a document.
type ProfileBuilder interface {
	BuildProfile(ctx context.Context, text string, structured dpr.StructuredFields, risks []dpr.RiskFactor) (dpr.ProjectFeatures, []dpr.RiskFactor)
}

// StartRequest opens a session. Either Features or Text must be given; Text
// wins when both are set.
type StartRequest struct {
	Features   *dpr.ProjectFeatures `json:"features,omitempty"`
	Text       string               `json:"text,omitempty"`
	Structured dpr.StructuredFields `json:"structured,omitempty"`
	Risks      []dpr.RiskFactor     `json:"risk_factors,omitempty"`
}

// Service wraps a whatif.Simulator.
type Service struct {
	sim      *whatif.Simulator
	profiles ProfileBuilder
	metrics  *prometheus.PipelineMetrics
	logger   logging.Logger
}

// NewService returns a service. profiles and metrics may be nil; without
// profiles, Start rejects text requests.
func NewService(sim *whatif.Simulator, profiles ProfileBuilder, metrics *prometheus.PipelineMetrics, logger logging.Logger) *Service {
	logger = logging.OrNop(logger)
	if sim == nil {
		sim = whatif.NewSimulator(nil, nil, nil, whatif.DefaultConfig(), logger)
	}
	return &Service{sim: sim, profiles: profiles, metrics: metrics, logger: logger.Named("simulation")}
}

// StartSession opens a session on explicit features.
func (s *Service) StartSession(ctx context.Context, features dpr.ProjectFeatures, risks []dpr.RiskFactor) (*whatif.SimulationSession, error) {
	sess, err := s.sim.StartSession(ctx, features, risks)
	if err != nil {
		return nil, err
	}
	s.metrics.SessionOpened()
	return sess, nil
}

// Start opens a session from req.
func (s *Service) Start(ctx context.Context, req *StartRequest) (*whatif.SimulationSession, error) {
	if req == nil {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "start request is required")
	}
	if strings.TrimSpace(req.Text) != "" {
		if s.profiles == nil {
			return nil, apperrors.New(apperrors.ErrCodeServiceUnavailable, "profile builder not configured")
		}
		f, risks := s.profiles.BuildProfile(ctx, req.Text, req.Structured, req.Risks)
		return s.StartSession(ctx, f, risks)
	}
	if req.Features == nil {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "either features or text is required")
	}
	return s.StartSession(ctx, *req.Features, req.Risks)
}

func (s *Service) Get(ctx context.Context, id string) (*whatif.SimulationSession, error) {
	return s.sim.GetSession(ctx, id)
}

func (s *Service) Close(ctx context.Context, id string) error {
	if err := s.sim.CloseSession(ctx, id); err != nil {
		return err
	}
	s.metrics.SessionClosed()
	return nil
}

// Run applies params to the session. A params value carrying only a name of
// a built-in scenario runs that scenario.
func (s *Service) Run(ctx context.Context, sessionID string, params whatif.ScenarioParameters) (*whatif.SimulationResult, error) {
	if named, ok := Scenario(params.Name); ok && onlyNamed(params) {
		params = named
	}
	res, err := s.sim.RunSimulation(ctx, sessionID, params)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSimulation(params.Name)
	return res, nil
}

// Comprehensive runs every built-in scenario against the session.
func (s *Service) Comprehensive(ctx context.Context, sessionID string) (*whatif.ComprehensiveAnalysis, error) {
	out, err := s.sim.RunComprehensiveAnalysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, r := range out.Scenarios {
		s.metrics.RecordSimulation(r.Name)
	}
	return out, nil
}

// Scenario returns the built-in scenario called name, case-insensitively.
func Scenario(name string) (whatif.ScenarioParameters, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return whatif.ScenarioParameters{}, false
	}
	for _, p := range whatif.NamedScenarios() {
		if p.Name == name {
			return p, true
		}
	}
	return whatif.ScenarioParameters{}, false
}

// ScenarioNames lists the built-in scenarios in comparison order.
func ScenarioNames() []string {
	all := whatif.NamedScenarios()
	out := make([]string, len(all))
	for i, p := range all {
		out[i] = p.Name
	}
	return out
}

func onlyNamed(p whatif.ScenarioParameters) bool {
	return p.TimelineMultiplier == 0 && p.ResourceMultiplier == 0 &&
		p.ComplexityMultiplier == 0 && p.AccessibilityMultiplier == 0 &&
		p.CostMultiplier == 0 && len(p.MitigatedRiskTypes) == 0 &&
		p.MitigationEffectiveness == 0
}

//Personal.AI order the ending
