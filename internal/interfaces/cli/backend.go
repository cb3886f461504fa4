package cli

import (
	"context"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	appchecklist "github.com/turtacn/DPR-Intelligence/internal/application/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/application/simulation"
	"github.com/turtacn/DPR-Intelligence/internal/bootstrap"
	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/scheme_matcher"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	"github.com/turtacn/DPR-Intelligence/pkg/client"
)

// Backend is what the commands need from the platform. The API client
// implements it for --server mode and LocalBackend runs the services in
// process.
type Backend interface {
	Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalysisReport, error)
	Classify(ctx context.Context, text string, opts *section_classifier.Options) (*section_classifier.ClassificationResult, error)
	Extract(ctx context.Context, text string) (*entity_extractor.ExtractionResult, error)
	Schemes(ctx context.Context, activeOnly bool) ([]scheme.GovernmentScheme, error)
	MatchSchemes(ctx context.Context, mentions []string, p scheme_matcher.ProjectProfile) (*scheme_matcher.SchemeGapAnalysis, error)
	Checklist(ctx context.Context) (*checklist.Checklist, error)
	PutChecklist(ctx context.Context, c *checklist.Checklist) (*checklist.Checklist, error)
	StartSimulation(ctx context.Context, req *simulation.StartRequest) (*whatif.SimulationSession, error)
	RunSimulation(ctx context.Context, id string, params whatif.ScenarioParameters) (*whatif.SimulationResult, error)
	Comprehensive(ctx context.Context, id string) (*whatif.ComprehensiveAnalysis, error)
	CloseSimulation(ctx context.Context, id string) error
}

var (
	_ Backend = (*client.Client)(nil)
	_ Backend = (*LocalBackend)(nil)
)

// LocalBackend adapts in-process services to Backend.
type LocalBackend struct {
	svcs *bootstrap.Services
}

func NewLocalBackend(svcs *bootstrap.Services) *LocalBackend {
	return &LocalBackend{svcs: svcs}
}

func (b *LocalBackend) Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalysisReport, error) {
	return b.svcs.Analysis.Analyze(ctx, req)
}

func (b *LocalBackend) Classify(_ context.Context, text string, opts *section_classifier.Options) (*section_classifier.ClassificationResult, error) {
	return b.svcs.Analysis.Classify(text, opts)
}

func (b *LocalBackend) Extract(_ context.Context, text string) (*entity_extractor.ExtractionResult, error) {
	return b.svcs.Analysis.Extract(text), nil
}

func (b *LocalBackend) Schemes(ctx context.Context, activeOnly bool) ([]scheme.GovernmentScheme, error) {
	return b.svcs.Analysis.Schemes(ctx, activeOnly)
}

func (b *LocalBackend) MatchSchemes(ctx context.Context, mentions []string, p scheme_matcher.ProjectProfile) (*scheme_matcher.SchemeGapAnalysis, error) {
	return b.svcs.Analysis.MatchSchemes(ctx, mentions, p)
}

func (b *LocalBackend) Checklist(context.Context) (*checklist.Checklist, error) {
	return b.svcs.Checklist.Get(), nil
}

// PutChecklist installs c for the lifetime of this process only.
func (b *LocalBackend) PutChecklist(ctx context.Context, c *checklist.Checklist) (*checklist.Checklist, error) {
	if err := b.svcs.Checklist.Replace(ctx, c, appchecklist.SourceAPI); err != nil {
		return nil, err
	}
	return b.svcs.Checklist.Get(), nil
}

func (b *LocalBackend) StartSimulation(ctx context.Context, req *simulation.StartRequest) (*whatif.SimulationSession, error) {
	return b.svcs.Simulation.Start(ctx, req)
}

func (b *LocalBackend) RunSimulation(ctx context.Context, id string, params whatif.ScenarioParameters) (*whatif.SimulationResult, error) {
	return b.svcs.Simulation.Run(ctx, id, params)
}

func (b *LocalBackend) Comprehensive(ctx context.Context, id string) (*whatif.ComprehensiveAnalysis, error) {
	return b.svcs.Simulation.Comprehensive(ctx, id)
}

func (b *LocalBackend) CloseSimulation(ctx context.Context, id string) error {
	return b.svcs.Simulation.Close(ctx, id)
}

//Personal.AI order the ending
