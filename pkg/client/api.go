package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/application/simulation"
	runs "github.com/turtacn/DPR-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/scheme_matcher"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
)

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

// Analyze runs the full pipeline on the server.
func (c *Client) Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalysisReport, error) {
	var out analysis.AnalysisReport
	if err := c.post(ctx, APIPrefix+"/analyses", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReport fetches an archived report.
func (c *Client) GetReport(ctx context.Context, id string) (*analysis.AnalysisReport, error) {
	var out analysis.AnalysisReport
	if err := c.get(ctx, APIPrefix+"/analyses/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRuns lists the most recent runs recorded for a document.
func (c *Client) ListRuns(ctx context.Context, documentID string, limit int) ([]runs.RunSummary, error) {
	q := url.Values{}
	q.Set("document_id", documentID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []runs.RunSummary
	if err := c.get(ctx, APIPrefix+"/analyses?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Classify(ctx context.Context, text string, opts *section_classifier.Options) (*section_classifier.ClassificationResult, error) {
	body := struct {
		Text    string                      `json:"text"`
		Options *section_classifier.Options `json:"options,omitempty"`
	}{text, opts}
	var out section_classifier.ClassificationResult
	if err := c.post(ctx, APIPrefix+"/sections/classify", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Extract(ctx context.Context, text string) (*entity_extractor.ExtractionResult, error) {
	var out entity_extractor.ExtractionResult
	if err := c.post(ctx, APIPrefix+"/entities/extract", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractBatch extracts entities from each text, preserving order.
func (c *Client) ExtractBatch(ctx context.Context, texts []string) ([]*entity_extractor.ExtractionResult, error) {
	var out []*entity_extractor.ExtractionResult
	if err := c.post(ctx, APIPrefix+"/entities/extract", map[string][]string{"texts": texts}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Schemes lists the scheme catalog, optionally only active schemes.
func (c *Client) Schemes(ctx context.Context, activeOnly bool) ([]scheme.GovernmentScheme, error) {
	var out []scheme.GovernmentScheme
	if err := c.get(ctx, APIPrefix+"/schemes?active="+strconv.FormatBool(activeOnly), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MatchSchemes(ctx context.Context, mentions []string, p scheme_matcher.ProjectProfile) (*scheme_matcher.SchemeGapAnalysis, error) {
	body := struct {
		Mentions []string                      `json:"mentions"`
		Profile  scheme_matcher.ProjectProfile `json:"profile"`
	}{mentions, p}
	var out scheme_matcher.SchemeGapAnalysis
	if err := c.post(ctx, APIPrefix+"/schemes/match", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Probability(ctx context.Context, features dpr.ProjectFeatures, risks []dpr.RiskFactor) (*probability.ProbabilityCalculationResult, error) {
	body := struct {
		Features    dpr.ProjectFeatures `json:"features"`
		RiskFactors []dpr.RiskFactor    `json:"risk_factors,omitempty"`
	}{features, risks}
	var out probability.ProbabilityCalculationResult
	if err := c.post(ctx, APIPrefix+"/probability", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Checklist
// ---------------------------------------------------------------------------

func (c *Client) Checklist(ctx context.Context) (*checklist.Checklist, error) {
	var out checklist.Checklist
	if err := c.get(ctx, APIPrefix+"/checklist", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutChecklist replaces the server's active checklist and returns the one now
// in effect.
func (c *Client) PutChecklist(ctx context.Context, cl *checklist.Checklist) (*checklist.Checklist, error) {
	var out checklist.Checklist
	if err := c.put(ctx, APIPrefix+"/checklist", cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Simulation
// ---------------------------------------------------------------------------

func (c *Client) Scenarios(ctx context.Context) ([]whatif.ScenarioParameters, error) {
	var out []whatif.ScenarioParameters
	if err := c.get(ctx, APIPrefix+"/scenarios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartSimulation opens a session. The returned session carries its id.
func (c *Client) StartSimulation(ctx context.Context, req *simulation.StartRequest) (*whatif.SimulationSession, error) {
	var out whatif.SimulationSession
	if err := c.post(ctx, APIPrefix+"/simulations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSimulation(ctx context.Context, id string) (*whatif.SimulationSession, error) {
	var out whatif.SimulationSession
	if err := c.get(ctx, simulationPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunSimulation runs one scenario in a session. A params value with only a
// Name set runs that named scenario.
func (c *Client) RunSimulation(ctx context.Context, id string, params whatif.ScenarioParameters) (*whatif.SimulationResult, error) {
	var out whatif.SimulationResult
	if err := c.post(ctx, simulationPath(id)+"/run", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Comprehensive(ctx context.Context, id string) (*whatif.ComprehensiveAnalysis, error) {
	var out whatif.ComprehensiveAnalysis
	if err := c.post(ctx, simulationPath(id)+"/comprehensive", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CloseSimulation(ctx context.Context, id string) error {
	return c.delete(ctx, simulationPath(id))
}

func simulationPath(id string) string {
	return APIPrefix + "/simulations/" + url.PathEscape(id)
}

// ---------------------------------------------------------------------------
// Mitigation strategies
// ---------------------------------------------------------------------------

// Strategies lists strategies, filtered by risk type when riskType is set.
func (c *Client) Strategies(ctx context.Context, riskType dpr.RiskType) ([]mitigation.Strategy, error) {
	path := APIPrefix + "/mitigation-strategies"
	if riskType != "" {
		path += "?risk_type=" + url.QueryEscape(string(riskType))
	}
	var out []mitigation.Strategy
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateStrategy(ctx context.Context, s mitigation.Strategy) (*mitigation.Strategy, error) {
	var out mitigation.Strategy
	if err := c.post(ctx, APIPrefix+"/mitigation-strategies", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStrategy(ctx context.Context, id string, s mitigation.Strategy) (*mitigation.Strategy, error) {
	var out mitigation.Strategy
	if err := c.put(ctx, APIPrefix+"/mitigation-strategies/"+url.PathEscape(id), s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStrategy(ctx context.Context, id string) error {
	return c.delete(ctx, APIPrefix+"/mitigation-strategies/"+url.PathEscape(id))
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

// SearchDocuments queries the document index. The server must run with the
// search backend enabled.
func (c *Client) SearchDocuments(ctx context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error) {
	q := url.Values{}
	if req.Text != "" {
		q.Set("q", req.Text)
	}
	for _, s := range req.States {
		q.Add("state", s)
	}
	for _, t := range req.Tags {
		q.Add("tag", t)
	}
	if req.MinScore > 0 {
		q.Set("min_score", strconv.FormatFloat(req.MinScore, 'f', -1, 64))
	}
	if req.Size > 0 {
		q.Set("limit", strconv.Itoa(req.Size))
	}
	var out opensearch.SearchResult
	if err := c.get(ctx, APIPrefix+"/documents/search?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
