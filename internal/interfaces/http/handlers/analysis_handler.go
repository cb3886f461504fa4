package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	runs "github.com/turtacn/DPR-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/scheme_matcher"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/middleware"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// AnalysisService is the part of analysis.Service the API exposes.
type AnalysisService interface {
	Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalysisReport, error)
	GetReport(ctx context.Context, id string) (*analysis.AnalysisReport, error)
	ListRuns(ctx context.Context, documentID string, limit int) ([]runs.RunSummary, error)
	Classify(text string, opts *section_classifier.Options) (*section_classifier.ClassificationResult, error)
	Extract(text string) *entity_extractor.ExtractionResult
	ExtractBatch(ctx context.Context, texts []string) ([]*entity_extractor.ExtractionResult, error)
	MatchSchemes(ctx context.Context, mentions []string, p scheme_matcher.ProjectProfile) (*scheme_matcher.SchemeGapAnalysis, error)
	Schemes(ctx context.Context, activeOnly bool) ([]scheme.GovernmentScheme, error)
	CalculateProbability(features dpr.ProjectFeatures, risks []dpr.RiskFactor) *probability.ProbabilityCalculationResult
}

// AnalysisHandler serves the pipeline and its single-stage operations.
type AnalysisHandler struct {
	svc    AnalysisService
	logger logging.Logger
}

func NewAnalysisHandler(svc AnalysisService, logger logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: logging.OrNop(logger)}
}

// ClassifyRequest is the body of POST /sections/classify.
type ClassifyRequest struct {
	Text    string                      `json:"text"`
	Options *section_classifier.Options `json:"options,omitempty"`
}

// ExtractRequest is the body of POST /entities/extract. Texts, when set,
// runs a batch and Text is ignored.
type ExtractRequest struct {
	Text  string   `json:"text"`
	Texts []string `json:"texts,omitempty"`
}

// MatchSchemesRequest is the body of POST /schemes/match.
type MatchSchemesRequest struct {
	Mentions []string                      `json:"mentions"`
	Profile  scheme_matcher.ProjectProfile `json:"profile"`
}

// ProbabilityRequest is the body of POST /probability.
type ProbabilityRequest struct {
	Features    dpr.ProjectFeatures `json:"features"`
	RiskFactors []dpr.RiskFactor    `json:"risk_factors,omitempty"`
}

func (h *AnalysisHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/analyses", h.Analyze)
	r.GET("/analyses", h.ListRuns)
	r.GET("/analyses/:id", h.GetReport)
	r.POST("/sections/classify", h.Classify)
	r.POST("/entities/extract", h.Extract)
	r.GET("/schemes", h.ListSchemes)
	r.POST("/schemes/match", h.MatchSchemes)
	r.POST("/probability", h.Probability)
}

// Analyze handles POST /analyses.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analysis.AnalyzeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.RequestID == "" {
		req.RequestID = middleware.GetRequestID(c)
	}
	report, err := h.svc.Analyze(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, report)
}

// GetReport handles GET /analyses/:id.
func (h *AnalysisHandler) GetReport(c *gin.Context) {
	report, err := h.svc.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, report)
}

// ListRuns handles GET /analyses?document_id=&limit=.
func (h *AnalysisHandler) ListRuns(c *gin.Context) {
	docID := strings.TrimSpace(c.Query("document_id"))
	if docID == "" {
		respondError(c, h.logger, apperrors.New(apperrors.ErrCodeValidation, "document_id is required"))
		return
	}
	list, err := h.svc.ListRuns(c.Request.Context(), docID, queryLimit(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if list == nil {
		list = []runs.RunSummary{}
	}
	respond(c, http.StatusOK, list)
}

// Classify handles POST /sections/classify.
func (h *AnalysisHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	res, err := h.svc.Classify(req.Text, req.Options)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Extract handles POST /entities/extract.
func (h *AnalysisHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if len(req.Texts) > 0 {
		res, err := h.svc.ExtractBatch(c.Request.Context(), req.Texts)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		respond(c, http.StatusOK, res)
		return
	}
	respond(c, http.StatusOK, h.svc.Extract(req.Text))
}

// ListSchemes handles GET /schemes?active=true.
func (h *AnalysisHandler) ListSchemes(c *gin.Context) {
	list, err := h.svc.Schemes(c.Request.Context(), queryBool(c, "active"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// MatchSchemes handles POST /schemes/match.
func (h *AnalysisHandler) MatchSchemes(c *gin.Context) {
	var req MatchSchemesRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	res, err := h.svc.MatchSchemes(c.Request.Context(), req.Mentions, req.Profile)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Probability handles POST /probability.
func (h *AnalysisHandler) Probability(c *gin.Context) {
	var req ProbabilityRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	respond(c, http.StatusOK, h.svc.CalculateProbability(req.Features, req.RiskFactors))
}

//Personal.AI order the ending
