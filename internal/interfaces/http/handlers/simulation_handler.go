package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/application/simulation"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
)

// SimulationService manages what-if sessions.
type SimulationService interface {
	Start(ctx context.Context, req *simulation.StartRequest) (*whatif.SimulationSession, error)
	Get(ctx context.Context, id string) (*whatif.SimulationSession, error)
	Close(ctx context.Context, id string) error
	Run(ctx context.Context, sessionID string, params whatif.ScenarioParameters) (*whatif.SimulationResult, error)
	Comprehensive(ctx context.Context, sessionID string) (*whatif.ComprehensiveAnalysis, error)
}

type SimulationHandler struct {
	svc    SimulationService
	logger logging.Logger
}

func NewSimulationHandler(svc SimulationService, logger logging.Logger) *SimulationHandler {
	return &SimulationHandler{svc: svc, logger: logging.OrNop(logger)}
}

func (h *SimulationHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/scenarios", h.Scenarios)
	r.POST("/simulations", h.Start)
	r.GET("/simulations/:id", h.Get)
	r.DELETE("/simulations/:id", h.Close)
	r.POST("/simulations/:id/run", h.Run)
	r.POST("/simulations/:id/comprehensive", h.Comprehensive)
}

// Scenarios handles GET /scenarios.
func (h *SimulationHandler) Scenarios(c *gin.Context) {
	respond(c, http.StatusOK, whatif.NamedScenarios())
}

// Start handles POST /simulations.
func (h *SimulationHandler) Start(c *gin.Context) {
	var req simulation.StartRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	sess, err := h.svc.Start(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, sess)
}

// Get handles GET /simulations/:id.
func (h *SimulationHandler) Get(c *gin.Context) {
	sess, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, sess)
}

// Close handles DELETE /simulations/:id.
func (h *SimulationHandler) Close(c *gin.Context) {
	if err := h.svc.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Run handles POST /simulations/:id/run. ?scenario=pessimistic runs a
// built-in scenario without a body.
func (h *SimulationHandler) Run(c *gin.Context) {
	var params whatif.ScenarioParameters
	if name := c.Query("scenario"); name != "" {
		params.Name = name
	} else if !bindJSON(c, h.logger, &params) {
		return
	}
	res, err := h.svc.Run(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Comprehensive handles POST /simulations/:id/comprehensive.
func (h *SimulationHandler) Comprehensive(c *gin.Context) {
	res, err := h.svc.Comprehensive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, res)
}

//Personal.AI order the ending
