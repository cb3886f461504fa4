package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	domain "github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
)

// StrategyRegistry is the mitigation strategy store.
type StrategyRegistry interface {
	List(riskType dpr.RiskType) []domain.Strategy
	Get(id string) (domain.Strategy, error)
	Create(s domain.Strategy) (domain.Strategy, error)
	Update(id string, s domain.Strategy) (domain.Strategy, error)
	Delete(id string) error
}

type MitigationHandler struct {
	reg    StrategyRegistry
	logger logging.Logger
}

func NewMitigationHandler(reg StrategyRegistry, logger logging.Logger) *MitigationHandler {
	return &MitigationHandler{reg: reg, logger: logging.OrNop(logger)}
}

func (h *MitigationHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/mitigation-strategies")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /mitigation-strategies?risk_type=.
func (h *MitigationHandler) List(c *gin.Context) {
	respond(c, http.StatusOK, h.reg.List(dpr.RiskType(c.Query("risk_type"))))
}

func (h *MitigationHandler) Get(c *gin.Context) {
	s, err := h.reg.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, s)
}

func (h *MitigationHandler) Create(c *gin.Context) {
	var s domain.Strategy
	if !bindJSON(c, h.logger, &s) {
		return
	}
	out, err := h.reg.Create(s)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, out)
}

// Update replaces the strategy. The path id wins over any id in the body.
func (h *MitigationHandler) Update(c *gin.Context) {
	var s domain.Strategy
	if !bindJSON(c, h.logger, &s) {
		return
	}
	out, err := h.reg.Update(c.Param("id"), s)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *MitigationHandler) Delete(c *gin.Context) {
	if err := h.reg.Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//Personal.AI order the ending
