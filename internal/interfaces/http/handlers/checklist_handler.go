package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appchecklist "github.com/turtacn/DPR-Intelligence/internal/application/checklist"
	domain "github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
)

// ChecklistService holds the active completeness rubric.
type ChecklistService interface {
	Get() *domain.Checklist
	Replace(ctx context.Context, c *domain.Checklist, source string) error
}

// ChecklistHandler reads and replaces the active checklist.
type ChecklistHandler struct {
	svc    ChecklistService
	logger logging.Logger
}

func NewChecklistHandler(svc ChecklistService, logger logging.Logger) *ChecklistHandler {
	return &ChecklistHandler{svc: svc, logger: logging.OrNop(logger)}
}

func (h *ChecklistHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/checklist", h.Get)
	r.PUT("/checklist", h.Replace)
}

// Get handles GET /checklist.
func (h *ChecklistHandler) Get(c *gin.Context) {
	respond(c, http.StatusOK, h.svc.Get())
}

// Replace handles PUT /checklist. An invalid checklist leaves the active
// one in place.
func (h *ChecklistHandler) Replace(c *gin.Context) {
	var cl domain.Checklist
	if !bindJSON(c, h.logger, &cl) {
		return
	}
	if err := h.svc.Replace(c.Request.Context(), &cl, appchecklist.SourceAPI); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, h.svc.Get())
}

//Personal.AI order the ending
