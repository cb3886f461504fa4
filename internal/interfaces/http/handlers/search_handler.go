package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/search/opensearch"
)

// DocumentSearcher queries indexed document metadata.
type DocumentSearcher interface {
	Search(ctx context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error)
}

type SearchHandler struct {
	searcher DocumentSearcher
	logger   logging.Logger
}

func NewSearchHandler(searcher DocumentSearcher, logger logging.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logging.OrNop(logger)}
}

func (h *SearchHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/documents/search", h.Search)
}

// Search handles GET /documents/search?q=&state=&tag=&min_score=&limit=.
// state and tag repeat or take comma-separated lists.
func (h *SearchHandler) Search(c *gin.Context) {
	req := opensearch.SearchRequest{
		Text:   strings.TrimSpace(c.Query("q")),
		States: splitList(c.QueryArray("state")),
		Tags:   splitList(c.QueryArray("tag")),
		Size:   queryLimit(c),
	}
	if v := c.Query("min_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			req.MinScore = f
		}
	}
	res, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

//Personal.AI order the ending
