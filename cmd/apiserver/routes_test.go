package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/bootstrap"
	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/testutil"
)

func init() { gin.SetMode(gin.TestMode) }

func TestBuildRouter_InProcess(t *testing.T) {
	t.Parallel()
	cfg := config.NewDefault()
	cfg.Server.RateLimitRPS = 100
	logger := testutil.NewMockLogger()

	svcs, err := bootstrap.NewServices(context.Background(), cfg, nil, nil, logger)
	require.NoError(t, err)
	router, cleanup := buildRouter(cfg, svcs, nil, nil, nil, logger)
	t.Cleanup(cleanup)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/api/v1/checklist", http.StatusOK},
		{http.MethodGet, "/api/v1/schemes", http.StatusOK},
		// The report archive is MinIO backed.
		{http.MethodGet, "/api/v1/analyses/missing", http.StatusServiceUnavailable},
		// No OpenSearch, so document search is not routed.
		{http.MethodGet, "/api/v1/documents/search?q=road", http.StatusNotFound},
		// No metrics collector either.
		{http.MethodGet, "/metrics", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.NotZero(t, cfg.Server.Port)

	_, err = loadConfig("/does/not/exist.yaml")
	assert.Error(t, err)
}

//Personal.AI order the ending
