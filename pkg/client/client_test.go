package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 5*time.Millisecond)}, opts...)
	c, err := NewClient(server.URL, "test-api-key", opts...)
	require.NoError(t, err)
	return c
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"error":      map[string]string{"code": code, "message": msg},
		"request_id": "srv-req",
	})
}

type testLogger struct {
	mu    sync.Mutex
	count int32
	last  string
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.last = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

func TestNewClient(t *testing.T) {
	t.Parallel()

	c, err := NewClient("http://api.example.com/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.BaseURL())
	assert.Equal(t, 3, c.retryMax)
	assert.Equal(t, "dpr-go-client/"+Version, c.userAgent)

	for _, bad := range []string{"", "ftp://host", "://nope"} {
		_, err := NewClient(bad, "")
		require.Error(t, err, bad)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation), bad)
	}
}

// ---------------------------------------------------------------------------
// do
// ---------------------------------------------------------------------------

func TestClient_Do_DecodesEnvelope(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"name": "ok"})
	})

	var out struct{ Name string }
	require.NoError(t, c.get(context.Background(), "/ping", &out))
	assert.Equal(t, "ok", out.Name)
}

func TestClient_Do_Headers(t *testing.T) {
	t.Parallel()
	ids := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Contains(t, r.Header.Get("User-Agent"), "dpr-go-client/")
		ids <- r.Header.Get("X-Request-ID")
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	require.NoError(t, c.post(ctx, "/x", map[string]int{"a": 1}, nil))
	require.NoError(t, c.post(ctx, "/x", map[string]int{"a": 1}, nil))
	first, second := <-ids, <-ids
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}

func TestClient_Do_NoAuthorizationWithoutKey(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	require.NoError(t, err)
	require.NoError(t, c.get(context.Background(), "/x", nil))
}

func TestClient_Do_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeError(w, http.StatusNotFound, "SIM_001", "session not found")
	})

	err := c.get(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "SIM_001", apiErr.Code)
	assert.Equal(t, "session not found", apiErr.Message)
	assert.Equal(t, "srv-req", apiErr.RequestID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_ServerErrorRetried(t *testing.T) {
	t.Parallel()
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeError(w, http.StatusServiceUnavailable, "COMMON_008", "busy")
			return
		}
		writeData(w, http.StatusOK, map[string]int{"n": 7})
	})

	var out struct{ N int }
	require.NoError(t, c.get(context.Background(), "/x", &out))
	assert.Equal(t, 7, out.N)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_RetryExhausted(t *testing.T) {
	t.Parallel()
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeError(w, http.StatusInternalServerError, "COMMON_001", "internal server error")
	}, WithRetryMax(2))

	err := c.get(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedHonoursRetryAfter(t *testing.T) {
	t.Parallel()
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			writeError(w, http.StatusTooManyRequests, "COMMON_007", "rate limit exceeded")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.get(context.Background(), "/x", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedWithoutRetryAfter(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "COMMON_007", "rate limit exceeded")
	})

	err := c.get(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimited())
}

func TestClient_Do_PlainTextError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadRequest)
	})

	err := c.get(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "bad gateway")
	assert.Contains(t, apiErr.Error(), "HTTP 400")
}

func TestClient_Do_NetworkError(t *testing.T) {
	t.Parallel()
	logger := &testLogger{}
	c, err := NewClient("http://127.0.0.1:1", "", WithRetryMax(1), WithRetryWait(time.Millisecond, time.Millisecond), WithLogger(logger))
	require.NoError(t, err)

	require.Error(t, c.get(context.Background(), "/x", nil))
	assert.Positive(t, atomic.LoadInt32(&logger.count))
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusServiceUnavailable, "COMMON_008", "busy")
	}, WithRetryWait(time.Second, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.get(ctx, "/x", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ---------------------------------------------------------------------------
// Typed endpoints
// ---------------------------------------------------------------------------

func TestClient_Analyze(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/analyses", r.URL.Path)
		var req analysis.AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doc-1", req.DocumentID)
		writeData(w, http.StatusCreated, analysis.AnalysisReport{ID: "run-1", DocumentID: req.DocumentID})
	})

	rep, err := c.Analyze(context.Background(), &analysis.AnalyzeRequest{DocumentID: "doc-1", Text: "text"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", rep.ID)
}

func TestClient_ListRunsQuery(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "doc 1", r.URL.Query().Get("document_id"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeData(w, http.StatusOK, []any{})
	})

	got, err := c.ListRuns(context.Background(), "doc 1", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_SimulationPaths(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			var params whatif.ScenarioParameters
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
			assert.Equal(t, whatif.ScenarioPessimistic, params.Name)
			writeData(w, http.StatusOK, whatif.SimulationResult{
				ID:                    "run-1",
				Name:                  params.Name,
				CompletionProbability: 48.3,
				ProbabilityDelta:      -7.5,
				RiskDelta:             6.2,
				Feasibility:           whatif.FeasibilityFair,
			})
		default:
			writeData(w, http.StatusOK, map[string]string{})
		}
	})

	ctx := context.Background()
	res, err := c.RunSimulation(ctx, "s1", whatif.ScenarioParameters{Name: whatif.ScenarioPessimistic})
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.ID)
	assert.Equal(t, whatif.ScenarioPessimistic, res.Name)
	assert.Equal(t, -7.5, res.ProbabilityDelta)
	assert.Equal(t, 6.2, res.RiskDelta)
	assert.Equal(t, whatif.FeasibilityFair, res.Feasibility)
	_, err = c.GetSimulation(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, c.CloseSimulation(ctx, "s1"))

	assert.Equal(t, []string{
		"POST /api/v1/simulations/s1/run",
		"GET /api/v1/simulations/s1",
		"DELETE /api/v1/simulations/s1",
	}, seen)
}

func TestClient_StrategiesFilter(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, string(dpr.RiskTimeline), r.URL.Query().Get("risk_type"))
		writeData(w, http.StatusOK, []mitigation.Strategy{{ID: "m1", RiskType: dpr.RiskTimeline}})
	})

	got, err := c.Strategies(context.Background(), dpr.RiskTimeline)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestClient_SearchDocumentsQuery(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "drainage", q.Get("q"))
		assert.Equal(t, []string{"Odisha", "Bihar"}, q["state"])
		assert.Equal(t, "0.5", q.Get("min_score"))
		assert.Equal(t, "10", q.Get("limit"))
		writeData(w, http.StatusOK, opensearch.SearchResult{Total: 1, Hits: []opensearch.SearchHit{{DocumentID: "d1"}}})
	})

	res, err := c.SearchDocuments(context.Background(), opensearch.SearchRequest{
		Text: "drainage", States: []string{"Odisha", "Bihar"}, MinScore: 0.5, Size: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestAPIError_Predicates(t *testing.T) {
	t.Parallel()
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
	assert.True(t, (&APIError{StatusCode: 429}).IsRateLimited())
	assert.True(t, (&APIError{StatusCode: 503}).IsServerError())
	assert.False(t, (&APIError{StatusCode: 422}).IsServerError())
}

//Personal.AI order the ending
