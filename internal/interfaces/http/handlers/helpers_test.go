package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/DPR-Intelligence/pkg/types/common"
)

func init() { gin.SetMode(gin.TestMode) }

type routes interface {
	RegisterRoutes(r gin.IRouter)
}

func newTestEngine(h routes) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) common.APIResponse[T] {
	t.Helper()
	var resp common.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// requireError asserts the status and envelope code of a failed call.
func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) common.APIResponse[any] {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode[any](t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
	return resp
}

//Personal.AI order the ending
