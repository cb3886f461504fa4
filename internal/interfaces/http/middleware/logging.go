package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
	"github.com/turtacn/DPR-Intelligence/pkg/types/common"
)

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are not logged. They are still counted in metrics.
	SkipPaths []string
	// SlowThreshold marks requests that took longer as slow.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the probe endpoints.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestLogging logs every completed request and records it in metrics.
// Server errors log at error level, client errors and slow requests at warn.
func RequestLogging(logger logging.Logger, metrics *prometheus.PipelineMetrics, cfg LoggingConfig) gin.HandlerFunc {
	logger = logging.OrNop(logger)
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)
		status := c.Writer.Status()

		// Unmatched paths share one label to keep metric cardinality bounded.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, status, d)

		if skip[c.Request.URL.Path] {
			return
		}
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.String("route", route),
			logging.Int("status", status),
			logging.Duration("duration", d),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request completed with server error", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request completed with client error", fields...)
		case cfg.SlowThreshold > 0 && d >= cfg.SlowThreshold:
			logger.Warn("HTTP request completed (slow)", fields...)
		default:
			logger.Info("HTTP request completed", fields...)
		}
	}
}

// Recovery turns a panic into a 500 envelope and logs it.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	logger = logging.OrNop(logger)
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			logging.Any("panic", recovered),
			logging.String("path", c.Request.URL.Path),
			logging.String("request_id", GetRequestID(c)))
		abortWithCode(c, apperrors.ErrCodeInternal, apperrors.DefaultMessageForCode(apperrors.ErrCodeInternal))
	})
}

// BodyLimit caps request bodies at n bytes. Zero disables the cap.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// NotFound answers unmatched routes with a 404 envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithCode(c, apperrors.ErrCodeNotFound, "route "+c.Request.URL.Path+" not found")
	}
}

// MethodNotAllowed answers a known path with the wrong method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithStatus(c, http.StatusMethodNotAllowed, apperrors.ErrCodeBadRequest, "method "+c.Request.Method+" not allowed")
	}
}

func abortWithCode(c *gin.Context, code apperrors.ErrorCode, msg string) {
	abortWithStatus(c, apperrors.HTTPStatusForCode(code), code, msg)
}

func abortWithStatus(c *gin.Context, status int, code apperrors.ErrorCode, msg string) {
	resp := common.NewErrorResponse(string(code), msg)
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

//Personal.AI order the ending
