// Package handlers implements the HTTP API on gin. Every response uses the
// common.APIResponse envelope.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/middleware"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
	"github.com/turtacn/DPR-Intelligence/pkg/types/common"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// respond writes data in the success envelope.
func respond[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondError maps err to its HTTP status. Server-side messages are replaced
// by the code's default message so internals do not leak.
func respondError(c *gin.Context, logger logging.Logger, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown || code == apperrors.CodeOK {
		code = apperrors.ErrCodeInternal
	}
	status := apperrors.HTTPStatusForCode(code)

	msg := apperrors.DefaultMessageForCode(code)
	if status < http.StatusInternalServerError {
		var ae *apperrors.AppError
		if apperrors.As(err, &ae) && ae.Message != "" {
			msg = ae.Message
		}
	} else {
		logger.Error("request failed",
			logging.String("path", c.FullPath()),
			logging.String("code", string(code)),
			logging.String("request_id", middleware.GetRequestID(c)),
			logging.Err(err))
	}

	resp := common.NewErrorResponse(string(code), msg)
	resp.RequestID = middleware.GetRequestID(c)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, logger logging.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, logger, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// queryLimit reads ?limit= clamped to [1, maxListLimit].
func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func queryBool(c *gin.Context, name string) bool {
	b, _ := strconv.ParseBool(c.Query(name))
	return b
}

//Personal.AI order the ending
