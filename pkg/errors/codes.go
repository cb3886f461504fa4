package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are grouped by a module prefix followed by an ordinal, e.g. "GAP_002".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
)

// Pipeline stage codes. Every stage failure is wrapped with one of these so a
// caller can tell which stage of the analysis failed.
const (
	ErrCodeClassificationFailed      ErrorCode = "CLS_001"
	ErrCodeClassifierNotInitialized  ErrorCode = "CLS_002"
	ErrCodeExtractionFailed          ErrorCode = "EXT_001"
	ErrCodeGapAnalysisFailed         ErrorCode = "GAP_001"
	ErrCodeAggregationFailed         ErrorCode = "AGG_001"
	ErrCodeSchemeMatchingFailed      ErrorCode = "SCH_001"
	ErrCodeSchemeRegistryUnavailable ErrorCode = "SCH_002"
	ErrCodeSchemeNotFound            ErrorCode = "SCH_003"
	ErrCodeProbabilityFailed         ErrorCode = "PRB_001"
	ErrCodeProfileFailed             ErrorCode = "PRB_002"
	ErrCodeSessionNotFound           ErrorCode = "SIM_001"
	ErrCodeSimulationFailed          ErrorCode = "SIM_002"
	ErrCodeSessionStoreFailed        ErrorCode = "SIM_003"
)

// Checklist and mitigation registry codes.
const (
	ErrCodeChecklistInvalid    ErrorCode = "CHK_001"
	ErrCodeChecklistLoadFailed ErrorCode = "CHK_002"
	ErrCodeStrategyNotFound    ErrorCode = "MIT_001"
	ErrCodeStrategyInvalid     ErrorCode = "MIT_002"
)

// Infrastructure adapter codes.
const (
	ErrCodeArchiveFailed   ErrorCode = "INFRA_001"
	ErrCodeIndexFailed     ErrorCode = "INFRA_002"
	ErrCodePublishFailed   ErrorCode = "INFRA_003"
	ErrCodeMigrationFailed ErrorCode = "INFRA_004"
)

// Aliases used by the convenience constructors.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeClassificationFailed:      http.StatusUnprocessableEntity,
	ErrCodeClassifierNotInitialized:  http.StatusInternalServerError,
	ErrCodeExtractionFailed:          http.StatusUnprocessableEntity,
	ErrCodeGapAnalysisFailed:         http.StatusUnprocessableEntity,
	ErrCodeAggregationFailed:         http.StatusInternalServerError,
	ErrCodeSchemeMatchingFailed:      http.StatusUnprocessableEntity,
	ErrCodeSchemeRegistryUnavailable: http.StatusServiceUnavailable,
	ErrCodeSchemeNotFound:            http.StatusNotFound,
	ErrCodeProbabilityFailed:         http.StatusUnprocessableEntity,
	ErrCodeProfileFailed:             http.StatusUnprocessableEntity,
	ErrCodeSessionNotFound:           http.StatusNotFound,
	ErrCodeSimulationFailed:          http.StatusUnprocessableEntity,
	ErrCodeSessionStoreFailed:        http.StatusServiceUnavailable,

	ErrCodeChecklistInvalid:    http.StatusBadRequest,
	ErrCodeChecklistLoadFailed: http.StatusInternalServerError,
	ErrCodeStrategyNotFound:    http.StatusNotFound,
	ErrCodeStrategyInvalid:     http.StatusBadRequest,

	ErrCodeArchiveFailed:   http.StatusBadGateway,
	ErrCodeIndexFailed:     http.StatusBadGateway,
	ErrCodePublishFailed:   http.StatusBadGateway,
	ErrCodeMigrationFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeClassificationFailed:      "classification failed",
	ErrCodeClassifierNotInitialized:  "section classifier not initialized",
	ErrCodeExtractionFailed:          "entity extraction failed",
	ErrCodeGapAnalysisFailed:         "gap analysis failed",
	ErrCodeAggregationFailed:         "feature aggregation failed",
	ErrCodeSchemeMatchingFailed:      "scheme matching failed",
	ErrCodeSchemeRegistryUnavailable: "scheme registry unavailable",
	ErrCodeSchemeNotFound:            "scheme not found",
	ErrCodeProbabilityFailed:         "probability calculation failed",
	ErrCodeProfileFailed:             "project profile derivation failed",
	ErrCodeSessionNotFound:           "simulation session not found",
	ErrCodeSimulationFailed:          "simulation failed",
	ErrCodeSessionStoreFailed:        "simulation session store failed",

	ErrCodeChecklistInvalid:    "invalid checklist",
	ErrCodeChecklistLoadFailed: "failed to load checklist",
	ErrCodeStrategyNotFound:    "mitigation strategy not found",
	ErrCodeStrategyInvalid:     "invalid mitigation strategy",

	ErrCodeArchiveFailed:   "report archive failed",
	ErrCodeIndexFailed:     "search indexing failed",
	ErrCodePublishFailed:   "event publish failed",
	ErrCodeMigrationFailed: "database migration failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
