package dto

import (
	"errors"
	"net/http"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_INPUT":  http.StatusBadRequest,
	"NEGATIVE_PRICE": http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	"INVALID_STATE": http.StatusUnprocessableEntity,
	"OUT_OF_STOCK":  http.StatusUnprocessableEntity,

	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	// Upstream platform failures surface as 502 so load balancers and
	// clients can tell them apart from our own faults
	"SUPPLIER_UNAVAILABLE": http.StatusBadGateway,
	"CHANNEL_UNAVAILABLE":  http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// HTTPStatus returns the HTTP status code for a domain error code
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts any error into an ErrorInfo and HTTP status.
// Domain errors keep their code, message, severity, and recovery action.
// Everything else becomes an opaque internal error.
func FromError(err error, requestID string) (ErrorInfo, int) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return ErrorInfo{
			Code:      domainErr.Code,
			Message:   domainErr.Message,
			Severity:  string(domainErr.Severity),
			Recovery:  string(domainErr.Recovery),
			RequestID: requestID,
		}, HTTPStatus(domainErr.Code)
	}

	return ErrorInfo{
		Code:      ErrCodeInternal,
		Message:   "An unexpected error occurred",
		Severity:  string(shared.SeverityHigh),
		Recovery:  string(shared.RecoveryContact),
		RequestID: requestID,
	}, http.StatusInternalServerError
}
