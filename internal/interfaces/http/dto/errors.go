package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// Subscription gate denial codes
const (
	ErrCodeSaaSReadOnly       = "SAAS_READ_ONLY"
	ErrCodeSaaSFeatureBlocked = "SAAS_FEATURE_BLOCKED"
	ErrCodeSaaSLimitReached   = "SAAS_LIMIT_REACHED"
)

// errorCodeHTTPStatus maps domain and gate error codes to HTTP status
// codes. Codes missing from the map fall back to 422: unknown codes
// come from domain rules, not transport faults.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,

	ErrCodeForbidden:          http.StatusForbidden,
	"TENANT_MISMATCH":         http.StatusForbidden,
	"TENANT_INACTIVE":         http.StatusForbidden,
	"ACCOUNT_INACTIVE":        http.StatusForbidden,
	ErrCodeSaaSReadOnly:       http.StatusForbidden,
	ErrCodeSaaSFeatureBlocked: http.StatusForbidden,
	ErrCodeSaaSLimitReached:   http.StatusForbidden,

	ErrCodeNotFound:  http.StatusNotFound,
	"PLAN_NOT_FOUND": http.StatusNotFound,
	"USER_NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS": http.StatusConflict,
	"EMAIL_IN_USE":   http.StatusConflict,
	"CODE_IN_USE":    http.StatusConflict,
	"NAME_IN_USE":    http.StatusConflict,

	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_EMAIL":    http.StatusBadRequest,
	"INVALID_PASSWORD": http.StatusBadRequest,
	"INVALID_PHONE":    http.StatusBadRequest,
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,
	"INVALID_AMOUNT":   http.StatusBadRequest,
	"INVALID_DUE_DATE": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
