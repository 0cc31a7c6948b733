package dto

import "net/http"

// Transport-level error codes. Domain codes (EMAIL_TAKEN, NOT_LIVE, ...)
// flow through from the application layer unchanged so clients can rely
// on them.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is the base code for request validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Both the
// transport codes above and the domain codes the services emit are
// listed here.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Shared sentinels
	"NOT_FOUND":        http.StatusNotFound,
	"ALREADY_EXISTS":   http.StatusConflict,
	"INVALID_INPUT":    http.StatusBadRequest,
	"UNAUTHORIZED":     http.StatusUnauthorized,
	"FORBIDDEN":        http.StatusForbidden,
	"INVALID_STATE":    http.StatusUnprocessableEntity,
	"NOT_LIVE":         http.StatusUnprocessableEntity,
	"SIGN_IN_REQUIRED": http.StatusUnauthorized,

	// Identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_ROLE":        http.StatusBadRequest,
	"EMAIL_TAKEN":         http.StatusConflict,
	"PROFILE_NOT_FOUND":   http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_USED":          http.StatusUnauthorized,

	// Owner requests
	"ALREADY_OWNER":            http.StatusConflict,
	"REQUEST_PENDING":          http.StatusConflict,
	"NO_PENDING_REQUEST":       http.StatusNotFound,
	"INVALID_REVIEWER":         http.StatusUnprocessableEntity,
	"REQUEST_ALREADY_REVIEWED": http.StatusConflict,

	// Events and feedback
	"INVALID_VIEW":       http.StatusBadRequest,
	"INVALID_SCHEDULE":   http.StatusBadRequest,
	"INVALID_TITLE":      http.StatusBadRequest,
	"INVALID_VENUE":      http.StatusBadRequest,
	"INVALID_RATING_KEY": http.StatusBadRequest,
	"INVALID_SCORE":      http.StatusBadRequest,
	"INVALID_FILE_TYPE":  http.StatusBadRequest,
	"FILE_TOO_LARGE":     http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainHTTPStatus returns the HTTP status for a domain error code.
// Unknown domain codes are business rule violations, not server faults,
// so the fallback is 422 rather than 500.
func DomainHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
