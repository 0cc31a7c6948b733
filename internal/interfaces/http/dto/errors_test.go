package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found sentinel", "NOT_FOUND", http.StatusNotFound},
		{"email taken", "EMAIL_TAKEN", http.StatusConflict},
		{"not live", "NOT_LIVE", http.StatusUnprocessableEntity},
		{"sign in required", "SIGN_IN_REQUIRED", http.StatusUnauthorized},
		{"file too large", "FILE_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"transport validation", ErrCodeValidation, http.StatusBadRequest},
		{"unknown code", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainHTTPStatus_UnknownCodeIsBusinessError(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, DomainHTTPStatus("SOME_NEW_RULE"))
	assert.Equal(t, http.StatusConflict, DomainHTTPStatus("REQUEST_PENDING"))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNewSuccessResponseWithMeta_RoundsTotalPagesUp(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{}, 41, 1, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
