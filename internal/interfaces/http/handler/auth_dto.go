package handler

import (
	"time"

	"github.com/google/uuid"

	appidentity "github.com/avaliaai/backend/internal/application/identity"
)

// =====================
// Auth Request DTOs
// =====================

// SignupRequest represents the request body for account registration
type SignupRequest struct {
	Email       string `json:"email" binding:"required,email,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

// SigninRequest represents the request body for sign-in
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request body for token refresh. The
// token may come from the refresh cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PasswordResetRequestRequest asks for a reset token by email
type PasswordResetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest redeems a reset token
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ProfileResponse represents profile data in responses
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse represents the response body for signup, signin and refresh
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// MessageResponse carries a human-readable status message
type MessageResponse struct {
	Message string `json:"message"`
}

func toTokenResponse(result *appidentity.AuthResult) TokenResponse {
	return TokenResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	}
}

func toProfileResponse(info appidentity.ProfileInfo) ProfileResponse {
	return ProfileResponse{
		ID:          info.ID,
		Email:       info.Email,
		DisplayName: info.DisplayName,
		Role:        string(info.Role),
		CreatedAt:   info.CreatedAt,
	}
}

func toAuthResponse(result *appidentity.AuthResult) AuthResponse {
	return AuthResponse{
		Token:   toTokenResponse(result),
		Profile: toProfileResponse(result.Profile),
	}
}
