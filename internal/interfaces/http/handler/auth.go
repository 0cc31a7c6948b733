package handler

import (
	"net/http"
	"time"

	appidentity "github.com/avaliaai/backend/internal/application/identity"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/avaliaai/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the cookie carrying the refresh token for
// browser clients. Mobile clients send the token in the request body.
const RefreshCookieName = "refresh_token"

// ResetTokenSink delivers password reset tokens out of band. The
// server never returns the plaintext token in the HTTP response.
type ResetTokenSink func(email, token string, expiresAt time.Time)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookieCfg   config.CookieConfig
	resetSink   ResetTokenSink
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, cookieCfg config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieCfg:   cookieCfg,
	}
}

// SetResetTokenSink installs the reset token delivery hook
func (h *AuthHandler) SetResetTokenSink(sink ResetTokenSink) {
	h.resetSink = sink
}

// Signup registers a new account and signs it in
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), appidentity.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)
	h.Created(c, toAuthResponse(result))
}

// Signin authenticates with email and password
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), appidentity.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)
	h.Success(c, toAuthResponse(result))
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(RefreshCookieName)
	}
	if refreshToken == "" {
		h.BadRequest(c, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)
	h.Success(c, toAuthResponse(result))
}

// Signout revokes the caller's current tokens
func (h *AuthHandler) Signout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID in token")
		return
	}

	input := appidentity.SignoutInput{
		UserID:    userID,
		AccessJTI: claims.ID,
	}
	if claims.ExpiresAt != nil {
		input.AccessTTL = time.Until(claims.ExpiresAt.Time)
	}

	// Revoke the refresh token too if the client presented one
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(RefreshCookieName)
	}
	if refreshToken != "" {
		if refreshClaims, err := h.authService.ParseRefreshToken(refreshToken); err == nil {
			input.RefreshJTI = refreshClaims.ID
			if refreshClaims.ExpiresAt != nil {
				input.RefreshTTL = time.Until(refreshClaims.ExpiresAt.Time)
			}
		}
	}

	if err := h.authService.Signout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.Success(c, MessageResponse{Message: "Signed out"})
}

// Me returns the authenticated caller's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(*info))
}

// RequestPasswordReset issues a single-use reset token. The response
// is identical whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result != nil && h.resetSink != nil {
		h.resetSink(req.Email, result.Token, result.ExpiresAt)
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": MessageResponse{
			Message: "If that email is registered, a reset link is on its way",
		},
	})
}

// ConfirmPasswordReset redeems a reset token and sets a new password
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err := h.authService.ConfirmPasswordReset(c.Request.Context(), appidentity.PasswordResetConfirmInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password updated, sign in again"})
}

// setRefreshCookie writes the refresh token as an httpOnly cookie
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(sameSiteMode(h.cookieCfg.SameSite))
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(RefreshCookieName, token, maxAge, h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

// clearRefreshCookie expires the refresh cookie
func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.cookieCfg.SameSite))
	c.SetCookie(RefreshCookieName, "", -1, h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
