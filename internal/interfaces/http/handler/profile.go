package handler

import (
	appidentity "github.com/avaliaai/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest represents the request body for a profile patch
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100"`
}

// ChangeEmailRequest represents the request body for an email change
type ChangeEmailRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// ProfileHandler handles profile management HTTP requests
type ProfileHandler struct {
	BaseHandler
	profileService *appidentity.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *appidentity.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get returns the caller's profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(*info))
}

// Update changes the caller's display name
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.profileService.UpdateDisplayName(c.Request.Context(), userID, appidentity.UpdateProfileInput{
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(*info))
}

// ChangeEmail updates the caller's sign-in email
func (h *ProfileHandler) ChangeEmail(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.profileService.ChangeEmail(c.Request.Context(), userID, appidentity.ChangeEmailInput{
		Email: req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(*info))
}

// ChangePassword verifies the current password and sets a new one. All
// existing sessions are invalidated.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.profileService.ChangePassword(c.Request.Context(), userID, appidentity.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password updated, sign in again"})
}

// Delete purges the caller's account and personal data
func (h *ProfileHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.profileService.Purge(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
