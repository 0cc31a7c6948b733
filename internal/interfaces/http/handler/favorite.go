package handler

import (
	appfeedback "github.com/avaliaai/backend/internal/application/feedback"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FavoriteEventResponse is one bookmarked event in the caller's list
type FavoriteEventResponse struct {
	EventID  uuid.UUID `json:"event_id"`
	Title    string    `json:"title"`
	Venue    string    `json:"venue"`
	ImageURL string    `json:"image_url,omitempty"`
}

// FavoriteHandler handles favorite (bookmark) HTTP requests
type FavoriteHandler struct {
	BaseHandler
	favoriteService *appfeedback.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *appfeedback.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Add bookmarks an event. Adding twice is a no-op.
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.favoriteService.Add(c.Request.Context(), userID, eventID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Remove drops a bookmark. Removing a missing one is a no-op.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, eventID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List returns the caller's bookmarked events, newest bookmark first
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	results, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]FavoriteEventResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, FavoriteEventResponse{
			EventID:  r.EventID,
			Title:    r.Title,
			Venue:    r.Venue,
			ImageURL: r.ImageURL,
		})
	}
	h.Success(c, responses)
}
