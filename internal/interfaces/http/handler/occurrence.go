package handler

import (
	appevents "github.com/avaliaai/backend/internal/application/events"
	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OccurrenceHandler handles discovery and occurrence HTTP requests
type OccurrenceHandler struct {
	BaseHandler
	occurrenceService *appevents.OccurrenceService
}

// NewOccurrenceHandler creates a new occurrence handler
func NewOccurrenceHandler(occurrenceService *appevents.OccurrenceService) *OccurrenceHandler {
	return &OccurrenceHandler{occurrenceService: occurrenceService}
}

// List returns the live, upcoming or past discovery feed
func (h *OccurrenceHandler) List(c *gin.Context) {
	view := c.DefaultQuery("view", "upcoming")
	filter := listFilter(c)

	results, err := h.occurrenceService.List(c.Request.Context(), view, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOccurrenceResponses(results))
}

// Get returns one occurrence. When the row is gone and the client
// passes ?event=<id>&t=<RFC3339>, the event's occurrence nearest to t
// is returned instead, so stale deep links keep working.
func (h *OccurrenceHandler) Get(c *gin.Context) {
	occurrenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid occurrence ID")
		return
	}

	input := appevents.GetInput{OccurrenceID: occurrenceID}

	if raw := c.Query("event"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid event ID in fallback hint")
			return
		}
		input.FallbackEventID = &eventID
	}
	at, err := events.ParseBound(c.Query("t"))
	if err != nil {
		h.BadRequest(c, "t must be an RFC 3339 timestamp")
		return
	}
	input.FallbackAt = at

	result, err := h.occurrenceService.Get(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOccurrenceResponse(*result))
}

// Delete removes a single occurrence of an event
func (h *OccurrenceHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	occurrenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid occurrence ID")
		return
	}

	err = h.occurrenceService.Delete(c.Request.Context(), occurrenceID, userID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
