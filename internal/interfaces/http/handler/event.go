package handler

import (
	"io"
	"strconv"

	appevents "github.com/avaliaai/backend/internal/application/events"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/interfaces/http/dto"
	"github.com/avaliaai/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventHandler handles event management and event-detail HTTP requests
type EventHandler struct {
	BaseHandler
	eventService *appevents.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *appevents.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create registers a new event for the authenticated organizer
func (h *EventHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.eventService.Create(c.Request.Context(), appevents.CreateEventInput{
		CreatedBy:   userID,
		Title:       req.Title,
		Venue:       req.Venue,
		Description: req.Description,
		Schedule:    toScheduleInput(req.Schedule),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toEventResponse(*result))
}

// Get returns one event by ID
func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	result, err := h.eventService.Get(c.Request.Context(), eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEventResponse(*result))
}

// Update edits an event's details and optionally its schedule
func (h *EventHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := appevents.UpdateEventInput{
		ActorID:      userID,
		ActorIsAdmin: isAdmin(c),
		Title:        req.Title,
		Venue:        req.Venue,
		Description:  req.Description,
	}
	if req.Schedule != nil {
		schedule := toScheduleInput(*req.Schedule)
		input.Schedule = &schedule
	}

	result, err := h.eventService.Update(c.Request.Context(), eventID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEventResponse(*result))
}

// Delete removes an event and everything hanging off it
func (h *EventHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	err = h.eventService.Delete(c.Request.Context(), appevents.DeleteEventInput{
		EventID:      eventID,
		ActorID:      userID,
		ActorIsAdmin: isAdmin(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UploadCover replaces the event's cover image
func (h *EventHandler) UploadCover(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	result, err := h.eventService.UploadCover(c.Request.Context(), appevents.UploadCoverInput{
		EventID:      eventID,
		ActorID:      userID,
		ActorIsAdmin: isAdmin(c),
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEventResponse(*result))
}

// GetOrMine routes GET /events/:id. Gin's route tree cannot hold
// /events/mine next to /events/:id, so the literal "mine" segment is
// dispatched here instead.
func (h *EventHandler) GetOrMine(c *gin.Context) {
	if c.Param("id") == "mine" {
		h.Mine(c)
		return
	}
	h.Get(c)
}

// Mine lists the authenticated organizer's events
func (h *EventHandler) Mine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	role := middleware.GetJWTRole(c)
	if role != "owner" && role != "admin" {
		h.Forbidden(c, "Owner role required")
		return
	}

	filter := listFilter(c)
	results, err := h.eventService.Mine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]EventResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, toEventResponse(r))
	}
	h.Success(c, responses)
}

// Stats returns the aggregated vote tally and rating averages for one
// event across all of its occurrences
func (h *EventHandler) Stats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	stats, err := h.eventService.Stats(c.Request.Context(), eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEventStatsResponse(stats))
}

// RecentRatings returns the newest ratings for one event
func (h *EventHandler) RecentRatings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	results, err := h.eventService.RecentRatings(c.Request.Context(), eventID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRecentRatingResponses(results))
}

// listFilter builds a shared.Filter from the common query parameters
func listFilter(c *gin.Context) shared.Filter {
	req := dto.DefaultListRequest()
	_ = c.ShouldBindQuery(&req)

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}
