package handler

import (
	"time"

	appfeedback "github.com/avaliaai/backend/internal/application/feedback"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CastVoteRequest represents the request body for a vote
type CastVoteRequest struct {
	Upvote *bool `json:"upvote" binding:"required"`
}

// SubmitRatingRequest represents the request body for a rating
type SubmitRatingRequest struct {
	Score int `json:"score" binding:"required,gte=1,lte=5"`
}

// VoteResponse echoes the accepted vote
type VoteResponse struct {
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	Upvote       bool      `json:"upvote"`
}

// RatingResponse echoes the accepted rating
type RatingResponse struct {
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	Key          string    `json:"key"`
	Score        int       `json:"score"`
}

// OccurrenceFeedbackResponse carries liveness, current aggregates and
// the caller's own selections for one occurrence
type OccurrenceFeedbackResponse struct {
	OccurrenceID uuid.UUID          `json:"occurrence_id"`
	Live         bool               `json:"live"`
	StartsAt     *time.Time         `json:"starts_at,omitempty"`
	EndsAt       *time.Time         `json:"ends_at,omitempty"`
	Votes        VoteTallyResponse  `json:"votes"`
	Averages     map[string]float64 `json:"averages"`
	UserVote     *bool              `json:"user_vote,omitempty"`
	UserRatings  map[string]int     `json:"user_ratings,omitempty"`
}

// FeedbackHandler handles vote and rating HTTP requests
type FeedbackHandler struct {
	BaseHandler
	feedbackService *appfeedback.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *appfeedback.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// CastVote records or replaces the caller's vote on a live occurrence
func (h *FeedbackHandler) CastVote(c *gin.Context) {
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

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.feedbackService.CastVote(c.Request.Context(), appfeedback.CastVoteInput{
		OccurrenceID: occurrenceID,
		UserID:       userID,
		Upvote:       *req.Upvote,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VoteResponse{
		OccurrenceID: result.OccurrenceID,
		Upvote:       result.Upvote,
	})
}

// SubmitRating records or replaces the caller's rating for one
// category on a live occurrence
func (h *FeedbackHandler) SubmitRating(c *gin.Context) {
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

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.feedbackService.SubmitRating(c.Request.Context(), appfeedback.SubmitRatingInput{
		OccurrenceID: occurrenceID,
		UserID:       userID,
		Key:          c.Param("key"),
		Score:        req.Score,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RatingResponse{
		OccurrenceID: result.OccurrenceID,
		Key:          string(result.Key),
		Score:        result.Score,
	})
}

// GetFeedback returns the occurrence's aggregates. Signed-in callers
// also get their own selections so controls pre-select; the route uses
// optional auth.
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	occurrenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid occurrence ID")
		return
	}

	result, err := h.feedbackService.GetOccurrenceFeedback(c.Request.Context(), occurrenceID, optionalUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	averages := make(map[string]float64, len(result.Averages))
	for key, avg := range result.Averages {
		averages[string(key)] = avg
	}
	var userRatings map[string]int
	if len(result.UserRatings) > 0 {
		userRatings = make(map[string]int, len(result.UserRatings))
		for key, score := range result.UserRatings {
			userRatings[string(key)] = score
		}
	}

	h.Success(c, OccurrenceFeedbackResponse{
		OccurrenceID: result.OccurrenceID,
		Live:         result.Live,
		StartsAt:     result.StartsAt,
		EndsAt:       result.EndsAt,
		Votes:        toVoteTallyResponse(result.Votes),
		Averages:     averages,
		UserVote:     result.UserVote,
		UserRatings:  userRatings,
	})
}
