package handler

import (
	"time"

	"github.com/google/uuid"

	appevents "github.com/avaliaai/backend/internal/application/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
)

// =====================
// Event Request DTOs
// =====================

// ScheduleRequest describes either a single window (starts_at/ends_at)
// or a weekly recurrence, selected by recurring.
type ScheduleRequest struct {
	Recurring   bool       `json:"recurring"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	RecurDays   []int      `json:"recur_days" binding:"omitempty,dive,weekday"`
	RecurStart  string     `json:"recur_start"`
	RecurEnd    string     `json:"recur_end"`
	ActiveFrom  *time.Time `json:"active_from"`
	ActiveUntil *time.Time `json:"active_until"`
}

// CreateEventRequest represents the request body for event creation
type CreateEventRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Venue       string          `json:"venue" binding:"required,max=200"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
	Schedule    ScheduleRequest `json:"schedule"`
}

// UpdateEventRequest represents the request body for an event update.
// Schedule is optional; omitting it keeps the current schedule.
type UpdateEventRequest struct {
	Title       string           `json:"title" binding:"required,max=200"`
	Venue       string           `json:"venue" binding:"required,max=200"`
	Description string           `json:"description" binding:"omitempty,max=2000"`
	Schedule    *ScheduleRequest `json:"schedule"`
}

func toScheduleInput(req ScheduleRequest) appevents.ScheduleInput {
	days := make([]time.Weekday, 0, len(req.RecurDays))
	for _, d := range req.RecurDays {
		days = append(days, time.Weekday(d))
	}
	return appevents.ScheduleInput{
		Recurring:   req.Recurring,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		RecurDays:   days,
		RecurStart:  req.RecurStart,
		RecurEnd:    req.RecurEnd,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
	}
}

// =====================
// Event Response DTOs
// =====================

// EventResponse represents an event in responses
type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Venue       string     `json:"venue"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	Recurring   bool       `json:"recurring"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	RecurDays   []int      `json:"recur_days,omitempty"`
	RecurStart  string     `json:"recur_start,omitempty"`
	RecurEnd    string     `json:"recur_end,omitempty"`
	ActiveFrom  *time.Time `json:"active_from,omitempty"`
	ActiveUntil *time.Time `json:"active_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEventResponse(result appevents.EventResult) EventResponse {
	days := make([]int, 0, len(result.RecurDays))
	for _, d := range result.RecurDays {
		days = append(days, int(d))
	}
	return EventResponse{
		ID:          result.ID,
		Title:       result.Title,
		Venue:       result.Venue,
		Description: result.Description,
		ImageURL:    result.ImageURL,
		CreatedBy:   result.CreatedBy,
		Recurring:   result.Recurring,
		StartsAt:    result.StartsAt,
		EndsAt:      result.EndsAt,
		RecurDays:   days,
		RecurStart:  result.RecurStart,
		RecurEnd:    result.RecurEnd,
		ActiveFrom:  result.ActiveFrom,
		ActiveUntil: result.ActiveUntil,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}
}

// VoteTallyResponse represents up/down vote counts
type VoteTallyResponse struct {
	Up    int64 `json:"up"`
	Down  int64 `json:"down"`
	Total int64 `json:"total"`
}

func toVoteTallyResponse(tally feedback.VoteTally) VoteTallyResponse {
	return VoteTallyResponse{
		Up:    tally.Up,
		Down:  tally.Down,
		Total: tally.Total(),
	}
}

// EventStatsResponse aggregates votes and rating averages across all
// of an event's occurrences
type EventStatsResponse struct {
	EventID  uuid.UUID          `json:"event_id"`
	Votes    VoteTallyResponse  `json:"votes"`
	Averages map[string]float64 `json:"averages"`
}

func toEventStatsResponse(stats *appevents.EventStatsResult) EventStatsResponse {
	averages := make(map[string]float64, len(stats.Averages))
	for key, avg := range stats.Averages {
		averages[string(key)] = avg
	}
	return EventStatsResponse{
		EventID:  stats.EventID,
		Votes:    toVoteTallyResponse(stats.Votes),
		Averages: averages,
	}
}

// RecentRatingResponse is one entry of the recent-ratings feed
type RecentRatingResponse struct {
	EventID      uuid.UUID `json:"event_id"`
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	Key          string    `json:"key"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecentRatingResponses(results []appevents.RecentRatingResult) []RecentRatingResponse {
	out := make([]RecentRatingResponse, 0, len(results))
	for _, r := range results {
		out = append(out, RecentRatingResponse{
			EventID:      r.EventID,
			OccurrenceID: r.OccurrenceID,
			Key:          string(r.Key),
			Score:        r.Score,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}

// OccurrenceResponse is one row of a discovery listing
type OccurrenceResponse struct {
	ID          uuid.UUID  `json:"id"`
	EventID     uuid.UUID  `json:"event_id"`
	Title       string     `json:"title"`
	Venue       string     `json:"venue"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Live        bool       `json:"live"`
}

func toOccurrenceResponse(result appevents.ListingResult) OccurrenceResponse {
	return OccurrenceResponse{
		ID:          result.ID,
		EventID:     result.EventID,
		Title:       result.Title,
		Venue:       result.Venue,
		Description: result.Description,
		ImageURL:    result.ImageURL,
		CreatedBy:   result.CreatedBy,
		StartsAt:    result.StartsAt,
		EndsAt:      result.EndsAt,
		Live:        result.Live,
	}
}

func toOccurrenceResponses(results []appevents.ListingResult) []OccurrenceResponse {
	out := make([]OccurrenceResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toOccurrenceResponse(r))
	}
	return out
}
