package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/google/uuid"
)

// EventModel is the persistence model for the Event aggregate.
type EventModel struct {
	BaseModel
	Title       string    `gorm:"type:varchar(200);not null"`
	Venue       string    `gorm:"type:varchar(200)"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:varchar(500)"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index"`
	Recurring   bool      `gorm:"not null;default:false"`

	StartsAt *time.Time
	EndsAt   *time.Time

	RecurDays   string `gorm:"type:varchar(20)"` // comma-separated weekday numbers, 0=Sunday
	RecurStart  string `gorm:"type:varchar(5)"`  // HH:MM
	RecurEnd    string `gorm:"type:varchar(5)"`  // HH:MM
	ActiveFrom  *time.Time
	ActiveUntil *time.Time

	// Folded lowercase title+venue, maintained on every save
	SearchText string `gorm:"type:varchar(420);index"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the persistence model to a domain Event
func (m *EventModel) ToDomain() *events.Event {
	return &events.Event{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Venue:             m.Venue,
		Description:       m.Description,
		ImageURL:          m.ImageURL,
		CreatedBy:         m.CreatedBy,
		Recurring:         m.Recurring,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		RecurDays:         csvToWeekdays(m.RecurDays),
		RecurStart:        m.RecurStart,
		RecurEnd:          m.RecurEnd,
		ActiveFrom:        m.ActiveFrom,
		ActiveUntil:       m.ActiveUntil,
	}
}

// FromDomain populates the persistence model from a domain Event
func (m *EventModel) FromDomain(e *events.Event) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Title = e.Title
	m.Venue = e.Venue
	m.Description = e.Description
	m.ImageURL = e.ImageURL
	m.CreatedBy = e.CreatedBy
	m.Recurring = e.Recurring
	m.StartsAt = e.StartsAt
	m.EndsAt = e.EndsAt
	m.RecurDays = weekdaysToCSV(e.RecurDays)
	m.RecurStart = e.RecurStart
	m.RecurEnd = e.RecurEnd
	m.ActiveFrom = e.ActiveFrom
	m.ActiveUntil = e.ActiveUntil
	m.SearchText = FoldText(e.Title + " " + e.Venue)
}

// EventModelFromDomain creates a persistence model from a domain Event
func EventModelFromDomain(e *events.Event) *EventModel {
	m := &EventModel{}
	m.FromDomain(e)
	return m
}

// OccurrenceModel is the persistence model for the Occurrence aggregate.
// (event_id, starts_at) is unique so re-materialization never duplicates.
type OccurrenceModel struct {
	BaseModel
	EventID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_occurrences_event_start"`
	StartsAt *time.Time `gorm:"index;uniqueIndex:idx_occurrences_event_start"`
	EndsAt   *time.Time `gorm:"index"`

	Event EventModel `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OccurrenceModel) TableName() string {
	return "occurrences"
}

// ToDomain converts the persistence model to a domain Occurrence
func (m *OccurrenceModel) ToDomain() *events.Occurrence {
	return &events.Occurrence{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		EventID:           m.EventID,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
	}
}

// FromDomain populates the persistence model from a domain Occurrence
func (m *OccurrenceModel) FromDomain(o *events.Occurrence) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.EventID = o.EventID
	m.StartsAt = o.StartsAt
	m.EndsAt = o.EndsAt
}

// OccurrenceModelFromDomain creates a persistence model from a domain Occurrence
func OccurrenceModelFromDomain(o *events.Occurrence) *OccurrenceModel {
	m := &OccurrenceModel{}
	m.FromDomain(o)
	return m
}

// OccurrenceListingRow is the scan target for occurrence-with-event
// join queries backing the discovery views.
type OccurrenceListingRow struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	StartsAt    *time.Time
	EndsAt      *time.Time
	Title       string
	Venue       string
	Description string
	ImageURL    string
	CreatedBy   uuid.UUID
}

// ToDomain converts the row to a domain OccurrenceListing
func (r *OccurrenceListingRow) ToDomain() events.OccurrenceListing {
	return events.OccurrenceListing{
		ID:          r.ID,
		EventID:     r.EventID,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Title:       r.Title,
		Venue:       r.Venue,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CreatedBy:   r.CreatedBy,
	}
}

func weekdaysToCSV(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func csvToWeekdays(csv string) []time.Weekday {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
