package models

import (
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/google/uuid"
)

// VoteModel is the persistence model for the Vote aggregate.
// Upserts conflict on the unique (occurrence_id, user_id) pair.
type VoteModel struct {
	BaseModel
	OccurrenceID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_votes_occurrence_user"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_votes_occurrence_user"`
	Upvote       bool      `gorm:"not null"`

	Occurrence OccurrenceModel `gorm:"foreignKey:OccurrenceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (VoteModel) TableName() string {
	return "votes"
}

// ToDomain converts the persistence model to a domain Vote
func (m *VoteModel) ToDomain() *feedback.Vote {
	return &feedback.Vote{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OccurrenceID:      m.OccurrenceID,
		UserID:            m.UserID,
		Upvote:            m.Upvote,
	}
}

// VoteModelFromDomain creates a persistence model from a domain Vote
func VoteModelFromDomain(v *feedback.Vote) *VoteModel {
	m := &VoteModel{}
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	m.OccurrenceID = v.OccurrenceID
	m.UserID = v.UserID
	m.Upvote = v.Upvote
	return m
}

// RatingModel is the persistence model for the Rating aggregate.
// Upserts conflict on the unique (occurrence_id, user_id, key) triple.
type RatingModel struct {
	BaseModel
	OccurrenceID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_ratings_occurrence_user_key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_ratings_occurrence_user_key"`
	Key          string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_ratings_occurrence_user_key"`
	Score        int       `gorm:"not null"`

	Occurrence OccurrenceModel `gorm:"foreignKey:OccurrenceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RatingModel) TableName() string {
	return "ratings"
}

// ToDomain converts the persistence model to a domain Rating
func (m *RatingModel) ToDomain() *feedback.Rating {
	return &feedback.Rating{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OccurrenceID:      m.OccurrenceID,
		UserID:            m.UserID,
		Key:               feedback.RatingKey(m.Key),
		Score:             m.Score,
	}
}

// RatingModelFromDomain creates a persistence model from a domain Rating
func RatingModelFromDomain(r *feedback.Rating) *RatingModel {
	m := &RatingModel{}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OccurrenceID = r.OccurrenceID
	m.UserID = r.UserID
	m.Key = string(r.Key)
	m.Score = r.Score
	return m
}

// FavoriteModel is the persistence model for the Favorite aggregate.
type FavoriteModel struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_favorites_user_event"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_favorites_user_event"`

	Event EventModel `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (FavoriteModel) TableName() string {
	return "favorites"
}

// ToDomain converts the persistence model to a domain Favorite
func (m *FavoriteModel) ToDomain() *feedback.Favorite {
	return &feedback.Favorite{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		EventID:           m.EventID,
	}
}

// FavoriteModelFromDomain creates a persistence model from a domain Favorite
func FavoriteModelFromDomain(f *feedback.Favorite) *FavoriteModel {
	m := &FavoriteModel{}
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.UserID = f.UserID
	m.EventID = f.EventID
	return m
}
