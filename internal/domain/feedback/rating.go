package feedback

import (
	"fmt"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RatingKey names a rating category. The set is fixed.
type RatingKey string

const (
	KeyDJ        RatingKey = "dj"
	KeyFila      RatingKey = "fila"
	KeyPreco     RatingKey = "preco"
	KeySeguranca RatingKey = "seguranca"
)

// RatingKeys lists all valid categories in display order.
var RatingKeys = []RatingKey{KeyDJ, KeyFila, KeyPreco, KeySeguranca}

// IsValid reports whether the key is one of the fixed categories.
func (k RatingKey) IsValid() bool {
	for _, known := range RatingKeys {
		if k == known {
			return true
		}
	}
	return false
}

// ParseRatingKey validates a category key from a request.
func ParseRatingKey(s string) (RatingKey, error) {
	k := RatingKey(s)
	if !k.IsValid() {
		return "", shared.NewDomainError("INVALID_RATING_KEY", fmt.Sprintf("Unknown rating category %q", s))
	}
	return k, nil
}

// MinScore and MaxScore bound a rating's star value.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one user's score for one category of an occurrence. At most
// one row exists per (occurrence, user, key) triple; resubmission
// replaces via upsert on that triple's unique index.
type Rating struct {
	shared.BaseAggregateRoot
	OccurrenceID uuid.UUID
	UserID       uuid.UUID
	Key          RatingKey
	Score        int
}

// NewRating creates a rating after validating the category and score.
func NewRating(occurrenceID, userID uuid.UUID, key RatingKey, score int) (*Rating, error) {
	if !key.IsValid() {
		return nil, shared.NewDomainError("INVALID_RATING_KEY", fmt.Sprintf("Unknown rating category %q", key))
	}
	if score < MinScore || score > MaxScore {
		return nil, shared.NewDomainError("INVALID_SCORE", fmt.Sprintf("Score must be between %d and %d", MinScore, MaxScore))
	}
	r := &Rating{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OccurrenceID:      occurrenceID,
		UserID:            userID,
		Key:               key,
		Score:             score,
	}
	r.AddDomainEvent(NewRatingSubmittedEvent(r))
	return r, nil
}

// RatingAverages holds the mean score per category for an occurrence or
// event, zero when a category has no ratings yet.
type RatingAverages map[RatingKey]float64

// EmptyAverages returns a map with every category zeroed, so responses
// always carry the full category set.
func EmptyAverages() RatingAverages {
	avg := make(RatingAverages, len(RatingKeys))
	for _, k := range RatingKeys {
		avg[k] = 0
	}
	return avg
}
