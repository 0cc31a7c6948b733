package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSingleEvent(t *testing.T) {
	owner := uuid.New()
	start := time.Now().Add(24 * time.Hour)

	t.Run("creates event with trimmed fields", func(t *testing.T) {
		ev, err := NewSingleEvent(owner, "  Baile do Centro  ", " Clube Central ", start, nil)

		require.NoError(t, err)
		assert.Equal(t, "Baile do Centro", ev.Title)
		assert.Equal(t, "Clube Central", ev.Venue)
		assert.Equal(t, owner, ev.CreatedBy)
		assert.False(t, ev.Recurring)
		require.NotNil(t, ev.StartsAt)
		assert.Nil(t, ev.EndsAt)

		events := ev.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*EventCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewSingleEvent(owner, "   ", "Clube", start, nil)
		assert.Error(t, err)
	})

	t.Run("fails when end precedes start", func(t *testing.T) {
		end := start.Add(-time.Hour)
		_, err := NewSingleEvent(owner, "Baile", "Clube", start, &end)
		assert.Error(t, err)
	})
}

func TestNewRecurringEvent(t *testing.T) {
	owner := uuid.New()

	t.Run("creates event with sorted deduplicated days", func(t *testing.T) {
		ev, err := NewRecurringEvent(owner, "Sexta Black", "Arena",
			[]time.Weekday{time.Saturday, time.Friday, time.Friday}, "22:00", "04:00", nil, nil)

		require.NoError(t, err)
		assert.True(t, ev.Recurring)
		assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, ev.RecurDays)
		assert.Nil(t, ev.StartsAt)
	})

	t.Run("fails without weekdays", func(t *testing.T) {
		_, err := NewRecurringEvent(owner, "Sexta", "Arena", nil, "22:00", "04:00", nil, nil)
		assert.Error(t, err)
	})

	t.Run("fails with malformed time of day", func(t *testing.T) {
		_, err := NewRecurringEvent(owner, "Sexta", "Arena",
			[]time.Weekday{time.Friday}, "22h00", "04:00", nil, nil)
		assert.Error(t, err)
	})

	t.Run("fails with inverted active bounds", func(t *testing.T) {
		from := time.Now()
		until := from.AddDate(0, 0, -7)
		_, err := NewRecurringEvent(owner, "Sexta", "Arena",
			[]time.Weekday{time.Friday}, "22:00", "04:00", &from, &until)
		assert.Error(t, err)
	})
}

func TestEventScheduleSwitch(t *testing.T) {
	owner := uuid.New()
	start := time.Now().Add(24 * time.Hour)
	ev, err := NewSingleEvent(owner, "Baile", "Clube", start, nil)
	require.NoError(t, err)
	ev.ClearDomainEvents()

	t.Run("switching to weekly clears single fields", func(t *testing.T) {
		err := ev.UseWeeklySchedule([]time.Weekday{time.Friday}, "22:00", "02:00", nil, nil)
		require.NoError(t, err)
		assert.True(t, ev.Recurring)
		assert.Nil(t, ev.StartsAt)
		assert.Nil(t, ev.EndsAt)

		events := ev.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*EventScheduleChangedEvent)
		assert.True(t, ok)
	})

	t.Run("switching back clears recurrence fields", func(t *testing.T) {
		err := ev.UseSingleSchedule(start, nil)
		require.NoError(t, err)
		assert.False(t, ev.Recurring)
		assert.Empty(t, ev.RecurDays)
		assert.Empty(t, ev.RecurStart)
		assert.Nil(t, ev.ActiveFrom)
	})
}

func TestEventCanBeManagedBy(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	ev, err := NewSingleEvent(owner, "Baile", "Clube", time.Now(), nil)
	require.NoError(t, err)

	assert.True(t, ev.CanBeManagedBy(owner, false))
	assert.False(t, ev.CanBeManagedBy(other, false))
	assert.True(t, ev.CanBeManagedBy(other, true))
}
