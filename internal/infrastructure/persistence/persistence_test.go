package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&models.ProfileModel{},
		&models.EventModel{},
		&models.OccurrenceModel{},
		&models.VoteModel{},
		&models.RatingModel{},
		&models.FavoriteModel{},
		&models.OwnerRequestModel{},
		&models.PasswordResetModel{},
	))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, email string) *identity.Profile {
	t.Helper()
	profile, err := identity.NewProfile(email, "sup3r-secret", "Someone")
	require.NoError(t, err)
	require.NoError(t, NewGormProfileRepository(db).Save(context.Background(), profile))
	return profile
}

func seedSingleEvent(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, startsAt time.Time) *events.Event {
	t.Helper()
	ev, err := events.NewSingleEvent(owner, title, "Teste Hall", startsAt, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormEventRepository(db).Save(context.Background(), ev))
	return ev
}

func seedOccurrence(t *testing.T, db *gorm.DB, eventID uuid.UUID, startsAt, endsAt *time.Time) *events.Occurrence {
	t.Helper()
	occ := events.NewOccurrence(eventID, startsAt, endsAt)
	require.NoError(t, NewGormOccurrenceRepository(db).Save(context.Background(), occ))
	return occ
}

func timePtr(ts time.Time) *time.Time { return &ts }

func TestGormEventRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("save and find round-trips schedule fields", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormEventRepository(db)

		ev, err := events.NewRecurringEvent(owner.ID, "Quinta do Rock", "Galpão 7",
			[]time.Weekday{time.Thursday, time.Saturday}, "22:00", "03:00", nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, ev))

		found, err := repo.FindByID(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, "Quinta do Rock", found.Title)
		assert.True(t, found.Recurring)
		assert.Equal(t, []time.Weekday{time.Thursday, time.Saturday}, found.RecurDays)
		assert.Equal(t, "22:00", found.RecurStart)
		assert.Equal(t, "03:00", found.RecurEnd)
	})

	t.Run("find by unknown id returns not found", func(t *testing.T) {
		db := newTestDB(t)
		_, err := NewGormEventRepository(db).FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search is accent and case insensitive", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormEventRepository(db)

		seedSingleEvent(t, db, owner.ID, "Noite de São João", now)
		seedSingleEvent(t, db, owner.ID, "Outra Festa", now)

		found, err := repo.FindByCreator(ctx, owner.ID, shared.Filter{Search: "sao joao"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Noite de São João", found[0].Title)
	})

	t.Run("find recurring returns only weekly events", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormEventRepository(db)

		seedSingleEvent(t, db, owner.ID, "One-off", now)
		rec, err := events.NewRecurringEvent(owner.ID, "Weekly", "Hall",
			[]time.Weekday{time.Friday}, "20:00", "23:00", nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))

		recurring, err := repo.FindRecurring(ctx)
		require.NoError(t, err)
		require.Len(t, recurring, 1)
		assert.Equal(t, "Weekly", recurring[0].Title)
	})

	t.Run("delete cascades across every dependent table", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		voter := seedProfile(t, db, "voter@example.com")
		repo := NewGormEventRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Doomed", now)
		occ := seedOccurrence(t, db, ev.ID, timePtr(now), nil)
		seedOccurrence(t, db, ev.ID, timePtr(now.Add(7*24*time.Hour)), nil)
		require.NoError(t, NewGormVoteRepository(db).Upsert(ctx, feedback.NewVote(occ.ID, voter.ID, true)))
		rating, err := feedback.NewRating(occ.ID, voter.ID, feedback.KeyDJ, 4)
		require.NoError(t, err)
		require.NoError(t, NewGormRatingRepository(db).Upsert(ctx, rating))
		require.NoError(t, NewGormFavoriteRepository(db).Add(ctx, feedback.NewFavorite(voter.ID, ev.ID)))

		require.NoError(t, repo.Delete(ctx, ev.ID))

		for _, table := range []string{"occurrences", "votes", "ratings", "favorites"} {
			var count int64
			require.NoError(t, db.Table(table).Count(&count).Error)
			assert.Zero(t, count, "expected no %s rows after event delete", table)
		}

		assert.ErrorIs(t, repo.Delete(ctx, ev.ID), shared.ErrNotFound)
	})
}

func TestGormOccurrenceRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("list view splits live upcoming and past", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		live := seedSingleEvent(t, db, owner.ID, "Live Now", now)
		seedOccurrence(t, db, live.ID, timePtr(now.Add(-time.Hour)), timePtr(now.Add(time.Hour)))

		open := seedSingleEvent(t, db, owner.ID, "Open Ended", now)
		seedOccurrence(t, db, open.ID, nil, nil)

		soon := seedSingleEvent(t, db, owner.ID, "Tomorrow", now)
		seedOccurrence(t, db, soon.ID, timePtr(now.Add(24*time.Hour)), nil)

		done := seedSingleEvent(t, db, owner.ID, "Last Week", now)
		seedOccurrence(t, db, done.ID, timePtr(now.Add(-8*24*time.Hour)), timePtr(now.Add(-7*24*time.Hour)))

		liveRows, err := repo.ListView(ctx, events.ViewLive, now, shared.Filter{})
		require.NoError(t, err)
		titles := make([]string, len(liveRows))
		for i, row := range liveRows {
			titles[i] = row.Title
		}
		assert.ElementsMatch(t, []string{"Live Now", "Open Ended"}, titles)

		upcoming, err := repo.ListView(ctx, events.ViewUpcoming, now, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, upcoming, 1)
		assert.Equal(t, "Tomorrow", upcoming[0].Title)

		past, err := repo.ListView(ctx, events.ViewPast, now, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, past, 1)
		assert.Equal(t, "Last Week", past[0].Title)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Edge", now)
		seedOccurrence(t, db, ev.ID, timePtr(now), timePtr(now))

		liveRows, err := repo.ListView(ctx, events.ViewLive, now, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, liveRows, 1)
	})

	t.Run("list view filters by search term", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Forró da Esquina", now)
		seedOccurrence(t, db, ev.ID, timePtr(now.Add(time.Hour)), nil)
		other := seedSingleEvent(t, db, owner.ID, "Techno Night", now)
		seedOccurrence(t, db, other.ID, timePtr(now.Add(time.Hour)), nil)

		rows, err := repo.ListView(ctx, events.ViewUpcoming, now, shared.Filter{Search: "forro"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Forró da Esquina", rows[0].Title)
	})

	t.Run("save all skips existing event and start pairs", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Weekly", now)
		first := timePtr(now.Add(24 * time.Hour))
		second := timePtr(now.Add(48 * time.Hour))

		require.NoError(t, repo.SaveAll(ctx, []*events.Occurrence{
			events.NewOccurrence(ev.ID, first, nil),
		}))
		require.NoError(t, repo.SaveAll(ctx, []*events.Occurrence{
			events.NewOccurrence(ev.ID, first, nil),
			events.NewOccurrence(ev.ID, second, nil),
		}))

		all, err := repo.ListByEvent(ctx, ev.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("find nearest picks the closest start", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Weekly", now)
		seedOccurrence(t, db, ev.ID, timePtr(now.Add(-3*time.Hour)), nil)
		nearest := seedOccurrence(t, db, ev.ID, timePtr(now.Add(time.Hour)), nil)
		seedOccurrence(t, db, ev.ID, timePtr(now.Add(6*time.Hour)), nil)

		found, err := repo.FindNearest(ctx, ev.ID, now)
		require.NoError(t, err)
		assert.Equal(t, nearest.ID, found.ID)
	})

	t.Run("find nearest falls back to unscheduled occurrences", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Open", now)
		occ := seedOccurrence(t, db, ev.ID, nil, nil)

		found, err := repo.FindNearest(ctx, ev.ID, now)
		require.NoError(t, err)
		assert.Equal(t, occ.ID, found.ID)

		_, err = repo.FindNearest(ctx, uuid.New(), now)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete future keeps past occurrences", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		repo := NewGormOccurrenceRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Weekly", now)
		past := seedOccurrence(t, db, ev.ID, timePtr(now.Add(-24*time.Hour)), nil)
		seedOccurrence(t, db, ev.ID, timePtr(now.Add(24*time.Hour)), nil)
		seedOccurrence(t, db, ev.ID, timePtr(now.Add(48*time.Hour)), nil)

		require.NoError(t, repo.DeleteFutureByEvent(ctx, ev.ID, now))

		remaining, err := repo.ListByEvent(ctx, ev.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, past.ID, remaining[0].ID)
	})
}

func TestGormVoteRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("upsert replaces the vote direction", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		voter := seedProfile(t, db, "voter@example.com")
		repo := NewGormVoteRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)
		occ := seedOccurrence(t, db, ev.ID, timePtr(now), nil)

		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ.ID, voter.ID, true)))
		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ.ID, voter.ID, false)))

		vote, err := repo.FindByOccurrenceAndUser(ctx, occ.ID, voter.ID)
		require.NoError(t, err)
		assert.False(t, vote.Upvote)

		tally, err := repo.TallyByOccurrence(ctx, occ.ID)
		require.NoError(t, err)
		assert.Equal(t, feedback.VoteTally{Up: 0, Down: 1}, tally)
	})

	t.Run("tally by event aggregates across occurrences", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		a := seedProfile(t, db, "a@example.com")
		b := seedProfile(t, db, "b@example.com")
		repo := NewGormVoteRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)
		occ1 := seedOccurrence(t, db, ev.ID, timePtr(now), nil)
		occ2 := seedOccurrence(t, db, ev.ID, timePtr(now.Add(24*time.Hour)), nil)

		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ1.ID, a.ID, true)))
		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ2.ID, a.ID, true)))
		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ2.ID, b.ID, false)))

		tally, err := repo.TallyByEvent(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, feedback.VoteTally{Up: 2, Down: 1}, tally)
	})

	t.Run("delete by user removes only that user's votes", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		a := seedProfile(t, db, "a@example.com")
		b := seedProfile(t, db, "b@example.com")
		repo := NewGormVoteRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)
		occ := seedOccurrence(t, db, ev.ID, timePtr(now), nil)
		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ.ID, a.ID, true)))
		require.NoError(t, repo.Upsert(ctx, feedback.NewVote(occ.ID, b.ID, true)))

		require.NoError(t, repo.DeleteByUser(ctx, a.ID))

		tally, err := repo.TallyByOccurrence(ctx, occ.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), tally.Up)
	})
}

func TestGormRatingRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	mustRating := func(t *testing.T, occID, userID uuid.UUID, key feedback.RatingKey, score int) *feedback.Rating {
		t.Helper()
		rating, err := feedback.NewRating(occID, userID, key, score)
		require.NoError(t, err)
		return rating
	}

	t.Run("upsert replaces the score per category", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		user := seedProfile(t, db, "user@example.com")
		repo := NewGormRatingRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)
		occ := seedOccurrence(t, db, ev.ID, timePtr(now), nil)

		require.NoError(t, repo.Upsert(ctx, mustRating(t, occ.ID, user.ID, feedback.KeyFila, 2)))
		require.NoError(t, repo.Upsert(ctx, mustRating(t, occ.ID, user.ID, feedback.KeyFila, 5)))
		require.NoError(t, repo.Upsert(ctx, mustRating(t, occ.ID, user.ID, feedback.KeyDJ, 4)))

		ratings, err := repo.FindByOccurrenceAndUser(ctx, occ.ID, user.ID)
		require.NoError(t, err)
		require.Len(t, ratings, 2)

		byKey := map[feedback.RatingKey]int{}
		for _, r := range ratings {
			byKey[r.Key] = r.Score
		}
		assert.Equal(t, 5, byKey[feedback.KeyFila])
		assert.Equal(t, 4, byKey[feedback.KeyDJ])
	})

	t.Run("averages carry every category", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		a := seedProfile(t, db, "a@example.com")
		b := seedProfile(t, db, "b@example.com")
		repo := NewGormRatingRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)
		occ := seedOccurrence(t, db, ev.ID, timePtr(now), nil)

		require.NoError(t, repo.Upsert(ctx, mustRating(t, occ.ID, a.ID, feedback.KeyDJ, 5)))
		require.NoError(t, repo.Upsert(ctx, mustRating(t, occ.ID, b.ID, feedback.KeyDJ, 3)))

		averages, err := repo.AveragesByOccurrence(ctx, occ.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, averages[feedback.KeyDJ], 0.001)
		assert.Zero(t, averages[feedback.KeyPreco])
		assert.Len(t, averages, len(feedback.RatingKeys))
	})

	t.Run("recent by event returns newest first within limit", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		user := seedProfile(t, db, "user@example.com")
		repo := NewGormRatingRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)
		occ := seedOccurrence(t, db, ev.ID, timePtr(now), nil)

		for i, key := range feedback.RatingKeys {
			rating := mustRating(t, occ.ID, user.ID, key, 3)
			rating.CreatedAt = now.Add(time.Duration(i) * time.Minute)
			rating.UpdatedAt = rating.CreatedAt
			require.NoError(t, repo.Upsert(ctx, rating))
		}

		recent, err := repo.RecentByEvent(ctx, ev.ID, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, ev.ID, recent[0].EventID)
		assert.False(t, recent[0].CreatedAt.Before(recent[1].CreatedAt))
	})
}

func TestGormFavoriteRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("add is idempotent and remove tolerates absence", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedProfile(t, db, "owner@example.com")
		user := seedProfile(t, db, "user@example.com")
		repo := NewGormFavoriteRepository(db)

		ev := seedSingleEvent(t, db, owner.ID, "Party", now)

		require.NoError(t, repo.Add(ctx, feedback.NewFavorite(user.ID, ev.ID)))
		require.NoError(t, repo.Add(ctx, feedback.NewFavorite(user.ID, ev.ID)))

		ids, err := repo.ListEventIDsByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{ev.ID}, ids)

		exists, err := repo.Exists(ctx, user.ID, ev.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, repo.Remove(ctx, user.ID, ev.ID))
		require.NoError(t, repo.Remove(ctx, user.ID, ev.ID))

		exists, err = repo.Exists(ctx, user.ID, ev.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormProfileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email maps to already exists", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormProfileRepository(db)

		seedProfile(t, db, "taken@example.com")

		dup, err := identity.NewProfile("taken@example.com", "password123", "Other")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("find by email is case insensitive", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormProfileRepository(db)

		seed := seedProfile(t, db, "case@example.com")

		found, err := repo.FindByEmail(ctx, "  Case@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, seed.ID, found.ID)
	})

	t.Run("list paginates and searches", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormProfileRepository(db)

		seedProfile(t, db, "ana@example.com")
		seedProfile(t, db, "bruno@example.com")
		seedProfile(t, db, "carla@example.com")

		page, err := repo.List(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "email", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "ana@example.com", page.Items[0].Email)

		search, err := repo.List(ctx, shared.Filter{Search: "bruno"})
		require.NoError(t, err)
		require.Len(t, search.Items, 1)
		assert.Equal(t, "bruno@example.com", search.Items[0].Email)
	})

	t.Run("delete cascades to owner requests", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormProfileRepository(db)
		reqRepo := NewGormOwnerRequestRepository(db)

		user := seedProfile(t, db, "leaving@example.com")
		request, err := identity.NewOwnerRequest(user.ID, identity.OwnerRequestInput{
			VenueName:     "Bar do Zé",
			Phone:         "+55 11 99999-0000",
			TermsAccepted: true,
		})
		require.NoError(t, err)
		require.NoError(t, reqRepo.Save(ctx, request))

		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err = reqRepo.FindByID(ctx, request.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOwnerRequestRepository(t *testing.T) {
	ctx := context.Background()

	newRequest := func(t *testing.T, userID uuid.UUID) *identity.OwnerRequest {
		t.Helper()
		request, err := identity.NewOwnerRequest(userID, identity.OwnerRequestInput{
			VenueName:     "Clube Central",
			Phone:         "+55 11 98888-0000",
			TermsAccepted: true,
		})
		require.NoError(t, err)
		return request
	}

	t.Run("find pending by user", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormOwnerRequestRepository(db)

		user := seedProfile(t, db, "applicant@example.com")
		request := newRequest(t, user.ID)
		require.NoError(t, repo.Save(ctx, request))

		pending, err := repo.FindPendingByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, request.ID, pending.ID)

		require.NoError(t, request.Reject(user.ID, "not enough proof"))
		require.NoError(t, repo.Save(ctx, request))

		_, err = repo.FindPendingByUser(ctx, user.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list by status pages oldest first", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormOwnerRequestRepository(db)

		first := seedProfile(t, db, "first@example.com")
		second := seedProfile(t, db, "second@example.com")

		older := newRequest(t, first.ID)
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		require.NoError(t, repo.Save(ctx, older))
		require.NoError(t, repo.Save(ctx, newRequest(t, second.ID)))

		page, err := repo.ListByStatus(ctx, identity.OwnerRequestPending, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, first.ID, page.Items[0].UserID)
	})
}

func TestGormPasswordResetRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips by token hash", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormPasswordResetRepository(db)

		user := seedProfile(t, db, "reset@example.com")
		token, plaintext, err := identity.NewPasswordResetToken(user.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, token))

		found, err := repo.FindByTokenHash(ctx, identity.HashResetToken(plaintext))
		require.NoError(t, err)
		assert.Equal(t, token.ID, found.ID)

		_, err = repo.FindByTokenHash(ctx, identity.HashResetToken("wrong"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete expired removes only stale tokens", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormPasswordResetRepository(db)

		user := seedProfile(t, db, "reset@example.com")

		fresh, _, err := identity.NewPasswordResetToken(user.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, fresh))

		stale, _, err := identity.NewPasswordResetToken(user.ID)
		require.NoError(t, err)
		stale.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, repo.Save(ctx, stale))

		deleted, err := repo.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})
}
