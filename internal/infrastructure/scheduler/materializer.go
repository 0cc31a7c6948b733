// Package scheduler materializes recurring events into concrete
// occurrence rows ahead of time, so discovery queries and feedback
// writes always have a row to reference.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultInterval    = time.Hour
	defaultHorizonDays = 28
)

// Materializer periodically expands every recurring event's schedule
// over a rolling horizon. Existing (event, start) rows are kept, so the
// refresh is idempotent.
type Materializer struct {
	cfg            config.SchedulerConfig
	eventRepo      events.EventRepository
	occurrenceRepo events.OccurrenceRepository
	logger         *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewMaterializer creates a new Materializer
func NewMaterializer(
	cfg config.SchedulerConfig,
	eventRepo events.EventRepository,
	occurrenceRepo events.OccurrenceRepository,
	logger *zap.Logger,
) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		cfg:            cfg,
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		logger:         logger,
	}
}

// Start launches the refresh loop. The first pass runs after the
// configured startup delay, then on every interval tick.
func (m *Materializer) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = true
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go m.runLoop(ctx)

	m.logger.Info("Occurrence materializer started",
		zap.Duration("interval", m.interval()),
		zap.Int("horizon_days", m.horizonDays()),
	)
	return nil
}

// Stop stops the refresh loop and waits for an in-flight pass to finish
func (m *Materializer) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = false
	m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Occurrence materializer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Materializer) runLoop(ctx context.Context) {
	defer m.wg.Done()

	if delay := m.cfg.StartupDelay; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}

	if err := m.MaterializeAll(ctx, time.Now()); err != nil {
		m.logger.Error("Initial occurrence materialization failed", zap.Error(err))
	}

	ticker := time.NewTicker(m.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.MaterializeAll(ctx, time.Now()); err != nil {
				m.logger.Error("Occurrence materialization failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// MaterializeAll expands every recurring event over the horizon
func (m *Materializer) MaterializeAll(ctx context.Context, now time.Time) error {
	recurring, err := m.eventRepo.FindRecurring(ctx)
	if err != nil {
		return err
	}

	var created int
	for i := range recurring {
		n, err := m.materialize(ctx, &recurring[i], now)
		if err != nil {
			m.logger.Error("Failed to materialize event schedule",
				zap.String("event_id", recurring[i].ID.String()),
				zap.Error(err))
			continue
		}
		created += n
	}

	m.logger.Debug("Materialization pass finished",
		zap.Int("recurring_events", len(recurring)),
		zap.Int("windows", created))
	return nil
}

// RefreshEvent re-materializes a single event after a schedule change:
// future rows are dropped and regenerated, past rows (and the feedback
// hanging off them) are preserved.
func (m *Materializer) RefreshEvent(ctx context.Context, eventID uuid.UUID, now time.Time) error {
	ev, err := m.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !ev.Recurring {
		// Single-schedule events keep exactly one occurrence, maintained
		// by the application service alongside the event itself.
		return nil
	}

	if err := m.occurrenceRepo.DeleteFutureByEvent(ctx, eventID, now); err != nil {
		return err
	}

	_, err = m.materialize(ctx, ev, now)
	return err
}

func (m *Materializer) materialize(ctx context.Context, ev *events.Event, now time.Time) (int, error) {
	horizon := now.AddDate(0, 0, m.horizonDays())
	windows := ev.OccurrencesBetween(now, horizon)
	if len(windows) == 0 {
		return 0, nil
	}

	occurrences := make([]*events.Occurrence, len(windows))
	for i, w := range windows {
		occurrences[i] = events.NewOccurrence(ev.ID, w.StartsAt, w.EndsAt)
	}
	if err := m.occurrenceRepo.SaveAll(ctx, occurrences); err != nil {
		return 0, err
	}
	return len(occurrences), nil
}

func (m *Materializer) interval() time.Duration {
	if m.cfg.Interval > 0 {
		return m.cfg.Interval
	}
	return defaultInterval
}

func (m *Materializer) horizonDays() int {
	if m.cfg.HorizonDays > 0 {
		return m.cfg.HorizonDays
	}
	return defaultHorizonDays
}
