// Package scheduler maps the schedule's deadline times and the daily
// midnight rollover to wall-clock triggers. It owns the only goroutines
// in the daemon; everything it invokes is an idempotent pass over
// explicit inputs, so an overlapping or spurious trigger firing is
// harmless by construction.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/orchestrator"
	"github.com/kwalsh-dev/rota/internal/schedule"
)

// Engine is the slice of the orchestrator the scheduler drives.
type Engine interface {
	RunDailyCreation(ctx context.Context, sched *schedule.Schedule, assignee string) (orchestrator.CreationResult, error)
	ProcessCategory(ctx context.Context, task schedule.TaskSpec, sched *schedule.Schedule) error
}

// ErrAlreadyStarted is returned by Start on a scheduler that is running
// or was stopped. A scheduler is one-shot: a schedule reload builds a
// fresh one.
var ErrAlreadyStarted = errors.New("scheduler already started")

// midnight is the daily creation trigger time.
var midnight = schedule.ClockTime{}

// Scheduler registers one daily trigger per distinct deadline time plus
// the midnight creation trigger. Stop is idempotent and safe to call
// from a signal handler.
type Scheduler struct {
	engine Engine
	logger *logging.Logger

	// now is injected in tests to pin the clock.
	now func() time.Time

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Scheduler driving the given engine.
func New(engine Engine, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scheduler{
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers all triggers and returns immediately. The caller is
// expected to have run the orchestrator's catch-up pass first; the
// scheduler itself only reacts to the clock from here on.
func (s *Scheduler) Start(sched *schedule.Schedule, assignee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	loc := sched.Location()

	for _, deadline := range sched.DeadlineTimes() {
		tasks := sched.TasksAt(deadline)
		s.spawnDaily(ctx, deadline, loc, func(ctx context.Context) {
			for _, task := range tasks {
				if err := s.engine.ProcessCategory(ctx, task, sched); err != nil {
					s.logger.Error("deadline trigger failed",
						"category", task.Category, "error", err)
					return
				}
			}
		})
		s.logger.Info("registered deadline trigger",
			"time", deadline.String(), "categories", len(tasks))
	}

	s.spawnDaily(ctx, midnight, loc, func(ctx context.Context) {
		if _, err := s.engine.RunDailyCreation(ctx, sched, assignee); err != nil {
			s.logger.Error("creation trigger failed", "error", err)
		}
	})
	s.logger.Info("registered midnight creation trigger", "timezone", loc.String())

	return nil
}

// spawnDaily runs fn once per day at the given clock time until the
// scheduler is stopped.
func (s *Scheduler) spawnDaily(ctx context.Context, at schedule.ClockTime, loc *time.Location, fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			next := nextOccurrence(s.now().In(loc), at, loc)
			timer := time.NewTimer(next.Sub(s.now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				fn(ctx)
			}
		}
	}()
}

// nextOccurrence returns the first instant at or after now whose wall
// clock in loc reads the given time. Re-deriving the wall clock per day
// keeps triggers aligned across DST transitions.
func nextOccurrence(now time.Time, at schedule.ClockTime, loc *time.Location) time.Time {
	candidate := at.On(now, loc)
	if !candidate.After(now) {
		candidate = at.On(now.AddDate(0, 0, 1), loc)
	}
	return candidate
}

// Stop cancels every registered trigger and waits for in-flight
// callbacks to return. Safe to call multiple times and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}
