package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/clock"
	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/reminder"
)

const DefaultPeriod = time.Minute

type State int32

const (
	StateIdle State = iota
	StateSweeping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSweeping:
		return "sweeping"
	default:
		return "unknown"
	}
}

type Trigger string

const (
	TriggerTick   Trigger = "tick"
	TriggerManual Trigger = "manual"
)

//go:generate mockgen -source=scheduler.go -destination=sweeper_mock.go -package=scheduler

type Sweeper interface {
	RunSweep(ctx context.Context, now time.Time) (*reminder.SweepResult, error)
}

type Option func(*Scheduler)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithPeriod(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.period = d
		}
	}
}

func WithMetrics(m *metrics.SweepMetrics) Option {
	return func(s *Scheduler) {
		s.sweepMetrics = m
	}
}

// Scheduler drives reminder sweeps on a fixed period. At most one sweep runs at a time;
// a failing or panicking sweep is logged and the next tick retries with fresh data.
type Scheduler struct {
	sweeper      Sweeper
	clock        clock.Clock
	period       time.Duration
	sweepMetrics *metrics.SweepMetrics

	inflight sync.Mutex
	state    atomic.Int32

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(sweeper Sweeper, opts ...Option) *Scheduler {
	s := &Scheduler{
		sweeper: sweeper,
		clock:   clock.New(),
		period:  DefaultPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Start begins ticking in a background goroutine. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	ticker := s.clock.NewTicker(s.period)
	go s.loop(loopCtx, ticker, s.done)

	slog.InfoContext(ctx, "reminder scheduler started",
		slog.Duration("period", s.period),
	)
}

// Stop cancels the loop and waits for an in-flight sweep to return.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.lifecycle.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	slog.Info("reminder scheduler stopped")
}

// Trigger runs one sweep now, outside the tick cadence. It returns domain.ErrSweepInProgress
// when another sweep holds the slot.
func (s *Scheduler) Trigger(ctx context.Context, now time.Time) (*reminder.SweepResult, error) {
	if !s.inflight.TryLock() {
		return nil, domain.ErrSweepInProgress
	}
	defer s.inflight.Unlock()

	return s.sweep(ctx, now, TriggerManual)
}

func (s *Scheduler) loop(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.inflight.TryLock() {
		slog.DebugContext(ctx, "skipping tick, sweep already in progress")
		return
	}
	defer s.inflight.Unlock()

	// Errors are logged inside sweep; the loop keeps going.
	_, _ = s.sweep(ctx, s.clock.Now(), TriggerTick)
}

// sweep must be called with inflight held.
func (s *Scheduler) sweep(ctx context.Context, now time.Time, trigger Trigger) (result *reminder.SweepResult, err error) {
	s.state.Store(int32(StateSweeping))
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reminder sweep panicked: %v", r)
			result = nil
			slog.ErrorContext(ctx, "reminder sweep panicked",
				slog.String("trigger", string(trigger)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}

		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		if s.sweepMetrics != nil {
			s.sweepMetrics.RecordSweep(ctx, string(trigger), outcome, time.Since(started))
		}

		s.state.Store(int32(StateIdle))
	}()

	result, err = s.sweeper.RunSweep(ctx, now)
	if err != nil {
		slog.WarnContext(ctx, "reminder sweep did not complete",
			slog.String("trigger", string(trigger)),
			slog.String("error", err.Error()),
		)
	}

	return result, err
}
