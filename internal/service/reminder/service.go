package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/tracing"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/window"
)

// Service runs one reminder sweep: generate, aggregate, dedup, notify.
type Service struct {
	taskRepo     domain.TaskRepository
	prefsRepo    domain.PreferencesRepository
	ledger       domain.DedupLedger
	notifier     domain.Notifier
	generator    *Generator
	sweepMetrics *metrics.SweepMetrics
	recorder     domain.SweepRecorder
	// defaultTimezone is used when the stored preferences carry no zone.
	defaultTimezone string
}

type ServiceOption func(*Service)

// WithDefaultTimezone sets the zone a sweep falls back to, matching the conflict detector's
// fallback so both read local times the same way.
func WithDefaultTimezone(tz string) ServiceOption {
	return func(s *Service) {
		if tz != "" {
			s.defaultTimezone = tz
		}
	}
}

func NewService(
	taskRepo domain.TaskRepository,
	prefsRepo domain.PreferencesRepository,
	ledger domain.DedupLedger,
	notifier domain.Notifier,
	generator *Generator,
	sweepMetrics *metrics.SweepMetrics,
	recorder domain.SweepRecorder,
	opts ...ServiceOption,
) *Service {
	if generator == nil {
		generator = NewGenerator()
	}

	s := &Service{
		taskRepo:        taskRepo,
		prefsRepo:       prefsRepo,
		ledger:          ledger,
		notifier:        notifier,
		generator:       generator,
		sweepMetrics:    sweepMetrics,
		recorder:        recorder,
		defaultTimezone: "UTC",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) location(prefs *domain.Preferences) *time.Location {
	if prefs != nil && prefs.Timezone != "" {
		return window.Location(prefs.Timezone)
	}
	return window.Location(s.defaultTimezone)
}

// RunSweep emits at most one notification per distinct group that is due at now.
// It returns an error only when tasks or preferences cannot be read; ledger and
// notifier failures are logged and counted per group.
func (s *Service) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	started := time.Now()
	result := &SweepResult{
		RunID:  uuid.NewString(),
		Now:    now,
		Groups: make([]GroupResult, 0),
	}

	ctx, span := tracing.StartSweepSpan(ctx, now, result.RunID)
	defer span.End()

	slog.DebugContext(ctx, "reminder sweep started",
		slog.String("run_id", result.RunID),
		slog.Time("now", now),
	)

	err := s.sweep(ctx, now, result)
	tracing.RecordSweepResult(span, result.CandidateCount, result.GroupCount, result.NotifiedCount, result.SkippedCount, result.FailedCount, err)
	if err != nil {
		slog.ErrorContext(ctx, "reminder sweep failed",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	duration := time.Since(started)

	slog.InfoContext(ctx, "reminder sweep completed",
		slog.String("run_id", result.RunID),
		slog.Int("task_count", result.TaskCount),
		slog.Int("candidate_count", result.CandidateCount),
		slog.Int("ready_count", result.ReadyCount),
		slog.Int("group_count", result.GroupCount),
		slog.Int("notified_count", result.NotifiedCount),
		slog.Int("skipped_count", result.SkippedCount),
		slog.Int("failed_count", result.FailedCount),
		slog.Duration("duration", duration),
	)

	s.record(ctx, result, duration)

	return result, nil
}

func (s *Service) sweep(ctx context.Context, now time.Time, result *SweepResult) error {
	tasks, err := s.taskRepo.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	result.TaskCount = len(tasks)

	if len(tasks) == 0 {
		return nil
	}

	prefs, err := s.prefsRepo.GetPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}

	loc := s.location(prefs)

	candidates := s.generator.Generate(tasks, now, loc)
	result.CandidateCount = len(candidates)
	if s.sweepMetrics != nil {
		s.sweepMetrics.RecordCandidates(ctx, len(candidates))
	}

	ready := Ready(candidates, now)
	result.ReadyCount = len(ready)

	groups := Group(ready, now, prefs.AggregationWindowMin)
	result.GroupCount = len(groups)

	for i := range groups {
		group := &groups[i]
		groupResult := s.processGroup(ctx, group, now)
		result.add(groupResult)

		if s.sweepMetrics != nil {
			s.sweepMetrics.RecordGroupProcessed(ctx, group.Mode.String(), groupResult.Outcome.String(), len(group.TaskIDs))
		}
	}

	return nil
}

func (s *Service) processGroup(ctx context.Context, group *domain.ReminderGroup, now time.Time) GroupResult {
	key := group.Key()
	result := GroupResult{
		Key:         key.String(),
		WindowStart: group.WindowStart,
		WindowEnd:   group.WindowEnd,
		Mode:        group.Mode,
		TaskIDs:     key.TaskIDs,
	}

	ctx, span := tracing.StartGroupSpan(ctx, result.Key, group.Mode.String(), len(key.TaskIDs))
	defer span.End()

	outcome, err := s.deliver(ctx, group, key, now)
	result.Outcome = outcome
	if err != nil {
		result.Error = err.Error()
	}
	tracing.RecordGroupOutcome(span, outcome.String(), err)

	return result
}

// deliver writes the ledger before notifying so that a crash in between drops a reminder
// instead of repeating it.
func (s *Service) deliver(ctx context.Context, group *domain.ReminderGroup, key domain.DedupKey, now time.Time) (GroupOutcome, error) {
	sent, err := s.ledger.HasSent(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check dedup ledger",
			slog.String("group_key", key.String()),
			slog.String("error", err.Error()),
		)
		return OutcomeLedgerFailed, err
	}
	if sent {
		slog.DebugContext(ctx, "skipping already sent reminder group",
			slog.String("group_key", key.String()),
		)
		return OutcomeAlreadySent, nil
	}

	inserted, err := s.ledger.Record(ctx, domain.NewDedupRecord(group, now))
	if err != nil {
		slog.ErrorContext(ctx, "failed to record reminder group",
			slog.String("group_key", key.String()),
			slog.String("error", err.Error()),
		)
		return OutcomeLedgerFailed, err
	}
	if !inserted {
		slog.DebugContext(ctx, "reminder group recorded by another sweep",
			slog.String("group_key", key.String()),
		)
		return OutcomeLostRace, nil
	}

	if err := s.notifier.Notify(ctx, group); err != nil {
		slog.ErrorContext(ctx, "failed to notify reminder group",
			slog.String("group_key", key.String()),
			slog.String("error", err.Error()),
		)
		return OutcomeNotifyFailed, err
	}

	slog.DebugContext(ctx, "reminder group notified",
		slog.String("group_key", key.String()),
		slog.String("mode", group.Mode.String()),
		slog.Int("task_count", len(group.TaskIDs)),
	)

	return OutcomeNotified, nil
}

func (s *Service) record(ctx context.Context, result *SweepResult, duration time.Duration) {
	if s.recorder == nil {
		return
	}

	record := domain.SweepResultRecord{
		RunID:          result.RunID,
		SweptAt:        result.Now,
		TaskCount:      result.TaskCount,
		CandidateCount: result.CandidateCount,
		ReadyCount:     result.ReadyCount,
		GroupCount:     result.GroupCount,
		NotifiedCount:  result.NotifiedCount,
		SkippedCount:   result.SkippedCount,
		FailedCount:    result.FailedCount,
		Duration:       duration,
	}

	if err := s.recorder.RecordSweep(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record sweep result",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
	}
}
