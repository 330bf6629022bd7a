package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	sweepMeterName = "reminder.sweep"
)

type SweepMetrics struct {
	sweepsTotal      metric.Int64Counter
	groupsProcessed  metric.Int64Counter
	candidatesTotal  metric.Int64Counter
	sweepDuration    metric.Float64Histogram
	groupSize        metric.Int64Histogram
	conflictsChecked metric.Int64Counter
}

func NewSweepMetrics() (*SweepMetrics, error) {
	meter := otel.Meter(sweepMeterName)

	sweepsTotal, err := meter.Int64Counter(
		"reminder_sweeps_total",
		metric.WithDescription("Total number of reminder sweeps"),
		metric.WithUnit("{sweep}"),
	)
	if err != nil {
		return nil, err
	}

	groupsProcessed, err := meter.Int64Counter(
		"reminder_groups_total",
		metric.WithDescription("Total number of reminder groups processed"),
		metric.WithUnit("{group}"),
	)
	if err != nil {
		return nil, err
	}

	candidatesTotal, err := meter.Int64Counter(
		"reminder_candidates_total",
		metric.WithDescription("Total number of reminder candidates generated"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"reminder_sweep_duration_seconds",
		metric.WithDescription("Reminder sweep duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	groupSize, err := meter.Int64Histogram(
		"reminder_group_size",
		metric.WithDescription("Number of tasks per reminder group"),
		metric.WithUnit("{task}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13, 21),
	)
	if err != nil {
		return nil, err
	}

	conflictsChecked, err := meter.Int64Counter(
		"schedule_conflict_checks_total",
		metric.WithDescription("Total number of conflict checks by outcome"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	return &SweepMetrics{
		sweepsTotal:      sweepsTotal,
		groupsProcessed:  groupsProcessed,
		candidatesTotal:  candidatesTotal,
		sweepDuration:    sweepDuration,
		groupSize:        groupSize,
		conflictsChecked: conflictsChecked,
	}, nil
}

func (m *SweepMetrics) RecordSweep(ctx context.Context, trigger, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("outcome", outcome),
	)
	m.sweepsTotal.Add(ctx, 1, attrs)
	m.sweepDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *SweepMetrics) RecordGroupProcessed(ctx context.Context, mode, outcome string, size int) {
	m.groupsProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
	m.groupSize.Record(ctx, int64(size), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

func (m *SweepMetrics) RecordCandidates(ctx context.Context, count int) {
	m.candidatesTotal.Add(ctx, int64(count))
}

func (m *SweepMetrics) RecordConflictCheck(ctx context.Context, conflictTypes []string) {
	if len(conflictTypes) == 0 {
		m.conflictsChecked.Add(ctx, 1, metric.WithAttributes(attribute.String("type", "none")))
		return
	}
	for _, t := range conflictTypes {
		m.conflictsChecked.Add(ctx, 1, metric.WithAttributes(attribute.String("type", t)))
	}
}
