package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/KasumiMercury/primind-task-scheduling/internal/service/reminder"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartSweepSpan(ctx context.Context, now time.Time, runID string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.sweep",
		trace.WithAttributes(
			attribute.String("sweep.run_id", runID),
			attribute.String("sweep.now", now.Format(time.RFC3339)),
		),
	)
}

func StartGroupSpan(ctx context.Context, key string, mode string, size int) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.group",
		trace.WithAttributes(
			attribute.String("group.key", key),
			attribute.String("group.mode", mode),
			attribute.Int("group.size", size),
		),
	)
}

func StartLedgerSpan(ctx context.Context, backend, operation string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.ledger."+operation,
		trace.WithAttributes(
			attribute.String("ledger.backend", backend),
			attribute.String("db.operation", operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSweepResult(span trace.Span, candidateCount, groupCount, notifiedCount, skippedCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.Int("sweep.candidate_count", candidateCount),
		attribute.Int("sweep.group_count", groupCount),
		attribute.Int("sweep.notified_count", notifiedCount),
		attribute.Int("sweep.skipped_count", skippedCount),
		attribute.Int("sweep.failed_count", failedCount),
	)
	RecordError(span, err)
}

func RecordGroupOutcome(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("group.outcome", outcome))
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
