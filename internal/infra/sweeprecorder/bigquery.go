//go:build gcloud

package sweeprecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt      time.Time `bigquery:"recorded_at"`
	RunID           string    `bigquery:"run_id"`
	SweptAt         time.Time `bigquery:"swept_at"`
	TaskCount       int64     `bigquery:"task_count"`
	CandidateCount  int64     `bigquery:"candidate_count"`
	ReadyCount      int64     `bigquery:"ready_count"`
	GroupCount      int64     `bigquery:"group_count"`
	NotifiedCount   int64     `bigquery:"notified_count"`
	SkippedCount    int64     `bigquery:"skipped_count"`
	FailedCount     int64     `bigquery:"failed_count"`
	DurationSeconds float64   `bigquery:"duration_seconds"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SweepRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "sweep result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, sweep result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, sweep result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "sweep result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
	}, nil
}

func (r *bigQueryRecorder) RecordSweep(ctx context.Context, record domain.SweepResultRecord) error {
	row := &bigQueryRecord{
		RecordedAt:      time.Now(),
		RunID:           record.RunID,
		SweptAt:         record.SweptAt,
		TaskCount:       int64(record.TaskCount),
		CandidateCount:  int64(record.CandidateCount),
		ReadyCount:      int64(record.ReadyCount),
		GroupCount:      int64(record.GroupCount),
		NotifiedCount:   int64(record.NotifiedCount),
		SkippedCount:    int64(record.SkippedCount),
		FailedCount:     int64(record.FailedCount),
		DurationSeconds: record.Duration.Seconds(),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert sweep result to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
