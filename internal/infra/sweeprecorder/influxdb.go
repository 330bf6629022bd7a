//go:build !gcloud

package sweeprecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

const sweepMeasurement = "reminder_sweep"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SweepRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "sweep result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, sweep result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "sweep result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
	}, nil
}

func newSweepPoint(record domain.SweepResultRecord) *write.Point {
	return influxdb2.NewPoint(
		sweepMeasurement,
		map[string]string{
			"run_id": record.RunID,
		},
		map[string]any{
			"task_count":       record.TaskCount,
			"candidate_count":  record.CandidateCount,
			"ready_count":      record.ReadyCount,
			"group_count":      record.GroupCount,
			"notified_count":   record.NotifiedCount,
			"skipped_count":    record.SkippedCount,
			"failed_count":     record.FailedCount,
			"duration_seconds": record.Duration.Seconds(),
		},
		record.SweptAt,
	)
}

// RecordSweep never fails the sweep; write errors are logged only.
func (r *influxDBRecorder) RecordSweep(ctx context.Context, record domain.SweepResultRecord) error {
	if err := r.writeAPI.WritePoint(ctx, newSweepPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write sweep result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
