package sweeprecorder

import (
	"context"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.SweepRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordSweep(_ context.Context, _ domain.SweepResultRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
