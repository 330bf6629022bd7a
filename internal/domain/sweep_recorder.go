package domain

import (
	"context"
	"time"
)

type SweepResultRecord struct {
	RunID          string
	SweptAt        time.Time
	TaskCount      int
	CandidateCount int
	ReadyCount     int
	GroupCount     int
	NotifiedCount  int
	SkippedCount   int
	FailedCount    int
	Duration       time.Duration
}

type SweepRecorder interface {
	RecordSweep(ctx context.Context, record SweepResultRecord) error
	Close() error
}
