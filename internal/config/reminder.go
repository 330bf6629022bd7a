package config

import (
	"os"
	"strconv"
	"time"
)

const (
	sweepIntervalSecondsEnv = "REMINDER_SWEEP_INTERVAL_SECONDS"
	staleHoursEnv           = "REMINDER_STALE_HOURS"
	skipDoneEnv             = "REMINDER_SKIP_DONE"

	defaultSweepIntervalSeconds = 60
	defaultStaleHours           = 48
)

type ReminderConfig struct {
	SweepInterval time.Duration
	StaleAfter    time.Duration
	SkipDone      bool
}

func LoadReminderConfig() *ReminderConfig {
	interval := defaultSweepIntervalSeconds
	if v := os.Getenv(sweepIntervalSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	staleHours := defaultStaleHours
	if v := os.Getenv(staleHoursEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			staleHours = parsed
		}
	}

	return &ReminderConfig{
		SweepInterval: time.Duration(interval) * time.Second,
		StaleAfter:    time.Duration(staleHours) * time.Hour,
		SkipDone:      os.Getenv(skipDoneEnv) == "true",
	}
}
