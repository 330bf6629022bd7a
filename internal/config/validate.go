package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

// ValidateForRun checks the settings the server cannot start without.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("APP_TZ: %w", err))
	}

	if cfg.Store == nil || cfg.Store.DatabasePath == "" {
		errs = append(errs, ErrDatabasePathMissing)
	}

	if cfg.Ledger != nil && cfg.Ledger.Backend == LedgerBackendRedis {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := validateLedgerTTL(cfg.Ledger, cfg.Reminder); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// MinLedgerTTL is the shortest retention that keeps a group from being sent twice: a
// candidate is regenerated until it goes stale, and its group can start up to one
// aggregation window earlier.
func MinLedgerTTL(reminder *ReminderConfig) time.Duration {
	staleAfter := time.Duration(defaultStaleHours) * time.Hour
	if reminder != nil && reminder.StaleAfter > 0 {
		staleAfter = reminder.StaleAfter
	}
	return staleAfter + time.Duration(domain.MaxAggregationWindowMin)*time.Minute
}

func validateLedgerTTL(ledger *LedgerConfig, reminder *ReminderConfig) error {
	if ledger.TTL == 0 {
		return nil
	}
	if minTTL := MinLedgerTTL(reminder); ledger.TTL < minTTL {
		return fmt.Errorf("%w: got %s, need at least %s", ErrLedgerTTLTooShort, ledger.TTL, minTTL)
	}
	return nil
}
