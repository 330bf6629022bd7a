package config

import (
	"os"
	"strconv"
	"time"
)

const (
	ledgerBackendEnv  = "DEDUP_LEDGER_BACKEND"
	ledgerTTLHoursEnv = "DEDUP_LEDGER_TTL_HOURS"

	defaultLedgerBackend = LedgerBackendSQL
)

type LedgerBackend string

const (
	LedgerBackendSQL    LedgerBackend = "sql"
	LedgerBackendRedis  LedgerBackend = "redis"
	LedgerBackendMemory LedgerBackend = "memory"
)

type LedgerConfig struct {
	Backend LedgerBackend
	// TTL applies to the redis backend only; zero keeps entries forever. ValidateForRun
	// rejects values shorter than MinLedgerTTL.
	TTL time.Duration
}

func LoadLedgerConfig() (*LedgerConfig, error) {
	backend := LedgerBackend(os.Getenv(ledgerBackendEnv))
	if backend == "" {
		backend = defaultLedgerBackend
	}

	switch backend {
	case LedgerBackendSQL, LedgerBackendRedis, LedgerBackendMemory:
	default:
		return nil, ErrInvalidLedgerBackend
	}

	var ttl time.Duration
	if v := os.Getenv(ledgerTTLHoursEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidLedgerTTL
		}
		ttl = time.Duration(parsed) * time.Hour
	}

	return &LedgerConfig{
		Backend: backend,
		TTL:     ttl,
	}, nil
}
