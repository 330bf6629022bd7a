package config

import "errors"

var (
	ErrRedisAddrMissing     = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB       = errors.New("REDIS_DB must be an integer between 0 and 15")
	ErrDatabasePathMissing  = errors.New("DATABASE_PATH is required")
	ErrInvalidLedgerBackend = errors.New("DEDUP_LEDGER_BACKEND must be one of sql, redis, memory")
	ErrInvalidLedgerTTL     = errors.New("DEDUP_LEDGER_TTL_HOURS must be a non-negative integer")
	ErrLedgerTTLTooShort    = errors.New("DEDUP_LEDGER_TTL_HOURS must outlive REMINDER_STALE_HOURS plus the longest aggregation window")
)
