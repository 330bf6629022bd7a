package repository

import "errors"

var (
	ErrInvalidLedgerData = errors.New("invalid dedup ledger data")
	ErrInvalidTaskData   = errors.New("invalid task data")
	ErrInvalidSeedFile   = errors.New("invalid preferences seed file")
)
