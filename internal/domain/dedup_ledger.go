package domain

import "context"

//go:generate mockgen -source=dedup_ledger.go -destination=dedup_ledger_mock.go -package=domain

// DedupLedger is the append-only record of emitted reminder groups.
type DedupLedger interface {
	HasSent(ctx context.Context, key DedupKey) (bool, error)
	// Record inserts the record only if its key is absent. The check and the insert are a
	// single atomic step; inserted is false when another writer already holds the key.
	Record(ctx context.Context, record *DedupRecord) (inserted bool, err error)
}
