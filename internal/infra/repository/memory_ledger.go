package repository

import (
	"context"
	"sync"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

// MemoryLedger is a process-local ledger for tests and single-shot runs.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string]domain.DedupRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records: make(map[string]domain.DedupRecord),
	}
}

func (l *MemoryLedger) HasSent(_ context.Context, key domain.DedupKey) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.records[key.String()]
	return ok, nil
}

func (l *MemoryLedger) Record(_ context.Context, record *domain.DedupRecord) (bool, error) {
	if record == nil {
		return false, ErrInvalidLedgerData
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := record.Key().String()
	if _, ok := l.records[key]; ok {
		return false, nil
	}
	l.records[key] = *record
	return true, nil
}

func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.records)
}
