package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type sqlLedger struct {
	db *gorm.DB
}

// NewSQLLedger keeps sent groups in the reminder_dedup table; the unique index on the key makes
// concurrent inserts of the same group collapse to one row.
func NewSQLLedger(db *gorm.DB) domain.DedupLedger {
	return &sqlLedger{
		db: db,
	}
}

func (l *sqlLedger) HasSent(ctx context.Context, key domain.DedupKey) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&dedupRecordModel{}).
		Where("dedup_key = ?", key.Hash()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (l *sqlLedger) Record(ctx context.Context, record *domain.DedupRecord) (bool, error) {
	if record == nil {
		return false, ErrInvalidLedgerData
	}

	key := record.Key()
	taskIDs, err := json.Marshal(key.TaskIDs)
	if err != nil {
		return false, ErrInvalidLedgerData
	}

	model := &dedupRecordModel{
		DedupKey:    key.Hash(),
		WindowStart: key.WindowStart,
		WindowEnd:   record.WindowEnd,
		Mode:        key.Mode.String(),
		TaskIDs:     string(taskIDs),
		SentAt:      record.SentAt,
	}

	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
