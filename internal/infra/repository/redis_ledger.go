package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

const (
	sentGroupKeyPrefix = "reminder:sent:"
)

type sentGroupRecord struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Mode        string    `json:"mode"`
	TaskIDs     []string  `json:"task_ids"`
	SentAt      time.Time `json:"sent_at"`
}

type redisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLedger stores one key per emitted group. A zero ttl keeps entries forever.
func NewRedisLedger(client *redis.Client, ttl time.Duration) domain.DedupLedger {
	return &redisLedger{
		client: client,
		ttl:    ttl,
	}
}

func sentGroupKey(key domain.DedupKey) string {
	return sentGroupKeyPrefix + key.Hash()
}

func (l *redisLedger) HasSent(ctx context.Context, key domain.DedupKey) (bool, error) {
	exists, err := l.client.Exists(ctx, sentGroupKey(key)).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}

func (l *redisLedger) Record(ctx context.Context, record *domain.DedupRecord) (bool, error) {
	if record == nil {
		return false, ErrInvalidLedgerData
	}

	key := record.Key()

	data, err := json.Marshal(sentGroupRecord{
		WindowStart: key.WindowStart,
		WindowEnd:   record.WindowEnd,
		Mode:        key.Mode.String(),
		TaskIDs:     key.TaskIDs,
		SentAt:      record.SentAt,
	})
	if err != nil {
		return false, ErrInvalidLedgerData
	}

	return l.client.SetNX(ctx, sentGroupKey(key), data, l.ttl).Result()
}
