package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"time"
)

type ReminderCandidate struct {
	TaskID     string
	TaskTitle  string
	ScheduleAt time.Time
	Mode       ReminderMode
}

// ReminderGroup is the unit of notification and of deduplication.
type ReminderGroup struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Mode        ReminderMode
	TaskIDs     []string
	// Titles is keyed by task id and only used for delivery payloads.
	Titles map[string]string
}

// Key returns the dedup identity of the group.
func (g *ReminderGroup) Key() DedupKey {
	return NewDedupKey(g.WindowStart, g.Mode, g.TaskIDs)
}

// DedupKey identifies "this exact group was already sent".
type DedupKey struct {
	WindowStart time.Time
	Mode        ReminderMode
	TaskIDs     []string
}

// NewDedupKey canonicalizes task ids (sorted, unique) and the window start (UTC).
func NewDedupKey(windowStart time.Time, mode ReminderMode, taskIDs []string) DedupKey {
	return DedupKey{
		WindowStart: windowStart.UTC(),
		Mode:        mode,
		TaskIDs:     CanonicalTaskIDs(taskIDs),
	}
}

func CanonicalTaskIDs(taskIDs []string) []string {
	ids := slices.Clone(taskIDs)
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (k DedupKey) String() string {
	return k.WindowStart.UTC().Format(time.RFC3339) + "|" + k.Mode.String() + "|" + strings.Join(k.TaskIDs, ",")
}

// Hash is a fixed-length digest of String, suitable as a storage key.
func (k DedupKey) Hash() string {
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:])
}

// DedupRecord is the durable ledger row written once per emitted group.
type DedupRecord struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Mode        ReminderMode
	TaskIDs     []string
	SentAt      time.Time
}

func NewDedupRecord(group *ReminderGroup, sentAt time.Time) *DedupRecord {
	key := group.Key()
	return &DedupRecord{
		WindowStart: key.WindowStart,
		WindowEnd:   group.WindowEnd.UTC(),
		Mode:        key.Mode,
		TaskIDs:     key.TaskIDs,
		SentAt:      sentAt.UTC(),
	}
}

func (r *DedupRecord) Key() DedupKey {
	return NewDedupKey(r.WindowStart, r.Mode, r.TaskIDs)
}
