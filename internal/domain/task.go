package domain

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo  Status = "TODO"
	StatusDoing Status = "DOING"
	StatusDone  Status = "DONE"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsDone() bool {
	return s == StatusDone
}

func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusTodo, StatusDoing, StatusDone:
		return Status(raw), nil
	case "":
		return StatusTodo, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTask, raw)
	}
}

// ReminderMode decides how loudly a reminder is delivered.
type ReminderMode string

const (
	ReminderModeSilent ReminderMode = "silent"
	ReminderModePopup  ReminderMode = "popup"
)

func (m ReminderMode) String() string {
	return string(m)
}

func (m ReminderMode) IsPopup() bool {
	return m == ReminderModePopup
}

func ParseReminderMode(raw string) (ReminderMode, error) {
	switch ReminderMode(raw) {
	case ReminderModeSilent, ReminderModePopup:
		return ReminderMode(raw), nil
	default:
		return "", fmt.Errorf("unknown reminder mode %q", raw)
	}
}

// Dominant returns popup when either side is popup.
func (m ReminderMode) Dominant(other ReminderMode) ReminderMode {
	if m == ReminderModePopup || other == ReminderModePopup {
		return ReminderModePopup
	}
	return ReminderModeSilent
}

type RemindPolicyEntry struct {
	OffsetMin int          `json:"offset_min" yaml:"offset_min"`
	Mode      ReminderMode `json:"mode" yaml:"mode"`
}

func (e RemindPolicyEntry) Offset() time.Duration {
	return time.Duration(e.OffsetMin) * time.Minute
}

// Task is the minimal task shape the scheduling core reads.
// Start and Due hold ISO-8601 timestamps as stored; an empty string means absent.
type Task struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Status       Status              `json:"status"`
	Start        string              `json:"start,omitempty"`
	Due          string              `json:"due,omitempty"`
	DurationMin  *int                `json:"duration_min,omitempty"`
	Flexibility  Flexibility         `json:"flexibility"`
	RemindPolicy []RemindPolicyEntry `json:"remind_policy"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (t Task) AsDraft() Draft {
	return Draft{
		Title:       t.Title,
		Start:       t.Start,
		Due:         t.Due,
		DurationMin: t.DurationMin,
		Flexibility: t.Flexibility,
	}
}

// Draft is a proposed or edited task window that has not been persisted.
type Draft struct {
	Title       string      `json:"title,omitempty"`
	Start       string      `json:"start,omitempty"`
	Due         string      `json:"due,omitempty"`
	DurationMin *int        `json:"duration_min,omitempty" binding:"omitempty,min=0"`
	Flexibility Flexibility `json:"flexibility,omitempty"`
}

func (d Draft) HasAnchor() bool {
	return d.Start != "" || d.Due != ""
}

// IntPtr is a small helper for optional minute fields.
func IntPtr(v int) *int {
	return &v
}
