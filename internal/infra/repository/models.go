package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type taskModel struct {
	ID           string  `gorm:"primaryKey"`
	Title        string  `gorm:"not null"`
	Status       string  `gorm:"not null;default:TODO"`
	StartAt      *string `gorm:"column:start_at"`
	DueAt        *string `gorm:"column:due_at;index"`
	DurationMin  *int
	Flexibility  string `gorm:"not null;default:strict"`
	RemindPolicy string `gorm:"type:text;not null;default:'[]'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (taskModel) TableName() string {
	return "tasks"
}

type preferencesModel struct {
	ID                   uint   `gorm:"primaryKey"`
	WorkHours            string `gorm:"type:text;not null"`
	QuietHours           string `gorm:"type:text;not null"`
	DefaultReminder      string `gorm:"type:text;not null"`
	AggregationWindowMin int    `gorm:"not null"`
	Timezone             string `gorm:"not null"`
	UpdatedAt            time.Time
}

func (preferencesModel) TableName() string {
	return "user_prefs"
}

type dedupRecordModel struct {
	ID          uint      `gorm:"primaryKey"`
	DedupKey    string    `gorm:"uniqueIndex;not null"`
	WindowStart time.Time `gorm:"index;not null"`
	WindowEnd   time.Time `gorm:"not null"`
	Mode        string    `gorm:"not null"`
	TaskIDs     string    `gorm:"type:text;not null"`
	SentAt      time.Time `gorm:"not null"`
}

func (dedupRecordModel) TableName() string {
	return "reminder_dedup"
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func newTaskModel(task *domain.Task) (*taskModel, error) {
	policy := task.RemindPolicy
	if policy == nil {
		policy = []domain.RemindPolicyEntry{}
	}
	data, err := json.Marshal(policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaskData, err)
	}

	return &taskModel{
		ID:           task.ID,
		Title:        task.Title,
		Status:       task.Status.String(),
		StartAt:      optionalString(task.Start),
		DueAt:        optionalString(task.Due),
		DurationMin:  task.DurationMin,
		Flexibility:  string(task.Flexibility),
		RemindPolicy: string(data),
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}, nil
}

func (m *taskModel) toDomain() (domain.Task, error) {
	var policy []domain.RemindPolicyEntry
	if m.RemindPolicy != "" {
		if err := json.Unmarshal([]byte(m.RemindPolicy), &policy); err != nil {
			return domain.Task{}, fmt.Errorf("%w: task %s remind_policy: %w", ErrInvalidTaskData, m.ID, err)
		}
	}

	return domain.Task{
		ID:           m.ID,
		Title:        m.Title,
		Status:       domain.Status(m.Status),
		Start:        derefString(m.StartAt),
		Due:          derefString(m.DueAt),
		DurationMin:  m.DurationMin,
		Flexibility:  domain.Flexibility(m.Flexibility),
		RemindPolicy: policy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
