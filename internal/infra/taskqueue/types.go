package taskqueue

import (
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type NotificationTask struct {
	// TaskName doubles as the queue-side idempotency key.
	TaskName   string    `json:"-"`
	ScheduleAt time.Time `json:"-"`

	Mode        string             `json:"mode"`
	WindowStart time.Time          `json:"window_start"`
	WindowEnd   time.Time          `json:"window_end"`
	Tasks       []NotificationItem `json:"tasks"`
}

type NotificationItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewNotificationTask builds the delivery payload for a group. Items follow the canonical
// task id order so identical groups produce identical bodies.
func NewNotificationTask(group *domain.ReminderGroup) *NotificationTask {
	key := group.Key()

	items := make([]NotificationItem, 0, len(key.TaskIDs))
	for _, id := range key.TaskIDs {
		items = append(items, NotificationItem{
			ID:    id,
			Title: group.Titles[id],
		})
	}

	return &NotificationTask{
		TaskName:    "reminder-" + key.Hash(),
		Mode:        group.Mode.String(),
		WindowStart: group.WindowStart.UTC(),
		WindowEnd:   group.WindowEnd.UTC(),
		Tasks:       items,
	}
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
