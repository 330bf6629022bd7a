package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=task_queue_mock.go -package=taskqueue

// TaskQueue hands reminder notifications to the delivery service.
type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
}
