package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/infra/taskqueue"
)

// QueueNotifier registers each group as a task on the notification queue.
type QueueNotifier struct {
	queue taskqueue.TaskQueue
}

func NewQueueNotifier(queue taskqueue.TaskQueue) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (n *QueueNotifier) Notify(ctx context.Context, group *domain.ReminderGroup) error {
	task := taskqueue.NewNotificationTask(group)

	resp, err := n.queue.RegisterNotification(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to register reminder group: %w", err)
	}

	slog.InfoContext(ctx, "reminder queued",
		slog.String("task_name", resp.Name),
		slog.String("mode", group.Mode.String()),
		slog.Time("window_start", group.WindowStart),
		slog.Any("tasks", taskAttrs(group)),
	)
	return nil
}
