package notifier

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

// LogNotifier writes each reminder group to the structured log. It is the delivery channel
// when no task queue is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, group *domain.ReminderGroup) error {
	n.logger.InfoContext(ctx, "reminder",
		slog.String("mode", group.Mode.String()),
		slog.Time("window_start", group.WindowStart),
		slog.Time("window_end", group.WindowEnd),
		slog.Any("tasks", taskAttrs(group)),
	)
	return nil
}

func taskAttrs(group *domain.ReminderGroup) []map[string]string {
	tasks := make([]map[string]string, 0, len(group.TaskIDs))
	for _, id := range group.TaskIDs {
		tasks = append(tasks, map[string]string{
			"id":    id,
			"title": group.Titles[id],
		})
	}
	return tasks
}
