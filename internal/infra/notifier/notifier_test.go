package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/infra/taskqueue"
)

func testGroup() *domain.ReminderGroup {
	start := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	return &domain.ReminderGroup{
		WindowStart: start,
		WindowEnd:   start.Add(30 * time.Minute),
		Mode:        domain.ReminderModeSilent,
		TaskIDs:     []string{"a"},
		Titles:      map[string]string{"a": "Stretch"},
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	if err := NewLogNotifier(logger).Notify(context.Background(), testGroup()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}
	if entry["msg"] != "reminder" || entry["mode"] != "silent" {
		t.Errorf("unexpected log entry: %v", entry)
	}
	tasks, ok := entry["tasks"].([]any)
	if !ok || len(tasks) != 1 {
		t.Fatalf("expected one task in log entry, got %v", entry["tasks"])
	}
	if task := tasks[0].(map[string]any); task["title"] != "Stretch" {
		t.Errorf("expected title Stretch, got %v", task["title"])
	}
}

func TestQueueNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)

	queue.EXPECT().
		RegisterNotification(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *taskqueue.NotificationTask) (*taskqueue.TaskResponse, error) {
			if task.Mode != "silent" || len(task.Tasks) != 1 || task.Tasks[0].Title != "Stretch" {
				t.Errorf("unexpected task: %+v", task)
			}
			return &taskqueue.TaskResponse{Name: task.TaskName}, nil
		})

	if err := NewQueueNotifier(queue).Notify(context.Background(), testGroup()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueueNotifierError(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)
	queueErr := errors.New("queue unavailable")

	queue.EXPECT().RegisterNotification(gomock.Any(), gomock.Any()).Return(nil, queueErr)

	err := NewQueueNotifier(queue).Notify(context.Background(), testGroup())
	if !errors.Is(err, queueErr) {
		t.Errorf("expected wrapped queue error, got %v", err)
	}
}
