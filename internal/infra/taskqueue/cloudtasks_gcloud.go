//go:build gcloud

package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/tracing"
)

// CloudTasksClient enqueues reminder groups as HTTP tasks. Task names are derived from
// the group's dedup key, so Cloud Tasks rejects a group that is already queued.
type CloudTasksClient struct {
	client    *cloudtasks.Client
	queue     string
	targetURL string
	retry     retryPolicy
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	return &CloudTasksClient{
		client:    client,
		queue:     fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.LocationID, cfg.QueueID),
		targetURL: cfg.TargetURL,
		retry:     newRetryPolicy(cfg.MaxRetries),
	}, nil
}

func (c *CloudTasksClient) RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error) {
	req, err := c.buildRequest(task)
	if err != nil {
		return nil, err
	}

	return c.retry.register(ctx, task.TaskName, func(ctx context.Context) (*TaskResponse, error) {
		return c.create(ctx, req)
	})
}

func (c *CloudTasksClient) buildRequest(task *NotificationTask) (*taskspb.CreateTaskRequest, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder group payload: %w", err)
	}

	queued := &taskspb.Task{
		Name: c.queue + "/tasks/" + task.TaskName,
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       body,
			},
		},
	}
	if !task.ScheduleAt.IsZero() {
		queued.ScheduleTime = timestamppb.New(task.ScheduleAt)
	}

	return &taskspb.CreateTaskRequest{Parent: c.queue, Task: queued}, nil
}

func (c *CloudTasksClient) create(ctx context.Context, req *taskspb.CreateTaskRequest) (*TaskResponse, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "register_notification", req.Parent)
	defer span.End()

	created, err := c.client.CreateTask(ctx, req)
	switch {
	case status.Code(err) == codes.AlreadyExists:
		slog.InfoContext(ctx, "reminder group already queued",
			slog.String("task", req.Task.Name),
		)
		tracing.RecordError(span, nil)
		return &TaskResponse{Name: req.Task.Name}, nil
	case err != nil:
		slog.WarnContext(ctx, "cloud tasks rejected reminder group",
			slog.String("task", req.Task.Name),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.DebugContext(ctx, "reminder group queued",
		slog.String("task", created.GetName()),
	)
	tracing.RecordError(span, nil)

	resp := &TaskResponse{Name: created.GetName()}
	if ts := created.GetScheduleTime(); ts != nil {
		resp.ScheduleTime = ts.AsTime()
	}
	if ts := created.GetCreateTime(); ts != nil {
		resp.CreateTime = ts.AsTime()
	}
	return resp, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}
