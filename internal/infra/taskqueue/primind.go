package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/tracing"
)

type PrimindTasksClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	retry      retryPolicy
}

func NewPrimindTasksClient(baseURL, queueName string, maxRetries int) *PrimindTasksClient {
	return &PrimindTasksClient{
		baseURL:    baseURL,
		queueName:  queueName,
		httpClient: newHTTPClient(baseURL),
		retry:      newRetryPolicy(maxRetries),
	}
}

func (c *PrimindTasksClient) RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification task: %w", err)
	}

	primindReq := PrimindTaskRequest{
		Task: PrimindTask{
			Name: task.TaskName,
			HTTPRequest: PrimindHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		primindReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(primindReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primind request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	return c.retry.register(ctx, task.TaskName, func(ctx context.Context) (*TaskResponse, error) {
		return c.doRequest(ctx, url, reqBody, task.TaskName)
	})
}

func (c *PrimindTasksClient) doRequest(ctx context.Context, url string, reqBody []byte, taskName string) (*TaskResponse, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "register_notification", url)
	defer span.End()

	slog.DebugContext(ctx, "registering notification to Primind Tasks",
		slog.String("url", url),
		slog.String("task_name", taskName),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to Primind Tasks",
			slog.String("task_name", taskName),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// The queue rejects a second task with the same name; that group is already queued.
	if resp.StatusCode == http.StatusConflict {
		slog.InfoContext(ctx, "notification task already registered",
			slog.String("task_name", taskName),
		)
		tracing.RecordError(span, nil)
		return &TaskResponse{Name: taskName}, nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.WarnContext(ctx, "unexpected status code from Primind Tasks",
			slog.String("task_name", taskName),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	var primindResp PrimindTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&primindResp); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, primindResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, primindResp.CreateTime)

	slog.InfoContext(ctx, "notification task registered to Primind Tasks",
		slog.String("task_name", primindResp.Name),
	)
	tracing.RecordError(span, nil)

	return &TaskResponse{
		Name:         primindResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}
