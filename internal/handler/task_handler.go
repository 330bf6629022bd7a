package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-task-scheduling/internal/clock"
	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type TaskHandler struct {
	taskRepo  domain.TaskRepository
	prefsRepo domain.PreferencesRepository
	clock     clock.Clock
}

func NewTaskHandler(taskRepo domain.TaskRepository, prefsRepo domain.PreferencesRepository, clk clock.Clock) *TaskHandler {
	if clk == nil {
		clk = clock.New()
	}

	return &TaskHandler{
		taskRepo:  taskRepo,
		prefsRepo: prefsRepo,
		clock:     clk,
	}
}

type CreateTaskRequest struct {
	Title        string                     `json:"title" binding:"required"`
	Status       string                     `json:"status"`
	Start        string                     `json:"start"`
	Due          string                     `json:"due"`
	DurationMin  *int                       `json:"duration_min" binding:"omitempty,min=0"`
	Flexibility  string                     `json:"flexibility"`
	RemindPolicy []domain.RemindPolicyEntry `json:"remind_policy"`
}

type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

func (h *TaskHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	task, err := h.newTask(&req)
	if err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	if len(task.RemindPolicy) == 0 {
		prefs, err := h.prefsRepo.GetPreferences(ctx)
		switch {
		case err == nil:
			task.RemindPolicy = []domain.RemindPolicyEntry{prefs.DefaultReminder}
		case errors.Is(err, domain.ErrPreferencesNotFound):
			slog.WarnContext(ctx, "no preferences stored, task created without reminders",
				slog.String("task_id", task.ID),
			)
		default:
			slog.ErrorContext(ctx, "failed to load preferences", slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to load preferences")
			return
		}
	}

	if err := h.taskRepo.SaveTask(ctx, task); err != nil {
		slog.ErrorContext(ctx, "failed to save task",
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to save task")
		return
	}

	slog.InfoContext(ctx, "task created",
		slog.String("task_id", task.ID),
		slog.Int("reminder_count", len(task.RemindPolicy)),
	)

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	task, err := h.taskRepo.GetTask(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, errTypeNotFound, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to get task", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	tasks, err := h.taskRepo.ListTasks(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tasks", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks})
}

func (h *TaskHandler) newTask(req *CreateTaskRequest) (*domain.Task, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	flexibility, err := domain.ParseFlexibility(req.Flexibility)
	if err != nil {
		return nil, err
	}

	for i, entry := range req.RemindPolicy {
		if entry.OffsetMin < 0 {
			return nil, fmt.Errorf("%w: remind_policy[%d].offset_min must be non-negative", domain.ErrInvalidTask, i)
		}
		if _, err := domain.ParseReminderMode(string(entry.Mode)); err != nil {
			return nil, fmt.Errorf("%w: remind_policy[%d]: %w", domain.ErrInvalidTask, i, err)
		}
	}

	now := h.clock.Now().UTC()

	return &domain.Task{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Status:       status,
		Start:        req.Start,
		Due:          req.Due,
		DurationMin:  req.DurationMin,
		Flexibility:  flexibility,
		RemindPolicy: req.RemindPolicy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
