package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/adjust"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/conflict"
)

type ScheduleHandler struct {
	detector     *conflict.Detector
	searcher     *adjust.Searcher
	taskRepo     domain.TaskRepository
	prefsRepo    domain.PreferencesRepository
	sweepMetrics *metrics.SweepMetrics
}

func NewScheduleHandler(
	detector *conflict.Detector,
	searcher *adjust.Searcher,
	taskRepo domain.TaskRepository,
	prefsRepo domain.PreferencesRepository,
	sweepMetrics *metrics.SweepMetrics,
) *ScheduleHandler {
	return &ScheduleHandler{
		detector:     detector,
		searcher:     searcher,
		taskRepo:     taskRepo,
		prefsRepo:    prefsRepo,
		sweepMetrics: sweepMetrics,
	}
}

type ScheduleCheckRequest struct {
	Draft domain.Draft `json:"draft"`
	// TaskID excludes the task being edited from the overlap scan.
	TaskID   string `json:"task_id,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type ConflictsResponse struct {
	Conflicts []domain.Conflict `json:"conflicts"`
}

type AdjustmentsResponse struct {
	Conflicts []domain.Conflict         `json:"conflicts"`
	Options   []domain.AdjustmentOption `json:"options"`
}

func (h *ScheduleHandler) HandleConflicts(c *gin.Context) {
	ctx := c.Request.Context()

	req, prefs, existing, ok := h.prepare(c)
	if !ok {
		return
	}

	conflicts := h.detector.Detect(req.Draft, prefs, existing, req.Timezone)
	h.recordConflicts(ctx, conflicts)

	c.JSON(http.StatusOK, ConflictsResponse{Conflicts: conflicts})
}

func (h *ScheduleHandler) HandleAdjustments(c *gin.Context) {
	ctx := c.Request.Context()

	req, prefs, existing, ok := h.prepare(c)
	if !ok {
		return
	}

	conflicts := h.detector.Detect(req.Draft, prefs, existing, req.Timezone)
	h.recordConflicts(ctx, conflicts)

	options := h.searcher.Search(req.Draft, prefs, existing, req.Timezone)

	slog.DebugContext(ctx, "adjustment search completed",
		slog.Int("conflict_count", len(conflicts)),
		slog.Int("option_count", len(options)),
	)

	c.JSON(http.StatusOK, AdjustmentsResponse{
		Conflicts: conflicts,
		Options:   options,
	})
}

func (h *ScheduleHandler) prepare(c *gin.Context) (*ScheduleCheckRequest, *domain.Preferences, []domain.Task, bool) {
	ctx := c.Request.Context()

	var req ScheduleCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return nil, nil, nil, false
	}

	if req.Draft.Flexibility != "" {
		if _, err := domain.ParseFlexibility(string(req.Draft.Flexibility)); err != nil {
			respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
			return nil, nil, nil, false
		}
	}

	prefs, err := h.prefsRepo.GetPreferences(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load preferences", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to load preferences")
		return nil, nil, nil, false
	}

	tasks, err := h.taskRepo.ListTasks(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tasks", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to list tasks")
		return nil, nil, nil, false
	}

	existing := tasks
	if req.TaskID != "" {
		existing = make([]domain.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.ID != req.TaskID {
				existing = append(existing, task)
			}
		}
	}

	return &req, prefs, existing, true
}

func (h *ScheduleHandler) recordConflicts(ctx context.Context, conflicts []domain.Conflict) {
	if h.sweepMetrics == nil {
		return
	}

	types := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		types = append(types, c.Type.String())
	}
	h.sweepMetrics.RecordConflictCheck(ctx, types)
}
