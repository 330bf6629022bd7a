package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-task-scheduling/internal/clock"
	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/reminder"
)

// SweepTrigger runs a single-flight reminder sweep on demand.
type SweepTrigger interface {
	Trigger(ctx context.Context, now time.Time) (*reminder.SweepResult, error)
}

type ReminderHandler struct {
	trigger SweepTrigger
	clock   clock.Clock
}

func NewReminderHandler(trigger SweepTrigger, clk clock.Clock) *ReminderHandler {
	if clk == nil {
		clk = clock.New()
	}

	return &ReminderHandler{
		trigger: trigger,
		clock:   clk,
	}
}

// HandleSweep runs a sweep now. The optional "now" query parameter (RFC3339) replays a sweep
// at a virtual instant.
func (h *ReminderHandler) HandleSweep(c *gin.Context) {
	ctx := c.Request.Context()

	now := h.clock.Now()
	if raw := c.Query("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, errTypeValidation, "invalid now time format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	}

	result, err := h.trigger.Trigger(ctx, now)
	if err != nil {
		if errors.Is(err, domain.ErrSweepInProgress) {
			respondError(c, http.StatusConflict, errTypeConflict, err.Error())
			return
		}

		slog.ErrorContext(ctx, "manual reminder sweep failed", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "reminder sweep failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
