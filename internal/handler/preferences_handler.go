package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type PreferencesHandler struct {
	prefsRepo domain.PreferencesRepository
}

func NewPreferencesHandler(prefsRepo domain.PreferencesRepository) *PreferencesHandler {
	return &PreferencesHandler{
		prefsRepo: prefsRepo,
	}
}

func (h *PreferencesHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	prefs, err := h.prefsRepo.GetPreferences(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			respondError(c, http.StatusNotFound, errTypeNotFound, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to load preferences", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to load preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) HandlePut(c *gin.Context) {
	ctx := c.Request.Context()

	var prefs domain.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	if err := h.prefsRepo.SavePreferences(ctx, &prefs); err != nil {
		if errors.Is(err, domain.ErrInvalidPreferences) {
			slog.WarnContext(ctx, "preferences rejected", slog.String("error", err.Error()))
			respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to save preferences", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to save preferences")
		return
	}

	slog.InfoContext(ctx, "preferences updated",
		slog.String("timezone", prefs.Timezone),
		slog.Int("aggregation_window_min", prefs.AggregationWindowMin),
	)

	c.JSON(http.StatusOK, &prefs)
}
