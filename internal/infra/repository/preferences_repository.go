package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

// The app is single-user; preferences live in one row.
const preferencesRowID = 1

type preferencesRepository struct {
	db *gorm.DB
}

func NewPreferencesRepository(db *gorm.DB) domain.PreferencesRepository {
	return &preferencesRepository{
		db: db,
	}
}

func (r *preferencesRepository) GetPreferences(ctx context.Context) (*domain.Preferences, error) {
	var model preferencesModel
	err := r.db.WithContext(ctx).Where("id = ?", preferencesRowID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, err
	}

	prefs := &domain.Preferences{
		AggregationWindowMin: model.AggregationWindowMin,
		Timezone:             model.Timezone,
	}
	if err := json.Unmarshal([]byte(model.WorkHours), &prefs.WorkHours); err != nil {
		return nil, fmt.Errorf("%w: work_hours: %w", domain.ErrInvalidPreferences, err)
	}
	if err := json.Unmarshal([]byte(model.QuietHours), &prefs.QuietHours); err != nil {
		return nil, fmt.Errorf("%w: quiet_hours: %w", domain.ErrInvalidPreferences, err)
	}
	if err := json.Unmarshal([]byte(model.DefaultReminder), &prefs.DefaultReminder); err != nil {
		return nil, fmt.Errorf("%w: default_reminder: %w", domain.ErrInvalidPreferences, err)
	}

	return prefs, nil
}

// SavePreferences validates before writing; invalid preferences never reach the store.
func (r *preferencesRepository) SavePreferences(ctx context.Context, prefs *domain.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	workHours, err := json.Marshal(prefs.WorkHours)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPreferences, err)
	}
	quietHours := prefs.QuietHours
	if quietHours == nil {
		quietHours = []domain.ClockRange{}
	}
	quiet, err := json.Marshal(quietHours)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPreferences, err)
	}
	reminder, err := json.Marshal(prefs.DefaultReminder)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPreferences, err)
	}

	model := &preferencesModel{
		ID:                   preferencesRowID,
		WorkHours:            string(workHours),
		QuietHours:           string(quiet),
		DefaultReminder:      string(reminder),
		AggregationWindowMin: prefs.AggregationWindowMin,
		Timezone:             prefs.Timezone,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// EnsureDefaultPreferences writes seed (or the built-in defaults) when no row exists yet.
func EnsureDefaultPreferences(ctx context.Context, repo domain.PreferencesRepository, seed *domain.Preferences) error {
	_, err := repo.GetPreferences(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrPreferencesNotFound) {
		return err
	}

	if err := repo.SavePreferences(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed preferences: %w", err)
	}

	slog.InfoContext(ctx, "default preferences seeded",
		slog.String("timezone", seed.Timezone),
		slog.Int("aggregation_window_min", seed.AggregationWindowMin),
	)
	return nil
}
