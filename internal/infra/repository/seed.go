package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type preferencesSeed struct {
	WorkHours            map[string]domain.ClockRange `yaml:"work_hours"`
	QuietHours           []domain.ClockRange          `yaml:"quiet_hours"`
	DefaultReminder      *domain.RemindPolicyEntry    `yaml:"default_reminder"`
	AggregationWindowMin *int                         `yaml:"aggregation_window_min"`
	Timezone             string                       `yaml:"timezone"`
}

// LoadPreferencesSeed reads a yaml preferences file. Keys missing from the file keep the
// built-in defaults.
func LoadPreferencesSeed(path, timezone string) (*domain.Preferences, error) {
	prefs := domain.DefaultPreferences(timezone)
	if path == "" {
		return prefs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedFile, err)
	}

	var seed preferencesSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedFile, err)
	}

	if seed.WorkHours != nil {
		prefs.WorkHours = seed.WorkHours
	}
	if seed.QuietHours != nil {
		prefs.QuietHours = seed.QuietHours
	}
	if seed.DefaultReminder != nil {
		prefs.DefaultReminder = *seed.DefaultReminder
	}
	if seed.AggregationWindowMin != nil {
		prefs.AggregationWindowMin = *seed.AggregationWindowMin
	}
	if seed.Timezone != "" {
		prefs.Timezone = seed.Timezone
	}

	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedFile, err)
	}

	return prefs, nil
}
