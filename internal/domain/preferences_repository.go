package domain

import "context"

//go:generate mockgen -source=preferences_repository.go -destination=preferences_repository_mock.go -package=domain

type PreferencesRepository interface {
	GetPreferences(ctx context.Context) (*Preferences, error)
	SavePreferences(ctx context.Context, prefs *Preferences) error
}
