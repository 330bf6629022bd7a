package config

import "os"

const (
	databasePathEnv    = "DATABASE_PATH"
	preferencesFileEnv = "PREFERENCES_FILE"

	defaultDatabasePath = "data/tasks.db"
)

type StoreConfig struct {
	DatabasePath string
	// PreferencesFile is an optional yaml seed applied when no preferences row exists.
	PreferencesFile string
}

func LoadStoreConfig() *StoreConfig {
	path := os.Getenv(databasePathEnv)
	if path == "" {
		path = defaultDatabasePath
	}

	return &StoreConfig{
		DatabasePath:    path,
		PreferencesFile: os.Getenv(preferencesFileEnv),
	}
}
