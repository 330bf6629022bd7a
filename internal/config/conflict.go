package config

import "os"

const (
	overlapModeEnv = "CONFLICT_OVERLAP_MODE"

	defaultOverlapMode = OverlapModeFirst
)

type OverlapMode string

const (
	OverlapModeFirst OverlapMode = "first"
	OverlapModeAll   OverlapMode = "all"
)

type ConflictConfig struct {
	OverlapMode OverlapMode
}

func LoadConflictConfig() *ConflictConfig {
	mode := OverlapMode(os.Getenv(overlapModeEnv))

	switch mode {
	case OverlapModeFirst, OverlapModeAll:
	default:
		mode = defaultOverlapMode
	}

	return &ConflictConfig{
		OverlapMode: mode,
	}
}
