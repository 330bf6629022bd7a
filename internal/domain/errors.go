package domain

import "errors"

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrInvalidPreferences  = errors.New("invalid preferences")
	ErrInvalidTask         = errors.New("invalid task")
	ErrSweepInProgress     = errors.New("reminder sweep already in progress")
)
