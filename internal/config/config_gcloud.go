//go:build gcloud

package config

import (
	"errors"
	"fmt"
)

// Validate checks the Cloud Tasks settings once a queue is named; without one, reminders go to
// the log notifier.
func (c *TaskQueueConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}

	var errs []error

	if c.GCloudProjectID == "" {
		errs = append(errs, errors.New("GCLOUD_PROJECT_ID is required when GCLOUD_QUEUE_ID is set"))
	}
	if c.GCloudLocationID == "" {
		errs = append(errs, errors.New("GCLOUD_LOCATION_ID is required when GCLOUD_QUEUE_ID is set"))
	}
	if c.GCloudTargetURL == "" {
		errs = append(errs, errors.New("GCLOUD_TARGET_URL is required when GCLOUD_QUEUE_ID is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}

func (c *TaskQueueConfig) Enabled() bool {
	return c.GCloudQueueID != ""
}
