//go:build !gcloud

package config

// Validate accepts an empty PRIMIND_TASKS_URL; reminders are then written to the log only.
func (c *TaskQueueConfig) Validate() error {
	return nil
}

func (c *TaskQueueConfig) Enabled() bool {
	return c.PrimindTasksURL != ""
}
