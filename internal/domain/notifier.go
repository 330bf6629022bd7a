package domain

import "context"

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=domain

// Notifier hands a reminder group to the delivery side.
type Notifier interface {
	Notify(ctx context.Context, group *ReminderGroup) error
}
