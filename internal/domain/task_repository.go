package domain

import "context"

//go:generate mockgen -source=task_repository.go -destination=task_repository_mock.go -package=domain

type TaskRepository interface {
	// ListTasks returns every task, undated tasks last, otherwise ordered by due.
	ListTasks(ctx context.Context) ([]Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	SaveTask(ctx context.Context, task *Task) error
}
