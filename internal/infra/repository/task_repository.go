package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) domain.TaskRepository {
	return &taskRepository{
		db: db,
	}
}

func (r *taskRepository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var models []taskModel
	err := r.db.WithContext(ctx).
		Order("due_at IS NULL").
		Order("due_at ASC").
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(models))
	for i := range models {
		task, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *taskRepository) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var model taskModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task, err := model.toDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// SaveTask inserts the task or replaces every column of an existing row with the same id.
func (r *taskRepository) SaveTask(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return ErrInvalidTaskData
	}

	model, err := newTaskModel(task)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "status", "start_at", "due_at", "duration_min", "flexibility", "remind_policy", "updated_at"}),
		}).
		Create(model).Error
}
