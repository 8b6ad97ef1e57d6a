package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

type TaskRepository struct {
	db *gorm.DB
}

var ErrNotFound = errors.New("record not found")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, ownerID string, fields model.NewTask) (*model.Task, error) {
	task := &model.Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Text:      fields.Text,
		Status:    constants.StatusTodo,
		Deadline:  fields.Deadline,
		Duration:  fields.Duration,
		Tags:      fields.Tags,
		CreatedAt: time.Now().UTC(),
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// Update writes only the columns named by patch and returns the stored task.
func (r *TaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return task, nil
	}

	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}

	updated := patch.Apply(*task)
	res := r.db.WithContext(ctx).
		Model(&model.Task{ID: id}).
		Select(names).
		Updates(&updated)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return &updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) (*model.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return task, nil
}
