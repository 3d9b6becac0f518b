package repository

import (
	"context"

	"github.com/yukikurage/event-dashboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error)
}

// FindByID finds a task by ID with AssignedTo populated
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Preload("AssignedTo").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.WithContext(ctx).Model(&models.Task{})
	if filter.EventID != nil {
		query = query.Where("tasks.event_id = ?", *filter.EventID)
	}
	query = paginate(query.Order("tasks.id ASC"), filter.ListOptions)

	if err := query.Preload("AssignedTo").Find(&tasks).Error; err != nil {
		return nil, translateError(err)
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(task).
		Omit(clause.Associations).
		Select("name", "deadline", "status", "event_id", "assigned_to_id", "updated_at").
		Updates(task)
	return updateResult(result)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return translateError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error)
}
