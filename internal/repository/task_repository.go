package repository

import (
	"github.com/jmherrera/task-tracker-api/internal/database"
	"github.com/jmherrera/task-tracker-api/internal/models"
	"gorm.io/gorm"
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
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter. Ordering is by due date ascending
// with tasks lacking a due date last.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	if filter.IsCompleted != nil {
		query = query.Where("tasks.is_completed = ?", *filter.IsCompleted)
	}
	if filter.DueDateFrom != nil && filter.DueDateTo != nil {
		query = query.Where("tasks.date_due >= ?", *filter.DueDateFrom).
			Where("tasks.date_due <= ?", *filter.DueDateTo)
	}

	query = query.Order("CASE WHEN tasks.date_due IS NULL THEN 1 ELSE 0 END, tasks.date_due ASC")

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListAdmin retrieves tasks for the admin console, ordered by creation date
func (r *GormTaskRepository) ListAdmin(filter AdminTaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("date_created ASC")
	if filter.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Offset, filter.Limit))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
