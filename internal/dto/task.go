package dto

import (
	"time"

	"github.com/jmherrera/task-tracker-api/internal/models"
)

// TaskDTO represents a task in detail responses.
type TaskDTO struct {
	ID            uint64     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DateCreated   time.Time  `json:"date_created"`
	DateDue       *time.Time `json:"date_due"`
	DateCompleted *time.Time `json:"date_completed"`
	IsCompleted   bool       `json:"is_completed"`
}

// TaskListItemDTO represents a task in list responses (compact projection).
type TaskListItemDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// AdminTaskDTO is the task representation shown on admin screens; unlike the
// user-facing detail projection it exposes the owning user.
type AdminTaskDTO struct {
	TaskDTO
	UserID uint64 `json:"user_id"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		DateCreated:   task.DateCreated,
		DateDue:       task.DateDue,
		DateCompleted: task.DateCompleted,
		IsCompleted:   task.IsCompleted,
	}
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	return TaskListItemDTO{
		ID:    task.ID,
		Title: task.Title,
	}
}

// ToTaskListItemDTOs converts a slice of tasks to the compact list projection.
func ToTaskListItemDTOs(tasks []models.Task) []TaskListItemDTO {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}
	return items
}

// ToAdminTaskDTO converts a Task model to AdminTaskDTO
func ToAdminTaskDTO(task models.Task) AdminTaskDTO {
	return AdminTaskDTO{
		TaskDTO: ToTaskDTO(task),
		UserID:  task.UserID,
	}
}
