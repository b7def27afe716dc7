package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jmherrera/task-tracker-api/internal/constants"
	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
)

// TaskService handles task business logic. Every read and write on the
// user-facing paths is scoped to the owning user.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	DateDue     *time.Time
	IsCompleted bool
}

// Create persists a new task owned by ownerID. The creation timestamp is set
// here and never again.
func (s *TaskService) Create(ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		DateCreated: time.Now(),
		DateDue:     input.DateDue,
		UserID:      ownerID,
	}

	if input.IsCompleted {
		now := time.Now()
		task.IsCompleted = true
		task.DateCompleted = &now
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasksInput carries the raw filter query parameters. Unrecognized values
// contribute no predicate rather than failing the request.
type ListTasksInput struct {
	IsCompleted string
	StartDate   string
	EndDate     string
}

// List returns the caller's tasks, ordered by due date ascending with undated
// tasks last.
func (s *TaskService) List(ownerID uint64, input ListTasksInput) ([]models.Task, error) {
	filter := buildTaskFilter(ownerID, input)

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// buildTaskFilter accumulates predicates from the recognized query parameters
// and returns them as one immutable filter.
func buildTaskFilter(ownerID uint64, input ListTasksInput) repository.TaskFilter {
	filter := repository.TaskFilter{UserID: ownerID}

	switch strings.ToLower(input.IsCompleted) {
	case "true":
		completed := true
		filter.IsCompleted = &completed
	case "false":
		completed := false
		filter.IsCompleted = &completed
	}

	// The date range only applies when both bounds are present and parse.
	if input.StartDate != "" && input.EndDate != "" {
		from, errFrom := time.Parse(constants.DateOnlyFormat, input.StartDate)
		to, errTo := time.Parse(constants.DateOnlyFormat, input.EndDate)
		if errFrom == nil && errTo == nil {
			// Push the upper bound to the end of its day so the range is
			// inclusive of tasks due any time on end_date.
			to = to.Add(24*time.Hour - time.Nanosecond)
			filter.DueDateFrom = &from
			filter.DueDateTo = &to
		}
	}

	return filter
}

// Get returns the task only if it belongs to ownerID. A task owned by someone
// else is indistinguishable from a missing one.
func (s *TaskService) Get(ownerID, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != ownerID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// unchanged; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	DateDue      *time.Time
	ClearDueDate bool
	IsCompleted  *bool
}

// Update applies a partial update to an owned task. The completion timestamp
// is derived from the is_completed transition and never set directly.
func (s *TaskService) Update(ownerID, id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	return s.applyUpdate(task, input)
}

func (s *TaskService) applyUpdate(task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDueDate {
		task.DateDue = nil
	} else if input.DateDue != nil {
		task.DateDue = input.DateDue
	}

	if input.IsCompleted != nil && *input.IsCompleted != task.IsCompleted {
		if *input.IsCompleted {
			now := time.Now()
			task.DateCompleted = &now
		} else {
			task.DateCompleted = nil
		}
		task.IsCompleted = *input.IsCompleted
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ownerID, id uint64) error {
	task, err := s.Get(ownerID, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AdminGet returns any task by ID, without owner scoping.
func (s *TaskService) AdminGet(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// AdminList retrieves tasks for the admin console.
func (s *TaskService) AdminList(filter repository.AdminTaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// AdminUpdate applies a partial update to any task. The owning user remains
// read-only even here; the completion transition rule still applies.
func (s *TaskService) AdminUpdate(id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.AdminGet(id)
	if err != nil {
		return nil, err
	}

	return s.applyUpdate(task, input)
}

// AdminDelete removes any task by ID.
func (s *TaskService) AdminDelete(id uint64) error {
	task, err := s.AdminGet(id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
