package repository

import (
	"time"

	"github.com/jmherrera/task-tracker-api/internal/models"
)

// TaskFilter holds the predicate set for an owner-scoped task listing. It is
// built once from the recognized query parameters and applied in a single
// query; unrecognized parameter values simply contribute no predicate.
type TaskFilter struct {
	UserID      uint64
	IsCompleted *bool
	// DueDateFrom/DueDateTo form an inclusive range on date_due. Both must be
	// set for the predicate to apply.
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// AdminTaskFilter holds filtering options for the admin task screens.
type AdminTaskFilter struct {
	Search      string
	IsCompleted *bool
	Offset      int
	Limit       int
}

// AdminUserFilter holds filtering options for the admin user screens.
type AdminUserFilter struct {
	Search string
	Offset int
	Limit  int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// ListAdmin retrieves users for the admin console, ordered by ID
	ListAdmin(filter AdminUserFilter) ([]models.User, int64, error)
}

// TokenRepository defines the interface for token data access
type TokenRepository interface {
	// Create creates a new token
	Create(token *models.Token) error

	// FindByKey finds a token by its key with the owning user loaded
	FindByKey(key string) (*models.Token, error)

	// FindByUserID finds the token belonging to a user
	FindByUserID(userID uint64) (*models.Token, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter, ordered by due date ascending
	// with tasks lacking a due date last
	List(filter TaskFilter) ([]models.Task, error)

	// ListAdmin retrieves tasks for the admin console, ordered by creation date
	ListAdmin(filter AdminTaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}
