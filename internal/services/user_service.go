package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jmherrera/task-tracker-api/internal/constants"
	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/repository"
)

var (
	ErrEmailRequired        = errors.New("email is required")
	ErrEmailTaken           = errors.New("a user with this email already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService handles account-related business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// NormalizeEmail lowercases the domain part of an email address, leaving the
// local part untouched. Values without an "@" are returned unchanged.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// CreateUserInput represents the information needed to create an account.
type CreateUserInput struct {
	Email       string
	Password    string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// CreateUser validates, normalizes and persists a new account. No user row
// exists after any failure.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	email = NormalizeEmail(email)

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsStaff:      input.IsStaff,
		IsSuperuser:  input.IsSuperuser,
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique index is the backstop for a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// RegisterInput represents a self-service registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a regular, unprivileged account.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	return s.CreateUser(CreateUserInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
}

// CreateSuperuser creates an account with both staff and superuser flags set.
func (s *UserService) CreateSuperuser(email, password, name string) (*models.User, error) {
	return s.CreateUser(CreateUserInput{
		Email:       email,
		Password:    password,
		Name:        name,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

// Authenticate verifies credentials and returns the matching user. The error
// never reveals whether the email or the password was wrong.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(NormalizeEmail(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfileInput represents a partial profile update. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// UpdateProfile applies a partial update to the user's own profile. A supplied
// password is length-checked and re-hashed.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// AdminUpdateUserInput represents a partial account edit from the admin
// console. Unlike UpdateProfile it may change the account flags.
type AdminUpdateUserInput struct {
	Name        *string
	Password    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// AdminUpdateUser applies a partial account edit. LastLogin is derived state
// and is never settable here.
func (s *UserService) AdminUpdateUser(id uint64, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsStaff != nil {
		user.IsStaff = *input.IsStaff
	}
	if input.IsSuperuser != nil {
		user.IsSuperuser = *input.IsSuperuser
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ListUsers retrieves users for the admin console.
func (s *UserService) ListUsers(filter repository.AdminUserFilter) ([]models.User, int64, error) {
	users, total, err := s.userRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
