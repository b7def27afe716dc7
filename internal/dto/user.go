package dto

import (
	"time"

	"github.com/jmherrera/task-tracker-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash never leaves
// the model layer.
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProfileDTO is the shape of the /api/users/me endpoint.
type ProfileDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenDTO carries an issued token key.
type TokenDTO struct {
	Token string `json:"token"`
}

// AdminUserDTO is the full account representation shown on admin screens.
type AdminUserDTO struct {
	ID          uint64     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToAdminUserDTO converts a User model to AdminUserDTO
func ToAdminUserDTO(user models.User) AdminUserDTO {
	return AdminUserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		LastLogin:   user.LastLogin,
	}
}
