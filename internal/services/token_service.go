package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/repository"
	"github.com/jmherrera/task-tracker-api/internal/utils"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrFailedToIssueToken = errors.New("failed to issue token")
)

// TokenService issues and resolves the opaque bearer tokens used by the API.
type TokenService struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
}

// NewTokenService creates a new TokenService.
func NewTokenService(tokenRepo repository.TokenRepository, userRepo repository.UserRepository) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
	}
}

// Issue returns the user's token, creating one on first login. Repeat logins
// receive the same key. Successful issuance stamps the user's last login.
func (s *TokenService) Issue(user *models.User) (*models.Token, error) {
	token, err := s.tokenRepo.FindByUserID(user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up token: %w", err)
		}

		key, err := utils.GenerateTokenKey()
		if err != nil {
			return nil, ErrFailedToIssueToken
		}

		token = &models.Token{
			Key:    key,
			UserID: user.ID,
		}
		if err := s.tokenRepo.Create(token); err != nil {
			return nil, fmt.Errorf("failed to create token: %w", err)
		}
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return token, nil
}

// Resolve maps a presented token key to its user. Any missing, unknown, or
// deactivated credential yields ErrInvalidToken; the process never treats a
// bad token as a hard failure.
func (s *TokenService) Resolve(key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	token, err := s.tokenRepo.FindByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if !token.User.IsActive {
		return nil, ErrInvalidToken
	}

	user := token.User
	return &user, nil
}
