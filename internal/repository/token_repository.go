package repository

import (
	"github.com/jmherrera/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Create creates a new token
func (r *GormTokenRepository) Create(token *models.Token) error {
	return r.db.Create(token).Error
}

// FindByKey finds a token by its key with the owning user loaded
func (r *GormTokenRepository) FindByKey(key string) (*models.Token, error) {
	var token models.Token
	if err := r.db.Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// FindByUserID finds the token belonging to a user
func (r *GormTokenRepository) FindByUserID(userID uint64) (*models.Token, error) {
	var token models.Token
	if err := r.db.Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
