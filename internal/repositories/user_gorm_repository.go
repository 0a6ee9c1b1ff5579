package repositories

import (
	"context"
	"errors"
	"fmt"

	"usermgmt/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
// The *gorm.DB must be opened with TranslateError so driver errors
// surface as gorm sentinels.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Insert creates a new user. The ID is always generated here.
func (r *GORMUserRepository) Insert(ctx context.Context, user *models.User) error {
	user.ID = uuid.New().String()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ListAll returns every user in store order.
func (r *GORMUserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// UpdateByID writes only the supplied columns.
func (r *GORMUserRepository) UpdateByID(ctx context.Context, id string, changes Changes) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any(changes))
	if res.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteByID removes a user permanently.
func (r *GORMUserRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
