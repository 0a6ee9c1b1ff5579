package repositories

import (
	"context"

	"usermgmt/internal/models"
)

// Column names accepted by UserRepository.UpdateByID.
const (
	ColumnEmail         = "email"
	ColumnName          = "name"
	ColumnBirthDate     = "birth_date"
	ColumnPhoneNumber   = "phone_number"
	ColumnIsActive      = "is_active"
	ColumnRole          = "role"
	ColumnNotifyByEmail = "notify_by_email"
	ColumnBio           = "bio"
	ColumnTheme         = "theme"
)

// Changes maps column names to new values. A nil value clears the column.
type Changes map[string]any

// UserRepository defines the interface for user data access.
//
// Implementations report failures with the gorm sentinel errors
// (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey, gorm.ErrForeignKeyViolated)
// wrapped with context, so callers can classify them with errors.Is.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	ListAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateByID(ctx context.Context, id string, changes Changes) error
	DeleteByID(ctx context.Context, id string) error
}
