package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"usermgmt/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// It enforces the same unique email constraint as the SQL schema.
type MemoryUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Insert adds a new user.
func (r *MemoryUserRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(user.Email, "") {
		return fmt.Errorf("failed to create user: %w", gorm.ErrDuplicatedKey)
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	r.users[user.ID] = cloneUser(*user)
	return nil
}

// ListAll returns all users.
func (r *MemoryUserRepository) ListAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, cloneUser(u))
	}
	return userList, nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	user = cloneUser(user)
	return &user, nil
}

// UpdateByID modifies the supplied columns of an existing user.
func (r *MemoryUserRepository) UpdateByID(_ context.Context, id string, changes Changes) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s not found for update: %w", id, gorm.ErrRecordNotFound)
	}
	if email, ok := changes[ColumnEmail].(string); ok && r.emailTakenLocked(email, id) {
		return fmt.Errorf("failed to update user %s: %w", id, gorm.ErrDuplicatedKey)
	}
	if err := applyChanges(&user, changes); err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	r.users[id] = cloneUser(user)
	return nil
}

// DeleteByID removes a user by its ID.
func (r *MemoryUserRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func applyChanges(u *models.User, changes Changes) error {
	for column, value := range changes {
		var ok bool
		switch column {
		case ColumnEmail:
			u.Email, ok = value.(string)
		case ColumnName:
			u.Name, ok = value.(string)
		case ColumnIsActive:
			u.IsActive, ok = value.(bool)
		case ColumnNotifyByEmail:
			u.NotifyByEmail, ok = value.(bool)
		case ColumnRole:
			u.Role, ok = value.(models.Role)
		case ColumnTheme:
			u.Theme, ok = value.(models.Theme)
		case ColumnBirthDate:
			u.BirthDate, ok = nullable[time.Time](value)
		case ColumnPhoneNumber:
			u.PhoneNumber, ok = nullable[string](value)
		case ColumnBio:
			u.Bio, ok = nullable[string](value)
		default:
			return fmt.Errorf("unknown column %q", column)
		}
		if !ok {
			return fmt.Errorf("invalid value %v for column %q", value, column)
		}
	}
	return nil
}

// cloneUser copies the nullable fields so callers never share storage with
// the map.
func cloneUser(u models.User) models.User {
	u.BirthDate = clonePtr(u.BirthDate)
	u.PhoneNumber = clonePtr(u.PhoneNumber)
	u.Bio = clonePtr(u.Bio)
	return u
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nullable[T any](value any) (*T, bool) {
	if value == nil {
		return nil, true
	}
	switch v := value.(type) {
	case *T:
		return v, true
	case T:
		return &v, true
	}
	return nil, false
}
