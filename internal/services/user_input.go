package services

import (
	"strings"

	"usermgmt/internal/apperror"
	"usermgmt/internal/models"
	"usermgmt/internal/repositories"
	"usermgmt/pkg/validation"
)

// CreateUserInput is the accepted body for creating a user. There is no
// id or createdAt field: those are always generated by the server.
type CreateUserInput struct {
	Email         string  `json:"email" validate:"required,email,max=255"`
	Name          string  `json:"name" validate:"required,max=100"`
	BirthDate     *string `json:"birthDate" validate:"omitempty,birthdate"`
	PhoneNumber   *string `json:"phoneNumber" validate:"omitempty,max=32"`
	IsActive      *bool   `json:"isActive"`
	Role          string  `json:"role" validate:"omitempty,oneof=USER ADMIN EDITOR"`
	NotifyByEmail *bool   `json:"notifyByEmail"`
	Bio           *string `json:"bio" validate:"omitempty,max=500"`
	Theme         string  `json:"theme" validate:"omitempty,oneof=LIGHT DARK SYSTEM"`
}

// UpdateUserInput is a partial update. Nil fields are left untouched; an
// empty string clears a nullable field.
type UpdateUserInput struct {
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	BirthDate     *string `json:"birthDate" validate:"omitempty,birthdate"`
	PhoneNumber   *string `json:"phoneNumber" validate:"omitempty,max=32"`
	IsActive      *bool   `json:"isActive"`
	Role          *string `json:"role" validate:"omitempty,oneof=USER ADMIN EDITOR"`
	NotifyByEmail *bool   `json:"notifyByEmail"`
	Bio           *string `json:"bio" validate:"omitempty,max=500"`
	Theme         *string `json:"theme" validate:"omitempty,oneof=LIGHT DARK SYSTEM"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// Normalize trims every string and lower-cases the email. It is idempotent.
func (in *CreateUserInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Theme = strings.TrimSpace(in.Theme)
	trimPtr(in.BirthDate)
	trimPtr(in.PhoneNumber)
	trimPtr(in.Bio)
}

// Normalize trims every supplied string and lower-cases the email.
func (in *UpdateUserInput) Normalize() {
	if in.Email != nil {
		*in.Email = NormalizeEmail(*in.Email)
	}
	trimPtr(in.Name)
	trimPtr(in.Role)
	trimPtr(in.Theme)
	trimPtr(in.BirthDate)
	trimPtr(in.PhoneNumber)
	trimPtr(in.Bio)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// emptyAsNil implements the "empty string means absent" rule.
func emptyAsNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func birthDateError() *apperror.Error {
	return apperror.NewValidation([]apperror.FieldError{{
		Field:   "birthDate",
		Message: "must be a date in YYYY-MM-DD or RFC 3339 format",
	}})
}

func (in *CreateUserInput) toModel() (*models.User, error) {
	user := &models.User{
		Email:         in.Email,
		Name:          in.Name,
		PhoneNumber:   emptyAsNil(in.PhoneNumber),
		IsActive:      boolOr(in.IsActive, true),
		Role:          models.RoleUser,
		NotifyByEmail: boolOr(in.NotifyByEmail, true),
		Bio:           emptyAsNil(in.Bio),
		Theme:         models.ThemeSystem,
	}
	if in.Role != "" {
		user.Role = models.Role(in.Role)
	}
	if in.Theme != "" {
		user.Theme = models.Theme(in.Theme)
	}
	if bd := emptyAsNil(in.BirthDate); bd != nil {
		t, err := validation.ParseDate(*bd)
		if err != nil {
			return nil, birthDateError()
		}
		user.BirthDate = &t
	}
	return user, nil
}

func (in *UpdateUserInput) changes() (repositories.Changes, error) {
	changes := repositories.Changes{}
	if in.Email != nil {
		changes[repositories.ColumnEmail] = *in.Email
	}
	if in.Name != nil {
		changes[repositories.ColumnName] = *in.Name
	}
	if in.IsActive != nil {
		changes[repositories.ColumnIsActive] = *in.IsActive
	}
	if in.NotifyByEmail != nil {
		changes[repositories.ColumnNotifyByEmail] = *in.NotifyByEmail
	}
	if in.Role != nil {
		changes[repositories.ColumnRole] = models.Role(*in.Role)
	}
	if in.Theme != nil {
		changes[repositories.ColumnTheme] = models.Theme(*in.Theme)
	}
	if in.PhoneNumber != nil {
		changes[repositories.ColumnPhoneNumber] = nilIfEmpty(in.PhoneNumber)
	}
	if in.Bio != nil {
		changes[repositories.ColumnBio] = nilIfEmpty(in.Bio)
	}
	if in.BirthDate != nil {
		if *in.BirthDate == "" {
			changes[repositories.ColumnBirthDate] = nil
		} else {
			t, err := validation.ParseDate(*in.BirthDate)
			if err != nil {
				return nil, birthDateError()
			}
			changes[repositories.ColumnBirthDate] = &t
		}
	}
	return changes, nil
}

// nilIfEmpty returns an untyped nil so the column is written as NULL.
func nilIfEmpty(s *string) any {
	if v := emptyAsNil(s); v != nil {
		return v
	}
	return nil
}
