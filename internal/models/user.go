package models

import "time"

// Role is the permission level of a user.
type Role string

const (
	RoleUser   Role = "USER"
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
)

// Theme is the UI colour scheme a user prefers.
type Theme string

const (
	ThemeLight  Theme = "LIGHT"
	ThemeDark   Theme = "DARK"
	ThemeSystem Theme = "SYSTEM"
)

// User is the only persisted entity. Email is unique across the table.
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email         string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name          string     `json:"name" gorm:"type:varchar(100)"`
	BirthDate     *time.Time `json:"birthDate"`
	PhoneNumber   *string    `json:"phoneNumber" gorm:"type:varchar(32)"`
	IsActive      bool       `json:"isActive" gorm:"not null"`
	Role          Role       `json:"role" gorm:"type:varchar(16);not null"`
	NotifyByEmail bool       `json:"notifyByEmail" gorm:"not null"`
	Bio           *string    `json:"bio" gorm:"type:text"`
	Theme         Theme      `json:"theme" gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"autoCreateTime;<-:create"`
}
