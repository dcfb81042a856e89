// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the permission tier of a user.
type Role string

const (
	// RoleAuthor can write blogs and comments.
	RoleAuthor Role = "author"
	// RoleAdmin can additionally manage users and any content.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAuthor || r == RoleAdmin
}

// User represents an account on the platform. Username and email are unique
// among live accounts only, so a deleted account frees both.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:30;uniqueIndex:idx_users_username,where:deleted_at IS NULL;not null" json:"username"`
	Email     string         `gorm:"size:255;uniqueIndex:idx_users_email,where:deleted_at IS NULL;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(20);not null;default:'author'" json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Author is the public projection of a User embedded in blogs and comments.
type Author struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:30;not null" json:"username"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName maps Author onto the users table.
func (Author) TableName() string {
	return "users"
}
