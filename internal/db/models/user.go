package models

import (
	"time"
)

// Role is the coarse permission level of a user.
type Role string

const (
	// RoleAdmin may change settings and manage users.
	RoleAdmin Role = "admin"
	// RoleUser may read the console.
	RoleUser Role = "user"
)

// User represents a user account in the system.
// Accounts are created on the first request carrying a valid identity token.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Active indicates whether the user may use the console.
	Active bool `json:"active"`
	// Email is the user's email address.
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	// FullName is the display name taken from the identity token.
	FullName string `gorm:"size:255" json:"fullName"`
	// Role is admin or user.
	Role Role `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	// ExternalID is the subject claim of the identity provider.
	ExternalID string `gorm:"size:255;index" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
