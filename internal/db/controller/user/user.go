// Package user provides queries and updates for console user accounts.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/db/models"
)

const (
	// DefaultPageSize is used when Query.PageSize is not set.
	DefaultPageSize = 50
	// RoleAll disables the role filter.
	RoleAll = "all"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailEmpty is returned when a user without email would be stored.
	ErrEmailEmpty = errors.New("user email cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Query filters the user list.
type Query struct {
	Search   string // matched case-insensitively against full name and email
	Role     string // all, admin or user
	Page     int    // 1 based
	PageSize int
}

// List returns users matching the query ordered by email, and the total number of matches.
func List(db *gorm.DB, q Query) ([]models.User, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.User{})

	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	if q.Role != "" && q.Role != RoleAll {
		query = query.Where("role = ?", q.Role)
	}

	// count and page from the same filtered statement
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	if q.Page <= 0 {
		q.Page = 1
	}

	users := make([]models.User, 0)

	err := query.Order("email").Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// Update changes role and active flag of a user.
func Update(db *gorm.DB, id uint64, role models.Role, active bool) (*models.User, error) {
	u, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	u.Role = role
	u.Active = active

	if err = db.Save(u).Error; err != nil {
		return nil, err
	}

	return u, nil
}

// UpsertExternal finds the user by subject or email and refreshes its profile,
// creating an active account with the given role when none exists.
// created reports whether a new account was inserted.
func UpsertExternal(db *gorm.DB, subject, email, fullName string, role models.Role) (u *models.User, created bool, err error) {
	if db == nil {
		return nil, false, ErrDBNil
	}

	if email == "" {
		return nil, false, ErrEmailEmpty
	}

	var existing models.User

	err = db.Where("external_id = ? AND external_id <> ''", subject).Or("email = ?", email).First(&existing).Error

	switch {
	case err == nil:
		existing.ExternalID = subject
		existing.Email = email

		if fullName != "" {
			existing.FullName = fullName
		}

		if err = db.Save(&existing).Error; err != nil {
			return nil, false, err
		}

		return &existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	u = &models.User{
		Active:     true,
		Email:      email,
		FullName:   fullName,
		Role:       role,
		ExternalID: subject,
	}

	if err = db.Create(u).Error; err != nil {
		return nil, false, err
	}

	return u, true, nil
}

// Count returns the number of users.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}
