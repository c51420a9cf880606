// Package activity persists and queries activity log entries.
package activity

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrTitleEmpty is returned when an entry without title is created.
	ErrTitleEmpty = errors.New("activity title cannot be empty")
)

// Create appends an entry. Entries are never updated or deleted.
func Create(db *gorm.DB, entry *models.ActivityLog) error {
	if db == nil {
		return ErrDBNil
	}

	if entry.Title == "" {
		return ErrTitleEmpty
	}

	return db.Create(entry).Error
}

// List returns the newest entries first, at most limit entries when limit > 0.
func List(db *gorm.DB, limit int) ([]models.ActivityLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	entries := make([]models.ActivityLog, 0)

	query := db.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if result := query.Find(&entries); result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// Count returns the number of entries.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if result := db.Model(&models.ActivityLog{}).Count(&n); result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}

// Repository binds the package functions to a database handle.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates an activity repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) db(ctx context.Context) *gorm.DB {
	if r == nil || r.DB == nil {
		return nil
	}

	return r.DB.WithContext(ctx)
}

// Create appends an entry.
func (r *Repository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return Create(r.db(ctx), entry)
}

// List returns the newest entries first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return List(r.db(ctx), limit)
}
