// Package setting provides CRUD operations for persisted settings records.
package setting

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/db/models"
)

const (
	categoryKeyQueryPattern = "category = ? AND setting_key = ?"
	categoryInQueryPattern  = "category IN ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to create a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingCategoryEmpty is returned when attempting to create a setting without category.
	ErrSettingCategoryEmpty = errors.New("setting category cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its category and key.
func Get(db *gorm.DB, category, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	result := db.Where(categoryKeyQueryPattern, category, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// GetByID retrieves a setting by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var setting models.Setting

	result := db.First(&setting, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// List retrieves the settings of the given categories, all settings if none are given.
func List(db *gorm.DB, categories ...string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	settings := make([]models.Setting, 0)

	query := db.Order("id")
	if len(categories) > 0 {
		query = query.Where(categoryInQueryPattern, categories)
	}

	if result := query.Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Count returns the number of persisted settings.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if result := db.Model(&models.Setting{}).Count(&n); result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}

// Create creates a new setting in the database.
func Create(db *gorm.DB, record models.Setting) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if record.Category == "" {
		return nil, ErrSettingCategoryEmpty
	}

	if record.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	// Check if setting already exists
	var existing models.Setting

	result := db.Where(categoryKeyQueryPattern, record.Category, record.Key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	if record.DataType == "" {
		record.DataType = models.DataTypeString
	}

	setting := &models.Setting{
		Category: record.Category,
		Key:      record.Key,
		Value:    record.Value,
		Label:    record.Label,
		DataType: record.DataType,
	}

	if result = db.Create(setting); result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Update replaces the value of an existing setting by ID.
func Update(db *gorm.DB, id uint64, value string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var setting models.Setting

	result := db.First(&setting, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	setting.Value = value

	if result = db.Save(&setting); result.Error != nil {
		return nil, result.Error
	}

	return &setting, nil
}

// Delete deletes a setting by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Setting{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Repository binds the package functions to a database handle and a request context.
// It satisfies settings.Store.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) db(ctx context.Context) *gorm.DB {
	if r == nil || r.DB == nil {
		return nil
	}

	return r.DB.WithContext(ctx)
}

// List returns the records of the given categories.
func (r *Repository) List(ctx context.Context, categories ...string) ([]models.Setting, error) {
	return List(r.db(ctx), categories...)
}

// Create inserts a new record.
func (r *Repository) Create(ctx context.Context, record models.Setting) (*models.Setting, error) {
	return Create(r.db(ctx), record)
}

// Update replaces the value of the record with the given id.
func (r *Repository) Update(ctx context.Context, id uint64, value string) (*models.Setting, error) {
	return Update(r.db(ctx), id, value)
}

// Delete removes the record with the given id.
func (r *Repository) Delete(ctx context.Context, id uint64) error {
	return Delete(r.db(ctx), id)
}
