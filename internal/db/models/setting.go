// Package models contains database model definitions.
package models

import "time"

// DataType tags how a Setting value is decoded and rendered.
type DataType string

const (
	// DataTypeBoolean marks a JSON boolean.
	DataTypeBoolean DataType = "boolean"
	// DataTypeNumber marks a JSON number.
	DataTypeNumber DataType = "number"
	// DataTypeString marks a JSON string.
	DataTypeString DataType = "string"
	// DataTypeColor marks a JSON string holding a css color.
	DataTypeColor DataType = "color"
	// DataTypeJSON marks an arbitrary JSON document.
	DataTypeJSON DataType = "json"
)

// Setting represents one persisted key/value pair of a settings category.
// The pair (Category, Key) is unique.
type Setting struct {
	ID       uint64 `gorm:"primaryKey"`
	Category string `gorm:"size:100;not null;uniqueIndex:idx_setting_category_key"`
	// Key is stored as setting_key, key is reserved in mysql.
	Key       string   `gorm:"column:setting_key;size:100;not null;uniqueIndex:idx_setting_category_key"`
	Value     string   `gorm:"type:text"`
	Label     string   `gorm:"size:255"`
	DataType  DataType `gorm:"type:varchar(20);not null;default:'string'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
