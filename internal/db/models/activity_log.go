package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActionType categorizes an activity log entry.
type ActionType string

const (
	// ActionUserRegistered is recorded when a user signs in for the first time.
	ActionUserRegistered ActionType = "user_registered"
	// ActionThemeUpdated is recorded when the theme settings are saved.
	ActionThemeUpdated ActionType = "theme_updated"
	// ActionDisplayUpdated is recorded when the display settings are saved.
	ActionDisplayUpdated ActionType = "display_updated"
	// ActionSystemUpdated is recorded when the system settings are saved.
	ActionSystemUpdated ActionType = "system_updated"
	// ActionUserModified is recorded when an administrator changes a user.
	ActionUserModified ActionType = "user_modified"
	// ActionSecurityScan is recorded by security scans.
	ActionSecurityScan ActionType = "security_scan"
	// ActionBackupCreated is recorded when a backup was created.
	ActionBackupCreated ActionType = "backup_created"
	// ActionSettingChanged is recorded for single setting changes.
	ActionSettingChanged ActionType = "setting_changed"
)

// ActionTypes lists every known action type.
func ActionTypes() []ActionType {
	return []ActionType{
		ActionUserRegistered,
		ActionThemeUpdated,
		ActionDisplayUpdated,
		ActionSystemUpdated,
		ActionUserModified,
		ActionSecurityScan,
		ActionBackupCreated,
		ActionSettingChanged,
	}
}

// ActivityLog is an append only audit entry.
// Empty user fields mark a system initiated entry.
type ActivityLog struct {
	ID          uint64         `gorm:"primaryKey" json:"id"`
	EventID     string         `gorm:"size:36;uniqueIndex;not null" json:"eventId"`
	ActionType  ActionType     `gorm:"type:varchar(50);index;not null" json:"actionType"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	UserID      *uint64        `gorm:"index" json:"userId,omitempty"`
	UserEmail   *string        `gorm:"size:255" json:"userEmail,omitempty"`
	UserName    *string        `gorm:"size:255" json:"userName,omitempty"`
	IPAddress   string         `gorm:"size:64" json:"ipAddress"`
	UserAgent   string         `gorm:"size:512" json:"userAgent"`
	Details     datatypes.JSON `json:"details,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}

// TableName specifies the database table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// IsSystem reports whether no user was attached to the entry.
func (a *ActivityLog) IsSystem() bool {
	return a.UserID == nil && a.UserEmail == nil
}
