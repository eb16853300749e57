package model

// Setting is a durable key/value flag (e.g. whether notifications are enabled).
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// Setting keys.
const (
	SettingNotificationsEnabled = "notifications_enabled"
)
