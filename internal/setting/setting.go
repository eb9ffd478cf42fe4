package setting

import (
	"errors"
	"time"
)

// Setting is one key/value configuration row. Keys are unique; writes
// upsert by key.
type Setting struct {
	Key         string    `json:"key" gorm:"primaryKey"`
	Value       string    `json:"value" gorm:"not null"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

var (
	ErrNotFound = errors.New("setting not found")
	ErrEmptyKey = errors.New("setting key must not be empty")
)

// Defaults are seeded once at bootstrap and editable afterwards.
var Defaults = []Setting{
	{Key: "organization_name", Value: "Helpdesk", Category: "general", Description: "Name shown in notification emails"},
	{Key: "support_email", Value: "support@example.com", Category: "general", Description: "Reply-to address for notification emails"},
	{Key: "notifications_enabled", Value: "true", Category: "notification", Description: "Master switch for outgoing email"},
	{Key: "sla_reminder_hours", Value: "1", Category: "sla", Description: "Hours before the SLA deadline to flag a ticket at risk"},
}
