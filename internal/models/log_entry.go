package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit log action tags.
const (
	ActionDrinkAdded     = "drink_added"
	ActionDrinkRemoved   = "drink_removed"
	ActionCreatedParty   = "created_party"
	ActionUpdatedParty   = "updated_party"
	ActionActivatedParty = "activated_party"
)

// LogEntry is an append-only audit record of a mutating action. The
// application never updates or deletes rows in this collection.
type LogEntry struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Timestamp time.Time         `gorm:"not null;index" json:"timestamp"`
	UserID    string            `gorm:"size:36;not null" json:"user_id"`
	Username  string            `gorm:"size:255;not null" json:"username"`
	Action    string            `gorm:"size:64;not null;index" json:"action"`
	Target    string            `gorm:"size:255;not null" json:"target"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
}

// TableName keeps the original collection name.
func (LogEntry) TableName() string { return "logs" }
