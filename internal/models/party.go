package models

import "time"

// Party is a tracked event. At most one party is active at any time;
// activation is exclusive and handled transactionally by the repository.
type Party struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Date      string    `gorm:"size:32;not null" json:"date"`
	IsActive  bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the original collection name.
func (Party) TableName() string { return "parties" }
