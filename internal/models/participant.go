package models

import "time"

// Participant is a tracked programme member. Administrators own every field;
// drink counts live in ParticipantDrink, one row per party.
type Participant struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Faculty       string    `gorm:"size:255;not null" json:"faculty"`
	RoomNumber    string    `gorm:"size:32;not null" json:"room_number"`
	IsGroupLeader bool      `gorm:"not null;default:false" json:"is_group_leader"`
	IsHoused      bool      `gorm:"not null;default:false" json:"is_housed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
