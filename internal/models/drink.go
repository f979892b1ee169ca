package models

import "time"

// ParticipantDrink is the per-(participant, party) drink counter. Created
// lazily on the first update for an active party; the count never goes below
// zero.
type ParticipantDrink struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ParticipantID string    `gorm:"size:36;not null;uniqueIndex:idx_participant_party" json:"participant_id"`
	PartyID       string    `gorm:"size:36;not null;uniqueIndex:idx_participant_party" json:"party_id"`
	DrinkCount    int       `gorm:"not null;default:0" json:"drink_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName keeps the original collection name.
func (ParticipantDrink) TableName() string { return "participant_drinks" }
