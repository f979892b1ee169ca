package dto

import (
	"time"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// DrinkUpdateRequest applies one increment or decrement to a participant's
// counter for the active party.
type DrinkUpdateRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

// DrinkResponse serializes the per-(participant, party) counter.
type DrinkResponse struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	PartyID       string    `json:"party_id"`
	DrinkCount    int       `json:"drink_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDrinkResponse converts a drink record into a DTO.
func NewDrinkResponse(record models.ParticipantDrink) DrinkResponse {
	return DrinkResponse{
		ID:            record.ID,
		ParticipantID: record.ParticipantID,
		PartyID:       record.PartyID,
		DrinkCount:    record.DrinkCount,
		UpdatedAt:     record.UpdatedAt,
	}
}
