package dto

import (
	"time"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// ParticipantCreateRequest captures the payload for adding a participant.
type ParticipantCreateRequest struct {
	Name          string `json:"name" validate:"required,min=1"`
	Faculty       string `json:"faculty" validate:"required,min=1"`
	RoomNumber    string `json:"room_number" validate:"required,min=1"`
	IsGroupLeader bool   `json:"is_group_leader"`
	IsHoused      bool   `json:"is_housed"`
}

// ParticipantUpdateRequest captures partial update payloads for participants.
type ParticipantUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Faculty       *string `json:"faculty" validate:"omitempty,min=1"`
	RoomNumber    *string `json:"room_number" validate:"omitempty,min=1"`
	IsGroupLeader *bool   `json:"is_group_leader"`
	IsHoused      *bool   `json:"is_housed"`
}

// ParticipantListRequest defines filters for listing participants.
type ParticipantListRequest struct {
	Search        string
	Faculty       string
	IsGroupLeader *bool
	IsHoused      *bool
}

// ParticipantResponse serializes participant data, including the drink count
// for the currently active party when one exists.
type ParticipantResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Faculty       string    `json:"faculty"`
	RoomNumber    string    `json:"room_number"`
	IsGroupLeader bool      `json:"is_group_leader"`
	IsHoused      bool      `json:"is_housed"`
	DrinkCount    int       `json:"drink_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewParticipantResponse converts a participant model into a DTO.
func NewParticipantResponse(participant models.Participant, drinkCount int) ParticipantResponse {
	return ParticipantResponse{
		ID:            participant.ID,
		Name:          participant.Name,
		Faculty:       participant.Faculty,
		RoomNumber:    participant.RoomNumber,
		IsGroupLeader: participant.IsGroupLeader,
		IsHoused:      participant.IsHoused,
		DrinkCount:    drinkCount,
		CreatedAt:     participant.CreatedAt,
		UpdatedAt:     participant.UpdatedAt,
	}
}
