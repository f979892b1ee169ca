package dto

import (
	"time"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// PartyCreateRequest captures the payload for creating a party.
type PartyCreateRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Date string `json:"date" validate:"required,min=1"`
}

// PartyUpdateRequest captures partial update payloads for parties.
type PartyUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
	Date *string `json:"date" validate:"omitempty,min=1"`
}

// PartyResponse serializes party data.
type PartyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPartyResponse converts a party model into a DTO.
func NewPartyResponse(party models.Party) PartyResponse {
	return PartyResponse{
		ID:        party.ID,
		Name:      party.Name,
		Date:      party.Date,
		IsActive:  party.IsActive,
		CreatedAt: party.CreatedAt,
		UpdatedAt: party.UpdatedAt,
	}
}

// NewPartyResponseSlice converts a slice of party models.
func NewPartyResponseSlice(parties []models.Party) []PartyResponse {
	responses := make([]PartyResponse, 0, len(parties))
	for _, party := range parties {
		responses = append(responses, NewPartyResponse(party))
	}
	return responses
}
