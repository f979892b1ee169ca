package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/observability"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

// ErrNoActiveParty indicates a drink update was attempted with no active party.
var ErrNoActiveParty = errors.New("no active party")

// DrinkService owns the drink-counter write path.
type DrinkService interface {
	Update(ctx context.Context, actor Actor, participantID string, req dto.DrinkUpdateRequest) (dto.DrinkResponse, error)
}

type drinkService struct {
	drinks       repository.DrinkRepository
	participants repository.ParticipantRepository
	parties      repository.PartyRepository
	audit        AuditRecorder
	feed         ChangePublisher
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewDrinkService constructs the drink counter service.
func NewDrinkService(
	drinks repository.DrinkRepository,
	participants repository.ParticipantRepository,
	parties repository.PartyRepository,
	audit AuditRecorder,
	feed ChangePublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) DrinkService {
	return &drinkService{
		drinks:       drinks,
		participants: participants,
		parties:      parties,
		audit:        audit,
		feed:         feed,
		validator:    validate,
		logger:       logger.With().Str("component", "drink_service").Logger(),
	}
}

// Update applies one increment or decrement for the active party, creating
// the counter row lazily. The count is adjusted in the database and clamps
// at zero. The audit entry is recorded after the commit and cannot affect
// the result.
func (s *drinkService) Update(ctx context.Context, actor Actor, participantID string, req dto.DrinkUpdateRequest) (dto.DrinkResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.DrinkResponse{}, err
	}

	participant, err := s.participants.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DrinkResponse{}, ErrParticipantNotFound
		}
		return dto.DrinkResponse{}, err
	}

	party, err := s.parties.FindActive(ctx)
	if err != nil {
		return dto.DrinkResponse{}, err
	}
	if party == nil {
		return dto.DrinkResponse{}, ErrNoActiveParty
	}

	record, err := s.drinks.Apply(ctx, participant.ID, party.ID, req.Delta)
	if err != nil {
		return dto.DrinkResponse{}, err
	}

	action := models.ActionDrinkAdded
	direction := "up"
	verb := "added a drink for"
	if req.Delta < 0 {
		action = models.ActionDrinkRemoved
		direction = "down"
		verb = "removed a drink for"
	}

	observability.DrinkUpdates().WithLabelValues(direction).Inc()

	s.audit.Record(ctx, AuditEntry{
		UserID:   actor.ID,
		Username: actor.Username,
		Action:   action,
		Target:   participant.Name,
		Message:  fmt.Sprintf("%s %s %s at party %s", actor.Username, verb, participant.Name, party.Name),
		Metadata: map[string]interface{}{
			"party_id":    party.ID,
			"drink_count": record.DrinkCount,
		},
	})
	s.feed.Publish(ctx, "participant_drinks", dto.ChangeEventUpdate, record.ID)

	return dto.NewDrinkResponse(*record), nil
}
