package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

// ErrParticipantNotFound indicates the requested participant does not exist.
var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantService exposes participant management operations.
type ParticipantService interface {
	List(ctx context.Context, req dto.ParticipantListRequest) ([]dto.ParticipantResponse, error)
	Get(ctx context.Context, id string) (dto.ParticipantResponse, error)
	Create(ctx context.Context, req dto.ParticipantCreateRequest) (dto.ParticipantResponse, error)
	Update(ctx context.Context, id string, req dto.ParticipantUpdateRequest) (dto.ParticipantResponse, error)
}

type participantService struct {
	repo      repository.ParticipantRepository
	drinks    repository.DrinkRepository
	parties   repository.PartyRepository
	feed      ChangePublisher
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewParticipantService constructs the participant service.
func NewParticipantService(
	repo repository.ParticipantRepository,
	drinks repository.DrinkRepository,
	parties repository.PartyRepository,
	feed ChangePublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) ParticipantService {
	return &participantService{
		repo:      repo,
		drinks:    drinks,
		parties:   parties,
		feed:      feed,
		validator: validate,
		logger:    logger.With().Str("component", "participant_service").Logger(),
	}
}

func (s *participantService) List(ctx context.Context, req dto.ParticipantListRequest) ([]dto.ParticipantResponse, error) {
	participants, err := s.repo.List(ctx, repository.ParticipantFilter{
		Search:        req.Search,
		Faculty:       req.Faculty,
		IsGroupLeader: req.IsGroupLeader,
		IsHoused:      req.IsHoused,
	})
	if err != nil {
		return nil, err
	}

	counts := s.activePartyCounts(ctx)

	responses := make([]dto.ParticipantResponse, 0, len(participants))
	for _, participant := range participants {
		responses = append(responses, dto.NewParticipantResponse(participant, counts[participant.ID]))
	}

	return responses, nil
}

func (s *participantService) Get(ctx context.Context, id string) (dto.ParticipantResponse, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ParticipantResponse{}, ErrParticipantNotFound
		}
		return dto.ParticipantResponse{}, err
	}

	count := 0
	if party, err := s.parties.FindActive(ctx); err == nil && party != nil {
		if record, err := s.drinks.Find(ctx, participant.ID, party.ID); err == nil {
			count = record.DrinkCount
		}
	}

	return dto.NewParticipantResponse(*participant, count), nil
}

func (s *participantService) Create(ctx context.Context, req dto.ParticipantCreateRequest) (dto.ParticipantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ParticipantResponse{}, err
	}

	participant := models.Participant{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Faculty:       req.Faculty,
		RoomNumber:    req.RoomNumber,
		IsGroupLeader: req.IsGroupLeader,
		IsHoused:      req.IsHoused,
	}

	if err := s.repo.Create(ctx, &participant); err != nil {
		return dto.ParticipantResponse{}, err
	}

	s.feed.Publish(ctx, "participants", dto.ChangeEventInsert, participant.ID)

	return dto.NewParticipantResponse(participant, 0), nil
}

func (s *participantService) Update(ctx context.Context, id string, req dto.ParticipantUpdateRequest) (dto.ParticipantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ParticipantResponse{}, err
	}

	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ParticipantResponse{}, ErrParticipantNotFound
		}
		return dto.ParticipantResponse{}, err
	}

	if req.Name != nil {
		participant.Name = *req.Name
	}
	if req.Faculty != nil {
		participant.Faculty = *req.Faculty
	}
	if req.RoomNumber != nil {
		participant.RoomNumber = *req.RoomNumber
	}
	if req.IsGroupLeader != nil {
		participant.IsGroupLeader = *req.IsGroupLeader
	}
	if req.IsHoused != nil {
		participant.IsHoused = *req.IsHoused
	}

	if err := s.repo.Update(ctx, participant); err != nil {
		return dto.ParticipantResponse{}, err
	}

	s.feed.Publish(ctx, "participants", dto.ChangeEventUpdate, participant.ID)

	count := 0
	if party, err := s.parties.FindActive(ctx); err == nil && party != nil {
		if record, err := s.drinks.Find(ctx, participant.ID, party.ID); err == nil {
			count = record.DrinkCount
		}
	}

	return dto.NewParticipantResponse(*participant, count), nil
}

// activePartyCounts maps participant id to drink count for the active party.
// Any lookup failure yields zero counts; lists degrade rather than error.
func (s *participantService) activePartyCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)

	party, err := s.parties.FindActive(ctx)
	if err != nil || party == nil {
		return counts
	}

	records, err := s.drinks.ListByParty(ctx, party.ID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load drink counts for active party")
		return counts
	}

	for _, record := range records {
		counts[record.ParticipantID] = record.DrinkCount
	}

	return counts
}
