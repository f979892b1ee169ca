package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

// ErrPartyNotFound indicates the requested party does not exist.
var ErrPartyNotFound = errors.New("party not found")

// Actor identifies the authenticated user behind a mutating call, for the
// audit trail.
type Actor struct {
	ID       string
	Username string
}

// PartyService exposes party management operations.
type PartyService interface {
	List(ctx context.Context) ([]dto.PartyResponse, error)
	Active(ctx context.Context) (*dto.PartyResponse, error)
	Create(ctx context.Context, actor Actor, req dto.PartyCreateRequest) (dto.PartyResponse, error)
	Update(ctx context.Context, actor Actor, id string, req dto.PartyUpdateRequest) (dto.PartyResponse, error)
	Activate(ctx context.Context, actor Actor, id string) (dto.PartyResponse, error)
}

type partyService struct {
	repo      repository.PartyRepository
	audit     AuditRecorder
	feed      ChangePublisher
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPartyService constructs the party service.
func NewPartyService(
	repo repository.PartyRepository,
	audit AuditRecorder,
	feed ChangePublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) PartyService {
	return &partyService{
		repo:      repo,
		audit:     audit,
		feed:      feed,
		validator: validate,
		logger:    logger.With().Str("component", "party_service").Logger(),
	}
}

func (s *partyService) List(ctx context.Context) ([]dto.PartyResponse, error) {
	parties, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPartyResponseSlice(parties), nil
}

// Active returns nil when no single active party exists; absence is not an
// error for callers.
func (s *partyService) Active(ctx context.Context) (*dto.PartyResponse, error) {
	party, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, nil
	}

	response := dto.NewPartyResponse(*party)
	return &response, nil
}

func (s *partyService) Create(ctx context.Context, actor Actor, req dto.PartyCreateRequest) (dto.PartyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PartyResponse{}, err
	}

	party := models.Party{
		ID:   uuid.NewString(),
		Name: req.Name,
		Date: req.Date,
	}

	if err := s.repo.Create(ctx, &party); err != nil {
		return dto.PartyResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:   actor.ID,
		Username: actor.Username,
		Action:   models.ActionCreatedParty,
		Target:   party.Name,
		Message:  fmt.Sprintf("%s created party %s", actor.Username, party.Name),
	})
	s.feed.Publish(ctx, "parties", dto.ChangeEventInsert, party.ID)

	return dto.NewPartyResponse(party), nil
}

func (s *partyService) Update(ctx context.Context, actor Actor, id string, req dto.PartyUpdateRequest) (dto.PartyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PartyResponse{}, err
	}

	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PartyResponse{}, ErrPartyNotFound
		}
		return dto.PartyResponse{}, err
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Date != nil {
		party.Date = *req.Date
	}

	if err := s.repo.Update(ctx, party); err != nil {
		return dto.PartyResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:   actor.ID,
		Username: actor.Username,
		Action:   models.ActionUpdatedParty,
		Target:   party.Name,
		Message:  fmt.Sprintf("%s updated party %s", actor.Username, party.Name),
	})
	s.feed.Publish(ctx, "parties", dto.ChangeEventUpdate, party.ID)

	return dto.NewPartyResponse(*party), nil
}

// Activate makes the target the only active party. The transition is
// transactional, so callers never observe two active parties.
func (s *partyService) Activate(ctx context.Context, actor Actor, id string) (dto.PartyResponse, error) {
	if err := s.repo.Activate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PartyResponse{}, ErrPartyNotFound
		}
		return dto.PartyResponse{}, err
	}

	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.PartyResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:   actor.ID,
		Username: actor.Username,
		Action:   models.ActionActivatedParty,
		Target:   party.Name,
		Message:  fmt.Sprintf("%s activated party %s", actor.Username, party.Name),
	})
	s.feed.Publish(ctx, "parties", dto.ChangeEventUpdate, party.ID)

	return dto.NewPartyResponse(*party), nil
}
