package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// ParticipantFilter narrows participant list queries.
type ParticipantFilter struct {
	Search        string
	Faculty       string
	IsGroupLeader *bool
	IsHoused      *bool
}

// ParticipantRepository persists participants.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	Update(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	List(ctx context.Context, filter ParticipantFilter) ([]models.Participant, error)
}

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository constructs the participant repository.
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) Update(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Save(participant).Error
}

func (r *participantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	var participant models.Participant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) List(ctx context.Context, filter ParticipantFilter) ([]models.Participant, error) {
	query := r.db.WithContext(ctx).Model(&models.Participant{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(faculty) LIKE ? OR room_number LIKE ?",
			pattern, pattern, "%"+search+"%",
		)
	}

	if filter.Faculty != "" {
		query = query.Where("faculty = ?", filter.Faculty)
	}

	if filter.IsGroupLeader != nil {
		query = query.Where("is_group_leader = ?", *filter.IsGroupLeader)
	}

	if filter.IsHoused != nil {
		query = query.Where("is_housed = ?", *filter.IsHoused)
	}

	var participants []models.Participant
	if err := query.Order("name ASC").Find(&participants).Error; err != nil {
		return nil, err
	}

	return participants, nil
}
