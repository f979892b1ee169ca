package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// PartyRepository persists parties and owns the exclusive-activation
// transition.
type PartyRepository interface {
	Create(ctx context.Context, party *models.Party) error
	Update(ctx context.Context, party *models.Party) error
	FindByID(ctx context.Context, id string) (*models.Party, error)
	List(ctx context.Context) ([]models.Party, error)
	// FindActive returns nil without error when zero or more than one party
	// is flagged active; callers treat both as "no active party".
	FindActive(ctx context.Context) (*models.Party, error)
	// Activate deactivates every party and activates the target inside one
	// transaction, so the single-active invariant holds at every commit.
	Activate(ctx context.Context, id string) error
}

type partyRepository struct {
	db *gorm.DB
}

// NewPartyRepository constructs the party repository.
func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Create(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

func (r *partyRepository) Update(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Save(party).Error
}

func (r *partyRepository) FindByID(ctx context.Context, id string) (*models.Party, error) {
	var party models.Party
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) List(ctx context.Context) ([]models.Party, error) {
	var parties []models.Party
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *partyRepository) FindActive(ctx context.Context) (*models.Party, error) {
	var parties []models.Party
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Limit(2).Find(&parties).Error; err != nil {
		return nil, err
	}
	if len(parties) != 1 {
		return nil, nil
	}
	return &parties[0], nil
}

func (r *partyRepository) Activate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Party{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Party{}).Where("id = ?", id).Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
