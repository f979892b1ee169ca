package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// DrinkRepository persists the per-(participant, party) counters.
type DrinkRepository interface {
	// Apply adjusts the counter by delta, creating the row at zero when it
	// does not exist yet. The update runs in the database and clamps at
	// zero, so concurrent sessions cannot lose increments or drive the
	// count negative.
	Apply(ctx context.Context, participantID, partyID string, delta int) (*models.ParticipantDrink, error)
	Find(ctx context.Context, participantID, partyID string) (*models.ParticipantDrink, error)
	ListByParty(ctx context.Context, partyID string) ([]models.ParticipantDrink, error)
}

type drinkRepository struct {
	db *gorm.DB
}

// NewDrinkRepository constructs the drink counter repository.
func NewDrinkRepository(db *gorm.DB) DrinkRepository {
	return &drinkRepository{db: db}
}

func (r *drinkRepository) Apply(ctx context.Context, participantID, partyID string, delta int) (*models.ParticipantDrink, error) {
	var record models.ParticipantDrink

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := models.ParticipantDrink{
			ID:            uuid.NewString(),
			ParticipantID: participantID,
			PartyID:       partyID,
			DrinkCount:    0,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}, {Name: "party_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}

		// CASE instead of GREATEST so the expression runs on both postgres
		// and the sqlite test driver.
		if err := tx.Model(&models.ParticipantDrink{}).
			Where("participant_id = ? AND party_id = ?", participantID, partyID).
			Update("drink_count", gorm.Expr(
				"CASE WHEN drink_count + ? < 0 THEN 0 ELSE drink_count + ? END", delta, delta,
			)).Error; err != nil {
			return err
		}

		return tx.Where("participant_id = ? AND party_id = ?", participantID, partyID).
			First(&record).Error
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *drinkRepository) Find(ctx context.Context, participantID, partyID string) (*models.ParticipantDrink, error) {
	var record models.ParticipantDrink
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND party_id = ?", participantID, partyID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *drinkRepository) ListByParty(ctx context.Context, partyID string) ([]models.ParticipantDrink, error) {
	var records []models.ParticipantDrink
	if err := r.db.WithContext(ctx).Where("party_id = ?", partyID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
