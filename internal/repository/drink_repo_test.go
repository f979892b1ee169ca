package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jsu-events/drinktally-api/internal/models"
)

func TestDrinkRepositoryApplyCreatesRowLazily(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrinkRepository(db)
	ctx := context.Background()

	participantID := uuid.NewString()
	partyID := uuid.NewString()

	record, err := repo.Apply(ctx, participantID, partyID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, record.DrinkCount)

	var rows int64
	require.NoError(t, db.Model(&models.ParticipantDrink{}).Count(&rows).Error)
	require.Equal(t, int64(1), rows)
}

func TestDrinkRepositoryApplyClampsAtZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrinkRepository(db)
	ctx := context.Background()

	participantID := uuid.NewString()
	partyID := uuid.NewString()

	record, err := repo.Apply(ctx, participantID, partyID, -1)
	require.NoError(t, err)
	require.Equal(t, 0, record.DrinkCount, "decrement on a fresh counter stays at zero")

	record, err = repo.Apply(ctx, participantID, partyID, -1)
	require.NoError(t, err)
	require.Equal(t, 0, record.DrinkCount)
}

func TestDrinkRepositoryApplyAccumulates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrinkRepository(db)
	ctx := context.Background()

	participantID := uuid.NewString()
	partyID := uuid.NewString()

	for i := 0; i < 3; i++ {
		_, err := repo.Apply(ctx, participantID, partyID, 1)
		require.NoError(t, err)
	}
	record, err := repo.Apply(ctx, participantID, partyID, -1)
	require.NoError(t, err)
	require.Equal(t, 2, record.DrinkCount)

	// A second party gets its own counter.
	otherParty := uuid.NewString()
	record, err = repo.Apply(ctx, participantID, otherParty, 1)
	require.NoError(t, err)
	require.Equal(t, 1, record.DrinkCount)

	var rows int64
	require.NoError(t, db.Model(&models.ParticipantDrink{}).Count(&rows).Error)
	require.Equal(t, int64(2), rows, "one row per participant and party pair")
}

func TestDrinkRepositoryListByParty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrinkRepository(db)
	ctx := context.Background()

	partyID := uuid.NewString()
	_, err := repo.Apply(ctx, uuid.NewString(), partyID, 1)
	require.NoError(t, err)
	_, err = repo.Apply(ctx, uuid.NewString(), partyID, 1)
	require.NoError(t, err)
	_, err = repo.Apply(ctx, uuid.NewString(), uuid.NewString(), 1)
	require.NoError(t, err)

	records, err := repo.ListByParty(ctx, partyID)
	require.NoError(t, err)
	require.Len(t, records, 2)
}
