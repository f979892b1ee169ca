package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/models"
)

func newParty(name, date string, active bool) models.Party {
	return models.Party{
		ID:       uuid.NewString(),
		Name:     name,
		Date:     date,
		IsActive: active,
	}
}

func TestPartyRepositoryActivateIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPartyRepository(db)
	ctx := context.Background()

	first := newParty("Opening Night", "2026-09-01", true)
	second := newParty("Summer Fest", "2026-09-15", false)
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	require.NoError(t, repo.Activate(ctx, second.ID))

	var activeCount int64
	require.NoError(t, db.Model(&models.Party{}).Where("is_active = ?", true).Count(&activeCount).Error)
	require.Equal(t, int64(1), activeCount)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, second.ID, active.ID)
}

func TestPartyRepositoryActivateUnknownParty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPartyRepository(db)
	ctx := context.Background()

	party := newParty("Opening Night", "2026-09-01", true)
	require.NoError(t, repo.Create(ctx, &party))

	err := repo.Activate(ctx, uuid.NewString())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPartyRepositoryFindActiveNone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPartyRepository(db)
	ctx := context.Background()

	party := newParty("Opening Night", "2026-09-01", false)
	require.NoError(t, repo.Create(ctx, &party))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestPartyRepositoryListOrdersByDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPartyRepository(db)
	ctx := context.Background()

	later := newParty("Summer Fest", "2026-09-15", false)
	earlier := newParty("Opening Night", "2026-09-01", false)
	require.NoError(t, repo.Create(ctx, &later))
	require.NoError(t, repo.Create(ctx, &earlier))

	parties, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 2)
	require.Equal(t, "Opening Night", parties[0].Name)
}
