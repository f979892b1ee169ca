package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jsu-events/drinktally-api/internal/models"
)

func seedLogEntries(t *testing.T, repo LogRepository, count int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		entry := models.LogEntry{
			ID:        uuid.NewString(),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			UserID:    "vol-1",
			Username:  "maria",
			Action:    models.ActionDrinkAdded,
			Target:    fmt.Sprintf("Participant %02d", i),
			Message:   fmt.Sprintf("maria added a drink for participant %02d", i),
		}
		require.NoError(t, repo.Create(context.Background(), &entry))
	}
}

func TestLogRepositoryListPaginatesDescending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	seedLogEntries(t, repo, 45)

	entries, total, err := repo.List(context.Background(), LogFilter{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, int64(45), total)
	require.Len(t, entries, 20)

	// Descending by timestamp: page 2 starts at the 21st newest entry.
	require.Equal(t, "Participant 24", entries[0].Target)
	require.Equal(t, "Participant 05", entries[19].Target)
}

func TestLogRepositoryListAscending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	seedLogEntries(t, repo, 5)

	entries, total, err := repo.List(context.Background(), LogFilter{Page: 1, PageSize: 20, Ascending: true})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Equal(t, "Participant 00", entries[0].Target)
}

func TestLogRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	drink := models.LogEntry{
		ID: uuid.NewString(), Timestamp: time.Now().UTC(),
		UserID: "vol-1", Username: "maria",
		Action: models.ActionDrinkAdded, Target: "Anna Berg",
	}
	party := models.LogEntry{
		ID: uuid.NewString(), Timestamp: time.Now().UTC(),
		UserID: "admin-1", Username: "franz",
		Action: models.ActionActivatedParty, Target: "Summer Fest",
	}
	require.NoError(t, repo.Create(ctx, &drink))
	require.NoError(t, repo.Create(ctx, &party))

	entries, total, err := repo.List(ctx, LogFilter{Action: models.ActionActivatedParty, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "franz", entries[0].Username)

	entries, total, err = repo.List(ctx, LogFilter{Search: "berg", PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Anna Berg", entries[0].Target)
}
