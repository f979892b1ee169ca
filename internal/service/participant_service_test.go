package service

import (
	"context"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

type countingParticipantRepo struct {
	repository.ParticipantRepository
	calls int
}

func (c *countingParticipantRepo) Create(ctx context.Context, participant *models.Participant) error {
	c.calls++
	return c.ParticipantRepository.Create(ctx, participant)
}

func (c *countingParticipantRepo) Update(ctx context.Context, participant *models.Participant) error {
	c.calls++
	return c.ParticipantRepository.Update(ctx, participant)
}

func setupParticipantService(t *testing.T) (ParticipantService, *gorm.DB, *countingParticipantRepo, *recordingFeed) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Participant{}, &models.Party{}, &models.ParticipantDrink{}))

	repo := &countingParticipantRepo{ParticipantRepository: repository.NewParticipantRepository(db)}
	feed := &recordingFeed{}
	svc := NewParticipantService(
		repo,
		repository.NewDrinkRepository(db),
		repository.NewPartyRepository(db),
		feed,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.New(io.Discard),
	)

	return svc, db, repo, feed
}

func TestParticipantServiceCreateRejectsEmptyFaculty(t *testing.T) {
	svc, _, repo, feed := setupParticipantService(t)

	_, err := svc.Create(context.Background(), dto.ParticipantCreateRequest{
		Name:       "Anna Berg",
		Faculty:    "",
		RoomNumber: "12A",
	})
	require.Error(t, err)
	require.Zero(t, repo.calls, "validation failures must not reach the store")
	require.Empty(t, feed.events)
}

func TestParticipantServiceCreatePublishesInsert(t *testing.T) {
	svc, _, _, feed := setupParticipantService(t)

	created, err := svc.Create(context.Background(), dto.ParticipantCreateRequest{
		Name:       "Anna Berg",
		Faculty:    "law",
		RoomNumber: "12A",
		IsHoused:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Zero(t, created.DrinkCount)

	require.Len(t, feed.events, 1)
	require.Equal(t, "participants", feed.events[0].Collection)
	require.Equal(t, dto.ChangeEventInsert, feed.events[0].Event)
	require.Equal(t, created.ID, feed.events[0].RowID)
}

func TestParticipantServiceListMergesActivePartyCounts(t *testing.T) {
	svc, db, _, _ := setupParticipantService(t)
	ctx := context.Background()

	participant := models.Participant{ID: uuid.NewString(), Name: "Anna Berg", Faculty: "law", RoomNumber: "12A"}
	other := models.Participant{ID: uuid.NewString(), Name: "Bruno Keller", Faculty: "medicine", RoomNumber: "3B"}
	party := models.Party{ID: uuid.NewString(), Name: "Summer Fest", Date: "2026-09-15", IsActive: true}
	require.NoError(t, db.Create(&participant).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&party).Error)
	require.NoError(t, db.Create(&models.ParticipantDrink{
		ID:            uuid.NewString(),
		ParticipantID: participant.ID,
		PartyID:       party.ID,
		DrinkCount:    4,
	}).Error)

	results, err := svc.List(ctx, dto.ParticipantListRequest{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "Anna Berg", results[0].Name)
	require.Equal(t, 4, results[0].DrinkCount)
	require.Zero(t, results[1].DrinkCount)
}

func TestParticipantServiceListWithoutActivePartyZeroCounts(t *testing.T) {
	svc, db, _, _ := setupParticipantService(t)
	ctx := context.Background()

	participant := models.Participant{ID: uuid.NewString(), Name: "Anna Berg", Faculty: "law", RoomNumber: "12A"}
	party := models.Party{ID: uuid.NewString(), Name: "Past Party", Date: "2026-07-01"}
	require.NoError(t, db.Create(&participant).Error)
	require.NoError(t, db.Create(&party).Error)
	require.NoError(t, db.Create(&models.ParticipantDrink{
		ID:            uuid.NewString(),
		ParticipantID: participant.ID,
		PartyID:       party.ID,
		DrinkCount:    9,
	}).Error)

	results, err := svc.List(ctx, dto.ParticipantListRequest{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Zero(t, results[0].DrinkCount, "counts from inactive parties must not surface")
}

func TestParticipantServiceUpdateAppliesPartialFields(t *testing.T) {
	svc, db, _, feed := setupParticipantService(t)
	ctx := context.Background()

	participant := models.Participant{ID: uuid.NewString(), Name: "Anna Berg", Faculty: "law", RoomNumber: "12A"}
	require.NoError(t, db.Create(&participant).Error)

	room := "7C"
	leader := true
	updated, err := svc.Update(ctx, participant.ID, dto.ParticipantUpdateRequest{
		RoomNumber:    &room,
		IsGroupLeader: &leader,
	})
	require.NoError(t, err)
	require.Equal(t, "Anna Berg", updated.Name, "unset fields keep their value")
	require.Equal(t, "7C", updated.RoomNumber)
	require.True(t, updated.IsGroupLeader)

	require.Len(t, feed.events, 1)
	require.Equal(t, dto.ChangeEventUpdate, feed.events[0].Event)
}

func TestParticipantServiceUpdateUnknownID(t *testing.T) {
	svc, _, _, _ := setupParticipantService(t)

	name := "Someone"
	_, err := svc.Update(context.Background(), uuid.NewString(), dto.ParticipantUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrParticipantNotFound)
}
