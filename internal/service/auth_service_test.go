package service

import (
	"context"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

func sessionIDFromToken(t *testing.T, token string) string {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	sessionID, _ := claims["jti"].(string)
	require.NotEmpty(t, sessionID)
	return sessionID
}

type countingAccountRepo struct {
	repository.AccountRepository
	reads int
}

func (c *countingAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	c.reads++
	return c.AccountRepository.FindByEmail(ctx, email)
}

func (c *countingAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	c.reads++
	return c.AccountRepository.FindByID(ctx, id)
}

type authFixture struct {
	service  AuthService
	db       *gorm.DB
	accounts *countingAccountRepo
}

func setupAuthService(t *testing.T) authFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.UserProfile{}, &models.UserRole{}))

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	logger := zerolog.New(io.Discard)
	accounts := &countingAccountRepo{AccountRepository: repository.NewAccountRepository(db)}
	sessions := NewSessionStore(redisClient, "tally", logger)

	svc := NewAuthService(
		accounts,
		repository.NewProfileRepository(db),
		repository.NewRoleRepository(db),
		sessions,
		validator.New(validator.WithRequiredStructEnabled()),
		logger,
		"test-secret",
		time.Hour,
	)

	return authFixture{service: svc, db: db, accounts: accounts}
}

func TestAuthServiceSignUpThenSignInGrantsVolunteer(t *testing.T) {
	fx := setupAuthService(t)
	ctx := context.Background()

	signedUp, err := fx.service.SignUp(ctx, dto.SignUpRequest{
		Email:    "maria@example.org",
		Username: "maria",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signedUp.Token)
	require.Equal(t, models.RoleVolunteer, signedUp.Role)

	signedIn, err := fx.service.SignIn(ctx, dto.SignInRequest{Username: "maria", Password: "secret-pass"})
	require.NoError(t, err)
	require.Equal(t, models.RoleVolunteer, signedIn.Role)
	require.Equal(t, signedUp.UserID, signedIn.UserID)
	require.True(t, signedIn.ExpiresAt.After(time.Now()))
}

func TestAuthServiceUnknownUsernameSkipsCredentialStore(t *testing.T) {
	fx := setupAuthService(t)

	_, err := fx.service.SignIn(context.Background(), dto.SignInRequest{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Zero(t, fx.accounts.reads, "unknown usernames must not touch the credential store")
}

func TestAuthServiceWrongPassword(t *testing.T) {
	fx := setupAuthService(t)
	ctx := context.Background()

	_, err := fx.service.SignUp(ctx, dto.SignUpRequest{
		Email:    "maria@example.org",
		Username: "maria",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	_, err = fx.service.SignIn(ctx, dto.SignInRequest{Username: "maria", Password: "not-the-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceDuplicateSignUp(t *testing.T) {
	fx := setupAuthService(t)
	ctx := context.Background()

	req := dto.SignUpRequest{Email: "maria@example.org", Username: "maria", Password: "secret-pass"}
	_, err := fx.service.SignUp(ctx, req)
	require.NoError(t, err)

	_, err = fx.service.SignUp(ctx, req)
	require.ErrorIs(t, err, ErrUserExists)

	req.Email = "other@example.org"
	_, err = fx.service.SignUp(ctx, req)
	require.ErrorIs(t, err, ErrUserExists, "duplicate username must be rejected")
}

func TestAuthServiceSignInHealsMissingIdentity(t *testing.T) {
	fx := setupAuthService(t)
	ctx := context.Background()

	// A pre-provisioned credential whose profile is keyed by a legacy id:
	// the username still resolves, but no profile or role exists under the
	// account's own id.
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	account := models.Account{ID: uuid.NewString(), Email: "legacy@example.org", PasswordHash: string(hash)}
	require.NoError(t, fx.db.Create(&account).Error)
	require.NoError(t, fx.db.Create(&models.UserProfile{
		ID:       uuid.NewString(),
		Username: "legacy",
		Email:    "legacy@example.org",
		Role:     models.RoleVolunteer,
	}).Error)

	signedIn, err := fx.service.SignIn(ctx, dto.SignInRequest{Username: "legacy", Password: "secret-pass"})
	require.NoError(t, err)
	require.Equal(t, account.ID, signedIn.UserID)

	role, err := fx.service.ResolveRole(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleVolunteer, role, "sign-in must backfill the default role")
}

func TestAuthServiceSignOutInvalidatesSession(t *testing.T) {
	fx := setupAuthService(t)
	ctx := context.Background()

	signedUp, err := fx.service.SignUp(ctx, dto.SignUpRequest{
		Email:    "maria@example.org",
		Username: "maria",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	session, err := fx.service.CurrentSession(ctx, sessionIDFromToken(t, signedUp.Token))
	require.NoError(t, err)
	require.Equal(t, "maria", session.Username)
	require.True(t, fx.service.IsSessionActive(ctx, sessionIDFromToken(t, signedUp.Token)))

	require.NoError(t, fx.service.SignOut(ctx, sessionIDFromToken(t, signedUp.Token)))
	require.False(t, fx.service.IsSessionActive(ctx, sessionIDFromToken(t, signedUp.Token)))

	_, err = fx.service.CurrentSession(ctx, sessionIDFromToken(t, signedUp.Token))
	require.ErrorIs(t, err, ErrSessionNotFound)
}
