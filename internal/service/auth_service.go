package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

// ErrInvalidCredentials covers unknown usernames and wrong passwords alike;
// callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUserExists indicates the email or username is already registered.
var ErrUserExists = errors.New("account already exists")

// ErrSessionNotFound indicates the persisted session is gone.
var ErrSessionNotFound = errors.New("session not found")

// AuthService owns the authentication lifecycle: credentials, sessions and
// role resolution.
type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (dto.AuthResponse, error)
	SignIn(ctx context.Context, req dto.SignInRequest) (dto.AuthResponse, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentSession(ctx context.Context, sessionID string) (dto.SessionResponse, error)
	ResolveRole(ctx context.Context, userID string) (string, error)
	IsSessionActive(ctx context.Context, sessionID string) bool
}

type authService struct {
	accounts  repository.AccountRepository
	profiles  repository.ProfileRepository
	roles     repository.RoleRepository
	sessions  SessionStore
	validator *validator.Validate
	logger    zerolog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService constructs the authentication service.
func NewAuthService(
	accounts repository.AccountRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	sessions SessionStore,
	validate *validator.Validate,
	logger zerolog.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		accounts:  accounts,
		profiles:  profiles,
		roles:     roles,
		sessions:  sessions,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}
	if _, err := s.profiles.FindByUsername(ctx, username); err == nil {
		return dto.AuthResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.accounts.Create(ctx, &account); err != nil {
		return dto.AuthResponse{}, err
	}

	// The credential exists from here on. Profile/role creation failures are
	// logged, not rolled back; the next sign-in heals the missing records.
	role := s.provisionIdentity(ctx, account.ID, username, email)

	response, err := s.issueSession(ctx, account.ID, username, email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	response.Role = role

	return response, nil
}

func (s *authService) SignIn(ctx context.Context, req dto.SignInRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	username := strings.TrimSpace(req.Username)

	// Credentials are email-based at the authentication layer; the username
	// resolves through the profile collection first. An unknown username
	// fails here without ever touching the credential store.
	profile, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	account, err := s.accounts.FindByEmail(ctx, profile.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	// Pre-provisioned accounts may authenticate without a profile keyed by
	// their own id. Heal by creating the default volunteer identity; the
	// outcome never affects this sign-in, only later role reads.
	if _, err := s.profiles.FindByID(ctx, account.ID); errors.Is(err, gorm.ErrRecordNotFound) {
		s.provisionIdentity(ctx, account.ID, username, account.Email)
	}

	response, err := s.issueSession(ctx, account.ID, username, account.Email)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if role, err := s.ResolveRole(ctx, account.ID); err == nil {
		response.Role = role
	}

	return response, nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) CurrentSession(ctx context.Context, sessionID string) (dto.SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	role := ""
	if resolved, err := s.ResolveRole(ctx, session.UserID); err == nil {
		role = resolved
	}

	return dto.NewSessionResponse(session.UserID, session.Username, role, session.ExpiresAt), nil
}

// ResolveRole returns the authoritative role for a principal, or an empty
// string when none has been resolved yet.
func (s *authService) ResolveRole(ctx context.Context, userID string) (string, error) {
	role, err := s.roles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return role.Role, nil
}

func (s *authService) IsSessionActive(ctx context.Context, sessionID string) bool {
	session, err := s.sessions.Get(ctx, sessionID)
	return err == nil && session != nil && time.Now().Before(session.ExpiresAt)
}

// provisionIdentity creates the default volunteer profile and role records.
// Failures are logged only; callers already committed to their outcome.
func (s *authService) provisionIdentity(ctx context.Context, userID, username, email string) string {
	profile := models.UserProfile{
		ID:       userID,
		Username: username,
		Email:    email,
		Role:     models.RoleVolunteer,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create user profile")
	}

	role := models.UserRole{
		UserID: userID,
		Role:   models.RoleVolunteer,
	}
	if err := s.roles.Create(ctx, &role); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create user role")
		return ""
	}

	return models.RoleVolunteer
}

func (s *authService) issueSession(ctx context.Context, userID, username, email string) (dto.AuthResponse, error) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"jti":      sessionID,
		"iat":      time.Now().Unix(),
		"exp":      expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if err := s.sessions.Save(ctx, Session{
		ID:        sessionID,
		UserID:    userID,
		Username:  username,
		ExpiresAt: expiresAt,
	}); err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		Token:     token,
		UserID:    userID,
		Username:  username,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}
