package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session is the persisted record behind an issued token. The store, not the
// rest of the application, owns session lifetime: records expire with their
// token and vanish on sign-out.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists and retrieves sessions keyed by token id.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	redis  *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewSessionStore constructs a redis-backed session store.
func NewSessionStore(redisClient *redis.Client, prefix string, logger zerolog.Logger) SessionStore {
	if prefix == "" {
		prefix = "tally"
	}

	return &redisSessionStore{
		redis:  redisClient,
		prefix: prefix,
		logger: logger.With().Str("component", "session_store").Logger(),
	}
}

func (s *redisSessionStore) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

func (s *redisSessionStore) Save(ctx context.Context, session Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.redis.Set(ctx, s.key(session.ID), payload, ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	result, err := s.redis.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt session record")
		return nil, err
	}

	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, s.key(sessionID)).Err()
}
