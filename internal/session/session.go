// Package session tracks live sessions and short-lived verification
// tokens in Redis, so sign-out revokes a token immediately even though
// the token itself is a signed JWT.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "session:"
	verifyPrefix  = "verify:"
)

// Store is the Redis-backed session registry.
type Store struct {
	client *redis.Client
}

func NewStore(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create registers a session id for a user with the given lifetime.
func (s *Store) Create(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionPrefix+sessionID, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Exists reports whether a session is still live.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// Revoke removes a session. Missing sessions are not an error.
func (s *Store) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// StoreVerificationToken registers an email verification token for a
// user.
func (s *Store) StoreVerificationToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, verifyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}
	return nil
}

// ConsumeVerificationToken resolves and deletes a verification token,
// returning the user it belongs to.
func (s *Store) ConsumeVerificationToken(ctx context.Context, token string) (uuid.UUID, error) {
	key := verifyPrefix + token
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid or expired token")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token payload")
	}

	s.client.Del(ctx, key)
	return userID, nil
}
