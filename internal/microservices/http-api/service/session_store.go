package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "session:revoked:"
	resetKeyPrefix   = "pwreset:"
)

// SessionStore keeps short-lived identity state that does not belong in
// postgres: revoked access tokens and one-shot password reset tokens.
type SessionStore interface {
	RevokeAccessToken(ctx context.Context, jti string, until time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	// ConsumeResetToken returns the user id and deletes the token. A missing
	// or expired token yields ErrInvalidResetToken.
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) RevokeAccessToken(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *redisSessionStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func (s *redisSessionStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, resetKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (s *redisSessionStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidResetToken
	}
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}

// reset tokens are stored hashed so a redis dump cannot be replayed
func resetKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return resetKeyPrefix + hex.EncodeToString(sum[:])
}
