package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// RefreshVersionKeyPrefix is the Redis key prefix for refresh versions
	RefreshVersionKeyPrefix = "refresh_version:"
)

// RefreshVersionStore tracks the current refresh-token generation per user.
// A refresh token is only honoured while its version claim matches the stored
// value, so rotation (or logout) strands every previously issued token.
type RefreshVersionStore interface {
	// Rotate writes and returns a fresh version for the user.
	Rotate(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	// Current returns the stored version, or "" when none is active.
	Current(ctx context.Context, userID uuid.UUID) (string, error)
	// Invalidate drops the stored version (logout, password change).
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// RedisRefreshVersions stores refresh versions in Redis with the refresh
// token's own TTL, so the key dies with the last token that could match it.
type RedisRefreshVersions struct {
	client *redis.Client
}

func NewRedisRefreshVersions(client *redis.Client) *RedisRefreshVersions {
	return &RedisRefreshVersions{client: client}
}

func (s *RedisRefreshVersions) Rotate(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	version := uuid.NewString()
	key := RefreshVersionKeyPrefix + userID.String()
	if err := s.client.Set(ctx, key, version, ttl).Err(); err != nil {
		return "", err
	}
	return version, nil
}

func (s *RedisRefreshVersions) Current(ctx context.Context, userID uuid.UUID) (string, error) {
	key := RefreshVersionKeyPrefix + userID.String()
	version, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return version, nil
}

func (s *RedisRefreshVersions) Invalidate(ctx context.Context, userID uuid.UUID) error {
	key := RefreshVersionKeyPrefix + userID.String()
	return s.client.Del(ctx, key).Err()
}

// MemRefreshVersions is the in-process implementation used by tests.
type MemRefreshVersions struct {
	mu       sync.Mutex
	versions map[uuid.UUID]string
}

func NewMemRefreshVersions() *MemRefreshVersions {
	return &MemRefreshVersions{versions: make(map[uuid.UUID]string)}
}

func (s *MemRefreshVersions) Rotate(_ context.Context, userID uuid.UUID, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := uuid.NewString()
	s.versions[userID] = version
	return version, nil
}

func (s *MemRefreshVersions) Current(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[userID], nil
}

func (s *MemRefreshVersions) Invalidate(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.versions, userID)
	return nil
}
