package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates access tokens before they expire. Single tokens
// are revoked by JTI on logout; revoking an admin rejects every token issued
// to them up to that moment.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	RevokeAdmin(ctx context.Context, adminID string, ttl time.Duration) error
	IsAdminRevoked(ctx context.Context, adminID string, issuedAt time.Time) (bool, error)
}

const defaultRevocationPrefix = "pos:auth:revoked:"

// RedisRevocationStore keeps revocations in Redis so every server instance
// sees the same logouts.
type RedisRevocationStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRevocationStore wraps a shared Redis client
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client:    client,
		keyPrefix: defaultRevocationPrefix,
	}
}

func (s *RedisRevocationStore) tokenKey(jti string) string {
	return s.keyPrefix + "jti:" + jti
}

func (s *RedisRevocationStore) adminKey(adminID string) string {
	return s.keyPrefix + "admin:" + adminID
}

// RevokeToken stores the JTI until the token would have expired anyway
func (s *RedisRevocationStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.tokenKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether the JTI was revoked
func (s *RedisRevocationStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.tokenKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeAdmin records the revocation instant; ttl should cover the longest
// lived token that may still be in circulation.
func (s *RedisRevocationStore) RevokeAdmin(ctx context.Context, adminID string, ttl time.Duration) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.Set(ctx, s.adminKey(adminID), now, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke admin tokens: %w", err)
	}
	return nil
}

// IsAdminRevoked reports whether a token issued at issuedAt predates the
// admin's last revocation.
func (s *RedisRevocationStore) IsAdminRevoked(ctx context.Context, adminID string, issuedAt time.Time) (bool, error) {
	revokedAt, err := s.client.Get(ctx, s.adminKey(adminID)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin revocation: %w", err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// InMemoryRevocationStore is used when Redis is disabled. Revocations are
// lost on restart and are not shared between instances.
type InMemoryRevocationStore struct {
	mu        sync.Mutex
	tokens    map[string]time.Time
	revokedAt map[string]time.Time
}

// NewInMemoryRevocationStore creates an empty store
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{
		tokens:    make(map[string]time.Time),
		revokedAt: make(map[string]time.Time),
	}
}

func (s *InMemoryRevocationStore) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[jti] = time.Now().Add(ttl)
	return nil
}

func (s *InMemoryRevocationStore) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.tokens[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		delete(s.tokens, jti)
		return false, nil
	}
	return true, nil
}

func (s *InMemoryRevocationStore) RevokeAdmin(_ context.Context, adminID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokedAt[adminID] = time.Now()
	return nil
}

func (s *InMemoryRevocationStore) IsAdminRevoked(_ context.Context, adminID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revokedAt, ok := s.revokedAt[adminID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(revokedAt), nil
}

var _ RevocationStore = (*InMemoryRevocationStore)(nil)

// NewRevocationStore picks Redis when a client is available
func NewRevocationStore(client *redis.Client) RevocationStore {
	if client == nil {
		return NewInMemoryRevocationStore()
	}
	return NewRedisRevocationStore(client)
}
