package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// SessionCache keeps short-lived per-user list views so repeated dashboard loads skip the database
type SessionCache interface {
	Audiences(ctx context.Context, userID string) ([]*models.Audience, bool, error)
	SetAudiences(ctx context.Context, userID string, audiences []*models.Audience) error
	Jobs(ctx context.Context, userID string) ([]*models.Job, bool, error)
	SetJobs(ctx context.Context, userID string, jobs []*models.Job) error
	InvalidateAudiences(ctx context.Context, userID string) error
	InvalidateJobs(ctx context.Context, userID string) error
	InvalidateUser(ctx context.Context, userID string) error
}

// RedisSessionCache implements SessionCache on Redis with JSON values
type RedisSessionCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisSessionCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisSessionCache {
	return &RedisSessionCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisSessionCache) audiencesKey(userID string) string {
	return fmt.Sprintf("%suser:%s:audiences", c.prefix, userID)
}

func (c *RedisSessionCache) jobsKey(userID string) string {
	return fmt.Sprintf("%suser:%s:jobs", c.prefix, userID)
}

func (c *RedisSessionCache) Audiences(ctx context.Context, userID string) ([]*models.Audience, bool, error) {
	var out []*models.Audience
	ok, err := c.get(ctx, c.audiencesKey(userID), &out)
	return out, ok, err
}

func (c *RedisSessionCache) SetAudiences(ctx context.Context, userID string, audiences []*models.Audience) error {
	return c.set(ctx, c.audiencesKey(userID), audiences)
}

func (c *RedisSessionCache) Jobs(ctx context.Context, userID string) ([]*models.Job, bool, error) {
	var out []*models.Job
	ok, err := c.get(ctx, c.jobsKey(userID), &out)
	return out, ok, err
}

func (c *RedisSessionCache) SetJobs(ctx context.Context, userID string, jobs []*models.Job) error {
	return c.set(ctx, c.jobsKey(userID), jobs)
}

func (c *RedisSessionCache) InvalidateAudiences(ctx context.Context, userID string) error {
	return c.del(ctx, c.audiencesKey(userID))
}

func (c *RedisSessionCache) InvalidateJobs(ctx context.Context, userID string) error {
	return c.del(ctx, c.jobsKey(userID))
}

func (c *RedisSessionCache) InvalidateUser(ctx context.Context, userID string) error {
	return c.del(ctx, c.audiencesKey(userID), c.jobsKey(userID))
}

func (c *RedisSessionCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a corrupt entry is a miss; drop it so the next write repairs it
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisSessionCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *RedisSessionCache) del(ctx context.Context, keys ...string) error {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// NoopSessionCache is used when caching is disabled: every read misses
type NoopSessionCache struct{}

func (NoopSessionCache) Audiences(context.Context, string) ([]*models.Audience, bool, error) {
	return nil, false, nil
}
func (NoopSessionCache) SetAudiences(context.Context, string, []*models.Audience) error { return nil }
func (NoopSessionCache) Jobs(context.Context, string) ([]*models.Job, bool, error) {
	return nil, false, nil
}
func (NoopSessionCache) SetJobs(context.Context, string, []*models.Job) error { return nil }
func (NoopSessionCache) InvalidateAudiences(context.Context, string) error    { return nil }
func (NoopSessionCache) InvalidateJobs(context.Context, string) error         { return nil }
func (NoopSessionCache) InvalidateUser(context.Context, string) error         { return nil }

// RedisTokenRevocationStore keeps revoked token ids as expiring Redis keys
type RedisTokenRevocationStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisTokenRevocationStore(client redis.UniversalClient, prefix string) *RedisTokenRevocationStore {
	return &RedisTokenRevocationStore{client: client, prefix: prefix}
}

func (s *RedisTokenRevocationStore) key(tokenID string) string {
	return s.prefix + "revoked:" + tokenID
}

func (s *RedisTokenRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(tokenID), "1", ttl).Err()
}

func (s *RedisTokenRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryTokenRevocationStore is the single-process fallback when Redis is disabled
type MemoryTokenRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryTokenRevocationStore() *MemoryTokenRevocationStore {
	return &MemoryTokenRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryTokenRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := utils.UTCNow()
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = now.Add(ttl)
	return nil
}

func (s *MemoryTokenRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	until, ok := s.revoked[tokenID]
	return ok && !utils.IsExpired(until), nil
}
