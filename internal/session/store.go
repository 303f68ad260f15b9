package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Store tracks live admin session ids. A signed cookie is only honoured while
// its id is present here, so logout revokes it server-side.
type Store interface {
	Save(ctx context.Context, id string, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()
	m.sessions[id] = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.sessions[id]
	if !ok {
		return false, nil
	}
	if !m.now().Before(expires) {
		delete(m.sessions, id)
		return false, nil
	}
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// purgeLocked drops expired sessions; callers hold m.mu.
func (m *MemoryStore) purgeLocked() {
	now := m.now()
	for id, expires := range m.sessions {
		if !now.Before(expires) {
			delete(m.sessions, id)
		}
	}
}

const redisKeyPrefix = "skinsense:session:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromURL dials redis://... and verifies the connection.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (r *RedisStore) Save(ctx context.Context, id string, ttl time.Duration) error {
	if err := r.client.Set(ctx, redisKeyPrefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return n > 0, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
