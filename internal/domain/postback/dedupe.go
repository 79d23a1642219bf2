package postback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers which (app, transaction) pairs were already credited.
type Deduper interface {
	// Claim returns false when the key was claimed before and has not expired.
	Claim(ctx context.Context, appID, txID string) (bool, error)
	// Release forgets a claim whose postback could not be recorded.
	Release(ctx context.Context, appID, txID string) error
}

// The app id is length-prefixed so ids containing ':' cannot collide.
func dedupeKey(appID, txID string) string {
	return fmt.Sprintf("postback:%d:%s:%s", len(appID), appID, txID)
}

// RedisDeduper shares claims between instances with SET NX.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Claim(ctx context.Context, appID, txID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupeKey(appID, txID), time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim postback: %w", err)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, appID, txID string) error {
	if err := d.client.Del(ctx, dedupeKey(appID, txID)).Err(); err != nil {
		return fmt.Errorf("release postback: %w", err)
	}
	return nil
}

// MemoryDeduper keeps claims in process memory.
type MemoryDeduper struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	claims map[string]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{
		ttl:    ttl,
		now:    time.Now,
		claims: make(map[string]time.Time),
	}
}

func (d *MemoryDeduper) Claim(_ context.Context, appID, txID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	key := dedupeKey(appID, txID)
	if expires, ok := d.claims[key]; ok && now.Before(expires) {
		return false, nil
	}

	// Drop expired claims while holding the lock.
	for k, expires := range d.claims {
		if !now.Before(expires) {
			delete(d.claims, k)
		}
	}

	d.claims[key] = now.Add(d.ttl)
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, appID, txID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claims, dedupeKey(appID, txID))
	return nil
}
