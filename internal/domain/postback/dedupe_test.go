package postback

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available: %v", err)
	}
	return client
}

func TestRedisDeduperClaimAndRelease(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	d := NewRedisDeduper(client, time.Minute)
	txID := uuid.NewString()
	defer client.Del(ctx, dedupeKey("7212", txID))

	if ok, err := d.Claim(ctx, "7212", txID); err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	if ok, err := d.Claim(ctx, "7212", txID); err != nil || ok {
		t.Fatalf("second claim: ok=%v err=%v", ok, err)
	}
	if err := d.Release(ctx, "7212", txID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, err := d.Claim(ctx, "7212", txID); err != nil || !ok {
		t.Fatalf("claim after release: ok=%v err=%v", ok, err)
	}
}
