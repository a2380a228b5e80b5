package db

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const (
	// IngestLockKey guards the single-flight ingestion run across all
	// backend instances.
	IngestLockKey = "muckraker:ingest:lock"

	// IngestLockTTL bounds how long a crashed instance can hold the lock.
	IngestLockTTL = 15 * time.Minute
)

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		slog.Warn("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// IngestLock is a Redis-backed single-flight lock. The value stored under
// the key is the owning job id, so a holder never releases another job's
// acquisition.
type IngestLock struct {
	client *redis.Client
}

func NewIngestLock(client *redis.Client) *IngestLock {
	return &IngestLock{client: client}
}

// Acquire attempts to claim the ingest lock for jobID. Returns false when
// another run already holds it.
func (l *IngestLock) Acquire(jobID string) (bool, error) {
	return l.client.SetNX(Ctx, IngestLockKey, jobID, IngestLockTTL).Result()
}

// Holder returns the job id currently holding the lock, or "" when free.
func (l *IngestLock) Holder() (string, error) {
	current, err := l.client.Get(Ctx, IngestLockKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return current, nil
}

// Release frees the lock if jobID still owns it.
func (l *IngestLock) Release(jobID string) error {
	current, err := l.client.Get(Ctx, IngestLockKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if current != jobID {
		return nil
	}
	return l.client.Del(Ctx, IngestLockKey).Err()
}
