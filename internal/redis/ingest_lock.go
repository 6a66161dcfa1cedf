package redis

import (
	"context"
	"time"

	"siteproof/pkg/e"

	"github.com/redis/go-redis/v9"
)

const lockPrefix = "ingest:"

// IngestLock serializes photo batches per (task, location) pair. Sequence
// numbers restart at 1 on every batch, so two concurrent batches for the same
// pair would interleave and overwrite each other's files; the lock makes them
// queue instead. The TTL bounds how long a crashed batch can hold the pair.
type IngestLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIngestLock(client *redis.Client, ttl time.Duration) *IngestLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &IngestLock{client: client, ttl: ttl}
}

func lockKey(task, locationID string) string {
	return lockPrefix + task + ":" + locationID
}

// Acquire returns e.ErrLocked while another batch holds the pair.
func (l *IngestLock) Acquire(ctx context.Context, task, locationID string) error {
	const op = "redis.IngestLock.Acquire"

	ok, err := l.client.SetNX(ctx, lockKey(task, locationID), 1, l.ttl).Result()
	if err != nil {
		return e.Wrap(op, err)
	}
	if !ok {
		return e.ErrLocked
	}
	return nil
}

func (l *IngestLock) Release(ctx context.Context, task, locationID string) error {
	const op = "redis.IngestLock.Release"

	if err := l.client.Del(ctx, lockKey(task, locationID)).Err(); err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// Held lists the lock keys currently present, for the janitor's visibility
// sweep. Fine at this keyspace size; locks expire on their own.
func (l *IngestLock) Held(ctx context.Context) ([]string, error) {
	const op = "redis.IngestLock.Held"

	keys, err := l.client.Keys(ctx, lockPrefix+"*").Result()
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return keys, nil
}
