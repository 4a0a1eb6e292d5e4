package snapshots

import (
	"context"
	"fmt"
	"time"
)

type redisSnapshots interface {
	SaveSnapshot(ctx context.Context, name string, version int64, payload []byte, ttl time.Duration) (bool, error)
	LoadSnapshot(ctx context.Context, name string) ([]byte, error)
	LoadSnapshotVersion(ctx context.Context, name string) (int64, error)
	Ping(ctx context.Context) error
}

// RedisStore keeps snapshots in Redis through pkg/redis.
type RedisStore struct {
	client redisSnapshots
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed store. A zero ttl keeps snapshots
// forever.
func NewRedisStore(client redisSnapshots, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	payload, err := s.client.LoadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	return Decode(payload)
}

// LoadVersion implements Store.
func (s *RedisStore) LoadVersion(ctx context.Context, key string) (int64, error) {
	return s.client.LoadSnapshotVersion(ctx, key)
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, key string, snap *Snapshot) error {
	payload, err := Encode(snap)
	if err != nil {
		return err
	}
	written, err := s.client.SaveSnapshot(ctx, key, snap.Version, payload, s.ttl)
	if err != nil {
		return err
	}
	if !written {
		return ErrStale
	}
	return nil
}

// Ping implements the readiness check.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
