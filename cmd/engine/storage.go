package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/foodcart-engine/internal/catalogsync"
	"github.com/angelmondragon/foodcart-engine/internal/snapshots"
	"github.com/angelmondragon/foodcart-engine/pkg/config"
	"github.com/angelmondragon/foodcart-engine/pkg/db"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
	"github.com/angelmondragon/foodcart-engine/pkg/migrate"
	"github.com/angelmondragon/foodcart-engine/pkg/redis"
	"go.uber.org/multierr"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type storage struct {
	store  snapshots.Store
	pinger pinger
	lock   catalogsync.Lock
	close  func() error
}

// openStorage builds the snapshot store selected by the storage driver. Only
// the redis driver is shared between engines, so only it gets a distributed
// sync lock.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := snapshots.NewMemoryStore()
		return storage{store: store, pinger: store, lock: &catalogsync.LocalLock{}, close: func() error { return nil }}, nil

	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return storage{}, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return storage{}, multierr.Combine(fmt.Errorf("run migrations: %w", err), client.Close())
		}
		store, err := snapshots.NewSQLStore(client)
		if err != nil {
			return storage{}, err
		}
		return storage{store: store, pinger: client, lock: &catalogsync.LocalLock{}, close: client.Close}, nil

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return storage{}, fmt.Errorf("bootstrap redis: %w", err)
		}
		store, err := snapshots.NewRedisStore(client, cfg.Redis.SnapshotTTL)
		if err != nil {
			return storage{}, err
		}
		lock, err := catalogsync.NewRedisLock(client, client.LockKey("catalog_sync:"+cfg.Engine.StorageKey), 0)
		if err != nil {
			return storage{}, err
		}
		return storage{store: store, pinger: client, lock: lock, close: client.Close}, nil

	default:
		return storage{}, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
