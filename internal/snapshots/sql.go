package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/foodcart-engine/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqlConn interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error
}

// SQLStore keeps snapshots in the engine_snapshots table (sqlite on device,
// postgres when shared).
type SQLStore struct {
	conn sqlConn
}

// NewSQLStore builds a store over a migrated database.
func NewSQLStore(conn sqlConn) (*SQLStore, error) {
	if conn == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &SQLStore{conn: conn}, nil
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	var row models.EngineSnapshot
	err := s.conn.DB().WithContext(ctx).Where("snapshot_key = ?", key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return Decode([]byte(row.Payload))
}

// LoadVersion implements Store.
func (s *SQLStore) LoadVersion(ctx context.Context, key string) (int64, error) {
	var row models.EngineSnapshot
	err := s.conn.DB().WithContext(ctx).Select("version").Where("snapshot_key = ?", key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load snapshot version: %w", err)
	}
	return row.Version, nil
}

// Save implements Store. The upsert only replaces rows holding an older
// version.
func (s *SQLStore) Save(ctx context.Context, key string, snap *Snapshot) error {
	payload, err := Encode(snap)
	if err != nil {
		return err
	}
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	row := models.EngineSnapshot{
		SnapshotKey: key,
		Version:     snap.Version,
		Payload:     string(payload),
		SavedAt:     savedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	res := s.conn.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "saved_at", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "engine_snapshots.version < excluded.version"},
		}},
	}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("save snapshot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// Ping implements the readiness check.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
