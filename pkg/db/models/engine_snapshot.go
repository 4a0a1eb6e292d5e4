package models

import "time"

// EngineSnapshot stores one serialized engine state per storage key.
type EngineSnapshot struct {
	SnapshotKey string    `gorm:"column:snapshot_key;primaryKey"`
	Version     int64     `gorm:"column:version;not null"`
	Payload     string    `gorm:"column:payload;not null"`
	SavedAt     time.Time `gorm:"column:saved_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (EngineSnapshot) TableName() string { return "engine_snapshots" }
