package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/cart"
	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/shopspring/decimal"
)

// ErrStale is returned by Save when a snapshot with an equal or newer version
// is already stored.
var ErrStale = errors.New("snapshot version is not newer than the stored one")

// Snapshot is the durable projection of engine state. Totals are stored for
// readers of the raw payload; restore recomputes them from the lines.
type Snapshot struct {
	Version        int64           `json:"version"`
	SavedAt        time.Time       `json:"savedAt"`
	Items          []catalog.Item  `json:"items"`
	CartLines      []cart.Line     `json:"cartLines"`
	TotalLineCount int             `json:"totalLineCount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	SelectedItemID string          `json:"selectedItemId,omitempty"`
	CutleryCount   int             `json:"cutleryCount"`
	PromoCode      string          `json:"promoCode,omitempty"`
	Discount       decimal.Decimal `json:"discount"`
	PromoAppliedAt *time.Time      `json:"promoAppliedAt,omitempty"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
}

// Store persists snapshots by key. Load returns nil, nil when nothing is
// stored. LoadVersion reads only the stored version (0 when absent) so a
// writer can catch up even when the payload no longer decodes.
type Store interface {
	Load(ctx context.Context, key string) (*Snapshot, error)
	LoadVersion(ctx context.Context, key string) (int64, error)
	Save(ctx context.Context, key string, snap *Snapshot) error
}

// Encode serializes a snapshot.
func Encode(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot required")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return payload, nil
}

// Decode parses a stored payload.
func Decode(payload []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
