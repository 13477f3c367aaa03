package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Asset an allow-listed stakeable asset and its price feed wiring
type Asset struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	AssetID   string    `sql:"size:36;unique_index:idx_assets_asset_id" json:"asset_id,omitempty"`
	Symbol    string    `sql:"size:32" json:"symbol,omitempty"`
	FeedID    string    `sql:"size:64" json:"feed_id,omitempty"`
	AddedBy   string    `sql:"size:36" json:"added_by,omitempty"`
}

// AssetStore manages the allow list. ListAllowed returns assets in
// insertion order; asset ids are unique, re-adding one updates its
// feed wiring in place.
type AssetStore interface {
	Save(ctx context.Context, tx *db.DB, asset *Asset) error
	Find(ctx context.Context, assetID string) (*Asset, bool, error)
	ListAllowed(ctx context.Context) ([]*Asset, error)
}
