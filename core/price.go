package core

import (
	"context"
	"time"
)

// Price the latest attested price of one asset. Price is an unsigned
// integer scaled by 10^Decimals; Timestamp is the feed observation
// time in unix seconds.
type Price struct {
	ID        int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	AssetID   string    `sql:"size:36;unique_index:idx_prices_asset" json:"asset_id,omitempty"`
	Price     uint64    `sql:"default:0" json:"price,omitempty"`
	Decimals  uint8     `sql:"default:0" json:"decimals,omitempty"`
	Timestamp int64     `sql:"default:0" json:"timestamp,omitempty"`
	Version   int64     `sql:"default:0" json:"version,omitempty"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PriceStore price store interface
type PriceStore interface {
	Save(ctx context.Context, price *Price) error
	Find(ctx context.Context, assetID string) (*Price, bool, error)
}

// PriceOracle supplies a fresh price for one asset at calculation
// time. No caching between calls: every aggregation step reads again.
type PriceOracle interface {
	GetPrice(ctx context.Context, assetID string) (price uint64, decimals uint8, err error)
}

// PriceFeedService pulls signed price payloads from the feed endpoint.
type PriceFeedService interface {
	PullPrices(ctx context.Context, ts time.Time) ([]*PriceData, error)
}
