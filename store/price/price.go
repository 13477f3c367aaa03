package price

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.PriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})

		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_prices_asset", "asset_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// Save upserts the quote for price.AssetID. Quotes older than the
// stored one are dropped so a lagging feed cannot rewind the price.
func (s *priceStore) Save(ctx context.Context, price *core.Price) error {
	var existing core.Price
	if err := s.db.View().Where("asset_id = ?", price.AssetID).First(&existing).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return s.db.Update().Create(price).Error
		}
		return err
	}

	if existing.Timestamp >= price.Timestamp {
		return nil
	}

	updates := map[string]interface{}{
		"price":     price.Price,
		"decimals":  price.Decimals,
		"timestamp": price.Timestamp,
		"version":   existing.Version + 1,
	}

	return s.db.Update().Model(core.Price{}).
		Where("asset_id = ? AND version = ?", price.AssetID, existing.Version).
		Updates(updates).Error
}

func (s *priceStore) Find(ctx context.Context, assetID string) (*core.Price, bool, error) {
	var price core.Price
	if err := s.db.View().Where("asset_id = ?", assetID).First(&price).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &price, true, nil
}
