package asset

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type assetStore struct {
	db *db.DB
}

// New new asset store
func New(db *db.DB) core.AssetStore {
	return &assetStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Asset{})

		if err := tx.AutoMigrate(core.Asset{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_assets_asset_id", "asset_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *assetStore) Save(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	return tx.Update().Where("asset_id = ?", asset.AssetID).Assign(map[string]interface{}{
		"symbol":   asset.Symbol,
		"feed_id":  asset.FeedID,
		"added_by": asset.AddedBy,
	}).FirstOrCreate(asset).Error
}

func (s *assetStore) Find(ctx context.Context, assetID string) (*core.Asset, bool, error) {
	var asset core.Asset
	if err := s.db.View().Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &asset, true, nil
}

func (s *assetStore) ListAllowed(ctx context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := s.db.View().Order("id ASC").Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}
