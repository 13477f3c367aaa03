package staker

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type stakerStore struct {
	db *db.DB
}

// New new staker store
func New(db *db.DB) core.StakerStore {
	return &stakerStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Staker{})

		if err := tx.AutoMigrate(core.Staker{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *stakerStore) Save(ctx context.Context, tx *db.DB, staker *core.Staker) error {
	return tx.Update().
		Where("user_id = ?", staker.UserID).
		Assign(map[string]interface{}{"asset_count": staker.AssetCount}).
		FirstOrCreate(staker).Error
}

func (s *stakerStore) Delete(ctx context.Context, tx *db.DB, userID string) error {
	return tx.Update().Where("user_id = ?", userID).Delete(core.Staker{}).Error
}

func (s *stakerStore) Find(ctx context.Context, userID string) (*core.Staker, bool, error) {
	var staker core.Staker
	if err := s.db.View().Where("user_id = ?", userID).First(&staker).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &staker, true, nil
}

func (s *stakerStore) ListAll(ctx context.Context) ([]*core.Staker, error) {
	var stakers []*core.Staker
	if err := s.db.View().Find(&stakers).Error; err != nil {
		return nil, err
	}

	return stakers, nil
}
