package position

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.PositionStore {
	return &positionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})

		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	updates := map[string]interface{}{
		"amount":        position.Amount,
		"accrual_start": position.AccrualStart,
	}

	return tx.Update().
		Where("user_id = ? AND asset_id = ?", position.UserID, position.AssetID).
		Assign(updates).
		FirstOrCreate(position).Error
}

func (s *positionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, bool, error) {
	var position core.Position
	if err := s.db.View().Where("user_id = ? AND asset_id = ?", userID, assetID).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &position, true, nil
}

func (s *positionStore) ListByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id = ?", userID).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

// ResetAccrual rewinds the accrual clock on the user's existing
// rows for assetIDs. Assets the user never staked have no row and
// stay untouched.
func (s *positionStore) ResetAccrual(ctx context.Context, tx *db.DB, userID string, assetIDs []string, now int64) error {
	if len(assetIDs) == 0 {
		return nil
	}

	return tx.Update().Model(core.Position{}).
		Where("user_id = ? AND asset_id IN (?)", userID, assetIDs).
		Updates(map[string]interface{}{"accrual_start": now}).Error
}
