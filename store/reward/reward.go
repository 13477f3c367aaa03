package reward

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type rewardStore struct {
	db *db.DB
}

// New new reward store
func New(db *db.DB) core.RewardStore {
	return &rewardStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Reward{})

		if err := tx.AutoMigrate(core.Reward{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rewardStore) Save(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	return tx.Update().
		Where("user_id = ?", reward.UserID).
		Assign(map[string]interface{}{"banked": reward.Banked}).
		FirstOrCreate(reward).Error
}

func (s *rewardStore) Find(ctx context.Context, userID string) (*core.Reward, bool, error) {
	var reward core.Reward
	if err := s.db.View().Where("user_id = ?", userID).First(&reward).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &reward, true, nil
}
