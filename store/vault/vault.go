package vault

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type vaultStore struct {
	db *db.DB
}

// New new vault store
func New(db *db.DB) core.AssetTransfer {
	return &vaultStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Vault{})

		if err := tx.AutoMigrate(core.Vault{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *vaultStore) BalanceOf(ctx context.Context, userID, assetID string) (uint64, error) {
	var vault core.Vault
	if err := s.db.View().Where("user_id = ? AND asset_id = ?", userID, assetID).First(&vault).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}

	return vault.Balance, nil
}

// Debit moves amount out of the user's deposit balance. The guard on
// balance keeps the column from wrapping below zero under any
// interleaving, so a miss means the funds are not there.
func (s *vaultStore) Debit(ctx context.Context, tx *db.DB, userID, assetID string, amount uint64) error {
	update := tx.Update().Model(core.Vault{}).
		Where("user_id = ? AND asset_id = ? AND balance >= ?", userID, assetID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrTransferFailed
	}

	return nil
}

func (s *vaultStore) Credit(ctx context.Context, tx *db.DB, userID, assetID string, amount uint64) error {
	vault := core.Vault{UserID: userID, AssetID: assetID}
	if err := tx.Update().Where("user_id = ? AND asset_id = ?", userID, assetID).FirstOrCreate(&vault).Error; err != nil {
		return err
	}

	return tx.Update().Model(core.Vault{}).
		Where("user_id = ? AND asset_id = ?", userID, assetID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}
