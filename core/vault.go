package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Vault a user's free (unstaked) custody balance of one asset, in
// native units. Deposits credit it, stakes debit it, unstakes credit
// it back, withdrawals debit and pay out.
type Vault struct {
	UserID    string    `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	AssetID   string    `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	Balance   uint64    `sql:"default:0" json:"balance"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AssetTransfer moves asset value between a user's free custody
// balance and the staked book. Debit fails with ErrTransferFailed
// when the balance cannot cover amount; both mutations run inside the
// caller's transaction.
type AssetTransfer interface {
	BalanceOf(ctx context.Context, userID, assetID string) (uint64, error)
	Debit(ctx context.Context, tx *db.DB, userID, assetID string, amount uint64) error
	Credit(ctx context.Context, tx *db.DB, userID, assetID string, amount uint64) error
}
