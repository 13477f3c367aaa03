package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Position a user's staked amount of one asset, in native units, and
// the accrual clock rewards are measured from
type Position struct {
	UserID       string    `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	AssetID      string    `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	Amount       uint64    `sql:"default:0" json:"amount"`
	AccrualStart int64     `sql:"default:0" json:"accrual_start"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PositionStore position store interface. Rows persist with amount 0
// after a full unstake; they are never deleted.
type PositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, userID, assetID string) (*Position, bool, error)
	ListByUser(ctx context.Context, userID string) ([]*Position, error)
	// ResetAccrual moves the accrual clock of every existing position
	// of the user over the given assets to now, held or empty.
	ResetAccrual(ctx context.Context, tx *db.DB, userID string, assetIDs []string, now int64) error
}
