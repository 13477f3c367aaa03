package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Staker a member of the active staker set. AssetCount is the number
// of assets the user holds a nonzero position in; the row exists iff
// AssetCount > 0.
type Staker struct {
	UserID     string    `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	AssetCount uint64    `sql:"default:0" json:"asset_count"`
	CreatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// StakerStore the staker membership set. The set is unordered:
// ListAll iteration order is not a guarantee and must not be relied
// on. Save is idempotent, Delete of an absent user is a no-op.
type StakerStore interface {
	Save(ctx context.Context, tx *db.DB, staker *Staker) error
	Delete(ctx context.Context, tx *db.DB, userID string) error
	Find(ctx context.Context, userID string) (*Staker, bool, error)
	ListAll(ctx context.Context) ([]*Staker, error)
}
