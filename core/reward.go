package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Reward a user's banked reward balance: realized on re-stake and
// unstake events, drained only by claim
type Reward struct {
	UserID    string    `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	Banked    uint64    `sql:"default:0" json:"banked"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RewardStore reward store interface
type RewardStore interface {
	Save(ctx context.Context, tx *db.DB, reward *Reward) error
	Find(ctx context.Context, userID string) (*Reward, bool, error)
}

// RewardMinter issues reward units to a user. Issue runs inside the
// caller's transaction so an issuance failure unwinds the claim.
type RewardMinter interface {
	Issue(ctx context.Context, tx *db.DB, userID string, amount uint64, traceID string) error
}

// RewardService banks, aggregates and realizes accrued rewards.
type RewardService interface {
	// PendingTotal sums the banked balance and the unrealized reward
	// of every allowed asset, in allow-list order, with a fresh price
	// read per asset.
	PendingTotal(ctx context.Context, userID string, now time.Time) (uint64, error)
	// Claim drains the user's pending total and issues it. The accrual
	// clocks reset even when the claim fails with ErrNoRewardsAvailable.
	Claim(ctx context.Context, userID string, now time.Time, traceID string) (uint64, error)
	// Distribute claims on behalf of every member of the staker set,
	// skipping members with nothing accrued. Returns the number of
	// users credited. The per-member claim events are the journal of
	// record; the batch summary event only covers members credited in
	// the pass that wrote it, so a batch resumed after a mid-loop
	// failure summarizes the resuming pass alone.
	Distribute(ctx context.Context, now time.Time, traceID string) (int, error)
}
