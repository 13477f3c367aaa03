package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Txer runs fn inside one database transaction. *db.DB satisfies it;
// tests substitute fakes.
type Txer interface {
	Tx(fn func(tx *db.DB) error) error
}

// LedgerService owns the stake and unstake state transitions. Each
// call is one atomic unit: precondition checks first, local mutations
// second, the custody transfer last, and any failure unwinds the lot.
type LedgerService interface {
	Stake(ctx context.Context, userID, assetID string, amount uint64, now time.Time, traceID string) error
	Unstake(ctx context.Context, userID, assetID string, amount uint64, now time.Time, traceID string) error
}
