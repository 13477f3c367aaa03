package payee

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/uuid"
)

// opTrace derives the operation trace from the snapshot, so a
// replayed snapshot maps to the same journaled event.
func opTrace(snapshot *core.Snapshot) string {
	return uuid.Modify(snapshot.SnapshotID, "farm")
}

func (w *Payee) handleStake(ctx context.Context, snapshot *core.Snapshot, amount uint64, action *core.StakeAction) error {
	traceID := opTrace(snapshot)

	if _, applied, err := w.eventStore.Find(ctx, traceID); err != nil {
		return err
	} else if applied {
		return nil
	}

	err := w.ledgerz.Stake(ctx, snapshot.OpponentID, action.AssetID, action.Amount, snapshot.CreatedAt, traceID)
	if code, ok := core.AsErrorCode(err); ok {
		return w.refund(ctx, snapshot, amount, code)
	}

	return err
}

func (w *Payee) handleUnstake(ctx context.Context, snapshot *core.Snapshot, amount uint64, action *core.UnstakeAction) error {
	traceID := opTrace(snapshot)

	if _, applied, err := w.eventStore.Find(ctx, traceID); err != nil {
		return err
	} else if applied {
		return nil
	}

	err := w.ledgerz.Unstake(ctx, snapshot.OpponentID, action.AssetID, action.Amount, snapshot.CreatedAt, traceID)
	if code, ok := core.AsErrorCode(err); ok {
		return w.refund(ctx, snapshot, amount, code)
	}

	return err
}

func (w *Payee) handleClaim(ctx context.Context, snapshot *core.Snapshot, amount uint64) error {
	traceID := opTrace(snapshot)

	if _, applied, err := w.eventStore.Find(ctx, traceID); err != nil {
		return err
	} else if applied {
		return nil
	}

	_, err := w.rewardz.Claim(ctx, snapshot.OpponentID, snapshot.CreatedAt, traceID)
	if code, ok := core.AsErrorCode(err); ok {
		return w.refund(ctx, snapshot, amount, code)
	}

	return err
}
