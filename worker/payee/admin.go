package payee

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

func (w *Payee) handleAssetAdd(ctx context.Context, snapshot *core.Snapshot, amount uint64, action *core.AssetAddAction) error {
	log := logger.FromContext(ctx)

	if !w.system.IsAdmin(snapshot.OpponentID) {
		return w.refund(ctx, snapshot, amount, core.ErrUnauthorized)
	}

	asset := &core.Asset{
		AssetID: action.AssetID,
		Symbol:  action.Symbol,
		FeedID:  action.FeedID,
		AddedBy: snapshot.OpponentID,
	}

	// keyed on asset_id, so re-listing an asset rewires its feed in
	// place and the allow list stays duplicate free
	if err := w.txer.Tx(func(tx *db.DB) error {
		return w.assetStore.Save(ctx, tx, asset)
	}); err != nil {
		return err
	}

	log.Infof("asset %s (%s) allow-listed", action.Symbol, action.AssetID)
	return nil
}

func (w *Payee) handleDistribute(ctx context.Context, snapshot *core.Snapshot, amount uint64) error {
	if !w.system.IsAdmin(snapshot.OpponentID) {
		return w.refund(ctx, snapshot, amount, core.ErrUnauthorized)
	}

	traceID := opTrace(snapshot)

	if _, applied, err := w.eventStore.Find(ctx, traceID); err != nil {
		return err
	} else if applied {
		return nil
	}

	_, err := w.rewardz.Distribute(ctx, snapshot.CreatedAt, traceID)
	if code, ok := core.AsErrorCode(err); ok {
		return w.refund(ctx, snapshot, amount, code)
	}

	return err
}
