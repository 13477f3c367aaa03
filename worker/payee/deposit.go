package payee

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
)

func (w *Payee) handleWithdraw(ctx context.Context, snapshot *core.Snapshot, amount uint64, action *core.WithdrawAction) error {
	traceID := opTrace(snapshot)

	if _, applied, err := w.eventStore.Find(ctx, traceID); err != nil {
		return err
	} else if applied {
		return nil
	}

	if action.Amount == 0 {
		return w.refund(ctx, snapshot, amount, core.ErrInvalidAmount)
	}

	err := w.txer.Tx(func(tx *db.DB) error {
		if err := w.vault.Debit(ctx, tx, snapshot.OpponentID, action.AssetID, action.Amount); err != nil {
			return err
		}

		transfer := &core.Transfer{
			TraceID:    uuid.Modify(snapshot.SnapshotID, "payout"),
			OpponentID: snapshot.OpponentID,
			AssetID:    action.AssetID,
			Amount:     number.FromNative(action.Amount),
			Memo:       "farm withdrawal",
		}
		if err := w.transferStore.Create(ctx, tx, transfer); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: traceID,
			Type:    core.EventTypeWithdrawn,
			UserID:  snapshot.OpponentID,
			AssetID: action.AssetID,
			Amount:  action.Amount,
		}
		event.SetPayload(map[string]string{"amount": number.FromNative(action.Amount).String()})
		return w.eventStore.Create(ctx, tx, event)
	})
	if code, ok := core.AsErrorCode(err); ok {
		return w.refund(ctx, snapshot, amount, code)
	}

	return err
}

// refund bounces a rejected payment back to its sender, tagged with
// the rejection code. The funds were banked when the snapshot was
// applied, so the bounce debits them again. A journaled refund event
// is the applied marker: a replayed snapshot finds it and leaves the
// vault alone, no matter what other free balance the user holds.
func (w *Payee) refund(ctx context.Context, snapshot *core.Snapshot, amount uint64, code core.ErrorCode) error {
	log := logger.FromContext(ctx).WithField("code", code)

	traceID := uuid.Modify(snapshot.SnapshotID, "refund")
	if _, bounced, err := w.eventStore.Find(ctx, traceID); err != nil {
		return err
	} else if bounced {
		return nil
	}

	action := core.RefundAction{OriginTraceID: snapshot.TraceID, Code: int64(code)}
	memo, err := core.EncodeAction(core.ActionTypeRefund, &action)
	if err != nil {
		return err
	}

	if err := w.txer.Tx(func(tx *db.DB) error {
		if err := w.vault.Debit(ctx, tx, snapshot.OpponentID, snapshot.AssetID, amount); err != nil {
			return err
		}

		transfer := &core.Transfer{
			TraceID:    traceID,
			OpponentID: snapshot.OpponentID,
			AssetID:    snapshot.AssetID,
			Amount:     snapshot.Amount,
			Memo:       memo,
		}
		if err := w.transferStore.Create(ctx, tx, transfer); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: traceID,
			Type:    core.EventTypeRefunded,
			UserID:  snapshot.OpponentID,
			AssetID: snapshot.AssetID,
			Amount:  amount,
		}
		event.SetPayload(map[string]interface{}{
			"amount": number.FromNative(amount).String(),
			"code":   int64(code),
		})
		return w.eventStore.Create(ctx, tx, event)
	}); err != nil {
		return err
	}

	log.Infoln("payment refunded")
	return nil
}
