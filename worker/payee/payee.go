package payee

import (
	"context"
	"errors"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/sysversion"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

const (
	checkpointKey = "snapshots_checkpoint"
	limit         = 500
)

// Payee drains the custody wallet's snapshot stream and applies each
// incoming transfer: the amount is banked as free balance, then the
// memo action, if any, runs against the ledger. One goroutine owns
// the stream, so user operations are applied strictly in order.
type Payee struct {
	system        *core.System
	txer          core.Txer
	propertyStore property.Store
	assetStore    core.AssetStore
	snapshotStore core.SnapshotStore
	eventStore    core.EventStore
	transferStore core.TransferStore
	vault         core.AssetTransfer
	walletz       core.WalletService
	ledgerz       core.LedgerService
	rewardz       core.RewardService
}

// NewPayee new payee
func NewPayee(
	system *core.System,
	txer core.Txer,
	propertyStore property.Store,
	assetStore core.AssetStore,
	snapshotStore core.SnapshotStore,
	eventStore core.EventStore,
	transferStore core.TransferStore,
	vault core.AssetTransfer,
	walletz core.WalletService,
	ledgerz core.LedgerService,
	rewardz core.RewardService) *Payee {

	payee := Payee{
		system:        system,
		txer:          txer,
		propertyStore: propertyStore,
		assetStore:    assetStore,
		snapshotStore: snapshotStore,
		eventStore:    eventStore,
		transferStore: transferStore,
		vault:         vault,
		walletz:       walletz,
		ledgerz:       ledgerz,
		rewardz:       rewardz,
	}

	return &payee
}

// Run run worker
func (w *Payee) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "payee")
	ctx = logger.WithContext(ctx, log)

	if err := sysversion.Ensure(ctx, w.propertyStore, core.SysVersion); err != nil {
		return err
	}

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err == nil {
				dur = 100 * time.Millisecond
			} else {
				dur = 500 * time.Millisecond
			}
		}
	}
}

func (w *Payee) run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	v, err := w.propertyStore.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get", checkpointKey)
		return err
	}

	snapshots, _, err := w.walletz.PullSnapshots(ctx, v.String(), limit)
	if err != nil {
		log.WithError(err).Errorln("walletz.PullSnapshots")
		return err
	}

	if len(snapshots) == 0 {
		return errors.New("no more snapshots")
	}

	for _, snapshot := range snapshots {
		if err := w.handleSnapshot(ctx, snapshot); err != nil {
			return err
		}

		cursor := snapshot.CreatedAt.Format(time.RFC3339Nano)
		if err := w.propertyStore.Save(ctx, checkpointKey, cursor); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
			return err
		}
	}

	return nil
}

func (w *Payee) handleSnapshot(ctx context.Context, snapshot *core.Snapshot) error {
	log := logger.FromContext(ctx).WithField("snapshot", snapshot.SnapshotID)
	ctx = logger.WithContext(ctx, log)

	// outbound rows and unattributed deposits carry nothing to apply
	if snapshot.Amount.Sign() <= 0 || snapshot.OpponentID == "" {
		return nil
	}

	amount, err := number.ToNative(snapshot.Amount)
	if err != nil {
		log.WithError(err).Errorln("unrepresentable amount, skipped")
		return nil
	}

	// bank the funds exactly once; the stored snapshot is the marker
	_, processed, err := w.snapshotStore.Find(ctx, snapshot.SnapshotID)
	if err != nil {
		return err
	}
	if !processed {
		if err := w.txer.Tx(func(tx *db.DB) error {
			if err := w.vault.Credit(ctx, tx, snapshot.OpponentID, snapshot.AssetID, amount); err != nil {
				return err
			}
			return w.snapshotStore.Save(ctx, tx, snapshot)
		}); err != nil {
			return err
		}
	}

	typ, payload, err := core.DecodeAction(snapshot.Memo)
	if err != nil {
		// no action attached, the transfer stays a plain deposit
		return nil
	}

	return w.dispatch(ctx, snapshot, amount, typ, payload)
}

func (w *Payee) dispatch(ctx context.Context, snapshot *core.Snapshot, amount uint64, typ core.ActionType, payload []byte) error {
	switch typ {
	case core.ActionTypeDefault, core.ActionTypeDeposit, core.ActionTypeRefund:
		return nil

	case core.ActionTypeStake:
		var action core.StakeAction
		if err := w.decode(&action, payload); err != nil {
			return w.refund(ctx, snapshot, amount, core.ErrInvalidMemo)
		}
		return w.handleStake(ctx, snapshot, amount, &action)

	case core.ActionTypeUnstake:
		var action core.UnstakeAction
		if err := w.decode(&action, payload); err != nil {
			return w.refund(ctx, snapshot, amount, core.ErrInvalidMemo)
		}
		return w.handleUnstake(ctx, snapshot, amount, &action)

	case core.ActionTypeClaim:
		return w.handleClaim(ctx, snapshot, amount)

	case core.ActionTypeWithdraw:
		var action core.WithdrawAction
		if err := w.decode(&action, payload); err != nil {
			return w.refund(ctx, snapshot, amount, core.ErrInvalidMemo)
		}
		return w.handleWithdraw(ctx, snapshot, amount, &action)

	case core.ActionTypeAssetAdd:
		var action core.AssetAddAction
		if err := w.decode(&action, payload); err != nil {
			return w.refund(ctx, snapshot, amount, core.ErrInvalidMemo)
		}
		return w.handleAssetAdd(ctx, snapshot, amount, &action)

	case core.ActionTypeDistribute:
		return w.handleDistribute(ctx, snapshot, amount)

	default:
		return w.refund(ctx, snapshot, amount, core.ErrInvalidMemo)
	}
}

type binaryUnmarshaler interface {
	UnmarshalBinary(data []byte) error
}

func (w *Payee) decode(action binaryUnmarshaler, payload []byte) error {
	if err := action.UnmarshalBinary(payload); err != nil {
		return err
	}

	if _, err := govalidator.ValidateStruct(action); err != nil {
		return err
	}

	return nil
}
