package payee

import (
	"context"
	"testing"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/core/coretest"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"
	"github.com/jrmunchkin/defi-cube-yield-farm/service/ledger"
	"github.com/jrmunchkin/defi-cube-yield-farm/service/minter"
	"github.com/jrmunchkin/defi-cube-yield-farm/service/reward"

	"github.com/fox-one/pkg/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// action payloads round-trip through the uuid codec, so everything
// here carries real uuids
const (
	adminID = "0a0b0c0d-0e0f-4a1b-8c2d-3e4f5a6b7c8d"
	aliceID = "1a2b3c4d-5e6f-4a0b-9c8d-7e6f5a4b3c2d"

	btcAsset  = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	ethAsset  = "43d61dcd-e413-450d-80b8-101d5e903357"
	cubeAsset = "f5ef6b5d-cc5a-3d90-b2c0-a2fd386e7a3c"

	dayRate = 86400
)

func newTestPayee(state *coretest.State) *Payee {
	system := &core.System{
		ClientID:      "farm-client",
		Admins:        []string{adminID},
		Minters:       []string{"farm-client"},
		RewardAssetID: cubeAsset,
		Rate:          dayRate,
	}

	txer := &coretest.Txer{State: state}
	assets := &coretest.AssetStore{State: state}
	positions := &coretest.PositionStore{State: state}
	stakers := &coretest.StakerStore{State: state}
	rewards := &coretest.RewardStore{State: state}
	vault := &coretest.Vault{State: state}
	oracle := &coretest.Oracle{State: state}
	events := &coretest.EventStore{State: state}
	snapshots := &coretest.SnapshotStore{State: state}
	transfers := &coretest.TransferStore{State: state}

	ledgerz := ledger.New(txer, system, assets, positions, stakers, rewards, vault, oracle, events)
	rewardz := reward.New(txer, system, assets, positions, stakers, rewards, oracle, minter.New(system, transfers), events)

	return NewPayee(system, txer, nil, assets, snapshots, events, transfers, vault, nil, ledgerz, rewardz)
}

func newSnapshot(id, trace, opponent, asset string, amount uint64, memo string, at time.Time) *core.Snapshot {
	return &core.Snapshot{
		SnapshotID: id,
		TraceID:    trace,
		OpponentID: opponent,
		AssetID:    asset,
		Amount:     number.FromNative(amount),
		Memo:       memo,
		CreatedAt:  at,
	}
}

func encode(t *testing.T, typ core.ActionType, payload interface{ MarshalBinary() ([]byte, error) }) string {
	memo, err := core.EncodeAction(typ, payload)
	require.NoError(t, err)
	return memo
}

func TestHandleSnapshotPlainDeposit(t *testing.T) {
	state := coretest.NewState()
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	snapshot := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, btcAsset, 1000, "", t0)

	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))
	assert.Equal(t, uint64(1000), state.Balances[coretest.Key(aliceID, btcAsset)])

	_, processed := state.Snapshots[snapshot.SnapshotID]
	assert.True(t, processed)

	// a replayed snapshot must not credit twice
	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))
	assert.Equal(t, uint64(1000), state.Balances[coretest.Key(aliceID, btcAsset)])
}

func TestHandleSnapshotSkipsOutbound(t *testing.T) {
	state := coretest.NewState()
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	snapshot := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, btcAsset, 1000, "", t0)
	snapshot.Amount = snapshot.Amount.Neg()

	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))
	assert.Empty(t, state.Balances)
	assert.Empty(t, state.Snapshots)
}

func TestHandleSnapshotStake(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	memo := encode(t, core.ActionTypeStake, &core.StakeAction{AssetID: btcAsset, Amount: 1000})
	snapshot := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, btcAsset, 1000, memo, t0)

	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))

	// the payment funded the vault, the memo staked it
	assert.Equal(t, uint64(0), state.Balances[coretest.Key(aliceID, btcAsset)])

	position := state.Positions[coretest.Key(aliceID, btcAsset)]
	require.NotNil(t, position)
	assert.Equal(t, uint64(1000), position.Amount)
	assert.Equal(t, t0.Unix(), position.AccrualStart)

	event := state.Events[opTrace(snapshot)]
	require.NotNil(t, event)
	assert.Equal(t, core.EventTypeStaked, event.Type)

	// replay is a no-op end to end
	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))
	assert.Equal(t, uint64(0), state.Balances[coretest.Key(aliceID, btcAsset)])
	assert.Equal(t, uint64(1000), state.Positions[coretest.Key(aliceID, btcAsset)].Amount)
	assert.Len(t, state.Events, 1)
}

func TestHandleSnapshotRejectedStakeRefunds(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	// a prior deposit the bounce must not touch
	state.Fund(aliceID, btcAsset, 700)
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	memo := encode(t, core.ActionTypeStake, &core.StakeAction{AssetID: ethAsset, Amount: 1000})
	snapshot := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, btcAsset, 1000, memo, t0)

	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))

	// the banked funds bounced straight back out
	assert.Equal(t, uint64(700), state.Balances[coretest.Key(aliceID, btcAsset)])
	_, staked := state.Positions[coretest.Key(aliceID, ethAsset)]
	assert.False(t, staked)

	bounce := state.Transfers[uuid.Modify(snapshot.SnapshotID, "refund")]
	require.NotNil(t, bounce)
	assert.Equal(t, aliceID, bounce.OpponentID)
	assert.Equal(t, btcAsset, bounce.AssetID)
	assert.True(t, snapshot.Amount.Equal(bounce.Amount))

	typ, payload, err := core.DecodeAction(bounce.Memo)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypeRefund, typ)

	var action core.RefundAction
	require.NoError(t, action.UnmarshalBinary(payload))
	assert.Equal(t, snapshot.TraceID, action.OriginTraceID)
	assert.Equal(t, int64(core.ErrAssetNotAllowed), action.Code)

	// the bounce journaled its applied marker
	marker := state.Events[uuid.Modify(snapshot.SnapshotID, "refund")]
	require.NotNil(t, marker)
	assert.Equal(t, core.EventTypeRefunded, marker.Type)

	// a replayed snapshot finds the marker: the prior deposit stays
	// whole and no second bounce is queued
	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))
	assert.Len(t, state.Transfers, 1)
	assert.Equal(t, uint64(700), state.Balances[coretest.Key(aliceID, btcAsset)])
}

func TestHandleSnapshotWithdraw(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	deposit := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, btcAsset, 1000, "", t0)
	require.NoError(t, w.handleSnapshot(ctx, deposit))

	memo := encode(t, core.ActionTypeWithdraw, &core.WithdrawAction{AssetID: btcAsset, Amount: 400})
	carrier := newSnapshot("7f80a1b2-c3d4-4e5f-8607-18293a4b5c6d", "8091b2c3-d4e5-4f60-9718-293a4b5c6d7e",
		aliceID, cubeAsset, 1, memo, t0.Add(time.Minute))
	require.NoError(t, w.handleSnapshot(ctx, carrier))

	assert.Equal(t, uint64(600), state.Balances[coretest.Key(aliceID, btcAsset)])
	assert.Equal(t, uint64(1), state.Balances[coretest.Key(aliceID, cubeAsset)])

	payout := state.Transfers[uuid.Modify(carrier.SnapshotID, "payout")]
	require.NotNil(t, payout)
	assert.Equal(t, aliceID, payout.OpponentID)
	assert.Equal(t, btcAsset, payout.AssetID)
	assert.Equal(t, "0.000004", payout.Amount.String())
	assert.Equal(t, "farm withdrawal", payout.Memo)

	event := state.Events[opTrace(carrier)]
	require.NotNil(t, event)
	assert.Equal(t, core.EventTypeWithdrawn, event.Type)
	assert.Equal(t, uint64(400), event.Amount)
}

func TestHandleSnapshotWithdrawShortBalanceRefundsCarrier(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	memo := encode(t, core.ActionTypeWithdraw, &core.WithdrawAction{AssetID: btcAsset, Amount: 400})
	carrier := newSnapshot("7f80a1b2-c3d4-4e5f-8607-18293a4b5c6d", "8091b2c3-d4e5-4f60-9718-293a4b5c6d7e",
		aliceID, cubeAsset, 1, memo, t0)
	require.NoError(t, w.handleSnapshot(ctx, carrier))

	// nothing to withdraw, so the carrier payment itself bounced
	assert.Equal(t, uint64(0), state.Balances[coretest.Key(aliceID, cubeAsset)])

	bounce := state.Transfers[uuid.Modify(carrier.SnapshotID, "refund")]
	require.NotNil(t, bounce)
	assert.Equal(t, cubeAsset, bounce.AssetID)

	typ, payload, err := core.DecodeAction(bounce.Memo)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypeRefund, typ)

	var action core.RefundAction
	require.NoError(t, action.UnmarshalBinary(payload))
	assert.Equal(t, int64(core.ErrTransferFailed), action.Code)

	_, withdrawn := state.Events[opTrace(carrier)]
	assert.False(t, withdrawn)
}

func TestHandleSnapshotUnknownActionRefunds(t *testing.T) {
	state := coretest.NewState()
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	memo := encode(t, core.ActionType(99), nil)
	snapshot := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, btcAsset, 1000, memo, t0)

	require.NoError(t, w.handleSnapshot(context.Background(), snapshot))

	assert.Equal(t, uint64(0), state.Balances[coretest.Key(aliceID, btcAsset)])

	bounce := state.Transfers[uuid.Modify(snapshot.SnapshotID, "refund")]
	require.NotNil(t, bounce)

	typ, payload, err := core.DecodeAction(bounce.Memo)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypeRefund, typ)

	var action core.RefundAction
	require.NoError(t, action.UnmarshalBinary(payload))
	assert.Equal(t, int64(core.ErrInvalidMemo), action.Code)
}

func TestHandleSnapshotAssetAddRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	w := newTestPayee(state)

	t0 := time.Unix(100000, 0)
	memo := encode(t, core.ActionTypeAssetAdd, &core.AssetAddAction{AssetID: btcAsset, Symbol: "BTC", FeedID: "btcusd"})

	intruder := newSnapshot("5d0e1f2a-3b4c-4d6e-9f80-91a2b3c4d5e6", "6e1f2a3b-4c5d-4e7f-8091-a2b3c4d5e6f7",
		aliceID, cubeAsset, 1, memo, t0)
	require.NoError(t, w.handleSnapshot(ctx, intruder))

	_, allowed := state.Assets[btcAsset]
	assert.False(t, allowed)

	bounce := state.Transfers[uuid.Modify(intruder.SnapshotID, "refund")]
	require.NotNil(t, bounce)

	admin := newSnapshot("7f80a1b2-c3d4-4e5f-8607-18293a4b5c6d", "8091b2c3-d4e5-4f60-9718-293a4b5c6d7e",
		adminID, cubeAsset, 1, memo, t0.Add(time.Minute))
	require.NoError(t, w.handleSnapshot(ctx, admin))

	asset := state.Assets[btcAsset]
	require.NotNil(t, asset)
	assert.Equal(t, "BTC", asset.Symbol)
	assert.Equal(t, "btcusd", asset.FeedID)
	assert.Equal(t, adminID, asset.AddedBy)
}
