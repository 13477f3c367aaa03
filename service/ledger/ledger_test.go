package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/core/coretest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"

	btcAsset  = "btc-asset"
	ethAsset  = "eth-asset"
	cubeAsset = "cube-asset"

	// seconds for a position to accrue 100% of its staked value
	dayRate = 86400

	// 1.0 at 8 feed decimals
	priceOne = 100000000
)

func newTestLedger(state *coretest.State) (core.LedgerService, *coretest.Vault) {
	system := &core.System{
		ClientID:      "farm-client",
		RewardAssetID: cubeAsset,
		Rate:          dayRate,
	}

	vault := &coretest.Vault{State: state}
	svc := New(
		&coretest.Txer{State: state},
		system,
		&coretest.AssetStore{State: state},
		&coretest.PositionStore{State: state},
		&coretest.StakerStore{State: state},
		&coretest.RewardStore{State: state},
		vault,
		&coretest.Oracle{State: state},
		&coretest.EventStore{State: state},
	)

	return svc, vault
}

func TestStakeRejectsZeroAmount(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	svc, _ := newTestLedger(state)

	err := svc.Stake(context.Background(), alice, btcAsset, 0, time.Unix(1000, 0), "trace-1")
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestStakeRejectsUnknownAsset(t *testing.T) {
	state := coretest.NewState()
	svc, _ := newTestLedger(state)

	err := svc.Stake(context.Background(), alice, btcAsset, 100, time.Unix(1000, 0), "trace-1")
	assert.Equal(t, core.ErrAssetNotAllowed, err)
}

func TestStakeRejectsShortBalance(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Fund(alice, btcAsset, 50)
	svc, _ := newTestLedger(state)

	err := svc.Stake(context.Background(), alice, btcAsset, 100, time.Unix(1000, 0), "trace-1")
	assert.Equal(t, core.ErrInvalidAmount, err)

	_, found := state.Positions[coretest.Key(alice, btcAsset)]
	assert.False(t, found)
	_, enrolled := state.Stakers[alice]
	assert.False(t, enrolled)
}

func TestStakeOpensPosition(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Fund(alice, btcAsset, 1000)
	svc, _ := newTestLedger(state)

	// no price quote seeded on purpose: a fresh position has nothing
	// accruing, so the stake must not read the oracle at all
	now := time.Unix(10000, 0)
	require.NoError(t, svc.Stake(context.Background(), alice, btcAsset, 400, now, "trace-1"))

	position := state.Positions[coretest.Key(alice, btcAsset)]
	require.NotNil(t, position)
	assert.Equal(t, uint64(400), position.Amount)
	assert.Equal(t, now.Unix(), position.AccrualStart)

	assert.Equal(t, uint64(600), state.Balances[coretest.Key(alice, btcAsset)])

	staker := state.Stakers[alice]
	require.NotNil(t, staker)
	assert.Equal(t, uint64(1), staker.AssetCount)

	event := state.Events["trace-1"]
	require.NotNil(t, event)
	assert.Equal(t, core.EventTypeStaked, event.Type)
	assert.Equal(t, uint64(400), event.Amount)

	_, banked := state.Rewards[alice]
	assert.False(t, banked)
}

func TestStakeTopUpBanksPending(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 2000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(context.Background(), alice, btcAsset, 1000, t0, "trace-1"))

	// half a rate period at price 1.0 realizes half the staked value
	t1 := t0.Add(dayRate / 2 * time.Second)
	require.NoError(t, svc.Stake(context.Background(), alice, btcAsset, 500, t1, "trace-2"))

	reward := state.Rewards[alice]
	require.NotNil(t, reward)
	assert.Equal(t, uint64(500), reward.Banked)

	position := state.Positions[coretest.Key(alice, btcAsset)]
	assert.Equal(t, uint64(1500), position.Amount)
	assert.Equal(t, t1.Unix(), position.AccrualStart)

	// topping up the same asset must not enroll twice
	assert.Equal(t, uint64(1), state.Stakers[alice].AssetCount)
}

func TestStakeTopUpSameInstant(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 2000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(context.Background(), alice, btcAsset, 1000, t0, "trace-1"))
	require.NoError(t, svc.Stake(context.Background(), alice, btcAsset, 500, t0, "trace-2"))

	// no time passed: amounts sum, nothing banks, the clock stands still
	position := state.Positions[coretest.Key(alice, btcAsset)]
	assert.Equal(t, uint64(1500), position.Amount)
	assert.Equal(t, t0.Unix(), position.AccrualStart)

	_, banked := state.Rewards[alice]
	assert.False(t, banked)
}

func TestStakeTopUpWithoutPriceAborts(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Fund(alice, btcAsset, 2000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(context.Background(), alice, btcAsset, 1000, t0, "trace-1"))

	t1 := t0.Add(3600 * time.Second)
	err := svc.Stake(context.Background(), alice, btcAsset, 500, t1, "trace-2")
	assert.Equal(t, core.ErrPriceNotAvailable, err)

	// nothing moved
	position := state.Positions[coretest.Key(alice, btcAsset)]
	assert.Equal(t, uint64(1000), position.Amount)
	assert.Equal(t, t0.Unix(), position.AccrualStart)
	assert.Equal(t, uint64(1000), state.Balances[coretest.Key(alice, btcAsset)])
}

func TestStakeDebitFailureRollsBack(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Fund(alice, btcAsset, 1000)
	svc, vault := newTestLedger(state)

	// balance check passes, then the debit loses a concurrent race
	vault.DebitErr = core.ErrTransferFailed

	err := svc.Stake(context.Background(), alice, btcAsset, 400, time.Unix(10000, 0), "trace-1")
	assert.Equal(t, core.ErrTransferFailed, err)

	_, found := state.Positions[coretest.Key(alice, btcAsset)]
	assert.False(t, found)
	_, enrolled := state.Stakers[alice]
	assert.False(t, enrolled)
	assert.Empty(t, state.Events)
}

func TestUnstakeChecks(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 1000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(ctx, alice, btcAsset, 400, t0, "trace-1"))

	assert.Equal(t, core.ErrInvalidAmount, svc.Unstake(ctx, alice, btcAsset, 0, t0, "trace-2"))
	assert.Equal(t, core.ErrAssetNotAllowed, svc.Unstake(ctx, alice, ethAsset, 100, t0, "trace-3"))
	assert.Equal(t, core.ErrNoPosition, svc.Unstake(ctx, "nobody", btcAsset, 100, t0, "trace-4"))
	assert.Equal(t, core.ErrInsufficientBalance, svc.Unstake(ctx, alice, btcAsset, 500, t0, "trace-5"))
}

func TestUnstakePartial(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 1000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(ctx, alice, btcAsset, 1000, t0, "trace-1"))

	// one full rate period accrues the full staked value
	t1 := t0.Add(dayRate * time.Second)
	require.NoError(t, svc.Unstake(ctx, alice, btcAsset, 400, t1, "trace-2"))

	assert.Equal(t, uint64(1000), state.Rewards[alice].Banked)

	position := state.Positions[coretest.Key(alice, btcAsset)]
	assert.Equal(t, uint64(600), position.Amount)
	assert.Equal(t, t1.Unix(), position.AccrualStart)

	assert.Equal(t, uint64(400), state.Balances[coretest.Key(alice, btcAsset)])
	assert.Equal(t, uint64(1), state.Stakers[alice].AssetCount)

	event := state.Events["trace-2"]
	require.NotNil(t, event)
	assert.Equal(t, core.EventTypeUnstaked, event.Type)
}

func TestUnstakeFullDropsMembership(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Allow(ethAsset, "ETH")
	state.SetQuote(btcAsset, priceOne, 8)
	state.SetQuote(ethAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 1000)
	state.Fund(alice, ethAsset, 1000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(ctx, alice, btcAsset, 400, t0, "trace-1"))
	require.NoError(t, svc.Stake(ctx, alice, ethAsset, 300, t0, "trace-2"))
	assert.Equal(t, uint64(2), state.Stakers[alice].AssetCount)

	require.NoError(t, svc.Unstake(ctx, alice, btcAsset, 400, t0, "trace-3"))
	assert.Equal(t, uint64(1), state.Stakers[alice].AssetCount)

	require.NoError(t, svc.Unstake(ctx, alice, ethAsset, 300, t0, "trace-4"))
	_, enrolled := state.Stakers[alice]
	assert.False(t, enrolled)

	// emptied rows persist, only membership goes away
	position := state.Positions[coretest.Key(alice, btcAsset)]
	require.NotNil(t, position)
	assert.Equal(t, uint64(0), position.Amount)
}

func TestUnstakeHalfPeriodBanksHalf(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 500)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(0, 0)
	require.NoError(t, svc.Stake(ctx, alice, btcAsset, 500, t0, "trace-1"))

	t1 := t0.Add(dayRate / 2 * time.Second)
	require.NoError(t, svc.Unstake(ctx, alice, btcAsset, 500, t1, "trace-2"))

	assert.Equal(t, uint64(250), state.Rewards[alice].Banked)
	assert.Equal(t, uint64(500), state.Balances[coretest.Key(alice, btcAsset)])
}

func TestUnstakeNothingAccruedSkipsBanking(t *testing.T) {
	ctx := context.Background()
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)
	state.Fund(alice, btcAsset, 1000)
	svc, _ := newTestLedger(state)

	t0 := time.Unix(100000, 0)
	require.NoError(t, svc.Stake(ctx, alice, btcAsset, 400, t0, "trace-1"))
	require.NoError(t, svc.Unstake(ctx, alice, btcAsset, 400, t0, "trace-2"))

	_, banked := state.Rewards[alice]
	assert.False(t, banked)
}
