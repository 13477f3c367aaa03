package reward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/core/coretest"

	"github.com/fox-one/pkg/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"

	btcAsset  = "btc-asset"
	ethAsset  = "eth-asset"
	cubeAsset = "cube-asset"

	dayRate = 86400

	priceOne = 100000000
	priceTwo = 200000000
)

func newTestReward(state *coretest.State) (core.RewardService, *coretest.Minter) {
	system := &core.System{
		ClientID:      "farm-client",
		RewardAssetID: cubeAsset,
		Rate:          dayRate,
	}

	minter := &coretest.Minter{}
	svc := New(
		&coretest.Txer{State: state},
		system,
		&coretest.AssetStore{State: state},
		&coretest.PositionStore{State: state},
		&coretest.StakerStore{State: state},
		&coretest.RewardStore{State: state},
		&coretest.Oracle{State: state},
		minter,
		&coretest.EventStore{State: state},
	)

	return svc, minter
}

func TestPendingTotalAggregates(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Allow(ethAsset, "ETH")
	state.SetQuote(btcAsset, priceOne, 8)
	state.SetQuote(ethAsset, priceTwo, 8)

	t0 := int64(100000)
	state.SeedReward(alice, 100)
	state.SeedPosition(alice, btcAsset, 1000, t0)
	state.SeedPosition(alice, ethAsset, 500, t0+dayRate/2)

	svc, _ := newTestReward(state)

	// btc ran a full period at 1.0, eth half a period at 2.0
	now := time.Unix(t0+dayRate, 0)
	total, err := svc.PendingTotal(context.Background(), alice, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(100+1000+500), total)
}

func TestPendingTotalSkipsEmptyPositions(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Allow(ethAsset, "ETH")

	// no quotes seeded: empty and absent positions must not read the
	// oracle at all
	t0 := int64(100000)
	state.SeedReward(alice, 75)
	state.SeedPosition(alice, btcAsset, 0, t0)

	svc, _ := newTestReward(state)

	total, err := svc.PendingTotal(context.Background(), alice, time.Unix(t0+dayRate, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(75), total)
}

func TestClaimIssuesAndResets(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.Allow(ethAsset, "ETH")
	state.SetQuote(btcAsset, priceOne, 8)

	t0 := int64(100000)
	state.SeedReward(alice, 40)
	state.SeedPosition(alice, btcAsset, 1000, t0)
	// emptied position, clock left far in the past
	state.SeedPosition(alice, ethAsset, 0, t0-dayRate)

	svc, minter := newTestReward(state)

	now := time.Unix(t0+dayRate, 0)
	total, err := svc.Claim(context.Background(), alice, now, "claim-trace")
	require.NoError(t, err)
	assert.Equal(t, uint64(1040), total)

	require.Len(t, minter.Issues, 1)
	assert.Equal(t, coretest.IssuedReward{UserID: alice, Amount: 1040, TraceID: "claim-trace"}, minter.Issues[0])

	assert.Equal(t, uint64(0), state.Rewards[alice].Banked)

	// every allowed asset's clock rewinds, held or empty
	assert.Equal(t, now.Unix(), state.Positions[coretest.Key(alice, btcAsset)].AccrualStart)
	assert.Equal(t, now.Unix(), state.Positions[coretest.Key(alice, ethAsset)].AccrualStart)

	event := state.Events["claim-trace"]
	require.NotNil(t, event)
	assert.Equal(t, core.EventTypeRewardClaimed, event.Type)
	assert.Equal(t, cubeAsset, event.AssetID)
	assert.Equal(t, uint64(1040), event.Amount)

	// the claim drained everything: nothing pends at the same instant
	left, err := svc.PendingTotal(context.Background(), alice, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), left)
}

func TestClaimNothingAccrued(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)

	// 86 seconds of accrual on 1000 units truncates to zero reward
	t0 := int64(100000)
	state.SeedPosition(alice, btcAsset, 1000, t0)

	svc, minter := newTestReward(state)

	now := time.Unix(t0+86, 0)
	total, err := svc.Claim(context.Background(), alice, now, "claim-trace")
	assert.Equal(t, core.ErrNoRewardsAvailable, err)
	assert.Equal(t, uint64(0), total)

	// the rewind still committed: the truncated remainder is forfeited
	assert.Equal(t, now.Unix(), state.Positions[coretest.Key(alice, btcAsset)].AccrualStart)

	assert.Empty(t, minter.Issues)
	assert.Empty(t, state.Events)
}

func TestClaimMintFailureRollsBack(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)

	t0 := int64(100000)
	state.SeedReward(alice, 40)
	state.SeedPosition(alice, btcAsset, 1000, t0)

	svc, minter := newTestReward(state)
	minter.Err = errors.New("mint offline")

	now := time.Unix(t0+dayRate, 0)
	_, err := svc.Claim(context.Background(), alice, now, "claim-trace")
	require.Error(t, err)

	// the drain and the rewind unwound together
	assert.Equal(t, uint64(40), state.Rewards[alice].Banked)
	assert.Equal(t, t0, state.Positions[coretest.Key(alice, btcAsset)].AccrualStart)
	assert.Empty(t, state.Events)
}

func TestDistribute(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)

	t0 := int64(100000)
	state.SeedPosition(alice, btcAsset, 1000, t0)
	// bob's half period on a single unit truncates to zero
	state.SeedPosition(bob, btcAsset, 1, t0)

	svc, minter := newTestReward(state)

	now := time.Unix(t0+dayRate/2, 0)
	credited, err := svc.Distribute(context.Background(), now, "batch-trace")
	require.NoError(t, err)
	assert.Equal(t, 1, credited)

	require.Len(t, minter.Issues, 1)
	assert.Equal(t, coretest.IssuedReward{
		UserID:  alice,
		Amount:  500,
		TraceID: uuid.Modify("batch-trace", "reward:"+alice),
	}, minter.Issues[0])

	// idle members keep their clocks running instead of forfeiting the
	// truncated remainder to a pointless reset
	assert.Equal(t, t0, state.Positions[coretest.Key(bob, btcAsset)].AccrualStart)
	assert.Equal(t, now.Unix(), state.Positions[coretest.Key(alice, btcAsset)].AccrualStart)

	batch := state.Events["batch-trace"]
	require.NotNil(t, batch)
	assert.Equal(t, core.EventTypeRewardDistributed, batch.Type)
	assert.Equal(t, uint64(500), batch.Amount)
	assert.Equal(t, []string{alice}, []string(batch.Recipients))

	// one claim event plus the batch event
	assert.Len(t, state.Events, 2)
}

func TestDistributeAllIdle(t *testing.T) {
	state := coretest.NewState()
	state.Allow(btcAsset, "BTC")
	state.SetQuote(btcAsset, priceOne, 8)

	t0 := int64(100000)
	state.SeedPosition(bob, btcAsset, 1, t0)

	svc, minter := newTestReward(state)

	credited, err := svc.Distribute(context.Background(), time.Unix(t0+dayRate/2, 0), "batch-trace")
	require.NoError(t, err)
	assert.Equal(t, 0, credited)

	assert.Empty(t, minter.Issues)
	assert.Empty(t, state.Events)
}
