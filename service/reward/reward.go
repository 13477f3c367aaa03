package reward

import (
	"context"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/internal/yield"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
)

type rewardService struct {
	txer      core.Txer
	system    *core.System
	assets    core.AssetStore
	positions core.PositionStore
	stakers   core.StakerStore
	rewards   core.RewardStore
	oracle    core.PriceOracle
	minter    core.RewardMinter
	events    core.EventStore
}

// New new reward service
func New(txer core.Txer,
	system *core.System,
	assets core.AssetStore,
	positions core.PositionStore,
	stakers core.StakerStore,
	rewards core.RewardStore,
	oracle core.PriceOracle,
	minter core.RewardMinter,
	events core.EventStore) core.RewardService {
	return &rewardService{
		txer:      txer,
		system:    system,
		assets:    assets,
		positions: positions,
		stakers:   stakers,
		rewards:   rewards,
		oracle:    oracle,
		minter:    minter,
		events:    events,
	}
}

func (s *rewardService) PendingTotal(ctx context.Context, userID string, now time.Time) (uint64, error) {
	var total uint64

	reward, ok, err := s.rewards.Find(ctx, userID)
	if err != nil {
		return 0, err
	}
	if ok {
		total = reward.Banked
	}

	assets, err := s.assets.ListAllowed(ctx)
	if err != nil {
		return 0, err
	}

	for _, asset := range assets {
		position, ok, err := s.positions.Find(ctx, userID, asset.AssetID)
		if err != nil {
			return 0, err
		}
		if !ok || position.Amount == 0 {
			continue
		}

		price, decimals, err := s.oracle.GetPrice(ctx, asset.AssetID)
		if err != nil {
			return 0, err
		}

		pending, err := yield.Compute(position.Amount, position.AccrualStart, now.Unix(), s.system.Rate, price, decimals)
		if err != nil {
			return 0, err
		}

		total, err = yield.Add(total, pending)
		if err != nil {
			return 0, err
		}
	}

	return total, nil
}

func (s *rewardService) Claim(ctx context.Context, userID string, now time.Time, traceID string) (uint64, error) {
	log := logger.FromContext(ctx).WithField("service", "reward")

	total, err := s.PendingTotal(ctx, userID, now)
	if err != nil {
		return 0, err
	}

	assets, err := s.assets.ListAllowed(ctx)
	if err != nil {
		return 0, err
	}

	assetIDs := make([]string, 0, len(assets))
	for _, asset := range assets {
		assetIDs = append(assetIDs, asset.AssetID)
	}

	// the accrual clocks rewind whether or not anything is owed, so
	// an empty claim still commits the resets before reporting
	if total == 0 {
		if err := s.txer.Tx(func(tx *db.DB) error {
			return s.positions.ResetAccrual(ctx, tx, userID, assetIDs, now.Unix())
		}); err != nil {
			return 0, err
		}
		return 0, core.ErrNoRewardsAvailable
	}

	if err := s.txer.Tx(func(tx *db.DB) error {
		if err := s.positions.ResetAccrual(ctx, tx, userID, assetIDs, now.Unix()); err != nil {
			return err
		}

		reward, ok, err := s.rewards.Find(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			reward = &core.Reward{UserID: userID}
		}
		reward.Banked = 0
		if err := s.rewards.Save(ctx, tx, reward); err != nil {
			return err
		}

		// issuance comes last so a minting failure unwinds the drain
		if err := s.minter.Issue(ctx, tx, userID, total, traceID); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: traceID,
			Type:    core.EventTypeRewardClaimed,
			UserID:  userID,
			AssetID: s.system.RewardAssetID,
			Amount:  total,
		}
		event.SetPayload(map[string]string{"amount": number.FromNative(total).String()})
		return s.events.Create(ctx, tx, event)
	}); err != nil {
		return 0, err
	}

	log.Infof("user %s claimed %d", userID, total)
	return total, nil
}

func (s *rewardService) Distribute(ctx context.Context, now time.Time, traceID string) (int, error) {
	log := logger.FromContext(ctx).WithField("service", "reward")

	stakers, err := s.stakers.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	var (
		credited   int
		issued     uint64
		recipients []string
	)

	for _, member := range stakers {
		// members whose truncated total is still 0 keep their accrual
		// clocks running, a claim would reset them for nothing
		total, err := s.PendingTotal(ctx, member.UserID, now)
		if err != nil {
			return credited, err
		}
		if total == 0 {
			continue
		}

		amount, err := s.Claim(ctx, member.UserID, now, uuid.Modify(traceID, "reward:"+member.UserID))
		if err != nil {
			return credited, err
		}

		credited++
		if issued, err = yield.Add(issued, amount); err != nil {
			return credited, err
		}
		recipients = append(recipients, member.UserID)
	}

	if credited == 0 {
		return 0, nil
	}

	if err := s.txer.Tx(func(tx *db.DB) error {
		event := &core.Event{
			TraceID:    traceID,
			Type:       core.EventTypeRewardDistributed,
			AssetID:    s.system.RewardAssetID,
			Amount:     issued,
			Recipients: recipients,
		}
		event.SetPayload(map[string]interface{}{
			"amount": number.FromNative(issued).String(),
			"users":  credited,
		})
		return s.events.Create(ctx, tx, event)
	}); err != nil {
		return credited, err
	}

	log.Infof("distributed %d to %d stakers", issued, credited)
	return credited, nil
}
