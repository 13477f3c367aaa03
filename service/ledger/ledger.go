package ledger

import (
	"context"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/internal/yield"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type ledgerService struct {
	txer      core.Txer
	system    *core.System
	assets    core.AssetStore
	positions core.PositionStore
	stakers   core.StakerStore
	rewards   core.RewardStore
	vault     core.AssetTransfer
	oracle    core.PriceOracle
	events    core.EventStore
}

// New new ledger service
func New(txer core.Txer,
	system *core.System,
	assets core.AssetStore,
	positions core.PositionStore,
	stakers core.StakerStore,
	rewards core.RewardStore,
	vault core.AssetTransfer,
	oracle core.PriceOracle,
	events core.EventStore) core.LedgerService {
	return &ledgerService{
		txer:      txer,
		system:    system,
		assets:    assets,
		positions: positions,
		stakers:   stakers,
		rewards:   rewards,
		vault:     vault,
		oracle:    oracle,
		events:    events,
	}
}

type eventPayload struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

func (s *ledgerService) Stake(ctx context.Context, userID, assetID string, amount uint64, now time.Time, traceID string) error {
	log := logger.FromContext(ctx).WithField("service", "ledger")

	if amount == 0 {
		return core.ErrInvalidAmount
	}

	asset, ok, err := s.assets.Find(ctx, assetID)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrAssetNotAllowed
	}

	balance, err := s.vault.BalanceOf(ctx, userID, assetID)
	if err != nil {
		return err
	}
	if balance < amount {
		return core.ErrInvalidAmount
	}

	position, found, err := s.positions.Find(ctx, userID, assetID)
	if err != nil {
		return err
	}
	if !found {
		position = &core.Position{UserID: userID, AssetID: assetID}
	}

	// the price is read before any mutation so a feed failure aborts
	// the stake untouched
	var pending uint64
	if position.Amount > 0 {
		price, decimals, err := s.oracle.GetPrice(ctx, assetID)
		if err != nil {
			return err
		}

		pending, err = yield.Compute(position.Amount, position.AccrualStart, now.Unix(), s.system.Rate, price, decimals)
		if err != nil {
			return err
		}
	}

	newAmount, err := yield.Add(position.Amount, amount)
	if err != nil {
		return err
	}

	fresh := position.Amount == 0

	if err := s.txer.Tx(func(tx *db.DB) error {
		if pending > 0 {
			if err := s.bank(ctx, tx, userID, pending); err != nil {
				return err
			}
		}

		position.Amount = newAmount
		position.AccrualStart = now.Unix()
		if err := s.positions.Save(ctx, tx, position); err != nil {
			return err
		}

		if fresh {
			if err := s.enroll(ctx, tx, userID); err != nil {
				return err
			}
		}

		// custody debit comes last so its failure unwinds everything
		if err := s.vault.Debit(ctx, tx, userID, assetID, amount); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: traceID,
			Type:    core.EventTypeStaked,
			UserID:  userID,
			AssetID: assetID,
			Amount:  amount,
		}
		event.SetPayload(eventPayload{Symbol: asset.Symbol, Amount: number.FromNative(amount).String()})
		return s.events.Create(ctx, tx, event)
	}); err != nil {
		return err
	}

	log.Infof("user %s staked %d of %s", userID, amount, asset.Symbol)
	return nil
}

func (s *ledgerService) Unstake(ctx context.Context, userID, assetID string, amount uint64, now time.Time, traceID string) error {
	log := logger.FromContext(ctx).WithField("service", "ledger")

	if amount == 0 {
		return core.ErrInvalidAmount
	}

	asset, ok, err := s.assets.Find(ctx, assetID)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrAssetNotAllowed
	}

	position, found, err := s.positions.Find(ctx, userID, assetID)
	if err != nil {
		return err
	}
	if !found || position.Amount == 0 {
		return core.ErrNoPosition
	}
	if amount > position.Amount {
		return core.ErrInsufficientBalance
	}

	price, decimals, err := s.oracle.GetPrice(ctx, assetID)
	if err != nil {
		return err
	}

	pending, err := yield.Compute(position.Amount, position.AccrualStart, now.Unix(), s.system.Rate, price, decimals)
	if err != nil {
		return err
	}

	newAmount, err := yield.Sub(position.Amount, amount)
	if err != nil {
		return err
	}

	if err := s.txer.Tx(func(tx *db.DB) error {
		if pending > 0 {
			if err := s.bank(ctx, tx, userID, pending); err != nil {
				return err
			}
		}

		position.Amount = newAmount
		position.AccrualStart = now.Unix()
		if err := s.positions.Save(ctx, tx, position); err != nil {
			return err
		}

		if newAmount == 0 {
			if err := s.withdrawMembership(ctx, tx, userID); err != nil {
				return err
			}
		}

		if err := s.vault.Credit(ctx, tx, userID, assetID, amount); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: traceID,
			Type:    core.EventTypeUnstaked,
			UserID:  userID,
			AssetID: assetID,
			Amount:  amount,
		}
		event.SetPayload(eventPayload{Symbol: asset.Symbol, Amount: number.FromNative(amount).String()})
		return s.events.Create(ctx, tx, event)
	}); err != nil {
		return err
	}

	log.Infof("user %s unstaked %d of %s", userID, amount, asset.Symbol)
	return nil
}

// bank folds a realized reward into the user's banked balance
func (s *ledgerService) bank(ctx context.Context, tx *db.DB, userID string, pending uint64) error {
	reward, ok, err := s.rewards.Find(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		reward = &core.Reward{UserID: userID}
	}

	banked, err := yield.Add(reward.Banked, pending)
	if err != nil {
		return err
	}

	reward.Banked = banked
	return s.rewards.Save(ctx, tx, reward)
}

// enroll bumps the user's distinct asset count, inserting them into
// the staker set on the 0 to 1 transition
func (s *ledgerService) enroll(ctx context.Context, tx *db.DB, userID string) error {
	staker, ok, err := s.stakers.Find(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		staker = &core.Staker{UserID: userID}
	}

	staker.AssetCount++
	return s.stakers.Save(ctx, tx, staker)
}

// withdrawMembership drops the user's distinct asset count, removing
// them from the staker set when it reaches 0
func (s *ledgerService) withdrawMembership(ctx context.Context, tx *db.DB, userID string) error {
	staker, ok, err := s.stakers.Find(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if staker.AssetCount <= 1 {
		return s.stakers.Delete(ctx, tx, userID)
	}

	staker.AssetCount--
	return s.stakers.Save(ctx, tx, staker)
}
