// Package coretest provides in-memory implementations of the core
// storage interfaces. Every store is backed by one shared State, and
// Txer snapshots the state around each transaction, so a failing
// transaction rolls back exactly like the database would.
package coretest

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
)

// Key builds the user and asset composite key used by Positions and
// Balances.
func Key(userID, assetID string) string {
	return userID + "/" + assetID
}

// Quote one attested price.
type Quote struct {
	Price    uint64
	Decimals uint8
}

// State the shared backing store.
type State struct {
	Assets    map[string]*core.Asset
	Allowed   []string
	Positions map[string]*core.Position
	Stakers   map[string]*core.Staker
	Rewards   map[string]*core.Reward
	Balances  map[string]uint64
	Prices    map[string]Quote
	Events    map[string]*core.Event
	Snapshots map[string]*core.Snapshot
	Transfers map[string]*core.Transfer
}

// NewState new empty state
func NewState() *State {
	return &State{
		Assets:    map[string]*core.Asset{},
		Positions: map[string]*core.Position{},
		Stakers:   map[string]*core.Staker{},
		Rewards:   map[string]*core.Reward{},
		Balances:  map[string]uint64{},
		Prices:    map[string]Quote{},
		Events:    map[string]*core.Event{},
		Snapshots: map[string]*core.Snapshot{},
		Transfers: map[string]*core.Transfer{},
	}
}

// Clone deep copies the state.
func (s *State) Clone() *State {
	c := NewState()
	for k, v := range s.Assets {
		cp := *v
		c.Assets[k] = &cp
	}
	c.Allowed = append(c.Allowed, s.Allowed...)
	for k, v := range s.Positions {
		cp := *v
		c.Positions[k] = &cp
	}
	for k, v := range s.Stakers {
		cp := *v
		c.Stakers[k] = &cp
	}
	for k, v := range s.Rewards {
		cp := *v
		c.Rewards[k] = &cp
	}
	for k, v := range s.Balances {
		c.Balances[k] = v
	}
	for k, v := range s.Prices {
		c.Prices[k] = v
	}
	for k, v := range s.Events {
		cp := *v
		c.Events[k] = &cp
	}
	for k, v := range s.Snapshots {
		cp := *v
		c.Snapshots[k] = &cp
	}
	for k, v := range s.Transfers {
		cp := *v
		c.Transfers[k] = &cp
	}
	return c
}

// Allow seeds an allow-listed asset.
func (s *State) Allow(assetID, symbol string) {
	if _, ok := s.Assets[assetID]; !ok {
		s.Allowed = append(s.Allowed, assetID)
	}
	s.Assets[assetID] = &core.Asset{AssetID: assetID, Symbol: symbol}
}

// SetQuote seeds an attested price.
func (s *State) SetQuote(assetID string, price uint64, decimals uint8) {
	s.Prices[assetID] = Quote{Price: price, Decimals: decimals}
}

// Fund seeds a free custody balance.
func (s *State) Fund(userID, assetID string, amount uint64) {
	s.Balances[Key(userID, assetID)] = amount
}

// SeedPosition seeds a position row, enrolling the user in the staker
// set when the amount is nonzero.
func (s *State) SeedPosition(userID, assetID string, amount uint64, since int64) {
	s.Positions[Key(userID, assetID)] = &core.Position{
		UserID:       userID,
		AssetID:      assetID,
		Amount:       amount,
		AccrualStart: since,
	}

	if amount > 0 {
		staker, ok := s.Stakers[userID]
		if !ok {
			staker = &core.Staker{UserID: userID}
			s.Stakers[userID] = staker
		}
		staker.AssetCount++
	}
}

// SeedReward seeds a banked reward balance.
func (s *State) SeedReward(userID string, banked uint64) {
	s.Rewards[userID] = &core.Reward{UserID: userID, Banked: banked}
}

// Txer a core.Txer over State. It passes a nil handle to fn; the
// fake stores ignore it.
type Txer struct {
	State *State
}

func (t *Txer) Tx(fn func(tx *db.DB) error) error {
	backup := t.State.Clone()
	if err := fn(nil); err != nil {
		*t.State = *backup
		return err
	}
	return nil
}

// AssetStore core.AssetStore over State
type AssetStore struct {
	State *State
}

func (s *AssetStore) Save(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	if _, ok := s.State.Assets[asset.AssetID]; !ok {
		s.State.Allowed = append(s.State.Allowed, asset.AssetID)
	}
	cp := *asset
	s.State.Assets[asset.AssetID] = &cp
	return nil
}

func (s *AssetStore) Find(ctx context.Context, assetID string) (*core.Asset, bool, error) {
	asset, ok := s.State.Assets[assetID]
	if !ok {
		return nil, false, nil
	}

	cp := *asset
	return &cp, true, nil
}

func (s *AssetStore) ListAllowed(ctx context.Context) ([]*core.Asset, error) {
	out := make([]*core.Asset, 0, len(s.State.Allowed))
	for _, id := range s.State.Allowed {
		cp := *s.State.Assets[id]
		out = append(out, &cp)
	}
	return out, nil
}

// PositionStore core.PositionStore over State
type PositionStore struct {
	State *State
}

func (s *PositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	cp := *position
	s.State.Positions[Key(position.UserID, position.AssetID)] = &cp
	return nil
}

func (s *PositionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, bool, error) {
	position, ok := s.State.Positions[Key(userID, assetID)]
	if !ok {
		return nil, false, nil
	}

	cp := *position
	return &cp, true, nil
}

func (s *PositionStore) ListByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var out []*core.Position
	for _, position := range s.State.Positions {
		if position.UserID == userID {
			cp := *position
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *PositionStore) ResetAccrual(ctx context.Context, tx *db.DB, userID string, assetIDs []string, now int64) error {
	for _, assetID := range assetIDs {
		if position, ok := s.State.Positions[Key(userID, assetID)]; ok {
			position.AccrualStart = now
		}
	}
	return nil
}

// StakerStore core.StakerStore over State
type StakerStore struct {
	State *State
}

func (s *StakerStore) Save(ctx context.Context, tx *db.DB, staker *core.Staker) error {
	cp := *staker
	s.State.Stakers[staker.UserID] = &cp
	return nil
}

func (s *StakerStore) Delete(ctx context.Context, tx *db.DB, userID string) error {
	delete(s.State.Stakers, userID)
	return nil
}

func (s *StakerStore) Find(ctx context.Context, userID string) (*core.Staker, bool, error) {
	staker, ok := s.State.Stakers[userID]
	if !ok {
		return nil, false, nil
	}

	cp := *staker
	return &cp, true, nil
}

func (s *StakerStore) ListAll(ctx context.Context) ([]*core.Staker, error) {
	var out []*core.Staker
	for _, staker := range s.State.Stakers {
		cp := *staker
		out = append(out, &cp)
	}
	return out, nil
}

// RewardStore core.RewardStore over State
type RewardStore struct {
	State *State
}

func (s *RewardStore) Save(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	cp := *reward
	s.State.Rewards[reward.UserID] = &cp
	return nil
}

func (s *RewardStore) Find(ctx context.Context, userID string) (*core.Reward, bool, error) {
	reward, ok := s.State.Rewards[userID]
	if !ok {
		return nil, false, nil
	}

	cp := *reward
	return &cp, true, nil
}

// Vault core.AssetTransfer over State. Setting DebitErr makes every
// debit fail the way a lost balance race would.
type Vault struct {
	State    *State
	DebitErr error
}

func (s *Vault) BalanceOf(ctx context.Context, userID, assetID string) (uint64, error) {
	return s.State.Balances[Key(userID, assetID)], nil
}

func (s *Vault) Debit(ctx context.Context, tx *db.DB, userID, assetID string, amount uint64) error {
	if s.DebitErr != nil {
		return s.DebitErr
	}

	key := Key(userID, assetID)
	if s.State.Balances[key] < amount {
		return core.ErrTransferFailed
	}

	s.State.Balances[key] -= amount
	return nil
}

func (s *Vault) Credit(ctx context.Context, tx *db.DB, userID, assetID string, amount uint64) error {
	s.State.Balances[Key(userID, assetID)] += amount
	return nil
}

// Oracle core.PriceOracle over State
type Oracle struct {
	State *State
}

func (s *Oracle) GetPrice(ctx context.Context, assetID string) (uint64, uint8, error) {
	quote, ok := s.State.Prices[assetID]
	if !ok {
		return 0, 0, core.ErrPriceNotAvailable
	}

	return quote.Price, quote.Decimals, nil
}

// EventStore core.EventStore over State. Create dedupes on the trace
// id like the unique index does.
type EventStore struct {
	State *State
}

func (s *EventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	if _, ok := s.State.Events[event.TraceID]; ok {
		return nil
	}

	cp := *event
	s.State.Events[event.TraceID] = &cp
	return nil
}

func (s *EventStore) Find(ctx context.Context, traceID string) (*core.Event, bool, error) {
	event, ok := s.State.Events[traceID]
	if !ok {
		return nil, false, nil
	}

	cp := *event
	return &cp, true, nil
}

func (s *EventStore) ListPending(ctx context.Context, limit int) ([]*core.Event, error) {
	var out []*core.Event
	for _, event := range s.State.Events {
		if !event.NotifiedAt.Valid {
			cp := *event
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *EventStore) MarkNotified(ctx context.Context, events []*core.Event) error {
	for _, event := range events {
		if stored, ok := s.State.Events[event.TraceID]; ok {
			stored.NotifiedAt.Valid = true
		}
	}
	return nil
}

// SnapshotStore core.SnapshotStore over State
type SnapshotStore struct {
	State *State
}

func (s *SnapshotStore) Save(ctx context.Context, tx *db.DB, snapshot *core.Snapshot) error {
	if _, ok := s.State.Snapshots[snapshot.SnapshotID]; ok {
		return nil
	}

	cp := *snapshot
	s.State.Snapshots[snapshot.SnapshotID] = &cp
	return nil
}

func (s *SnapshotStore) Find(ctx context.Context, snapshotID string) (*core.Snapshot, bool, error) {
	snapshot, ok := s.State.Snapshots[snapshotID]
	if !ok {
		return nil, false, nil
	}

	cp := *snapshot
	return &cp, true, nil
}

// TransferStore core.TransferStore over State
type TransferStore struct {
	State  *State
	nextID uint64
}

func (s *TransferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	if _, ok := s.State.Transfers[transfer.TraceID]; ok {
		return nil
	}

	s.nextID++
	cp := *transfer
	cp.ID = s.nextID
	s.State.Transfers[transfer.TraceID] = &cp
	return nil
}

func (s *TransferStore) Top(ctx context.Context, limit int) ([]*core.Transfer, error) {
	var out []*core.Transfer
	for _, transfer := range s.State.Transfers {
		cp := *transfer
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *TransferStore) Delete(ctx context.Context, tx *db.DB, ids ...uint64) error {
	for _, id := range ids {
		for trace, transfer := range s.State.Transfers {
			if transfer.ID == id {
				delete(s.State.Transfers, trace)
			}
		}
	}
	return nil
}

// IssuedReward one recorded Minter issuance.
type IssuedReward struct {
	UserID  string
	Amount  uint64
	TraceID string
}

// Minter core.RewardMinter recording every issuance. Setting Err
// makes issuance fail inside the claim transaction.
type Minter struct {
	Err    error
	Issues []IssuedReward
}

func (m *Minter) Issue(ctx context.Context, tx *db.DB, userID string, amount uint64, traceID string) error {
	if m.Err != nil {
		return m.Err
	}

	m.Issues = append(m.Issues, IssuedReward{UserID: userID, Amount: amount, TraceID: traceID})
	return nil
}
