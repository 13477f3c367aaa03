package minter

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
)

type minterService struct {
	system    *core.System
	transfers core.TransferStore
}

// New new minter service. Issuance queues a reward asset transfer for
// the cashier instead of paying inline, so the claim transaction
// stays local.
func New(system *core.System, transfers core.TransferStore) core.RewardMinter {
	return &minterService{
		system:    system,
		transfers: transfers,
	}
}

func (s *minterService) Issue(ctx context.Context, tx *db.DB, userID string, amount uint64, traceID string) error {
	if !s.system.IsMinter(s.system.ClientID) {
		return core.ErrUnauthorized
	}

	transfer := &core.Transfer{
		TraceID:    uuid.Modify(traceID, "cube-mint"),
		OpponentID: userID,
		AssetID:    s.system.RewardAssetID,
		Amount:     number.FromNative(amount),
		Memo:       "CUBE yield reward",
	}

	return s.transfers.Create(ctx, tx, transfer)
}
