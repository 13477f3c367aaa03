package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
)

// New new wallet service
func New(client *mixin.Client, pin string) core.WalletService {
	return &walletService{
		client: client,
		pin:    pin,
	}
}

type walletService struct {
	client *mixin.Client
	pin    string
}

func (s *walletService) HandleTransfer(ctx context.Context, transfer *core.Transfer) error {
	input := &mixin.TransferInput{
		AssetID:    transfer.AssetID,
		OpponentID: transfer.OpponentID,
		Amount:     transfer.Amount,
		TraceID:    transfer.TraceID,
		Memo:       transfer.Memo,
	}

	if _, err := s.client.Transfer(ctx, input, s.pin); err != nil {
		return err
	}

	return nil
}

func (s *walletService) PullSnapshots(ctx context.Context, cursor string, limit int) ([]*core.Snapshot, string, error) {
	offset, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		offset = time.Now().UTC()
	}

	snapshots, err := s.client.ReadSnapshots(ctx, "", offset, "ASC", limit)
	if err != nil {
		return nil, "", err
	}

	out := make([]*core.Snapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, convertSnapshot(snapshot))
		offset = snapshot.CreatedAt
	}

	return out, offset.Format(time.RFC3339Nano), nil
}

func convertSnapshot(snapshot *mixin.Snapshot) *core.Snapshot {
	return &core.Snapshot{
		SnapshotID: snapshot.SnapshotID,
		TraceID:    snapshot.TraceID,
		OpponentID: snapshot.OpponentID,
		AssetID:    snapshot.AssetID,
		Amount:     snapshot.Amount,
		Memo:       snapshot.Memo,
		CreatedAt:  snapshot.CreatedAt,
	}
}

// PaySchemaURL build pay schema url
func (s *walletService) PaySchemaURL(amount decimal.Decimal, asset, recipient, trace, memo string) (string, error) {
	if amount.LessThanOrEqual(decimal.Zero) || asset == "" || recipient == "" || trace == "" {
		return "", errors.New("invalid paramaters")
	}

	return fmt.Sprintf("mixin://pay?amount=%s&asset=%s&recipient=%s&trace=%s&memo=%s", amount.String(), asset, recipient, trace, url.QueryEscape(memo)), nil
}

func (s *walletService) SendMessages(ctx context.Context, messages []*mixin.MessageRequest) error {
	return s.client.SendMessages(ctx, messages)
}
