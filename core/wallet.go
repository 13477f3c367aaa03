package core

import (
	"context"
	"time"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Snapshot one transfer observed on the custody wallet. Rows double
// as the processed-set: a snapshot whose id is already stored has
// been applied and is skipped on replay.
type Snapshot struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	SnapshotID string          `sql:"size:36;unique_index:idx_snapshots_snapshot" json:"snapshot_id,omitempty"`
	TraceID    string          `sql:"size:36" json:"trace_id,omitempty"`
	OpponentID string          `sql:"size:36" json:"opponent_id,omitempty"`
	AssetID    string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(20,8)" json:"amount,omitempty"`
	Memo       string          `sql:"size:256" json:"memo,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
}

// SnapshotStore snapshot store interface
type SnapshotStore interface {
	Save(ctx context.Context, tx *db.DB, snapshot *Snapshot) error
	Find(ctx context.Context, snapshotID string) (*Snapshot, bool, error)
}

// WalletService adapts the custody wallet: outbound payments,
// snapshot polling, payment urls and user notifications.
type WalletService interface {
	HandleTransfer(ctx context.Context, transfer *Transfer) error
	PullSnapshots(ctx context.Context, cursor string, limit int) ([]*Snapshot, string, error)
	PaySchemaURL(amount decimal.Decimal, asset, recipient, trace, memo string) (string, error)
	SendMessages(ctx context.Context, messages []*mixin.MessageRequest) error
}
