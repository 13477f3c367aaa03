package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Transfer a queued outbound payment, flushed by the cashier. The
// trace id dedupes requeues of the same logical payout.
type Transfer struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	TraceID    string          `sql:"size:36;unique_index:idx_transfers_trace" json:"trace_id,omitempty"`
	OpponentID string          `sql:"size:36" json:"opponent_id,omitempty"`
	AssetID    string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(20,8)" json:"amount,omitempty"`
	Memo       string          `sql:"size:140" json:"memo,omitempty"`
}

// TransferStore transfer store interface
type TransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	Top(ctx context.Context, limit int) ([]*Transfer, error)
	Delete(ctx context.Context, tx *db.DB, ids ...uint64) error
}
