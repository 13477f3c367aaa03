package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// EventType event type
type EventType string

const (
	// EventTypeStaked asset staked
	EventTypeStaked EventType = "staked"
	// EventTypeUnstaked asset unstaked
	EventTypeUnstaked EventType = "unstaked"
	// EventTypeRewardClaimed reward realized and issued
	EventTypeRewardClaimed EventType = "reward_claimed"
	// EventTypeRewardDistributed batch issuance over the staker set
	EventTypeRewardDistributed EventType = "reward_distributed"
	// EventTypeWithdrawn free balance paid back out
	EventTypeWithdrawn EventType = "withdrawn"
	// EventTypeRefunded rejected payment bounced back to its sender
	EventTypeRefunded EventType = "refunded"
)

// Event a journaled ledger event, written in the mutating transaction
// and pushed to the user by the notifier
type Event struct {
	ID         uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt  time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	TraceID    string         `sql:"size:36;unique_index:idx_events_trace" json:"trace_id,omitempty"`
	Type       EventType      `sql:"size:32" json:"type,omitempty"`
	UserID     string         `sql:"size:36;index:idx_events_user" json:"user_id,omitempty"`
	AssetID    string         `sql:"size:36" json:"asset_id,omitempty"`
	Amount     uint64         `sql:"default:0" json:"amount,omitempty"`
	Payload    types.JSONText `sql:"type:varchar(1024)" json:"payload,omitempty"`
	Recipients pq.StringArray `sql:"type:varchar(1024)" json:"recipients,omitempty"`
	NotifiedAt sql.NullTime   `json:"notified_at,omitempty"`
}

// EventStore event store interface. Create is keyed on the trace id,
// so an event doubles as the applied marker of the transaction that
// wrote it.
type EventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	Find(ctx context.Context, traceID string) (*Event, bool, error)
	ListPending(ctx context.Context, limit int) ([]*Event, error)
	MarkNotified(ctx context.Context, events []*Event) error
}

// SetPayload attaches rendering context for the notifier.
func (e *Event) SetPayload(v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	e.Payload = raw
}
