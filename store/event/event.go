package event

import (
	"context"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.EventStore {
	return &eventStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Event{})

		if err := tx.AutoMigrate(core.Event{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_events_trace", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *eventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	return tx.Update().Where("trace_id = ?", event.TraceID).FirstOrCreate(event).Error
}

func (s *eventStore) Find(ctx context.Context, traceID string) (*core.Event, bool, error) {
	var event core.Event
	if err := s.db.View().Where("trace_id = ?", traceID).First(&event).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &event, true, nil
}

func (s *eventStore) ListPending(ctx context.Context, limit int) ([]*core.Event, error) {
	var events []*core.Event
	if err := s.db.View().Where("notified_at IS NULL").Limit(limit).Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (s *eventStore) MarkNotified(ctx context.Context, events []*core.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	return s.db.Update().Model(core.Event{}).
		Where("id in (?)", ids).
		Updates(map[string]interface{}{"notified_at": time.Now()}).Error
}
