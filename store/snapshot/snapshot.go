package snapshot

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type snapshotStore struct {
	db *db.DB
}

// New new snapshot store
func New(db *db.DB) core.SnapshotStore {
	return &snapshotStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Snapshot{})

		if err := tx.AutoMigrate(core.Snapshot{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_snapshots_snapshot", "snapshot_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *snapshotStore) Save(ctx context.Context, tx *db.DB, snapshot *core.Snapshot) error {
	return tx.Update().Where("snapshot_id = ?", snapshot.SnapshotID).FirstOrCreate(snapshot).Error
}

func (s *snapshotStore) Find(ctx context.Context, snapshotID string) (*core.Snapshot, bool, error) {
	var snapshot core.Snapshot
	if err := s.db.View().Where("snapshot_id = ?", snapshotID).First(&snapshot).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &snapshot, true, nil
}
