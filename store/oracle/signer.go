package oracle

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/fox-one/pkg/store/db"
)

type oracleSignerStore struct {
	db *db.DB
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.OracleSigner{})

		if err := tx.AutoMigrate(core.OracleSigner{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_oracle_signers_label", "label").Error; err != nil {
			return err
		}

		return nil
	})
}

func NewSignerStore(db *db.DB) core.OracleSignerStore {
	return &oracleSignerStore{db: db}
}

func (s *oracleSignerStore) Save(ctx context.Context, signer *core.OracleSigner) error {
	return s.db.Update().Where("label = ?", signer.Label).Assign(map[string]interface{}{"public_key": signer.PublicKey}).FirstOrCreate(signer).Error
}

func (s *oracleSignerStore) Delete(ctx context.Context, label string) error {
	return s.db.Update().Where("label = ?", label).Delete(core.OracleSigner{}).Error
}

// FindAll returns signers ordered by id. The signer's position in
// this list fixes its bit in the attestation mask.
func (s *oracleSignerStore) FindAll(ctx context.Context) ([]*core.OracleSigner, error) {
	var signers []*core.OracleSigner
	if err := s.db.View().Order("id ASC").Find(&signers).Error; err != nil {
		return nil, err
	}

	return signers, nil
}
