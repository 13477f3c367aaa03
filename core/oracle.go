package core

import (
	"context"
	"time"
)

// OracleSigner a registered price-feed signer. The signature mask
// index of a signer is its position in FindAll order plus one.
type OracleSigner struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	Label     string    `sql:"size:64;unique_index:idx_oracle_signers_label" json:"label,omitempty"`
	PublicKey string    `sql:"size:256" json:"public_key,omitempty"`
}

// OracleSignerStore oracle signer store interface
type OracleSignerStore interface {
	Save(ctx context.Context, signer *OracleSigner) error
	Delete(ctx context.Context, label string) error
	FindAll(ctx context.Context) ([]*OracleSigner, error)
}
