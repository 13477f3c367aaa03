package core

import (
	"github.com/fox-one/msgpack"
	"github.com/pandodao/blst"
)

// Signer a feed signer with its position in the signature mask
type Signer struct {
	Index     uint64          `json:"index,omitempty"`
	VerifyKey *blst.PublicKey `json:"verify_key,omitempty"`
}

// CosiSignature an aggregated feed signature and the bitmask of the
// signers that produced it
type CosiSignature struct {
	Signature blst.Signature `json:"signature,omitempty"`
	Mask      uint64         `json:"mask,omitempty"`
}

// PriceData one signed price observation pulled from the feed
type PriceData struct {
	AssetID   string        `json:"asset_id,omitempty"`
	Price     uint64        `json:"price,omitempty"`
	Decimals  uint8         `json:"decimals,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`
	Signature CosiSignature `json:"signature,omitempty"`
}

type priceDataBlob struct {
	AssetID   string `msgpack:"a"`
	Price     uint64 `msgpack:"p"`
	Decimals  uint8  `msgpack:"d"`
	Timestamp int64  `msgpack:"t"`
	Mask      uint64 `msgpack:"m,omitempty"`
	Signature []byte `msgpack:"s,omitempty"`
}

// Payload the byte view feed signers sign over.
func (p *PriceData) Payload() []byte {
	b, _ := msgpack.Marshal(priceDataBlob{
		AssetID:   p.AssetID,
		Price:     p.Price,
		Decimals:  p.Decimals,
		Timestamp: p.Timestamp,
	})

	return b
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *PriceData) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(priceDataBlob{
		AssetID:   p.AssetID,
		Price:     p.Price,
		Decimals:  p.Decimals,
		Timestamp: p.Timestamp,
		Mask:      p.Signature.Mask,
		Signature: p.Signature.Signature.Bytes(),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *PriceData) UnmarshalBinary(data []byte) error {
	var blob priceDataBlob
	if err := msgpack.Unmarshal(data, &blob); err != nil {
		return err
	}

	if len(blob.Signature) > 0 {
		if err := p.Signature.Signature.FromBytes(blob.Signature); err != nil {
			return err
		}
	}

	p.AssetID = blob.AssetID
	p.Price = blob.Price
	p.Decimals = blob.Decimals
	p.Timestamp = blob.Timestamp
	p.Signature.Mask = blob.Mask

	return nil
}

// Verify checks the aggregated signature against the registered
// signers whose bits are set in the mask, requiring at least
// threshold of them.
func (p *PriceData) Verify(signers []*Signer, threshold int) bool {
	var pubs []*blst.PublicKey
	for _, signer := range signers {
		if p.Signature.Mask&(0x1<<signer.Index) != 0 {
			pubs = append(pubs, signer.VerifyKey)
		}
	}

	return len(pubs) >= threshold &&
		blst.AggregatePublicKeys(pubs).Verify(p.Payload(), &p.Signature.Signature)
}
