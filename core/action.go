package core

import (
	"encoding"
	"encoding/base64"

	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/mtg"

	"github.com/gofrs/uuid"
)

// ActionType user or admin operation carried in a transfer memo
type ActionType int

const (
	// ActionTypeDefault placeholder
	ActionTypeDefault ActionType = iota
	// ActionTypeDeposit credit the transferred amount to the free book
	ActionTypeDeposit
	// ActionTypeStake move free balance into a position
	ActionTypeStake
	// ActionTypeUnstake move position balance back to the free book
	ActionTypeUnstake
	// ActionTypeClaim realize and issue all pending reward
	ActionTypeClaim
	// ActionTypeWithdraw pay free balance out to the user's wallet
	ActionTypeWithdraw
	// ActionTypeAssetAdd allow-list an asset and wire its price feed
	ActionTypeAssetAdd
	// ActionTypeDistribute claim on behalf of every staker
	ActionTypeDistribute
	// ActionTypeRefund outbound bounce of a rejected payment
	ActionTypeRefund
)

// EncodeAction packs an action memo: the type header followed by the
// payload, base64 encoded.
func EncodeAction(typ ActionType, payload encoding.BinaryMarshaler) (string, error) {
	body, err := mtg.Encode(int8(typ))
	if err != nil {
		return "", err
	}

	if payload != nil {
		b, err := payload.MarshalBinary()
		if err != nil {
			return "", err
		}

		body = append(body, b...)
	}

	return base64.StdEncoding.EncodeToString(body), nil
}

// DecodeAction unpacks the action header of a transfer memo and
// returns the remaining payload bytes.
func DecodeAction(memo string) (ActionType, []byte, error) {
	body, err := base64.StdEncoding.DecodeString(memo)
	if err != nil {
		if body, err = base64.URLEncoding.DecodeString(memo); err != nil {
			return ActionTypeDefault, nil, ErrInvalidMemo
		}
	}

	var typ int8
	remain, err := mtg.Scan(body, &typ)
	if err != nil {
		return ActionTypeDefault, nil, ErrInvalidMemo
	}

	return ActionType(typ), remain, nil
}

// StakeAction stake payload. Amount is in native units; its range is
// the ledger's to judge, not the codec's.
type StakeAction struct {
	AssetID string `valid:"uuid,required"`
	Amount  uint64 `valid:"-"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *StakeAction) MarshalBinary() ([]byte, error) {
	id, err := uuid.FromString(a.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(id, a.Amount)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *StakeAction) UnmarshalBinary(data []byte) error {
	var id uuid.UUID
	if _, err := mtg.Scan(data, &id, &a.Amount); err != nil {
		return err
	}

	a.AssetID = id.String()
	return nil
}

// UnstakeAction unstake payload
type UnstakeAction struct {
	AssetID string `valid:"uuid,required"`
	Amount  uint64 `valid:"-"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *UnstakeAction) MarshalBinary() ([]byte, error) {
	id, err := uuid.FromString(a.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(id, a.Amount)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *UnstakeAction) UnmarshalBinary(data []byte) error {
	var id uuid.UUID
	if _, err := mtg.Scan(data, &id, &a.Amount); err != nil {
		return err
	}

	a.AssetID = id.String()
	return nil
}

// WithdrawAction withdraw payload
type WithdrawAction struct {
	AssetID string `valid:"uuid,required"`
	Amount  uint64 `valid:"-"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *WithdrawAction) MarshalBinary() ([]byte, error) {
	id, err := uuid.FromString(a.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(id, a.Amount)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *WithdrawAction) UnmarshalBinary(data []byte) error {
	var id uuid.UUID
	if _, err := mtg.Scan(data, &id, &a.Amount); err != nil {
		return err
	}

	a.AssetID = id.String()
	return nil
}

// AssetAddAction allow-list payload
type AssetAddAction struct {
	AssetID string `valid:"uuid,required"`
	Symbol  string `valid:"required"`
	FeedID  string `valid:"required"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *AssetAddAction) MarshalBinary() ([]byte, error) {
	id, err := uuid.FromString(a.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(id, a.Symbol, a.FeedID)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *AssetAddAction) UnmarshalBinary(data []byte) error {
	var id uuid.UUID
	if _, err := mtg.Scan(data, &id, &a.Symbol, &a.FeedID); err != nil {
		return err
	}

	a.AssetID = id.String()
	return nil
}

// RefundAction refund memo payload, carrying the rejected origin and
// the rejection code
type RefundAction struct {
	OriginTraceID string `valid:"uuid,required"`
	Code          int64  `valid:"-"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *RefundAction) MarshalBinary() ([]byte, error) {
	id, err := uuid.FromString(a.OriginTraceID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(id, a.Code)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *RefundAction) UnmarshalBinary(data []byte) error {
	var id uuid.UUID
	if _, err := mtg.Scan(data, &id, &a.Code); err != nil {
		return err
	}

	a.OriginTraceID = id.String()
	return nil
}
