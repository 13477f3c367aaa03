package core

import (
	"errors"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidMemo undecodable action memo
	ErrInvalidMemo ErrorCode = 100001
	// ErrUnauthorized caller lacks the required capability
	ErrUnauthorized ErrorCode = 100002

	// ErrInvalidAmount zero or insufficient amount on stake
	ErrInvalidAmount ErrorCode = 100101
	// ErrAssetNotAllowed asset not in the allowed list
	ErrAssetNotAllowed ErrorCode = 100102
	// ErrNoPosition no position for the user and asset
	ErrNoPosition ErrorCode = 100103
	// ErrInsufficientBalance amount exceeds the position or custody balance
	ErrInsufficientBalance ErrorCode = 100104
	// ErrNoRewardsAvailable claim with nothing accrued
	ErrNoRewardsAvailable ErrorCode = 100105
	// ErrTransferFailed custody debit or credit failed
	ErrTransferFailed ErrorCode = 100106
	// ErrOverflow unsigned arithmetic overflow
	ErrOverflow ErrorCode = 100107
	// ErrPriceNotAvailable no attested price for the asset
	ErrPriceNotAvailable ErrorCode = 100108
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// AsErrorCode extracts the ledger rejection code carried by err.
// A rejection is terminal for the triggering payment; anything else
// is treated as transient and retried.
func AsErrorCode(err error) (ErrorCode, bool) {
	var code ErrorCode
	if errors.As(err, &code) {
		return code, true
	}

	return 0, false
}
