package number

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places a native unit carries.
// It matches the precision of mixin snapshot amounts.
const Precision = 8

var (
	// ErrNegative the amount is below zero
	ErrNegative = errors.New("number: negative amount")
	// ErrOutOfRange the amount does not fit in a native unit
	ErrOutOfRange = errors.New("number: amount out of range")
)

var (
	shift     = decimal.New(1, Precision)
	maxNative = decimal.NewFromInt(math.MaxInt64)
)

// Decimal parse v as decimal, bad input yields zero
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// ToNative converts d to native units, truncating anything beyond
// Precision decimal places.
func ToNative(d decimal.Decimal) (uint64, error) {
	if d.Sign() < 0 {
		return 0, ErrNegative
	}

	n := d.Mul(shift).Truncate(0)
	if n.Cmp(maxNative) > 0 {
		return 0, ErrOutOfRange
	}

	return uint64(n.IntPart()), nil
}

// FromNative converts native units back to a decimal amount
func FromNative(amount uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -Precision)
}
