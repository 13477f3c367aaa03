package yield

import (
	"errors"
	"math/bits"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
)

// Scale one unit of accrual precision: the time ratio is carried as a
// fixed-point value scaled by 1e8 so that partial rate periods keep
// eight digits of resolution regardless of the feed's price decimals.
const Scale uint64 = 100000000

var pow10 = [...]uint64{
	1,
	10,
	100,
	1000,
	10000,
	100000,
	1000000,
	10000000,
	100000000,
	1000000000,
	10000000000,
	100000000000,
	1000000000000,
	10000000000000,
	100000000000000,
	1000000000000000,
	10000000000000000,
	100000000000000000,
	1000000000000000000,
	10000000000000000000,
}

// Compute accrued reward for one position.
//
// scaled_time = elapsed * scale
// time_rate = scaled_time / rate
// staking_value = (amount * price) / 10^price_decimals
// reward = (staking_value * time_rate) / scale
//
// Every division truncates and the steps run strictly in that order;
// moving a division moves its truncation boundary and changes the
// result. All arithmetic is unsigned and fails with ErrOverflow
// instead of wrapping.
func Compute(amount uint64, accrualStart, now int64, rate, price uint64, priceDecimals uint8) (uint64, error) {
	if rate == 0 {
		return 0, errors.New("yield: rate must be positive")
	}

	if amount == 0 || now <= accrualStart {
		return 0, nil
	}

	elapsed := uint64(now - accrualStart)

	scaledTime, err := Mul(elapsed, Scale)
	if err != nil {
		return 0, err
	}
	timeRate := scaledTime / rate

	value, err := Mul(amount, price)
	if err != nil {
		return 0, err
	}
	stakingValue := value / Pow10(priceDecimals)

	reward, err := Mul(stakingValue, timeRate)
	if err != nil {
		return 0, err
	}

	return reward / Scale, nil
}

// Pow10 10^d, saturating at the largest uint64 power of ten. Feed
// decimals beyond 19 cannot be represented and saturate rather than
// wrap; the subsequent division simply truncates harder.
func Pow10(d uint8) uint64 {
	if int(d) >= len(pow10) {
		return pow10[len(pow10)-1]
	}

	return pow10[d]
}

// Mul checked multiplication.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, core.ErrOverflow
	}

	return lo, nil
}

// Add checked addition.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, core.ErrOverflow
	}

	return sum, nil
}

// Sub checked subtraction.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, core.ErrOverflow
	}

	return diff, nil
}
