package number

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestToNative(t *testing.T) {
	data := map[string]uint64{
		"0":           0,
		"1":           100000000,
		"0.00000001":  1,
		"0.000000019": 1,
		"12.5":        1250000000,
		"0.1":         10000000,
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			n, err := ToNative(Decimal(k))
			assert.Equal(t, nil, err)
			assert.Equal(t, v, n, "should truncate beyond 8 places")
		})
	}
}

func TestToNativeNegative(t *testing.T) {
	_, err := ToNative(Decimal("-0.5"))
	assert.Equal(t, ErrNegative, err)
}

func TestToNativeOutOfRange(t *testing.T) {
	_, err := ToNative(Decimal("99999999999999999999"))
	assert.Equal(t, ErrOutOfRange, err)
}

func TestFromNative(t *testing.T) {
	data := map[uint64]string{
		0:          "0",
		1:          "0.00000001",
		100000000:  "1",
		1250000000: "12.5",
	}

	for k, v := range data {
		t.Run(v, func(t *testing.T) {
			assert.Equal(t, v, FromNative(k).String(), "should round trip")
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 250, 100000000, 987654321012345} {
		n, err := ToNative(FromNative(v))
		assert.Equal(t, nil, err)
		assert.Equal(t, v, n)
	}
}
