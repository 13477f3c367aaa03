package mtg

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gofrs/uuid"
)

// RawMessage length-delimited raw bytes
type RawMessage []byte

// Encode packs values into a compact binary body suitable for a
// transfer memo. Integers are big-endian fixed width, uuids are their
// 16 raw bytes, strings and byte slices carry a 2-byte length prefix.
func Encode(values ...interface{}) ([]byte, error) {
	var body []byte

	for _, v := range values {
		b, err := encodeValue(v)
		if err != nil {
			return nil, err
		}

		body = append(body, b...)
	}

	return body, nil
}

func encodeValue(v interface{}) ([]byte, error) {
	switch v := v.(type) {
	case int8:
		return []byte{byte(v)}, nil
	case uint8:
		return []byte{v}, nil
	case int16:
		return encodeUint(uint64(uint16(v)), 2), nil
	case uint16:
		return encodeUint(uint64(v), 2), nil
	case int32:
		return encodeUint(uint64(uint32(v)), 4), nil
	case uint32:
		return encodeUint(uint64(v), 4), nil
	case int64:
		return encodeUint(uint64(v), 8), nil
	case uint64:
		return encodeUint(v, 8), nil
	case int:
		return encodeUint(uint64(int64(v)), 8), nil
	case uuid.UUID:
		return v.Bytes(), nil
	case string:
		return encodeBytes([]byte(v))
	case []byte:
		return encodeBytes(v)
	case RawMessage:
		return encodeBytes(v)
	default:
		return nil, fmt.Errorf("mtg: encode unsupported type %T", v)
	}
}

func encodeUint(v uint64, width int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[8-width:]
}

func encodeBytes(b []byte) ([]byte, error) {
	if len(b) > math.MaxUint16 {
		return nil, fmt.Errorf("mtg: payload too long (%d bytes)", len(b))
	}

	buf := make([]byte, 2+len(b))
	binary.BigEndian.PutUint16(buf, uint16(len(b)))
	copy(buf[2:], b)

	return buf, nil
}
