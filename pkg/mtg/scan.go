package mtg

import (
	"encoding/binary"
	"fmt"

	"github.com/gofrs/uuid"
)

// Scan unpacks body into the destination pointers in order, returning
// the unconsumed remainder.
func Scan(body []byte, dest ...interface{}) ([]byte, error) {
	for _, d := range dest {
		n, err := scanValue(body, d)
		if err != nil {
			return nil, err
		}

		body = body[n:]
	}

	return body, nil
}

func scanValue(body []byte, d interface{}) (int, error) {
	switch d := d.(type) {
	case *int8:
		if len(body) < 1 {
			return 0, errShort()
		}
		*d = int8(body[0])
		return 1, nil
	case *uint8:
		if len(body) < 1 {
			return 0, errShort()
		}
		*d = body[0]
		return 1, nil
	case *int16:
		v, n, err := scanUint(body, 2)
		*d = int16(v)
		return n, err
	case *uint16:
		v, n, err := scanUint(body, 2)
		*d = uint16(v)
		return n, err
	case *int32:
		v, n, err := scanUint(body, 4)
		*d = int32(v)
		return n, err
	case *uint32:
		v, n, err := scanUint(body, 4)
		*d = uint32(v)
		return n, err
	case *int64:
		v, n, err := scanUint(body, 8)
		*d = int64(v)
		return n, err
	case *uint64:
		v, n, err := scanUint(body, 8)
		*d = v
		return n, err
	case *uuid.UUID:
		if len(body) < uuid.Size {
			return 0, errShort()
		}
		id, err := uuid.FromBytes(body[:uuid.Size])
		if err != nil {
			return 0, err
		}
		*d = id
		return uuid.Size, nil
	case *string:
		b, n, err := scanBytes(body)
		*d = string(b)
		return n, err
	case *[]byte:
		b, n, err := scanBytes(body)
		*d = append((*d)[:0], b...)
		return n, err
	case *RawMessage:
		b, n, err := scanBytes(body)
		*d = append((*d)[:0], b...)
		return n, err
	default:
		return 0, fmt.Errorf("mtg: scan unsupported type %T", d)
	}
}

func scanUint(body []byte, width int) (uint64, int, error) {
	if len(body) < width {
		return 0, 0, errShort()
	}

	var buf [8]byte
	copy(buf[8-width:], body[:width])

	return binary.BigEndian.Uint64(buf[:]), width, nil
}

func scanBytes(body []byte) ([]byte, int, error) {
	if len(body) < 2 {
		return nil, 0, errShort()
	}

	size := int(binary.BigEndian.Uint16(body))
	if len(body) < 2+size {
		return nil, 0, errShort()
	}

	return body[2 : 2+size], 2 + size, nil
}

func errShort() error {
	return fmt.Errorf("mtg: body too short")
}
