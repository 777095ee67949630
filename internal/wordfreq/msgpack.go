package wordfreq

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// decodeValue reads one msgpack value. Only the shapes that appear in
// wordfreq data files are supported: nil, booleans, integers, floats,
// strings, binary, arrays, and maps.
func decodeValue(r io.Reader) (interface{}, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, err
	}
	b := tag[0]

	switch {
	case b <= 0x7f: // positive fixint
		return int64(b), nil
	case b >= 0xe0: // negative fixint
		return int64(int8(b)), nil
	case b >= 0x80 && b <= 0x8f: // fixmap
		return decodeMap(r, int(b&0x0f))
	case b >= 0x90 && b <= 0x9f: // fixarray
		return decodeArray(r, int(b&0x0f))
	case b >= 0xa0 && b <= 0xbf: // fixstr
		return decodeString(r, int(b&0x1f))
	}

	switch b {
	case 0xc0:
		return nil, nil
	case 0xc2:
		return false, nil
	case 0xc3:
		return true, nil
	case 0xc4, 0xc5, 0xc6: // bin
		n, err := decodeLength(r, 1<<(b-0xc4))
		if err != nil {
			return nil, err
		}
		return decodeString(r, n)
	case 0xca:
		var v uint32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(v)), nil
	case 0xcb:
		var v uint64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return math.Float64frombits(v), nil
	case 0xcc, 0xcd, 0xce, 0xcf: // uint 8..64
		n, err := decodeLength(r, 1<<(b-0xcc))
		if err != nil {
			return nil, err
		}
		return int64(n), nil
	case 0xd0:
		var v int8
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return int64(v), nil
	case 0xd1:
		var v int16
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return int64(v), nil
	case 0xd2:
		var v int32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return int64(v), nil
	case 0xd3:
		var v int64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return v, nil
	case 0xd9, 0xda, 0xdb: // str 8..32
		n, err := decodeLength(r, 1<<(b-0xd9))
		if err != nil {
			return nil, err
		}
		return decodeString(r, n)
	case 0xdc, 0xdd: // array 16/32
		n, err := decodeLength(r, 2<<(b-0xdc))
		if err != nil {
			return nil, err
		}
		return decodeArray(r, n)
	case 0xde, 0xdf: // map 16/32
		n, err := decodeLength(r, 2<<(b-0xde))
		if err != nil {
			return nil, err
		}
		return decodeMap(r, n)
	}
	return nil, fmt.Errorf("unsupported msgpack tag 0x%02x", b)
}

func decodeLength(r io.Reader, bytes int) (int, error) {
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	n := 0
	for _, b := range buf {
		n = n<<8 | int(b)
	}
	return n, nil
}

func decodeString(r io.Reader, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func decodeArray(r io.Reader, length int) ([]interface{}, error) {
	out := make([]interface{}, 0, length)
	for i := 0; i < length; i++ {
		item, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeMap(r io.Reader, length int) (map[string]interface{}, error) {
	out := make(map[string]interface{}, length)
	for i := 0; i < length; i++ {
		key, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		if s, ok := key.(string); ok {
			out[s] = val
		}
	}
	return out, nil
}
