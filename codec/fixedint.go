package codec

import (
	"encoding/binary"
	"math"
)

func EncodeFixed32(value uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, 4), value)
}

func EncodeFixed64(value uint64) []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, 8), value)
}

func EncodeFloat32(value float32) []byte {
	return EncodeFixed32(math.Float32bits(value))
}

func EncodeFloat64(value float64) []byte {
	return EncodeFixed64(math.Float64bits(value))
}

func DecodeFixed32(data []byte, offset int) (uint32, int, error) {
	if offset < 0 || len(data) < offset+4 {
		return 0, 0, ErrTruncated
	}
	return binary.LittleEndian.Uint32(data[offset : offset+4]), 4, nil
}

func DecodeFixed64(data []byte, offset int) (uint64, int, error) {
	if offset < 0 || len(data) < offset+8 {
		return 0, 0, ErrTruncated
	}
	return binary.LittleEndian.Uint64(data[offset : offset+8]), 8, nil
}

func DecodeFloat32(data []byte, offset int) (float32, int, error) {
	bits, consumed, err := DecodeFixed32(data, offset)
	if err != nil {
		return 0, 0, err
	}
	return math.Float32frombits(bits), consumed, nil
}

func DecodeFloat64(data []byte, offset int) (float64, int, error) {
	bits, consumed, err := DecodeFixed64(data, offset)
	if err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(bits), consumed, nil
}
