package codec

func EncodeVarint(value int64) []byte {
	return EncodeUvarint(uint64(value))
}

func EncodeUvarint(value uint64) []byte {
	return AppendUvarint(make([]byte, 0, SizeUvarint(value)), value)
}

func AppendUvarint(buf []byte, value uint64) []byte {
	for value >= 0x80 {
		buf = append(buf, byte(value)|0x80)
		value >>= 7
	}
	return append(buf, byte(value))
}

func SizeUvarint(value uint64) int {
	size := 1
	for value >= 0x80 {
		value >>= 7
		size++
	}
	return size
}

func DecodeVarint(data []byte, offset int) (int64, int, error) {
	value, consumed, err := DecodeUvarint(data, offset)
	return int64(value), consumed, err
}

// DecodeUvarint reads groups of 7 bits, least significant group first, until
// a byte without the continuation bit. It fails with ErrTruncated when the
// buffer ends first and with ErrOverflow when the value does not fit 64 bits.
func DecodeUvarint(data []byte, offset int) (uint64, int, error) {
	var result uint64
	var shift uint
	pos := offset

	for i := 0; ; i++ {
		if i == MaxVarintLen {
			return 0, 0, ErrOverflow
		}
		if pos >= len(data) {
			return 0, 0, ErrTruncated
		}
		b := data[pos]
		if i == MaxVarintLen-1 && b > 1 {
			return 0, 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << shift
		pos++

		if b&0x80 == 0 {
			return result, pos - offset, nil
		}

		shift += 7
	}
}
