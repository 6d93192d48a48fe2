package codec

func EncodeZigzag(value int64) []byte {
	return EncodeUvarint(ZigzagEncode(value))
}

func DecodeZigzag(data []byte, offset int) (int64, int, error) {
	encoded, consumed, err := DecodeUvarint(data, offset)
	if err != nil {
		return 0, 0, err
	}
	return ZigzagDecode(encoded), consumed, nil
}

func ZigzagEncode(value int64) uint64 {
	return uint64((value << 1) ^ (value >> 63))
}

func ZigzagDecode(value uint64) int64 {
	return int64(value>>1) ^ -int64(value&1)
}
