package codec

func EncodeBytes(value []byte) []byte {
	return AppendBytes(make([]byte, 0, SizeUvarint(uint64(len(value)))+len(value)), value)
}

func AppendBytes(buf []byte, value []byte) []byte {
	buf = AppendUvarint(buf, uint64(len(value)))
	return append(buf, value...)
}

func EncodeString(value string) []byte {
	return EncodeBytes([]byte(value))
}

// DecodeBytes returns a sub-slice of data; the caller must copy it before
// handing it to anything that outlives data.
func DecodeBytes(data []byte, offset int) ([]byte, int, error) {
	length, lengthSize, err := DecodeUvarint(data, offset)
	if err != nil {
		return nil, 0, err
	}

	start := offset + lengthSize
	if length > uint64(len(data)-start) {
		return nil, 0, ErrTruncated
	}
	end := start + int(length)

	return data[start:end:end], lengthSize + int(length), nil
}
