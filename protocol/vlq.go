package protocol

import "errors"

var (
	ErrTruncatedVLQ = errors.New("protocol: truncated VLQ")
)

// AppendVLQ appends v as a variable-length quantity: seven bits per byte,
// most significant group first, bit 7 set on every byte but the last. Small
// negative numbers stay short because bits 5 and 6 of the first byte carry
// the sign.
func AppendVLQ(dst []byte, v int32) []byte {
	if !(-(1<<26) <= v && v < (3<<26)) {
		dst = append(dst, byte((v>>28)&0x7F)|0x80)
	}
	if !(-(1<<19) <= v && v < (3<<19)) {
		dst = append(dst, byte((v>>21)&0x7F)|0x80)
	}
	if !(-(1<<12) <= v && v < (3<<12)) {
		dst = append(dst, byte((v>>14)&0x7F)|0x80)
	}
	if !(-(1<<5) <= v && v < (3<<5)) {
		dst = append(dst, byte((v>>7)&0x7F)|0x80)
	}
	return append(dst, byte(v&0x7F))
}

// AppendUVLQ appends v with the same encoding as AppendVLQ.
func AppendUVLQ(dst []byte, v uint32) []byte {
	return AppendVLQ(dst, int32(v))
}

// DecodeVLQ decodes one quantity from the front of data and returns it with
// the number of bytes it took.
func DecodeVLQ(data []byte) (int32, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncatedVLQ
	}
	c := uint32(data[0])
	v := c & 0x7F
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1F)
	}
	n := 1
	for c&0x80 != 0 {
		if n == len(data) {
			return 0, 0, ErrTruncatedVLQ
		}
		c = uint32(data[n])
		n++
		v = v<<7 | c&0x7F
	}
	return int32(v), n, nil
}

// DecodeUVLQ is DecodeVLQ for values encoded with AppendUVLQ.
func DecodeUVLQ(data []byte) (uint32, int, error) {
	v, n, err := DecodeVLQ(data)
	return uint32(v), n, err
}
