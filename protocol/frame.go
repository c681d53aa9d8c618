package protocol

import "bytes"

// AppendFrame appends the encoding of payload under seq to dst.
func AppendFrame(dst []byte, seq uint8, payload []byte) ([]byte, error) {
	if len(payload) > PayloadMax {
		return dst, ErrPayloadTooLarge
	}
	dst = append(dst, Sync)
	start := len(dst)
	dst = append(dst, uint8(len(payload)), seq)
	dst = append(dst, payload...)
	crc := CRC16(dst[start:])
	return append(dst, uint8(crc>>8), uint8(crc)), nil
}

// Next takes the next frame out of in.
//
// Bytes ahead of a sync byte are dropped. ok is false when in holds no
// complete frame yet. A frame with an impossible length or a bad CRC costs
// only its sync byte, so the decoder resynchronises on the next one; the
// error reports the drop and ok is false. The returned payload aliases in
// and is valid until more data is written to it.
func Next(in InputBuffer) (f Frame, ok bool, err error) {
	data := in.Data()
	i := bytes.IndexByte(data, Sync)
	if i < 0 {
		in.Pop(len(data))
		return Frame{}, false, nil
	}
	in.Pop(i)
	data = data[i:]
	if len(data) < 2 {
		return Frame{}, false, nil
	}
	n := int(data[1])
	if n > PayloadMax {
		in.Pop(1)
		return Frame{}, false, ErrBadLength
	}
	total := n + FrameOverhead
	if len(data) < total {
		return Frame{}, false, nil
	}
	body := data[1 : total-2]
	crc := uint16(data[total-2])<<8 | uint16(data[total-1])
	if CRC16(body) != crc {
		in.Pop(1)
		return Frame{}, false, ErrBadCRC
	}
	in.Pop(total)
	return Frame{Seq: data[2], Payload: data[3 : total-2]}, true, nil
}
