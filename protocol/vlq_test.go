package protocol

import (
	"bytes"
	"testing"
)

func TestAppendVLQ(t *testing.T) {
	tests := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{95, []byte{0x5F}},
		{-1, []byte{0x7F}},
		{-32, []byte{0x60}},
		{127, []byte{0x80, 0x7F}},
		{1000, []byte{0x87, 0x68}},
	}
	for _, tt := range tests {
		if got := AppendVLQ(nil, tt.v); !bytes.Equal(got, tt.want) {
			t.Errorf("AppendVLQ(%d) = %x, want %x", tt.v, got, tt.want)
		}
	}
}

func TestVLQRoundTrip(t *testing.T) {
	values := []int32{
		0, 1, -1, 95, 96, -32, -33, 127, -127, 128, -128,
		1000, -1000, 65535, -65535, 1000000, -1000000,
		1<<31 - 1, -1 << 31,
	}
	for _, v := range values {
		enc := AppendVLQ([]byte{0xAA}, v)[1:]
		got, n, err := DecodeVLQ(enc)
		if err != nil || got != v || n != len(enc) {
			t.Errorf("%d: decoded %d, %d of %d bytes, %v", v, got, n, len(enc), err)
		}
	}
	for _, v := range []uint32{0, 127, 128, 1 << 20, 1<<32 - 1} {
		got, _, err := DecodeUVLQ(AppendUVLQ(nil, v))
		if err != nil || got != v {
			t.Errorf("%d: decoded %d, %v", v, got, err)
		}
	}
}

func TestDecodeVLQStopsAtLastByte(t *testing.T) {
	data := append(AppendVLQ(nil, 1000), AppendVLQ(nil, -5)...)
	a, n, err := DecodeVLQ(data)
	if err != nil || a != 1000 || n != 2 {
		t.Fatalf("first = %d, %d, %v", a, n, err)
	}
	b, _, err := DecodeVLQ(data[n:])
	if err != nil || b != -5 {
		t.Fatalf("second = %d, %v", b, err)
	}
}

func TestDecodeVLQTruncated(t *testing.T) {
	for _, data := range [][]byte{nil, {0x80}, {0x87, 0x80}} {
		if _, _, err := DecodeVLQ(data); err != ErrTruncatedVLQ {
			t.Errorf("%x: err = %v, want ErrTruncatedVLQ", data, err)
		}
	}
}
