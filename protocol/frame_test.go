package protocol

import (
	"bytes"
	"testing"
)

var abc = []byte{Sync, 0x03, 0x07, 'a', 'b', 'c', 0x22, 0x8C}

func TestAppendFrame(t *testing.T) {
	got, err := AppendFrame([]byte{0xEE}, 7, []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[1:], abc) {
		t.Errorf("frame = % x, want % x", got[1:], abc)
	}

	if _, err := AppendFrame(nil, 0, make([]byte, PayloadMax+1)); err != ErrPayloadTooLarge {
		t.Errorf("oversized payload: err = %v", err)
	}
	full, err := AppendFrame(nil, 0, make([]byte, PayloadMax))
	if err != nil || len(full) != FrameMax {
		t.Errorf("largest frame: %d bytes, %v", len(full), err)
	}
}

func TestNext(t *testing.T) {
	in := NewSliceInput(append([]byte{0x00, 0x55}, abc...))
	f, ok, err := Next(in)
	if !ok || err != nil {
		t.Fatalf("Next = %v, %v", ok, err)
	}
	if f.Seq != 7 || string(f.Payload) != "abc" {
		t.Errorf("frame = %+v", f)
	}
	if in.Available() != 0 {
		t.Errorf("%d bytes left", in.Available())
	}
}

func TestNextWaitsForCompleteFrame(t *testing.T) {
	for cut := 0; cut < len(abc); cut++ {
		in := NewSliceInput(abc[:cut])
		if _, ok, err := Next(in); ok || err != nil {
			t.Errorf("cut %d: ok=%v err=%v", cut, ok, err)
		}
		if cut > 0 && in.Available() != cut {
			t.Errorf("cut %d: partial frame dropped", cut)
		}
	}
}

func TestNextResynchronises(t *testing.T) {
	bad := append([]byte(nil), abc...)
	bad[4] ^= 0xFF
	long := []byte{Sync, PayloadMax + 1, 0x00}

	stream := append(append(append([]byte{}, bad...), long...), abc...)
	in := NewSliceInput(stream)

	var errs []error
	var frames []Frame
	for i := 0; i < 20 && in.Available() > 0; i++ {
		f, ok, err := Next(in)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			frames = append(frames, f)
		}
	}
	if len(errs) != 2 || errs[0] != ErrBadCRC || errs[1] != ErrBadLength {
		t.Errorf("errors = %v", errs)
	}
	if len(frames) != 1 || string(frames[0].Payload) != "abc" {
		t.Errorf("frames = %+v", frames)
	}
}

func TestNextThroughRing(t *testing.T) {
	r := NewRing(16)
	two := append(append([]byte(nil), abc...), abc...)
	r.Write(two[:10])
	f, ok, _ := Next(r)
	if !ok || string(f.Payload) != "abc" {
		t.Fatalf("first frame: %v %+v", ok, f)
	}
	r.Write(two[10:])
	f, ok, _ = Next(r)
	if !ok || f.Seq != 7 || string(f.Payload) != "abc" {
		t.Fatalf("wrapped frame: %v %+v", ok, f)
	}
}
