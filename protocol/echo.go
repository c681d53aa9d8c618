package protocol

import "io"

// Echoer is the board side of the link: every valid frame it reads is
// written back unchanged.
type Echoer struct {
	ring *Ring
	out  [FrameMax]byte

	// Dropped counts frames discarded for a bad length or CRC.
	Dropped int
}

// NewEchoer returns an Echoer buffering up to capacity-1 unread bytes.
// capacity must exceed FrameMax.
func NewEchoer(capacity int) *Echoer {
	if capacity <= FrameMax {
		panic("protocol: echo buffer smaller than a frame")
	}
	return &Echoer{ring: NewRing(capacity)}
}

// Poll does one read from src and echoes every frame completed by it to
// dst. Read errors other than io.EOF are returned after the buffered frames
// have been answered.
func (e *Echoer) Poll(src io.Reader, dst io.Writer) error {
	_, rerr := e.ring.Fill(src)
	for {
		f, ok, err := Next(e.ring)
		if err != nil {
			e.Dropped++
			continue
		}
		if !ok {
			break
		}
		frame, _ := AppendFrame(e.out[:0], f.Seq, f.Payload)
		if _, err := dst.Write(frame); err != nil {
			return err
		}
	}
	if rerr == io.EOF {
		return nil
	}
	return rerr
}
