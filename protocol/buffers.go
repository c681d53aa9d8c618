package protocol

import "io"

// InputBuffer is the byte source Next decodes from.
type InputBuffer interface {
	// Data returns the buffered bytes, oldest first.
	Data() []byte

	// Available returns the number of buffered bytes.
	Available() int

	// Pop drops n bytes from the front.
	Pop(n int)
}

// SliceInput is an InputBuffer over a fixed slice.
type SliceInput struct {
	data []byte
}

func NewSliceInput(data []byte) *SliceInput {
	return &SliceInput{data: data}
}

func (s *SliceInput) Data() []byte   { return s.data }
func (s *SliceInput) Available() int { return len(s.data) }

func (s *SliceInput) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// Ring is a circular byte buffer between a serial port and the decoder. It
// holds at most capacity-1 bytes.
type Ring struct {
	buf   []byte
	read  int
	write int
	size  int
}

func NewRing(capacity int) *Ring {
	return &Ring{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends as much of data as fits and returns the count.
func (r *Ring) Write(data []byte) int {
	written := 0
	for _, b := range data {
		next := (r.write + 1) % r.size
		if next == r.read {
			break
		}
		r.buf[r.write] = b
		r.write = next
		written++
	}
	return written
}

// Fill does one Read from src into the free space.
func (r *Ring) Fill(src io.Reader) (int, error) {
	free := r.Free()
	if free == 0 {
		return 0, nil
	}
	end := r.size
	if r.read > r.write {
		end = r.read - 1
	} else if r.read == 0 {
		end = r.size - 1
	}
	n, err := src.Read(r.buf[r.write:end])
	r.write = (r.write + n) % r.size
	return n, err
}

// Read copies up to len(data) bytes out of the ring.
func (r *Ring) Read(data []byte) int {
	n := 0
	for i := range data {
		if r.read == r.write {
			break
		}
		data[i] = r.buf[r.read]
		r.read = (r.read + 1) % r.size
		n++
	}
	return n
}

func (r *Ring) Available() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return r.size - r.read + r.write
}

// Free returns how many more bytes fit.
func (r *Ring) Free() int {
	return r.size - r.Available() - 1
}

// Data returns the buffered bytes. When they wrap around the end of the
// storage they are copied into a fresh slice.
func (r *Ring) Data() []byte {
	if r.read <= r.write {
		return r.buf[r.read:r.write]
	}
	out := make([]byte, r.Available())
	first := copy(out, r.buf[r.read:])
	copy(out[first:], r.buf[:r.write])
	return out
}

func (r *Ring) Pop(n int) {
	if avail := r.Available(); n > avail {
		n = avail
	}
	r.read = (r.read + n) % r.size
}

func (r *Ring) IsEmpty() bool { return r.read == r.write }

func (r *Ring) Reset() {
	r.read = 0
	r.write = 0
}
