package json

import "io"

// defaultReadSize is the increment a file-backed byteSource grows its read
// buffer by, per spec.md §4.2.
const defaultReadSize = 8192

// byteSource is the uniform "peek N, advance K" view spec.md §4.2 requires
// over either a fixed in-memory buffer or a refillable reader. A slice
// returned by peek is stable only until the next call to peek.
type byteSource interface {
	// peek returns a slice starting at the current logical offset with at
	// least minBytes available, unless EOF is reached first, in which
	// case it returns whatever remains (possibly fewer than minBytes, or
	// empty at true EOF).
	peek(minBytes int) ([]byte, error)
	// advance moves the logical cursor forward by n, which must not
	// exceed the length of the most recently returned peek slice.
	advance(n int)
	// offset reports the current logical cursor position.
	offset() int64
}

// memorySource is a byteSource over a fixed, already fully-buffered slice.
// peek never blocks and never fails.
type memorySource struct {
	buf []byte
	pos int
}

func newMemorySource(buf []byte) *memorySource {
	return &memorySource{buf: buf}
}

func (m *memorySource) peek(minBytes int) ([]byte, error) {
	return m.buf[m.pos:], nil
}

func (m *memorySource) advance(n int) { m.pos += n }

func (m *memorySource) offset() int64 { return int64(m.pos) }

// fileSource is a byteSource over an io.Reader with a growable, compacting
// read buffer, grounded on the fill/shift/chomp pattern of
// SnellerInc-sneller's jsonrl reader (see DESIGN.md).
type fileSource struct {
	r        io.Reader
	readSize int
	buf      []byte // buf[pos:len(buf)] is the unconsumed window
	pos      int
	flushed  int64 // bytes permanently discarded by prior compactions
	eof      bool
}

func newFileSource(r io.Reader, readSize int) *fileSource {
	if readSize <= 0 {
		readSize = defaultReadSize
	}
	return &fileSource{r: r, readSize: readSize, buf: make([]byte, 0, readSize)}
}

func (f *fileSource) offset() int64 { return f.flushed + int64(f.pos) }

// compact slides the unconsumed window to the front of buf, invalidating
// any slice a caller obtained from a previous peek.
func (f *fileSource) compact() {
	if f.pos == 0 {
		return
	}
	n := copy(f.buf, f.buf[f.pos:])
	f.buf = f.buf[:n]
	f.flushed += int64(f.pos)
	f.pos = 0
}

func (f *fileSource) grow(need int) {
	if cap(f.buf) >= need {
		return
	}
	newCap := cap(f.buf) * 2
	if newCap < need {
		newCap = need
	}
	next := make([]byte, len(f.buf), newCap)
	copy(next, f.buf)
	f.buf = next
}

func (f *fileSource) peek(minBytes int) ([]byte, error) {
	for !f.eof && len(f.buf)-f.pos < minBytes {
		f.compact()
		want := f.pos + minBytes
		if want < len(f.buf)+f.readSize {
			want = len(f.buf) + f.readSize
		}
		f.grow(want)
		n, err := f.r.Read(f.buf[len(f.buf):cap(f.buf)])
		f.buf = f.buf[:len(f.buf)+n]
		if err != nil {
			if err == io.EOF {
				f.eof = true
			} else {
				return nil, ioErrorAt(f.offset(), "read failed: %v", err)
			}
		}
		if n == 0 && !f.eof {
			// A conforming io.Reader either returns n>0 or an error;
			// treat a persistent zero-byte, nil-error read as EOF to
			// avoid spinning, per the documented Read contract caveat.
			f.eof = true
		}
	}
	return f.buf[f.pos:], nil
}

func (f *fileSource) advance(n int) { f.pos += n }
