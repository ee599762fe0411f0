// Package fast provides minimal byte buffer wrappers for linear
// serialization paths. The reader performs no bounds checking and panics on
// overruns; callers recover at the codec boundary.
package fast

type Reader struct {
	buf    []byte
	offset int
}

type Writer struct {
	buf []byte
}

// NewReader wraps bb for consuming.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter appends to the provided initial slice. Usually called with
// make([]byte, 0, capacity).
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a byte slice.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Read consumes and returns the next n bytes. The returned slice shares
// memory with the underlying buffer. Panics on overrun.
func (b *Reader) Read(n int) []byte {
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res
}

// ReadByte consumes and returns a single byte. Panics on overrun.
func (b *Reader) ReadByte() byte {
	res := b.buf[b.offset]
	b.offset++
	return res
}

// Position returns the number of consumed bytes.
func (b *Reader) Position() int {
	return b.offset
}

// Bytes returns the underlying buffer.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty reports whether the reader is exhausted.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
