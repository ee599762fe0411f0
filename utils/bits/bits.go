// Package bits implements an unaligned bit-stream reader and writer.
// It backs the side channel of the CSER canonical encoding, where boolean
// flags and small length fields are packed tighter than byte granularity.
package bits

type (
	// Array is the backing byte slice of a bit stream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bits to an Array.
	Writer struct {
		*Array
		bitOffset int // next bit to write within the last byte, 0-7
	}

	// Reader consumes bits from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int
	}
)

// NewWriter wraps arr for appending.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader wraps arr for consuming.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

func (a *Writer) byteBitsFree() int {
	return 8 - a.bitOffset
}

func (a *Writer) writeIntoLastByte(v uint) {
	a.Bytes[len(a.Bytes)-1] |= byte(v << a.bitOffset)
}

// zeroTopByteBits clears the top bits count of the lowest byte of v.
func zeroTopByteBits(v uint, bits int) uint {
	mask := uint(0xff) >> bits
	return v & mask
}

// Write appends the lowest bits count of v to the stream.
func (a *Writer) Write(bits int, v uint) {
	if a.bitOffset == 0 {
		a.Bytes = append(a.Bytes, byte(0))
	}

	free := a.byteBitsFree()
	if bits <= free {
		toWrite := bits
		a.writeIntoLastByte(v)
		if toWrite == free {
			a.bitOffset = 0
		} else {
			a.bitOffset += toWrite
		}
	} else {
		// value spills into the next byte: fill what fits, recurse for the rest
		toWrite := free
		clear := a.bitOffset
		a.writeIntoLastByte(zeroTopByteBits(v, clear))
		a.bitOffset = 0
		a.Write(bits-toWrite, v>>toWrite)
	}
}

func (a *Reader) byteBitsFree() int {
	return 8 - a.bitOffset
}

// Read consumes bits count from the stream and returns them as an integer.
// Panics if the stream is exhausted.
func (a *Reader) Read(bits int) (v uint) {
	if bits == 0 {
		return 0
	}

	free := a.byteBitsFree()
	if bits <= free {
		toRead := bits
		clear := 8 - (a.bitOffset + toRead)
		v = zeroTopByteBits(uint(a.Bytes[a.byteOffset]), clear) >> a.bitOffset
		if toRead == free {
			a.bitOffset = 0
			a.byteOffset++
		} else {
			a.bitOffset += toRead
		}
	} else {
		// spans two or more bytes: take the tail of this byte, recurse for the rest
		toRead := free
		v = uint(a.Bytes[a.byteOffset]) >> a.bitOffset
		a.bitOffset = 0
		a.byteOffset++
		rest := a.Read(bits - toRead)
		v |= rest << toRead
	}
	return
}

// View reads the next bits count without advancing the cursor.
func (a *Reader) View(bits int) (v uint) {
	cp := *a
	return (&cp).Read(bits)
}

// NonReadBytes returns the number of bytes not yet fully consumed.
func (a *Reader) NonReadBytes() int {
	return len(a.Bytes) - a.byteOffset
}

// NonReadBits returns the number of bits not yet consumed.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
