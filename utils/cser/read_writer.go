package cser

import (
	"errors"
	"math/big"

	"github.com/dxid-chain/go-dxid/utils/bits"
	"github.com/dxid-chain/go-dxid/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	ErrMalformedEncoding    = errors.New("malformed encoding")
	ErrTooLargeAlloc        = errors.New("too large allocation")
)

// MaxAlloc bounds decoded slice sizes to prevent OOM on hostile input.
const MaxAlloc = 100 * 1024

// Writer orchestrates writing into the two CSER streams.
type Writer struct {
	BitsW  *bits.Writer // booleans and length prefixes
	BytesW *fast.Writer // raw value bytes
}

// Reader orchestrates reading from the two CSER streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter creates a ready-to-use CSER writer.
func NewWriter() *Writer {
	bbits := &bits.Array{Bytes: make([]byte, 0, 32)}
	bbytes := make([]byte, 0, 200)
	return &Writer{
		BitsW:  bits.NewWriter(bbits),
		BytesW: fast.NewWriter(bbytes),
	}
}

// writeUint64Compact encodes v as a varint with inverted continuation logic:
// the MSB of a chunk set means STOP. Used only for the blob length suffix.
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for i := 0; ; i++ {
		chunk := v & 0b01111111
		v = v >> 7
		if v == 0 {
			chunk |= 0b10000000
		}
		bytesW.WriteByte(byte(chunk))
		if v == 0 {
			break
		}
	}
}

func readUint64Compact(bytesR *fast.Reader) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadByte())
		stop = (chunk & 0b10000000) != 0
		word := chunk & 0b01111111
		v |= word << (i * 7)

		// the most significant chunk must carry data
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v little-endian using the minimal number of
// bytes, but at least minSize. Returns the number of bytes written.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v = v >> 8
	}
	return
}

func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	buf := bytesR.Read(size)
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
		last = b
	}

	// a zero most significant byte means the value was padded
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}

	return v
}

// readU64_bits reads the byte count from the bit stream, then the value
// bytes from the byte stream.
func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	size += uint(minSize)
	return readUint64BitCompact(r.BytesR, int(size))
}

// writeU64_bits writes the value bytes to the byte stream and the size
// offset to the bit stream.
func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

// U8 writes a single byte.
func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

// U16 writes a uint16 in 1-2 bytes, 1 size bit.
func (w *Writer) U16(v uint16) {
	w.writeU64_bits(1, 1, uint64(v))
}

func (r *Reader) U16() uint16 {
	v64 := r.readU64_bits(1, 1)
	return uint16(v64)
}

// U32 writes a uint32 in 1-4 bytes, 2 size bits.
func (w *Writer) U32(v uint32) {
	w.writeU64_bits(1, 2, uint64(v))
}

func (r *Reader) U32() uint32 {
	v64 := r.readU64_bits(1, 2)
	return uint32(v64)
}

// U64 writes a uint64 in 1-8 bytes, 3 size bits.
func (w *Writer) U64(v uint64) {
	w.writeU64_bits(1, 3, v)
}

func (r *Reader) U64() uint64 {
	return r.readU64_bits(1, 3)
}

// VarUint is an alias of the U64 encoding, used for counts.
func (r *Reader) VarUint() uint64 {
	return r.readU64_bits(1, 3)
}

func (w *Writer) VarUint(v uint64) {
	w.writeU64_bits(1, 3, v)
}

// I64 writes a sign bit to the bit stream and the absolute value as U64.
func (w *Writer) I64(v int64) {
	w.Bool(v < 0)
	if v < 0 {
		w.U64(uint64(-v))
	} else {
		w.U64(uint64(v))
	}
}

func (r *Reader) I64() int64 {
	neg := r.Bool()
	abs := r.U64()

	// negative zero is non-canonical
	if neg && abs == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	if neg {
		return -int64(abs)
	}
	return int64(abs)
}

// U56 writes a value of up to 7 bytes, used for slice lengths.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("value too big")
	}
	w.writeU64_bits(0, 3, v)
}

func (r *Reader) U56() uint64 {
	return r.readU64_bits(0, 3)
}

// Bool writes a single bit to the bit stream.
func (w *Writer) Bool(v bool) {
	u8 := uint(0)
	if v {
		u8 = 1
	}
	w.BitsW.Write(1, u8)
}

func (r *Reader) Bool() bool {
	u8 := r.BitsR.Read(1)
	return u8 != 0
}

// FixedBytes writes raw bytes without a length prefix.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

func (r *Reader) FixedBytes(v []byte) {
	buf := r.BytesR.Read(len(v))
	copy(v, buf)
}

// SliceBytes writes a U56 length prefix followed by the raw bytes.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

// PaddedBytes left-pads b with zeroes to at least n bytes.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padding := make([]byte, n-len(b))
	return append(padding, b...)
}

// BigInt writes the big-endian magnitude as a byte slice. Only non-negative
// values are supported; amounts in this codebase are unsigned.
func (w *Writer) BigInt(v *big.Int) {
	bigBytes := []byte{}
	if v.Sign() != 0 {
		bigBytes = v.Bytes()
	}
	w.SliceBytes(bigBytes)
}

func (r *Reader) BigInt() *big.Int {
	buf := r.SliceBytes(512)
	if len(buf) == 0 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}
