// Package cser implements a strict canonical binary encoding.
//
// Values are split across two streams: raw bytes go to a byte stream while
// booleans and byte-length fields go to an unaligned bit stream. The two
// streams are packed into one blob with a reversed varint suffix carrying
// the bit-stream length. Decoding enforces canonicity: every value must be
// packed minimally, trailing bits must be zero, and both streams must be
// fully consumed. Block headers and transaction signing payloads are hashed
// over this encoding, so any two encoders must agree byte for byte.
package cser

import (
	"github.com/dxid-chain/go-dxid/utils/bits"
	"github.com/dxid-chain/go-dxid/utils/fast"
)

// MarshalBinaryAdapter runs marshalCser against a fresh Writer and packs
// both streams into the final blob.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()
	err := marshalCser(w)
	if err != nil {
		return nil, err
	}
	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

// binaryFromCSER packs the byte stream and the bit stream into one blob:
// [body bytes] [bit-stream bytes] [reversed varint bit-stream length].
// The length suffix is reversed so the decoder can scan backwards from the
// end of the blob.
func binaryFromCSER(bbits *bits.Array, bbytes []byte) (raw []byte, err error) {
	bodyBytes := fast.NewWriter(bbytes)
	bodyBytes.Write(bbits.Bytes)

	sizeWriter := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(sizeWriter, uint64(len(bbits.Bytes)))
	bodyBytes.Write(reversed(sizeWriter.Bytes()))

	return bodyBytes.Bytes(), nil
}

// binaryToCSER splits a blob back into its bit and byte streams.
func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	bitsSizeBuf := reversed(tail(raw, 9))
	bitsSizeReader := fast.NewReader(bitsSizeBuf)
	bitsSize := readUint64Compact(bitsSizeReader)

	raw = raw[:len(raw)-bitsSizeReader.Position()]
	if uint64(len(raw)) < bitsSize {
		err = ErrMalformedEncoding
		return
	}

	bbits = &bits.Array{Bytes: raw[uint64(len(raw))-bitsSize:]}
	bbytes = raw[:uint64(len(raw))-bitsSize]
	return
}

// UnmarshalBinaryAdapter splits raw and runs unmarshalCser against the
// resulting Reader. Primitive decoders panic on malformed input; the panic
// is converted to ErrMalformedEncoding here.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	bodyReader := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}

	err = unmarshalCser(bodyReader)
	if err != nil {
		return err
	}

	// strict mode: both streams must be fully consumed and trailing bits zero
	if bodyReader.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	tail := bodyReader.BitsR.Read(bodyReader.BitsR.NonReadBits())
	if tail != 0 {
		return ErrNonCanonicalEncoding
	}
	if !bodyReader.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}

	return nil
}

// tail returns the last cap bytes of b, or all of b if shorter.
func tail(b []byte, cap int) []byte {
	if len(b) > cap {
		return b[len(b)-cap:]
	}
	return b
}

// reversed returns a new slice with the bytes of b in reverse order.
func reversed(b []byte) []byte {
	reversed := make([]byte, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}
	return reversed
}
