package inter

import (
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// Timestamp is a block/transaction time in Unix nanoseconds.
type Timestamp uint64

// FromTime converts a standard library time into a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts the Timestamp back into a standard library time.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t))
}

// Bytes returns the big-endian encoding of the Timestamp.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

// MaxTimestamp returns the greater of x and y.
func MaxTimestamp(x, y Timestamp) Timestamp {
	if x > y {
		return x
	}
	return y
}
