// Package seqnum implements the 32-bit wrapped sequence-number arithmetic
// that lets a TCP endpoint talk about 64-bit absolute stream positions over
// a wire format that only carries 32 bits.
//
// The type follows the same "small wire-sized domain type with a String()
// method" shape soypat/lneto uses for tcp.Flags and tcp.State, but keeps
// exactly the operations the core module needs: wrapping an absolute index
// down to 32 bits, and unwrapping a 32-bit value back up to the absolute
// index nearest some known checkpoint.
package seqnum

import "math"

// Wrap32 is a 32-bit sequence number as it appears on the wire: the low 32
// bits of an absolute stream index offset by a connection's initial
// sequence number (ISN).
type Wrap32 uint32

// span is the modulus of the 32-bit sequence space, 2^32.
const span = uint64(math.MaxUint32) + 1

// Wrap returns the wrapped form of absolute index n relative to isn: the low
// 32 bits of isn+n.
func Wrap(n uint64, isn Wrap32) Wrap32 {
	return isn + Wrap32(uint32(n))
}

// Unwrap returns the absolute 64-bit index whose Wrap(_, isn) equals w and
// which lies closest to checkpoint, the most recently known nearby absolute
// index. Ties (a value exactly as far below checkpoint as another is above)
// are broken in favor of the larger candidate. Unwrap never returns a value
// that would require treating indices as negative.
func (w Wrap32) Unwrap(isn Wrap32, checkpoint uint64) uint64 {
	offset := uint64(uint32(w - isn))
	if offset >= checkpoint {
		return offset
	}

	// The candidate set is {offset + k*span : k >= 0}; the largest candidate
	// not exceeding checkpoint is offset + k*span for k = (checkpoint-offset)/span.
	k := (checkpoint - offset) / span
	lower := offset + k*span
	upper := lower + span

	if checkpoint-lower < upper-checkpoint {
		return lower
	}
	return upper
}

// String implements fmt.Stringer for readable trace/debug output.
func (w Wrap32) String() string {
	return uitoa(uint32(w))
}

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
