// Package reassembler turns a stream of possibly out-of-order, possibly
// overlapping byte ranges into the in-order byte stream a TCP receiver
// ultimately delivers to an application.
//
// The merge algorithm follows the C++ reference reassembler in
// original_source/: ranges that arrive before their turn are cached; each
// cached range that overlaps or merely touches another is coalesced into a
// single run so the cache never holds more entries than there are genuine
// gaps in the stream.
package reassembler

import "github.com/soypat/tcpcore/bytestream"

// Reassembler accepts byte ranges addressed by absolute stream index and
// writes them, in order, to an output ByteStream. It is not safe for
// concurrent use.
type Reassembler struct {
	out *bytestream.ByteStream

	// expecting is the absolute index of the next byte the output stream
	// has not yet received.
	expecting uint64

	// pending holds out-of-order ranges sorted by index, no two of which
	// overlap or touch (Insert keeps this invariant by merging on arrival).
	pending []span

	bytesPending int
}

type span struct {
	index  uint64
	data   []byte
	isLast bool
}

// New returns a Reassembler that writes reassembled bytes to out.
func New(out *bytestream.ByteStream) *Reassembler {
	return &Reassembler{out: out}
}

// BytesPending returns the number of bytes currently held in the
// out-of-order cache, waiting on a gap to be filled.
func (r *Reassembler) BytesPending() int { return r.bytesPending }

// Insert delivers a byte range [firstIndex, firstIndex+len(data)) to the
// reassembler. isLast marks data as containing the final byte of the
// stream. Insert takes ownership of data: callers must not retain or
// mutate the slice afterwards.
//
// Ranges that arrive entirely beyond what the output stream has capacity
// for are dropped; ranges that arrive partially beyond that point are
// silently truncated (and can no longer carry the end-of-stream marker,
// since there is more stream beyond what was kept). A stream that has
// already seen its last byte, or whose output is already closed, ignores
// all further calls.
func (r *Reassembler) Insert(firstIndex uint64, data []byte, isLast bool) {
	if r.out.Closed() || r.out.Remaining() == 0 {
		return
	}
	unacceptable := r.expecting + uint64(r.out.Remaining())
	if firstIndex >= unacceptable {
		return
	}
	if firstIndex+uint64(len(data)) > unacceptable {
		isLast = false
		data = data[:unacceptable-firstIndex]
	}

	if firstIndex > r.expecting {
		r.cache(firstIndex, data, isLast)
	} else {
		r.push(firstIndex, data, isLast)
	}
	r.flush()
}

// push writes data (trimming any prefix already delivered) directly to the
// output stream and advances expecting past it.
func (r *Reassembler) push(firstIndex uint64, data []byte, isLast bool) {
	if firstIndex < r.expecting {
		skip := r.expecting - firstIndex
		if skip > uint64(len(data)) {
			skip = uint64(len(data))
		}
		data = data[skip:]
	}
	r.expecting += uint64(len(data))
	if len(data) > 0 {
		r.out.Write(data)
	}
	if isLast {
		r.out.Close()
		r.pending = nil
		r.bytesPending = 0
	}
}

// cache merges an out-of-order range into the pending set, absorbing any
// existing entries it overlaps or touches.
func (r *Reassembler) cache(firstIndex uint64, data []byte, isLast bool) {
	start := firstIndex
	end := firstIndex + uint64(len(data))
	merged := data

	kept := make([]span, 0, len(r.pending))
	for _, s := range r.pending {
		sStart, sEnd := s.index, s.index+uint64(len(s.data))
		if sEnd < start || sStart > end {
			// Disjoint and not touching: s is unaffected by this insert.
			kept = append(kept, s)
			continue
		}
		isLast = isLast || s.isLast
		r.bytesPending -= len(s.data)
		if sStart < start {
			prefix := append([]byte(nil), s.data[:start-sStart]...)
			merged = append(prefix, merged...)
			start = sStart
		}
		if sEnd > end {
			merged = append(merged, s.data[end-sStart:]...)
			end = sEnd
		}
	}

	pos := 0
	for pos < len(kept) && kept[pos].index < start {
		pos++
	}
	kept = append(kept, span{})
	copy(kept[pos+1:], kept[pos:])
	kept[pos] = span{index: start, data: merged, isLast: isLast}

	r.pending = kept
	r.bytesPending += len(merged)
}

// flush pushes any pending ranges that have become contiguous with
// expecting, in order, until the next gap.
func (r *Reassembler) flush() {
	for len(r.pending) > 0 && r.pending[0].index <= r.expecting {
		next := r.pending[0]
		r.pending = r.pending[1:]
		r.bytesPending -= len(next.data)
		r.push(next.index, next.data, next.isLast)
	}
}
