package tcpendpoint

import (
	"log/slog"
	"math"

	"github.com/soypat/tcpcore/bytestream"
	"github.com/soypat/tcpcore/internal/xlog"
	"github.com/soypat/tcpcore/reassembler"
	"github.com/soypat/tcpcore/seqnum"
)

// Receiver turns a stream of inbound segments into bytes delivered, in
// order, to an output ByteStream, tracking the sequence-space bookkeeping
// needed to generate acknowledgements for the peer's Sender.
//
// Receiver is grounded on the reference tcp_receiver behavior: it is
// deliberately simpler than a full RFC 9293 state machine, since it only
// ever needs to track whether a SYN has been seen and whether the stream
// has reached its final byte.
type Receiver struct {
	xlog.Logger

	out       *bytestream.ByteStream
	asm       *reassembler.Reassembler
	zeroPoint seqnum.Wrap32
	connected bool
	ack       uint64
}

// NewReceiver returns a Receiver that reassembles inbound segments into out.
func NewReceiver(out *bytestream.ByteStream) *Receiver {
	return &Receiver{out: out, asm: reassembler.New(out)}
}

// Receive processes one inbound segment from the peer's Sender.
func (r *Receiver) Receive(msg SenderMessage) {
	if msg.RST {
		r.out.SetError(errPeerReset)
		r.Error("receiver: peer reset", slog.Int("payload", len(msg.Payload)))
		return
	}
	if !r.connected && !msg.SYN {
		r.Trace("receiver: dropping segment before SYN")
		return
	}
	if msg.SYN {
		r.connected = true
		r.zeroPoint = msg.Seqno
	}

	absSeqno := msg.Seqno.Unwrap(r.zeroPoint, r.out.BytesWritten())
	streamIndex := absSeqno - 1
	if msg.SYN {
		streamIndex++
	}

	r.asm.Insert(streamIndex, msg.Payload, msg.FIN)

	r.ack = r.out.BytesWritten() + 1
	if r.out.Closed() {
		r.ack++
	}
	r.Trace("receiver: segment processed",
		slog.Uint64("stream_index", streamIndex),
		slog.Uint64("ack", r.ack))
}

// Send returns the acknowledgement the host should relay to the peer's
// Sender: the next expected sequence number, the receive window, and
// whether this stream has hit an unrecoverable error.
func (r *Receiver) Send() ReceiverMessage {
	window := r.out.Remaining()
	if window > math.MaxUint16 {
		window = math.MaxUint16
	}
	msg := ReceiverMessage{
		Window: uint16(window),
		RST:    r.out.Error() != nil,
	}
	if r.connected {
		msg.Ackno = seqnum.Wrap(r.ack, r.zeroPoint)
		msg.HasAck = true
	}
	return msg
}

// Connected reports whether a SYN has been observed.
func (r *Receiver) Connected() bool { return r.connected }
