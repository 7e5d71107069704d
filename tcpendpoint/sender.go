package tcpendpoint

import (
	"log/slog"

	"github.com/soypat/tcpcore/bytestream"
	"github.com/soypat/tcpcore/internal/xlog"
	"github.com/soypat/tcpcore/seqnum"
)

// MaxPayloadSize is the default cap on bytes carried per segment, the same
// role TCPConfig::MAX_PAYLOAD_SIZE plays in the reference implementation.
const MaxPayloadSize = 1452

// MetricsSink receives point-in-time counters from a Sender. Implementations
// must tolerate being called frequently and must not block; tcpmetrics.Recorder
// is the production implementation.
type MetricsSink interface {
	SegmentSent(seqLen int)
	Retransmission()
	BytesInFlight(n int)
	RTO(ms uint64)
}

// Sender drains an input ByteStream into outbound segments sized to the
// peer's advertised window and MaxPayloadSize, retransmitting on a
// doubling-backoff timer until the peer acknowledges.
type Sender struct {
	xlog.Logger

	in      *bytestream.ByteStream
	isn     seqnum.Wrap32
	maxPay  int
	metrics MetricsSink

	wndSize    uint64
	nextSeqno  uint64
	ackedSeqno uint64

	finFlag bool // FIN is due to be sent once it fits in the window
	synSent bool
	finSent bool

	timer       retransmissionTimer
	retransCnt  uint64
	outstanding []SenderMessage
	inFlight    int
}

// NewSender returns a Sender draining in, starting at sequence number isn,
// with the given initial retransmission timeout in milliseconds. A
// maxPayload of 0 selects MaxPayloadSize.
func NewSender(in *bytestream.ByteStream, isn seqnum.Wrap32, initialRTOms uint64, maxPayload int) *Sender {
	if maxPayload <= 0 {
		maxPayload = MaxPayloadSize
	}
	return &Sender{
		in:      in,
		isn:     isn,
		maxPay:  maxPayload,
		wndSize: 1,
		timer:   newRetransmissionTimer(initialRTOms),
	}
}

// SetMetrics attaches a metrics sink. Passing nil disables metrics
// reporting; the zero value of Sender already behaves this way.
func (s *Sender) SetMetrics(m MetricsSink) { s.metrics = m }

// SequenceNumbersInFlight returns the number of sequence numbers sent but
// not yet acknowledged.
func (s *Sender) SequenceNumbersInFlight() int { return s.inFlight }

// ConsecutiveRetransmissions returns the number of retransmissions sent
// since the last genuinely new acknowledgement.
func (s *Sender) ConsecutiveRetransmissions() uint64 { return s.retransCnt }

func (s *Sender) report(seg SenderMessage) {
	if s.metrics == nil {
		return
	}
	s.metrics.SegmentSent(seg.SequenceLength())
	s.metrics.BytesInFlight(s.inFlight)
	s.metrics.RTO(s.timer.rto)
}

func (s *Sender) makeMessage(seqno uint64, payload []byte, syn, fin bool) SenderMessage {
	return SenderMessage{
		Seqno:   seqnum.Wrap(seqno, s.isn),
		SYN:     syn,
		Payload: payload,
		FIN:     fin,
		RST:     s.in.Error() != nil,
	}
}

// MakeEmptyMessage returns a zero-payload segment at the current send
// sequence number, for use as a bare keepalive/probe. It is not recorded in
// outstanding.
func (s *Sender) MakeEmptyMessage() SenderMessage {
	return s.makeMessage(s.nextSeqno, nil, false, false)
}

// Push emits segments for every byte currently available in the input
// stream (and the SYN/FIN flags as they become due), subject to the peer's
// advertised window, calling transmit once per segment generated.
func (s *Sender) Push(transmit func(SenderMessage)) {
	if s.in.Finished() {
		s.finFlag = true
	}
	if s.finSent {
		return
	}

	window := s.wndSize
	if window == 0 {
		window = 1
	}

	for uint64(s.inFlight) < window && !s.finSent {
		syn := !s.synSent
		avail := s.in.Peek()
		if s.synSent && len(avail) == 0 && !s.finFlag {
			break // nothing left to send and FIN isn't due yet
		}

		synMargin := 0
		if syn {
			synMargin = 1
		}
		room := int(window) - s.inFlight - synMargin
		room = min(room, s.maxPay)

		var payload []byte
		if room > 0 && len(avail) > 0 {
			take := min(room, len(avail))
			payload = append([]byte(nil), avail[:take]...)
			s.in.Pop(take)
			if s.in.Finished() {
				s.finFlag = true
			}
		}

		seg := s.makeMessage(s.nextSeqno, payload, syn, false)
		if s.finFlag && seg.SequenceLength()+1+s.inFlight <= int(window) {
			seg.FIN = true
			s.finSent = true
		}

		s.outstanding = append(s.outstanding, seg)

		correctLength := seg.SequenceLength()
		s.inFlight += correctLength
		s.nextSeqno += uint64(correctLength)
		s.synSent = true

		transmit(seg)
		s.report(seg)
		s.Trace("sender: segment emitted",
			slog.Int("len", correctLength),
			slog.Bool("syn", seg.SYN),
			slog.Bool("fin", seg.FIN))

		if correctLength != 0 {
			s.timer.Activate()
		}
	}
}

// Receive processes an acknowledgement from the peer's Receiver.
func (s *Sender) Receive(msg ReceiverMessage) {
	s.wndSize = uint64(msg.Window)
	if !msg.HasAck {
		if msg.Window == 0 {
			s.in.SetError(errZeroWindowNoAck)
		}
		return
	}

	absAck := msg.Ackno.Unwrap(s.isn, s.nextSeqno)
	if absAck > s.nextSeqno {
		return
	}

	acked := false
	for len(s.outstanding) > 0 {
		head := s.outstanding[0]
		length := head.SequenceLength()
		finalSeqno := s.ackedSeqno + uint64(length)
		if absAck <= s.ackedSeqno || absAck < finalSeqno {
			break
		}
		acked = true
		s.inFlight -= length
		s.ackedSeqno += uint64(length)
		s.outstanding = s.outstanding[1:]
	}

	if acked {
		if len(s.outstanding) == 0 {
			s.timer.ResetToInitial()
		} else {
			s.timer.RestartActive()
		}
		s.retransCnt = 0
		s.Trace("sender: ack advanced", slog.Uint64("acked_seqno", s.ackedSeqno))
	}
}

// Tick advances elapsed time on the retransmission timer by deltaMs and,
// if it has expired, retransmits the oldest outstanding segment through
// transmit.
func (s *Sender) Tick(deltaMs uint64, transmit func(SenderMessage)) {
	s.timer.Tick(deltaMs)
	if !s.timer.Expired() {
		return
	}
	if len(s.outstanding) == 0 {
		s.timer.Deactivate()
		return
	}
	transmit(s.outstanding[0])
	if s.wndSize == 0 {
		s.timer.ResetElapsed()
	} else {
		s.timer.BackOff()
	}
	s.retransCnt++
	if s.metrics != nil {
		s.metrics.Retransmission()
		s.metrics.RTO(s.timer.rto)
	}
	s.Debug("sender: retransmit",
		slog.Uint64("rto_ms", s.timer.rto),
		slog.Uint64("consecutive", s.retransCnt))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
