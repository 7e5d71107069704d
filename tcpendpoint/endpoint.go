package tcpendpoint

import (
	"log/slog"

	"github.com/rs/xid"
	"github.com/soypat/tcpcore/bytestream"
	"github.com/soypat/tcpcore/seqnum"
)

// Config groups the parameters a host supplies when opening an Endpoint.
type Config struct {
	// Capacity is the size, in bytes, of both the inbound reassembly
	// buffer and the outbound send buffer.
	Capacity int
	// ISN is the initial sequence number this endpoint's Sender uses.
	// The peer's ISN is learned from its SYN and does not need to be
	// configured here.
	ISN seqnum.Wrap32
	// InitialRTOMillis seeds the Sender's retransmission timer.
	InitialRTOMillis uint64
	// MaxPayloadSize caps bytes per outbound segment; 0 selects
	// tcpendpoint.MaxPayloadSize.
	MaxPayloadSize int
}

// Endpoint pairs a Sender and a Receiver that share a host-facing pair of
// byte streams, the same facade role tcp.Conn plays above tcp.ControlBlock
// in soypat/lneto: Sender and Receiver remain fully usable on their own, but
// most hosts want the pair wired together with one session identity and one
// logger.
type Endpoint struct {
	ID       xid.ID
	Sender   *Sender
	Receiver *Receiver

	// Outbound is what the application writes to be sent to the peer.
	// Inbound is what the application reads, reassembled from the peer.
	Outbound *bytestream.ByteStream
	Inbound  *bytestream.ByteStream
}

// NewEndpoint constructs the byte streams, Sender, and Receiver described
// by cfg, tagging the pair with a fresh session id.
func NewEndpoint(cfg Config) (*Endpoint, error) {
	outbound, err := bytestream.NewByteStream(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	inbound, err := bytestream.NewByteStream(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	ep := &Endpoint{
		ID:       xid.New(),
		Sender:   NewSender(outbound, cfg.ISN, cfg.InitialRTOMillis, cfg.MaxPayloadSize),
		Receiver: NewReceiver(inbound),
		Outbound: outbound,
		Inbound:  inbound,
	}
	return ep, nil
}

// SetLogger attaches log to both the Sender and Receiver, prefixing every
// record with this endpoint's session id so a host running many concurrent
// endpoints can correlate trace output per connection.
func (e *Endpoint) SetLogger(log *slog.Logger) {
	if log != nil {
		log = log.With(slog.String("session", e.ID.String()))
	}
	e.Sender.SetLogger(log)
	e.Receiver.SetLogger(log)
}

// SetMetrics attaches a metrics sink to the Endpoint's Sender.
func (e *Endpoint) SetMetrics(m MetricsSink) { e.Sender.SetMetrics(m) }
