// Package tcpendpoint implements the in-memory sender and receiver halves
// of a TCP endpoint: the part of TCP that turns a byte stream into
// sequenced segments and back, with no notion of sockets, IP framing, or
// wire checksums.
package tcpendpoint

import "github.com/soypat/tcpcore/seqnum"

// SenderMessage is a segment as produced by a Sender and consumed by a
// peer's Receiver.
type SenderMessage struct {
	Seqno   seqnum.Wrap32
	SYN     bool
	Payload []byte
	FIN     bool
	RST     bool
}

// SequenceLength returns the number of sequence numbers this segment
// occupies: one for SYN, one for FIN, plus the payload length.
func (m SenderMessage) SequenceLength() int {
	n := len(m.Payload)
	if m.SYN {
		n++
	}
	if m.FIN {
		n++
	}
	return n
}

// ReceiverMessage is an acknowledgement as produced by a Receiver and
// consumed by a peer's Sender.
type ReceiverMessage struct {
	// Ackno is the next sequence number the receiver expects. It is absent
	// until the receiver has observed a SYN.
	Ackno   seqnum.Wrap32
	HasAck  bool
	Window  uint16
	RST     bool
}
