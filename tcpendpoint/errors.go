package tcpendpoint

import "errors"

// errPeerReset is the sticky error set on a Receiver's output stream when
// the peer sends a segment with RST set.
var errPeerReset = errors.New("tcpendpoint: peer sent RST")

// errZeroWindowNoAck is the sticky error set on a Sender's input stream
// when the peer reports a zero window with no acknowledgement pending.
var errZeroWindowNoAck = errors.New("tcpendpoint: peer window closed with no ack")
