package tcpendpoint

import (
	"testing"

	"github.com/soypat/tcpcore/bytestream"
	"github.com/soypat/tcpcore/seqnum"
)

func newTestSender(t *testing.T, capacity int, isn seqnum.Wrap32, rtoMs uint64, maxPayload int) (*Sender, *bytestream.ByteStream) {
	t.Helper()
	in, err := bytestream.NewByteStream(capacity)
	if err != nil {
		t.Fatal(err)
	}
	return NewSender(in, isn, rtoMs, maxPayload), in
}

func TestSenderSendsSYNFirst(t *testing.T) {
	s, _ := newTestSender(t, 1024, 0, 1000, 0)
	var sent []SenderMessage
	s.Push(func(m SenderMessage) { sent = append(sent, m) })
	if len(sent) != 1 || !sent[0].SYN {
		t.Fatalf("expected single SYN segment, got %+v", sent)
	}
	if s.SequenceNumbersInFlight() != 1 {
		t.Fatalf("in flight=%d want 1", s.SequenceNumbersInFlight())
	}
}

func TestSenderRespectsWindowThenDrains(t *testing.T) {
	s, in := newTestSender(t, 1024, 0, 1000, 1452)
	in.Write([]byte("hello world"))
	var sent []SenderMessage
	s.Push(func(m SenderMessage) { sent = append(sent, m) })
	if len(sent) != 1 {
		t.Fatalf("want one segment on first push (window starts at 1), got %d", len(sent))
	}
	if sent[0].SequenceLength() != 1 || !sent[0].SYN {
		t.Fatalf("expected SYN-only segment while window==1, got %+v", sent[0])
	}

	// Peer opens the window; a fresh push should drain the buffered payload.
	s.Receive(ReceiverMessage{Ackno: seqnum.Wrap(1, 0), HasAck: true, Window: 1000})
	sent = nil
	s.Push(func(m SenderMessage) { sent = append(sent, m) })
	if len(sent) != 1 || sent[0].SYN || string(sent[0].Payload) != "hello world" {
		t.Fatalf("expected single data segment draining buffer, got %+v", sent)
	}
}

func TestSenderFinOnlyWhenStreamFinished(t *testing.T) {
	s, in := newTestSender(t, 1024, 0, 1000, 1452)
	in.Write([]byte("hi"))
	in.Close()
	var sent []SenderMessage
	s.Push(func(m SenderMessage) { sent = append(sent, m) })
	if len(sent) != 1 {
		t.Fatalf("want 1 segment, got %d", len(sent))
	}
	if !sent[0].SYN {
		t.Fatalf("expected SYN on first segment")
	}
	// Window is still 1 so only SYN fits; FIN/data wait for a bigger window.
	if sent[0].FIN {
		t.Fatalf("FIN should not fit alongside SYN under window 1")
	}

	s.Receive(ReceiverMessage{Ackno: seqnum.Wrap(1, 0), HasAck: true, Window: 1000})
	sent = nil
	s.Push(func(m SenderMessage) { sent = append(sent, m) })
	if len(sent) != 1 || !sent[0].FIN || string(sent[0].Payload) != "hi" {
		t.Fatalf("expected data+FIN segment, got %+v", sent)
	}
}

func TestSenderRetransmitsOnTimeout(t *testing.T) {
	s, _ := newTestSender(t, 1024, 0, 100, 1452)
	var sent []SenderMessage
	s.Push(func(m SenderMessage) { sent = append(sent, m) })
	if len(sent) != 1 {
		t.Fatalf("setup: want 1 segment sent")
	}

	var retransmits []SenderMessage
	s.Tick(99, func(m SenderMessage) { retransmits = append(retransmits, m) })
	if len(retransmits) != 0 {
		t.Fatalf("should not retransmit before RTO elapses")
	}
	s.Tick(1, func(m SenderMessage) { retransmits = append(retransmits, m) })
	if len(retransmits) != 1 {
		t.Fatalf("expected retransmission at RTO, got %d", len(retransmits))
	}
	if s.ConsecutiveRetransmissions() != 1 {
		t.Fatalf("consecutive=%d want 1", s.ConsecutiveRetransmissions())
	}

	// RTO has doubled; another 100ms should not be enough this time.
	s.Tick(100, func(m SenderMessage) { retransmits = append(retransmits, m) })
	if len(retransmits) != 1 {
		t.Fatalf("expected no additional retransmit before doubled RTO elapses")
	}
}

func TestSenderAckResetsBackoff(t *testing.T) {
	s, _ := newTestSender(t, 1024, 0, 100, 1452)
	s.Push(func(SenderMessage) {})
	s.Tick(100, func(SenderMessage) {}) // fires once, doubles RTO, bumps retransCnt
	if s.ConsecutiveRetransmissions() != 1 {
		t.Fatalf("setup: want 1 retransmission")
	}
	s.Receive(ReceiverMessage{Ackno: seqnum.Wrap(1, 0), HasAck: true, Window: 1000})
	if s.ConsecutiveRetransmissions() != 0 {
		t.Fatalf("expected ack to reset consecutive retransmissions, got %d", s.ConsecutiveRetransmissions())
	}
}

func TestSenderZeroWindowProbeDoesNotDoubleRTO(t *testing.T) {
	s, _ := newTestSender(t, 1024, 0, 50, 1452)
	s.Push(func(SenderMessage) {}) // sends SYN, leaves it outstanding
	// Peer closes its window without acknowledging the SYN: it stays
	// outstanding, and the retransmission timer keeps running.
	s.Receive(ReceiverMessage{Ackno: seqnum.Wrap(0, 0), HasAck: true, Window: 0})

	var retransmits int
	s.Tick(50, func(SenderMessage) { retransmits++ })
	if retransmits != 1 {
		t.Fatalf("want 1 probe retransmit, got %d", retransmits)
	}
	// With window==0 the timer resets elapsed but keeps the same RTO, so
	// another 50ms should fire again immediately.
	s.Tick(50, func(SenderMessage) { retransmits++ })
	if retransmits != 2 {
		t.Fatalf("want 2nd probe retransmit under unchanged RTO, got %d", retransmits)
	}
}
