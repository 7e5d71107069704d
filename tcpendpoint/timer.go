package tcpendpoint

// retransmissionTimer is a tick-driven, doubling-backoff retransmission
// timer. Unlike a wall-clock backoff it never sleeps: elapsed time is
// whatever the host reports through Tick, so it is exactly reproducible in
// tests.
type retransmissionTimer struct {
	rto     uint64 // current retransmission timeout, in ms.
	initial uint64 // rto reverts to this value on reset-to-initial.
	elapsed uint64
	active  bool
}

func newRetransmissionTimer(initialRTOms uint64) retransmissionTimer {
	return retransmissionTimer{rto: initialRTOms, initial: initialRTOms}
}

// Activate marks the timer as running without touching elapsed/rto.
func (t *retransmissionTimer) Activate() { t.active = true }

// Deactivate stops the timer; Tick becomes a no-op until Activate is called
// again.
func (t *retransmissionTimer) Deactivate() { t.active = false }

// ResetToInitial reverts RTO to its initial value, zeroes elapsed time, and
// deactivates the timer. Used when an ACK clears all outstanding segments.
func (t *retransmissionTimer) ResetToInitial() {
	t.rto = t.initial
	t.elapsed = 0
	t.active = false
}

// RestartActive reverts RTO to its initial value, zeroes elapsed time, and
// keeps the timer running. Used when an ACK clears some but not all
// outstanding segments.
func (t *retransmissionTimer) RestartActive() {
	t.rto = t.initial
	t.elapsed = 0
	t.active = true
}

// Tick advances elapsed time by deltaMs if the timer is active.
func (t *retransmissionTimer) Tick(deltaMs uint64) {
	if t.active {
		t.elapsed += deltaMs
	}
}

// Expired reports whether the timer is active and has reached its RTO.
func (t *retransmissionTimer) Expired() bool {
	return t.active && t.elapsed >= t.rto
}

// BackOff doubles the RTO and clears elapsed time, for use after a genuine
// retransmission (as opposed to a zero-window probe).
func (t *retransmissionTimer) BackOff() {
	t.rto *= 2
	t.elapsed = 0
}

// ResetElapsed clears elapsed time without touching RTO, for use after
// retransmitting a zero-window probe.
func (t *retransmissionTimer) ResetElapsed() {
	t.elapsed = 0
}
