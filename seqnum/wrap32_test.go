package seqnum

import "testing"

func TestWrapBasic(t *testing.T) {
	isn := Wrap32(100)
	if got := Wrap(0, isn); got != 100 {
		t.Fatalf("Wrap(0)=%d want 100", got)
	}
	if got := Wrap(10, isn); got != 110 {
		t.Fatalf("Wrap(10)=%d want 110", got)
	}
}

func TestWrapOverflows(t *testing.T) {
	isn := Wrap32(0xFFFFFFFE)
	got := Wrap(5, isn)
	want := Wrap32(3) // 0xFFFFFFFE + 5 wraps past 2^32
	if got != want {
		t.Fatalf("Wrap overflow = %d want %d", got, want)
	}
}

func TestUnwrapRoundTrip(t *testing.T) {
	isn := Wrap32(1 << 31)
	for _, n := range []uint64{0, 1, 1000, 1 << 32, (1 << 32) + 17, (1 << 33) + 5} {
		w := Wrap(n, isn)
		got := w.Unwrap(isn, n)
		if got != n {
			t.Fatalf("Unwrap(Wrap(%d)) = %d, want %d", n, got, n)
		}
	}
}

func TestUnwrapNearestToCheckpoint(t *testing.T) {
	isn := Wrap32(0)
	// A wrapped value of 10 is consistent with absolute indices
	// 10, 2^32+10, 2*2^32+10, ... Pick the one nearest checkpoint.
	w := Wrap(10, isn)
	const span = uint64(1) << 32

	cases := []struct {
		checkpoint uint64
		want       uint64
	}{
		{0, 10},
		{span, span + 10},
		{span - 5, span + 10}, // checkpoint sits just below span: nearer to the next wrap
		{span + 1, span + 10},
		{span / 2, 10}, // 10 below the midpoint (span/2+10) between candidates: stays at first wrap
	}
	for _, c := range cases {
		got := w.Unwrap(isn, c.checkpoint)
		if got != c.want {
			t.Fatalf("Unwrap(checkpoint=%d) = %d, want %d", c.checkpoint, got, c.want)
		}
	}
}

func TestUnwrapTieBreaksToLarger(t *testing.T) {
	isn := Wrap32(0)
	w := Wrap(0, isn) // candidates: 0, span, 2*span, ...
	const span = uint64(1) << 32
	checkpoint := span / 2 // exactly equidistant between 0 and span
	got := w.Unwrap(isn, checkpoint)
	if got != span {
		t.Fatalf("tie-break: got %d want %d (larger candidate)", got, span)
	}
}
