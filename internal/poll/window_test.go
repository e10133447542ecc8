package poll

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFinishBeatsTimer(t *testing.T) {
	var expired atomic.Int32
	w := New(50*time.Millisecond, func() { expired.Add(1) })

	if !w.Finish() {
		t.Fatal("first Finish should win the race")
	}
	reason, closed := w.Done()
	if !closed || reason != ReasonFinished {
		t.Fatalf("expected finished window, got %q closed=%v", reason, closed)
	}

	time.Sleep(100 * time.Millisecond)
	if expired.Load() != 0 {
		t.Fatal("expiry callback ran after explicit finish")
	}
}

func TestTimerBeatsFinish(t *testing.T) {
	done := make(chan struct{})
	w := New(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry callback did not run")
	}

	// The late finish must be a no-op, not an error.
	if w.Finish() {
		t.Fatal("Finish should lose against an expired window")
	}
	reason, closed := w.Done()
	if !closed || reason != ReasonExpired {
		t.Fatalf("expected expired window, got %q closed=%v", reason, closed)
	}
}

func TestDoubleFinish(t *testing.T) {
	w := New(time.Minute, nil)
	if !w.Finish() {
		t.Fatal("first Finish should close the window")
	}
	if w.Finish() {
		t.Fatal("second Finish should report already closed")
	}
}

func TestNoTimer(t *testing.T) {
	w := New(0, func() { t.Fatal("expiry callback must not run without a timer") })
	if _, closed := w.Done(); closed {
		t.Fatal("window closed prematurely")
	}
	if !w.Finish() {
		t.Fatal("Finish should close an open window")
	}
}
