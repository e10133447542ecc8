// Package poll implements the time-boxed answer window used by the
// favorite-foods question: a per-session race between an explicit finish
// signal and an expiry timer, where the first event wins and the loser is
// a verified no-op.
package poll

import (
	"sync"
	"time"
)

// Reason records which side of the race closed the window.
type Reason string

const (
	// ReasonFinished means the user signalled completion before the timeout.
	ReasonFinished Reason = "finished"
	// ReasonExpired means the timer closed the window first.
	ReasonExpired Reason = "expired"
)

// Window is a single-use timed window. It is safe for concurrent use by
// the timer goroutine and the conversation handler.
type Window struct {
	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	reason Reason
}

// New arms a window that expires after d, invoking onExpire at most once
// and only when the timer wins the race. A non-positive d disables the
// timer; the window then closes only via Finish.
func New(d time.Duration, onExpire func()) *Window {
	w := &Window{}
	if d <= 0 {
		return w
	}
	w.timer = time.AfterFunc(d, func() {
		if w.close(ReasonExpired) && onExpire != nil {
			onExpire()
		}
	})
	return w
}

// Finish closes the window on behalf of the user. It reports whether this
// call won the race; closing an already-closed window is not an error.
func (w *Window) Finish() bool {
	return w.close(ReasonFinished)
}

// Done reports whether the window is closed, and why.
func (w *Window) Done() (Reason, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reason, w.closed
}

func (w *Window) close(reason Reason) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.closed = true
	w.reason = reason
	if w.timer != nil {
		w.timer.Stop()
	}
	return true
}
