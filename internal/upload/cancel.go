package upload

import (
	"sync/atomic"
)

// Canceller is the batch's shared cancellation signal: a one-way
// transition from active to cancelled. Workers check it at task
// boundaries and the chunk loop checks it before every request, so
// cancellation is cooperative and in-flight requests settle naturally.
type Canceller struct {
	cancelled atomic.Bool
	done      chan struct{}
}

// NewCanceller creates an active (not cancelled) signal.
func NewCanceller() *Canceller {
	return &Canceller{done: make(chan struct{})}
}

// Cancel flips the signal. It reports whether this call performed the
// transition; later calls are no-ops and return false.
func (c *Canceller) Cancel() bool {
	if c.cancelled.CompareAndSwap(false, true) {
		close(c.done)
		return true
	}
	return false
}

// Cancelled reports whether the signal has fired.
func (c *Canceller) Cancelled() bool {
	return c.cancelled.Load()
}

// Done returns a channel closed when the signal fires.
func (c *Canceller) Done() <-chan struct{} {
	return c.done
}
