package upload

import (
	"sync"
)

// pendingWrites counts in-flight asynchronous log appends. The
// coordinator increments before issuing each write and the write's
// completion callback decrements; the log resource may only be released
// once the count reaches zero. Wait suspends on a condition variable, so
// there is no busy-waiting and no wait at all when nothing is pending.
type pendingWrites struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func newPendingWrites() *pendingWrites {
	p := &pendingWrites{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *pendingWrites) inc() {
	p.mu.Lock()
	p.n++
	p.mu.Unlock()
}

func (p *pendingWrites) dec() {
	p.mu.Lock()
	p.n--
	if p.n == 0 {
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

func (p *pendingWrites) wait() {
	p.mu.Lock()
	for p.n > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}
