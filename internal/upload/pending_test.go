package upload

import (
	"sync"
	"testing"
	"time"
)

func TestPendingWritesWaitReturnsImmediatelyWhenIdle(t *testing.T) {
	p := newPendingWrites()

	done := make(chan struct{})
	go func() {
		p.wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait blocked with nothing pending")
	}
}

func TestPendingWritesWaitBlocksUntilZero(t *testing.T) {
	p := newPendingWrites()
	const writes = 30

	for i := 0; i < writes; i++ {
		p.inc()
	}

	done := make(chan struct{})
	go func() {
		p.wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("wait returned while writes were pending")
	case <-time.After(20 * time.Millisecond):
	}

	var wg sync.WaitGroup
	for i := 0; i < writes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.dec()
		}()
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the count reached zero")
	}
}
