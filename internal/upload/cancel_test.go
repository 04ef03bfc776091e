package upload

import (
	"sync"
	"testing"
)

func TestCancellerOneWayTransition(t *testing.T) {
	c := NewCanceller()

	if c.Cancelled() {
		t.Error("New canceller should be active")
	}
	select {
	case <-c.Done():
		t.Error("Done channel should be open while active")
	default:
	}

	if !c.Cancel() {
		t.Error("First Cancel should perform the transition")
	}
	if !c.Cancelled() {
		t.Error("Canceller should be cancelled after Cancel")
	}
	if c.Cancel() {
		t.Error("Second Cancel should be a no-op")
	}

	select {
	case <-c.Done():
	default:
		t.Error("Done channel should be closed after Cancel")
	}
}

func TestCancellerConcurrentCancelExactlyOnce(t *testing.T) {
	c := NewCanceller()

	var wg sync.WaitGroup
	var mu sync.Mutex
	transitions := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Cancel() {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if transitions != 1 {
		t.Errorf("Expected exactly one transition, got %d", transitions)
	}
}
