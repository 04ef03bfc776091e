// Package events delivers per-file batch notifications to registered
// observers.
//
// Delivery is synchronous: Publish invokes every observer in registration
// order before returning, so observers see events in exactly the order the
// batch emitted them. Observers that need buffering are expected to do it
// themselves.
package events

import (
	"sync"
	"time"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/api"
)

// Kind identifies what a notification reports.
type Kind string

const (
	// KindSuccess - a file finished uploading; Response carries the
	// server's terminal document
	KindSuccess Kind = "success"
	// KindError - a file-scoped failure; the batch continues
	KindError Kind = "error"
	// KindCritical - a batch-fatal failure; cancellation is engaging
	KindCritical Kind = "critical"
)

// Event is one batch notification.
type Event struct {
	Kind     Kind
	Path     string
	Message  string
	Response *api.UploadResponse
	Time     time.Time
}

// Observer receives events. Observers run on the publisher's goroutine and
// should return quickly.
type Observer func(Event)

// Notifier is a registry of observers.
type Notifier struct {
	mu        sync.Mutex
	observers []Observer
}

// NewNotifier creates an empty registry.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Register adds an observer. Observers are invoked in registration order.
func (n *Notifier) Register(o Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, o)
}

// Publish delivers e to every registered observer. The lock is held for
// the whole delivery so events from concurrent publishers are observed as
// an ordered sequence, not interleaved mid-delivery.
func (n *Notifier) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, o := range n.observers {
		o(e)
	}
}

// PublishSuccess reports a completed upload.
func (n *Notifier) PublishSuccess(path string, resp *api.UploadResponse) {
	n.Publish(Event{Kind: KindSuccess, Path: path, Response: resp})
}

// PublishError reports a file-scoped failure.
func (n *Notifier) PublishError(path, message string) {
	n.Publish(Event{Kind: KindError, Path: path, Message: message})
}

// PublishCritical reports a batch-fatal failure.
func (n *Notifier) PublishCritical(path, message string) {
	n.Publish(Event{Kind: KindCritical, Path: path, Message: message})
}
