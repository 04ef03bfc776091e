package upload

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/api"
)

// Task is one file queued for upload. Immutable once enqueued; consumed
// exactly once by whichever worker claims it.
type Task struct {
	// Filename is the file's name within the batch directory.
	Filename string
	// SourcePath is the full local path.
	SourcePath string
}

// Result is the terminal outcome of one task.
type Result struct {
	Task     Task
	PublicID string
	Response *api.UploadResponse
	Err      error
}

// Callback receives each task's terminal outcome. It runs on the worker's
// goroutine, before the worker claims its next task.
type Callback func(Result)

// PublicID derives the storage key for a filename: the name with its
// extension removed.
func PublicID(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Pool drains an ordered task queue with a bounded number of workers.
type Pool struct {
	transfer    *Transfer
	concurrency int
	params      map[string]string
}

// NewPool creates a pool running at most concurrency transfers at once.
func NewPool(transfer *Transfer, concurrency int, params map[string]string) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{
		transfer:    transfer,
		concurrency: concurrency,
		params:      params,
	}
}

// Run drains tasks FIFO and blocks until every claimed task has settled.
// min(concurrency, len(tasks)) workers share an atomic cursor, so no task
// is claimed twice and none is skipped. A worker that observes the
// cancellation signal stops claiming but finishes its current transfer's
// callback; Run still returns normally after a cancellation.
func (p *Pool) Run(ctx context.Context, tasks []Task, cancel *Canceller, callback Callback) {
	if len(tasks) == 0 {
		return
	}

	workers := p.concurrency
	if len(tasks) < workers {
		workers = len(tasks)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx, tasks, &cursor, cancel, callback)
		}()
	}
	wg.Wait()
}

func (p *Pool) work(ctx context.Context, tasks []Task, cursor *atomic.Int64, cancel *Canceller, callback Callback) {
	for {
		if cancel != nil && cancel.Cancelled() {
			return
		}

		idx := cursor.Add(1) - 1
		if idx >= int64(len(tasks)) {
			return
		}
		task := tasks[idx]

		publicID := PublicID(task.Filename)
		resp, err := p.transfer.Upload(ctx, task, publicID, p.params, cancel)
		callback(Result{
			Task:     task,
			PublicID: publicID,
			Response: resp,
			Err:      err,
		})
	}
}
