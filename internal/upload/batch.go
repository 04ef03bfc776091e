// Package upload implements the bulk upload engine: the chunked-transfer
// protocol, the bounded worker pool, the batch-wide cancellation signal,
// and the coordinator that ties them to validation, notifications, and
// durable error logging.
package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/api"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/constants"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/errlog"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/events"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/logging"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/validate"
)

// Options configures one batch run.
type Options struct {
	// Params are the request parameters shared by every upload (folder,
	// tags, resource_type override, ...).
	Params map[string]string

	// Concurrency caps simultaneous transfers. Clamped to
	// [1, constants.MaxConcurrency].
	Concurrency int

	// ChunkSize in bytes; zero means constants.ChunkSize.
	ChunkSize int64

	// ChunkTimeout bounds each chunk request; zero means
	// constants.ChunkRequestTimeout.
	ChunkTimeout time.Duration

	// SkipExistenceCheck uploads files even when a remote copy already
	// exists under the same public ID.
	SkipExistenceCheck bool

	// LogPath is the error log file. Empty disables logging.
	LogPath string
	// LogMode selects how an existing log file is treated.
	LogMode errlog.Mode
	// LogSeparator is placed after each entry; empty means the default
	// line terminator.
	LogSeparator string
}

// Summary is the outcome of a batch run.
type Summary struct {
	// Candidates is the number of filenames offered to the batch.
	Candidates int
	// Uploaded counts successful transfers.
	Uploaded int
	// Skipped counts files excluded because a remote copy already exists.
	Skipped int
	// Invalid counts files excluded by validation.
	Invalid int
	// Failed counts transfers that produced an error.
	Failed int
	// Bytes totals the stored size of successful uploads.
	Bytes int64
	// Cancelled reports whether a fatal error aborted the batch.
	Cancelled bool
}

// Coordinator orchestrates a batch end to end: validation and existence
// filtering, the worker pool, error escalation, and log-write
// backpressure.
type Coordinator struct {
	client   *api.Client
	transfer *Transfer
	notifier *events.Notifier
	logger   *logging.Logger
	opts     Options
}

// NewCoordinator creates a Coordinator for one account and option set.
func NewCoordinator(client *api.Client, notifier *events.Notifier, logger *logging.Logger, opts Options) *Coordinator {
	if opts.Concurrency < 1 || opts.Concurrency > constants.MaxConcurrency {
		opts.Concurrency = constants.MaxConcurrency
	}
	return &Coordinator{
		client:   client,
		transfer: NewTransfer(client, opts.ChunkSize, opts.ChunkTimeout),
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
}

// Run uploads the named files from dir and blocks until every claimed
// task has settled and every log write has been flushed.
//
// File-level failures never fail the run; they are notified, logged, and
// counted. Run returns an error only when the batch cannot start at all,
// which today means the error log could not be opened.
func (c *Coordinator) Run(ctx context.Context, dir string, filenames []string) (*Summary, error) {
	var log *errlog.Log
	if c.opts.LogPath != "" {
		var err error
		log, err = errlog.Open(c.opts.LogPath, c.opts.LogMode, c.opts.LogSeparator)
		if err != nil {
			return nil, fmt.Errorf("batch cannot start: %w", err)
		}
	}

	summary := &Summary{Candidates: len(filenames)}
	pending := newPendingWrites()
	var mu sync.Mutex

	tasks := c.filter(ctx, dir, filenames, log, pending, summary, &mu)

	canceller := NewCanceller()
	if len(tasks) > 0 {
		pool := NewPool(c.transfer, c.opts.Concurrency, c.opts.Params)
		pool.Run(ctx, tasks, canceller, func(res Result) {
			c.settle(res, canceller, log, pending, summary, &mu)
		})
	}

	// The pool has settled; wait out any log writes still in flight so
	// closing the log cannot truncate them.
	pending.wait()
	if log != nil {
		if err := log.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close error log")
		}
	}

	summary.Cancelled = canceller.Cancelled()
	return summary, nil
}

// filter runs validation (and the optional existence check) over every
// candidate concurrently and returns the survivors as upload tasks.
// Survivors keep their source order even though the predicates settle in
// arbitrary order, so batches are deterministic.
func (c *Coordinator) filter(ctx context.Context, dir string, filenames []string, log *errlog.Log, pending *pendingWrites, summary *Summary, mu *sync.Mutex) []Task {
	type slot struct {
		include bool
	}
	slots := make([]slot, len(filenames))

	sem := make(chan struct{}, c.opts.Concurrency)
	var wg sync.WaitGroup
	for i, name := range filenames {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			slots[i].include = c.admit(ctx, filepath.Join(dir, name), name, log, pending, summary, mu)
		}(i, name)
	}
	wg.Wait()

	tasks := make([]Task, 0, len(filenames))
	for i, name := range filenames {
		if slots[i].include {
			tasks = append(tasks, Task{
				Filename:   name,
				SourcePath: filepath.Join(dir, name),
			})
		}
	}
	return tasks
}

// admit decides whether one candidate reaches the worker pool.
func (c *Coordinator) admit(ctx context.Context, path, name string, log *errlog.Log, pending *pendingWrites, summary *Summary, mu *sync.Mutex) bool {
	verdict, err := validate.Classify(path)
	if err != nil {
		c.reject(path, fmt.Sprintf("file is invalid: %v", err), log, pending, summary, mu)
		return false
	}

	switch verdict {
	case validate.Invalid:
		c.reject(path, fmt.Sprintf("file is invalid: %s", name), log, pending, summary, mu)
		return false
	case validate.NotAllowed:
		c.logger.Debug().Str("file", name).Msg("Extension not allowed, excluded")
		return false
	}

	if !c.opts.SkipExistenceCheck {
		exists, err := c.client.ResourceExists(ctx, PublicID(name))
		if err != nil {
			// The upload attempt will surface any real problem; a flaky
			// existence check must not drop the file.
			c.logger.Warn().Err(err).Str("file", name).Msg("Existence check failed, uploading anyway")
		} else if exists {
			c.logger.Info().Str("file", name).Msg("Already uploaded, skipping")
			mu.Lock()
			summary.Skipped++
			mu.Unlock()
			return false
		}
	}
	return true
}

func (c *Coordinator) reject(path, message string, log *errlog.Log, pending *pendingWrites, summary *Summary, mu *sync.Mutex) {
	mu.Lock()
	summary.Invalid++
	mu.Unlock()
	c.notifier.PublishError(path, message)
	c.appendLog(log, pending, message)
}

// settle applies the escalation policy to one terminal transfer outcome.
// It runs on a worker goroutine, synchronously before that worker claims
// its next task.
func (c *Coordinator) settle(res Result, canceller *Canceller, log *errlog.Log, pending *pendingWrites, summary *Summary, mu *sync.Mutex) {
	if res.Err == nil {
		mu.Lock()
		summary.Uploaded++
		if res.Response != nil {
			summary.Bytes += res.Response.Bytes
		}
		mu.Unlock()
		c.notifier.PublishSuccess(res.Task.SourcePath, res.Response)
		return
	}

	mu.Lock()
	summary.Failed++
	mu.Unlock()

	message := res.Err.Error()
	if Fatal(res.Err) {
		if canceller.Cancel() {
			c.logger.Error().Str("file", res.Task.Filename).Msg("Critical failure, cancelling batch")
		}
		c.notifier.PublishCritical(res.Task.SourcePath, message)
		c.appendLog(log, pending, "CRITICAL: "+message)
		return
	}

	c.notifier.PublishError(res.Task.SourcePath, message)
	c.appendLog(log, pending, message)
}

// appendLog issues one asynchronous log write, tracked by the pending
// counter so Run cannot close the log underneath it.
func (c *Coordinator) appendLog(log *errlog.Log, pending *pendingWrites, text string) {
	if log == nil {
		return
	}
	pending.inc()
	log.Append(text, func(err error) {
		if err != nil {
			c.logger.Error().Err(err).Msg("Error log write failed")
		}
		pending.dec()
	})
}
