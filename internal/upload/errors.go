package upload

import (
	"errors"
	"fmt"
)

// ErrCancelled marks a transfer aborted by the batch's cancellation
// signal. It is never escalated, so a cancellation triggered by one fatal
// error cannot cascade into further fatal errors.
var ErrCancelled = errors.New("upload cancelled")

// OpenError reports a local file that could not be opened for transfer.
// A single unreadable file never aborts the batch.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// TransferError reports a chunk request that failed without an HTTP
// status: network failure, timeout, or abort.
type TransferError struct {
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %s failed: %v", e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// ServerError reports a chunk request the remote API rejected with an
// error status.
type ServerError struct {
	Path   string
	Status int
	Err    error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected %s with HTTP %d: %v", e.Path, e.Status, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// fileScopedStatuses are server rejections scoped to a single file.
// Everything else coming back from the server aborts the batch.
var fileScopedStatuses = map[int]bool{
	400: true, // Bad Request
	404: true, // Not Found
	409: true, // Conflict
}

// Fatal reports whether err is severe enough to abort the whole batch.
// Open errors and whitelisted server statuses are file-scoped; cancelled
// transfers never re-escalate; any other error is fatal.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCancelled) {
		return false
	}

	var openErr *OpenError
	if errors.As(err, &openErr) {
		return false
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return !fileScopedStatuses[serverErr.Status]
	}

	// Transfer errors and anything unrecognized.
	return true
}
