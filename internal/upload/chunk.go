package upload

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/api"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/constants"
)

// Transfer streams single files to the upload API as sequences of
// content-range chunks.
type Transfer struct {
	client    *api.Client
	chunkSize int64
	timeout   time.Duration
}

// NewTransfer creates a Transfer. Non-positive chunkSize or timeout fall
// back to the defaults.
func NewTransfer(client *api.Client, chunkSize int64, timeout time.Duration) *Transfer {
	if chunkSize <= 0 {
		chunkSize = constants.ChunkSize
	}
	if timeout <= 0 {
		timeout = constants.ChunkRequestTimeout
	}
	return &Transfer{
		client:    client,
		chunkSize: chunkSize,
		timeout:   timeout,
	}
}

// Upload pushes the file behind task to the remote API under one upload
// session and returns the server's terminal response.
//
// Chunks are sent strictly in increasing byte order, each as a freshly
// signed request with its own timeout, and none is ever retried. The
// cancellation signal is checked before every chunk; once it fires the
// session is abandoned with ErrCancelled. Exactly one terminal outcome is
// produced: the parsed response, or one of OpenError, ServerError,
// TransferError.
func (t *Transfer) Upload(ctx context.Context, task Task, publicID string, params map[string]string, cancel *Canceller) (*api.UploadResponse, error) {
	f, err := os.Open(task.SourcePath)
	if err != nil {
		return nil, &OpenError{Path: task.SourcePath, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &OpenError{Path: task.SourcePath, Err: err}
	}
	total := info.Size()

	// One session id shared by every chunk of this file.
	uploadID := uuid.NewString()

	buf := make([]byte, t.chunkSize)
	var start int64
	for {
		if cancel != nil && cancel.Cancelled() {
			return nil, &TransferError{Path: task.SourcePath, Err: ErrCancelled}
		}

		size := t.chunkSize
		if remaining := total - start; remaining < size {
			size = remaining
		}
		if _, err := io.ReadFull(f, buf[:size]); err != nil {
			return nil, &TransferError{Path: task.SourcePath, Err: err}
		}
		end := start + size

		resp, err := t.uploadOne(ctx, api.ChunkRequest{
			Filename: task.Filename,
			PublicID: publicID,
			Params:   params,
			UploadID: uploadID,
			Body:     buf[:size],
			Start:    start,
			End:      end,
			Total:    total,
		})
		if err != nil {
			if se, ok := api.AsStatusError(err); ok {
				return nil, &ServerError{Path: task.SourcePath, Status: se.StatusCode, Err: err}
			}
			return nil, &TransferError{Path: task.SourcePath, Err: err}
		}

		if end >= total {
			return resp, nil
		}
		start = end
	}
}

func (t *Transfer) uploadOne(ctx context.Context, req api.ChunkRequest) (*api.UploadResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.client.UploadChunk(ctx, req)
}
