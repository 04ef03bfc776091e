// Package constants centralizes tunable values for the uploader.
package constants

import (
	"time"
)

// Chunked transfer
const (
	// ChunkSize - size of each upload chunk (5,000,000 bytes)
	// Cloudinary requires chunks of at least 5 MB except for the final one.
	//
	// Trade-offs:
	// - Smaller chunks = more HTTP requests but finer cancellation granularity
	// - Larger chunks = better throughput but more memory per in-flight request
	ChunkSize = 5_000_000

	// MinChunkSize - smallest chunk size accepted from configuration
	MinChunkSize = ChunkSize

	// MaxChunkSize - largest chunk size accepted from configuration (100 MB)
	// Caps memory usage per chunk since each chunk body is buffered for
	// multipart encoding.
	MaxChunkSize = 100 * 1024 * 1024
)

// Concurrency
const (
	// MaxConcurrency - hard cap on simultaneous file transfers (10)
	// Matches Cloudinary's own concurrent-request limit for the upload API.
	// The worker pool never runs more than this many transfers at once.
	MaxConcurrency = 10
)

// Timeouts
const (
	// ChunkRequestTimeout - per-chunk upload request timeout
	// Each chunk request carries its own deadline; a timeout surfaces as a
	// transfer error and is subject to the batch escalation policy.
	ChunkRequestTimeout = 120 * time.Second

	// APIRequestTimeout - timeout for existence checks and connectivity pings
	APIRequestTimeout = 15 * time.Second

	// HTTPIdleConnTimeout - how long idle pooled connections are kept
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake deadline for new connections
	HTTPTLSHandshakeTimeout = 20 * time.Second

	// HTTPExpectContinueTimeout - wait for HTTP 100-continue responses
	HTTPExpectContinueTimeout = 5 * time.Second
)

// Non-chunk API retries (existence check, ping). Chunk uploads are always
// a single attempt.
const (
	// APIRetryMax - retry attempts for idempotent HEAD calls
	APIRetryMax = 3

	// APIRetryWaitMin - minimum backoff between retries
	APIRetryWaitMin = 500 * time.Millisecond

	// APIRetryWaitMax - maximum backoff between retries
	APIRetryWaitMax = 5 * time.Second
)

// Endpoints
const (
	// UploadBaseURL - base URL of the upload API
	UploadBaseURL = "https://api.cloudinary.com/v1_1"

	// DeliveryBaseURL - base URL for delivered assets, used by the
	// existence check
	DeliveryBaseURL = "https://res.cloudinary.com"

	// DefaultResourceType - resource type segment for all uploads
	DefaultResourceType = "image"
)
