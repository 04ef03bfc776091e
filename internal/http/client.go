// Package http builds the HTTP clients used for chunk uploads and API calls.
package http

import (
	"crypto/tls"
	nethttp "net/http"
	"os"

	"golang.org/x/net/http2"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/constants"
)

// NewTransferClient creates an HTTP client tuned for concurrent chunk
// uploads.
//
// Key settings:
//   - Connection pool sized for the worker pool's concurrency cap, so
//     workers reuse connections instead of re-handshaking per chunk
//   - Compression disabled (image payloads are already compressed)
//   - HTTP/2 enabled with a runtime toggle (DISABLE_HTTP2 env var)
//   - No client-wide timeout; each chunk request carries its own deadline
//     via context
//
// Proxy settings come from the environment (HTTP_PROXY, HTTPS_PROXY,
// NO_PROXY).
func NewTransferClient() *nethttp.Client {
	tr := &nethttp.Transport{
		Proxy: nethttp.ProxyFromEnvironment,

		// Pool enough connections for every worker plus the filtering
		// pass's existence checks.
		MaxIdleConns:        4 * constants.MaxConcurrency,
		MaxIdleConnsPerHost: 2 * constants.MaxConcurrency,
		MaxConnsPerHost:     2 * constants.MaxConcurrency,
		IdleConnTimeout:     constants.HTTPIdleConnTimeout,

		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,

		DisableCompression: true,
		ForceAttemptHTTP2:  true,
	}

	_ = http2.ConfigureTransport(tr)

	// Runtime toggle for HTTP/2 (useful for debugging or proxy
	// compatibility issues).
	if os.Getenv("DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	return &nethttp.Client{
		Transport: tr,
		Timeout:   0, // per-request deadlines only
	}
}
