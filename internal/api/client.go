package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/constants"
	internalhttp "github.com/Shawn-29/Cloudinary-Image-Uploader/internal/http"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/signature"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/version"
)

var userAgent = "cld-uploader/" + version.Version

// Client talks to the Cloudinary upload and delivery endpoints.
//
// Chunk uploads go through a transfer-tuned client and are never retried;
// the idempotent HEAD calls (existence check, ping) go through a
// retryablehttp client since a transient failure there should not be
// surfaced as a batch problem.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string

	uploadBaseURL   string
	deliveryBaseURL string

	transferClient *nethttp.Client
	headClient     *nethttp.Client
	headTimeout    time.Duration
}

// Options configures a Client. Zero-valued fields fall back to production
// defaults.
type Options struct {
	CloudName string
	APIKey    string
	APISecret string

	// UploadBaseURL and DeliveryBaseURL override the production endpoints,
	// mainly for tests.
	UploadBaseURL   string
	DeliveryBaseURL string

	// TransferClient is the client used for chunk POSTs.
	TransferClient *nethttp.Client

	// HeadTimeout bounds existence checks and pings.
	HeadTimeout time.Duration
}

// NewClient creates a Client for the given account.
func NewClient(opts Options) (*Client, error) {
	if opts.CloudName == "" {
		return nil, fmt.Errorf("cloud name is required")
	}
	if opts.APIKey == "" || opts.APISecret == "" {
		return nil, fmt.Errorf("API key and secret are required")
	}

	if opts.UploadBaseURL == "" {
		opts.UploadBaseURL = constants.UploadBaseURL
	}
	if opts.DeliveryBaseURL == "" {
		opts.DeliveryBaseURL = constants.DeliveryBaseURL
	}
	if opts.TransferClient == nil {
		opts.TransferClient = internalhttp.NewTransferClient()
	}
	if opts.HeadTimeout <= 0 {
		opts.HeadTimeout = constants.APIRequestTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.APIRetryMax
	retryClient.RetryWaitMin = constants.APIRetryWaitMin
	retryClient.RetryWaitMax = constants.APIRetryWaitMax
	retryClient.Logger = nil

	return &Client{
		cloudName:       opts.CloudName,
		apiKey:          opts.APIKey,
		apiSecret:       opts.APISecret,
		uploadBaseURL:   opts.UploadBaseURL,
		deliveryBaseURL: opts.DeliveryBaseURL,
		transferClient:  opts.TransferClient,
		headClient:      retryClient.StandardClient(),
		headTimeout:     opts.HeadTimeout,
	}, nil
}

// ChunkRequest describes one chunk of a file's upload session.
type ChunkRequest struct {
	// Filename is the original file name, sent as the multipart filename.
	Filename string
	// PublicID is the storage key the asset is uploaded under.
	PublicID string
	// Params are the remaining request parameters (folder, tags, ...).
	// A resource_type entry overrides the default resource type; it is
	// excluded from signing but still sent on the wire.
	Params map[string]string
	// UploadID groups all chunks of one file into a single session.
	UploadID string
	// Body holds this chunk's bytes.
	Body []byte
	// Start and End delimit the chunk as [Start, End) within Total bytes.
	Start, End, Total int64
}

// UploadChunk POSTs one chunk as a signed multipart request. The timestamp
// and signature are recomputed from the current parameters on every call.
// A non-2xx response is returned as a *StatusError; the decoded body is
// returned only for the session's terminal chunk (the server answers
// interim chunks with an empty placeholder document).
func (c *Client) UploadChunk(ctx context.Context, req ChunkRequest) (*UploadResponse, error) {
	params := make(map[string]string, len(req.Params)+2)
	for k, v := range req.Params {
		params[k] = v
	}
	params["public_id"] = req.PublicID
	params["timestamp"] = strconv.FormatInt(time.Now().Unix(), 10)

	sig := signature.Sign(params, c.apiSecret)

	resourceType := params["resource_type"]
	if resourceType == "" {
		resourceType = constants.DefaultResourceType
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", k, err)
		}
	}
	if err := mw.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("failed to encode api_key: %w", err)
	}
	if err := mw.WriteField("signature", sig); err != nil {
		return nil, fmt.Errorf("failed to encode signature: %w", err)
	}
	fw, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file part: %w", err)
	}
	if _, err := fw.Write(req.Body); err != nil {
		return nil, fmt.Errorf("failed to encode chunk bytes: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.uploadBaseURL, c.cloudName, resourceType)
	httpReq, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("X-Unique-Upload-Id", req.UploadID)
	httpReq.Header.Set("Content-Range",
		fmt.Sprintf("bytes %d-%d/%d", req.Start, req.End-1, req.Total))

	resp, err := c.transferClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chunk request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	var parsed UploadResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("failed to decode upload response: %w", err)
		}
	}
	return &parsed, nil
}

// ResourceExists reports whether publicID is already stored remotely,
// via a HEAD against the delivery URL.
func (c *Client) ResourceExists(ctx context.Context, publicID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.headTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/%s/upload/%s",
		c.deliveryBaseURL, c.cloudName, constants.DefaultResourceType, url.PathEscape(publicID))
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodHead, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create existence check: %w", err)
	}

	resp, err := c.headClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return true, nil
	case resp.StatusCode == nethttp.StatusNotFound:
		return false, nil
	default:
		return false, &StatusError{StatusCode: resp.StatusCode}
	}
}

// Ping performs the connectivity check and returns the account's current
// rate-limit headers.
func (c *Client) Ping(ctx context.Context) (*RateLimit, error) {
	ctx, cancel := context.WithTimeout(ctx, c.headTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/ping", c.uploadBaseURL, c.cloudName)
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodHead, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ping request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.headClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	rl := &RateLimit{}
	rl.Limit, _ = strconv.ParseInt(resp.Header.Get("X-FeatureRateLimit-Limit"), 10, 64)
	rl.Remaining, _ = strconv.ParseInt(resp.Header.Get("X-FeatureRateLimit-Remaining"), 10, 64)
	if reset := resp.Header.Get("X-FeatureRateLimit-Reset"); reset != "" {
		rl.Reset, _ = time.Parse(time.RFC1123, reset)
	}
	return rl, nil
}

// CloudName returns the account's cloud name.
func (c *Client) CloudName() string {
	return c.cloudName
}

// errorMessage extracts the message from an API error envelope, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	const maxRaw = 200
	if len(body) > maxRaw {
		body = body[:maxRaw]
	}
	return string(bytes.TrimSpace(body))
}
