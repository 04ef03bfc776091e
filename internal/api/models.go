package api

import (
	"time"
)

// UploadResponse is the JSON document the upload API returns for the
// terminal chunk of a transfer.
type UploadResponse struct {
	PublicID     string `json:"public_id"`
	Version      int64  `json:"version"`
	Signature    string `json:"signature"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Format       string `json:"format"`
	ResourceType string `json:"resource_type"`
	CreatedAt    string `json:"created_at"`
	Bytes        int64  `json:"bytes"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	SecureURL    string `json:"secure_url"`
}

// apiError is the error envelope the upload API wraps failures in.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RateLimit holds the rate-limit headers returned by the connectivity
// check.
type RateLimit struct {
	Limit     int64
	Remaining int64
	Reset     time.Time
}
