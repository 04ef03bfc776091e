package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/signature"
)

func newTestClient(t *testing.T, uploadURL, deliveryURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{
		CloudName:       "demo",
		APIKey:          "key123",
		APISecret:       "shhh",
		UploadBaseURL:   uploadURL,
		DeliveryBaseURL: deliveryURL,
		TransferClient:  http.DefaultClient,
		HeadTimeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing cloud name", Options{APIKey: "k", APISecret: "s"}},
		{"missing key", Options{CloudName: "demo", APISecret: "s"}},
		{"missing secret", Options{CloudName: "demo", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.opts); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestUploadChunkRequestShape(t *testing.T) {
	var gotPath, gotRange, gotUploadID string
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.Header.Get("Content-Range")
		gotUploadID = r.Header.Get("X-Unique-Upload-Id")

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
		}
		gotForm = make(map[string]string)
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		w.Write([]byte(`{"public_id":"photo","bytes":10}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	resp, err := c.UploadChunk(context.Background(), ChunkRequest{
		Filename: "photo.png",
		PublicID: "photo",
		Params:   map[string]string{"folder": "gallery", "resource_type": "image"},
		UploadID: "session-1",
		Body:     []byte("0123456789"),
		Start:    0,
		End:      10,
		Total:    10,
	})
	if err != nil {
		t.Fatalf("UploadChunk returned error: %v", err)
	}

	if resp.PublicID != "photo" {
		t.Errorf("Expected public_id 'photo', got %s", resp.PublicID)
	}
	if gotPath != "/demo/image/upload" {
		t.Errorf("Expected path /demo/image/upload, got %s", gotPath)
	}
	if gotRange != "bytes 0-9/10" {
		t.Errorf("Expected Content-Range 'bytes 0-9/10', got %q", gotRange)
	}
	if gotUploadID != "session-1" {
		t.Errorf("Expected upload id 'session-1', got %q", gotUploadID)
	}

	for _, field := range []string{"api_key", "timestamp", "signature", "public_id", "folder", "resource_type"} {
		if gotForm[field] == "" {
			t.Errorf("Expected multipart field %s to be set", field)
		}
	}
	if gotForm["api_key"] != "key123" {
		t.Errorf("Expected api_key 'key123', got %q", gotForm["api_key"])
	}

	// The signature must cover the signed params only: resource_type,
	// api_key, and the file payload are excluded.
	want := signature.Sign(map[string]string{
		"folder":    gotForm["folder"],
		"public_id": gotForm["public_id"],
		"timestamp": gotForm["timestamp"],
	}, "shhh")
	if gotForm["signature"] != want {
		t.Errorf("Expected signature %s, got %s", want, gotForm["signature"])
	}
}

func TestUploadChunkServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	_, err := c.UploadChunk(context.Background(), ChunkRequest{
		Filename: "x.png", PublicID: "x", UploadID: "s",
		Body: []byte("x"), Start: 0, End: 1, Total: 1,
	})
	if err == nil {
		t.Fatal("Expected an error")
	}

	se, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("Expected a StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", se.StatusCode)
	}
	if se.Message != "Invalid image file" {
		t.Errorf("Expected decoded error message, got %q", se.Message)
	}
}

func TestResourceExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/demo/image/upload/present":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)

	exists, err := c.ResourceExists(context.Background(), "present")
	if err != nil {
		t.Fatalf("ResourceExists returned error: %v", err)
	}
	if !exists {
		t.Error("Expected present resource to exist")
	}

	exists, err = c.ResourceExists(context.Background(), "absent")
	if err != nil {
		t.Fatalf("ResourceExists returned error: %v", err)
	}
	if exists {
		t.Error("Expected absent resource to not exist")
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/ping" {
			t.Errorf("Expected /demo/ping, got %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "key123" || pass != "shhh" {
			t.Error("Expected basic auth with API credentials")
		}
		w.Header().Set("X-FeatureRateLimit-Limit", "500")
		w.Header().Set("X-FeatureRateLimit-Remaining", "499")
		w.Header().Set("X-FeatureRateLimit-Reset", "Mon, 02 Jan 2006 15:04:05 MST")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	rl, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if rl.Limit != 500 || rl.Remaining != 499 {
		t.Errorf("Expected limit 500/remaining 499, got %d/%d", rl.Limit, rl.Remaining)
	}
	if rl.Reset.IsZero() {
		t.Error("Expected a parsed reset time")
	}
}

func TestPingUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	if _, err := c.Ping(context.Background()); err == nil {
		t.Error("Expected an error for 401")
	}
}
