package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rentalbackend/internal/domain"
)

// BlobStore uploads document/photo bytes and returns a stable URL plus an
// opaque identifier. The core never stores the bytes.
type BlobStore interface {
	Upload(ctx context.Context, contentType string, data []byte) (url, blobID string, err error)
}

type HTTPBlobStore struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

type uploadResponse struct {
	URL    string `json:"url"`
	BlobID string `json:"blob_id"`
}

func (s *HTTPBlobStore) Upload(ctx context.Context, contentType string, data []byte) (string, string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v1/blobs", bytes.NewReader(data))
	if err != nil {
		return "", "", domain.InternalError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", domain.ExternalDependencyError{Dependency: "blob store", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", domain.ExternalDependencyError{
			Dependency: "blob store",
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", domain.ExternalDependencyError{Dependency: "blob store", Err: err}
	}
	return out.URL, out.BlobID, nil
}
