// Package storage adapts the external blob store used for file
// attachments. Uploads go to a named bucket under a collision-resistant
// object name; removal is best-effort.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// AttachmentsBucket holds medical record attachments.
const AttachmentsBucket = "medical-attachments"

// Store is the blob store boundary.
type Store interface {
	// Upload stores the bytes under the given object name and returns
	// the public retrieval URL.
	Upload(ctx context.Context, bucket, name string, data []byte) (string, error)

	// Remove deletes an object. Best-effort: an absent object is not an
	// error.
	Remove(ctx context.Context, bucket, name string) error
}

type httpStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPStore talks to a storage service exposing per-bucket object
// upload, deletion and public URLs.
func NewHTTPStore(baseURL, apiKey string) Store {
	return &httpStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

func (s *httpStore) Upload(ctx context.Context, bucket, name string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, bucket, url.PathEscape(name)), nil
}

func (s *httpStore) Remove(ctx context.Context, bucket, name string) error {
	endpoint := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	defer resp.Body.Close()

	// An already-absent object is fine.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete failed: %s", resp.Status)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName derives a collision-resistant object name from the
// uploaded file's original name.
func ObjectName(originalName string) string {
	base := unsafeChars.ReplaceAllString(path.Base(originalName), "_")
	return fmt.Sprintf("%s_%s", uuid.New(), base)
}

// NameFromURL recovers the stored object name from a public URL.
func NameFromURL(rawURL string) string {
	name := path.Base(rawURL)
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
