package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// Service reads statement documents and writes processed output. References
// are either gs://bucket/object URIs or local file paths.
type Service interface {
	// Fetch returns the bytes behind ref.
	Fetch(ctx context.Context, ref string) ([]byte, error)

	// Write stores data at ref, creating or replacing it.
	Write(ctx context.Context, ref string, data []byte, contentType string) error
}

// DocumentStore is the concrete Service. Local paths go straight to disk;
// gs:// URIs open a Cloud Storage client per call using Application Default
// Credentials unless client options say otherwise.
type DocumentStore struct {
	opts    []option.ClientOption
	timeout time.Duration
}

// NewDocumentStore creates a DocumentStore. timeout bounds each GCS transfer;
// zero means no extra limit beyond ctx.
func NewDocumentStore(timeout time.Duration, opts ...option.ClientOption) *DocumentStore {
	return &DocumentStore{opts: opts, timeout: timeout}
}

// Fetch implements Service.
func (s *DocumentStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if !IsGCSURI(ref) {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("fetch: read file %q: %w", ref, err)
		}
		return data, nil
	}

	bucket, object, err := ParseGCSURI(ref)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	client, err := storage.NewClient(ctx, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("fetch: create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: open object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetch: read object %s/%s: %w", bucket, object, err)
	}

	return data, nil
}

// Write implements Service.
func (s *DocumentStore) Write(ctx context.Context, ref string, data []byte, contentType string) error {
	if !IsGCSURI(ref) {
		if dir := filepath.Dir(ref); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("write: create directory %q: %w", dir, err)
			}
		}
		if err := os.WriteFile(ref, data, 0o644); err != nil {
			return fmt.Errorf("write: write file %q: %w", ref, err)
		}
		return nil
	}

	bucket, object, err := ParseGCSURI(ref)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	client, err := storage.NewClient(ctx, s.opts...)
	if err != nil {
		return fmt.Errorf("write: create storage client: %w", err)
	}
	defer client.Close()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write: copy to GCS writer: %w", err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("write: finalize upload: %w", err)
	}

	return nil
}

func (s *DocumentStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// IsGCSURI reports whether ref points at Cloud Storage.
func IsGCSURI(ref string) bool {
	return strings.HasPrefix(ref, gcsScheme)
}

// ParseGCSURI splits gs://bucket/path/to/object into bucket and object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !IsGCSURI(uri) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

// Filename returns the last path element of a local path or GCS URI.
// e.g. "gs://bucket/folder/file.pdf" → "file.pdf"
func Filename(ref string) string {
	if !IsGCSURI(ref) {
		return filepath.Base(ref)
	}

	trimmed := strings.TrimPrefix(ref, gcsScheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

// Ensure DocumentStore implements Service.
var _ Service = (*DocumentStore)(nil)
