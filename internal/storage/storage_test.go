package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://statements/2025/oct.pdf", "statements", "2025/oct.pdf", false},
		{"gs://bucket/file.pdf", "bucket", "file.pdf", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///file.pdf", "", "", true},
		{"/tmp/file.pdf", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "file.pdf", Filename("gs://bucket/folder/file.pdf"))
	assert.Equal(t, "bucket", Filename("gs://bucket"))
	assert.Equal(t, "scan.png", Filename("/home/me/scan.png"))
	assert.Equal(t, "scan.png", Filename("scan.png"))
}

func TestDocumentStore_LocalRoundTrip(t *testing.T) {
	store := NewDocumentStore(0)
	ctx := context.Background()
	ref := filepath.Join(t.TempDir(), "nested", "output.json")

	require.NoError(t, store.Write(ctx, ref, []byte(`{"ok":true}`), "application/json"))

	data, err := store.Fetch(ctx, ref)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestDocumentStore_FetchMissingLocalFile(t *testing.T) {
	store := NewDocumentStore(0)

	_, err := store.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentStore_InvalidGCSURI(t *testing.T) {
	store := NewDocumentStore(0)

	_, err := store.Fetch(context.Background(), "gs://bucket-only")

	assert.Error(t, err)
}
