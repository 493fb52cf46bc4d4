package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"statement.pdf", "application/pdf", false},
		{"scan.PNG", "image/png", false},
		{"/tmp/photo.jpeg", "image/jpeg", false},
		{"gs://bucket/2025/oct.tiff", "image/tiff", false},
		{"old.bmp", "image/bmp", false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := DetectMIMEType(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedDocument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("gs://bucket/dir/oct.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "oct.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.MIMEType)

	_, err = NewDocument("oct.pdf", nil)
	assert.Error(t, err)
}
