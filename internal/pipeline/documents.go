package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dvloznov/statement-processor/internal/storage"
)

// ErrUnsupportedDocument is returned for files that are neither PDFs nor
// supported images.
var ErrUnsupportedDocument = errors.New("unsupported file type")

// supportedMIMETypes maps lower-case file extensions to the MIME type sent
// to the model.
var supportedMIMETypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// Document is one statement file loaded into memory.
type Document struct {
	Ref      string // local path or gs:// URI
	Name     string
	MIMEType string
	Data     []byte
}

// DetectMIMEType returns the MIME type for ref based on its extension.
func DetectMIMEType(ref string) (string, error) {
	ext := strings.ToLower(filepath.Ext(storage.Filename(ref)))
	mimeType, ok := supportedMIMETypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDocument, ext)
	}
	return mimeType, nil
}

// NewDocument wraps data read from ref.
func NewDocument(ref string, data []byte) (*Document, error) {
	mimeType, err := DetectMIMEType(ref)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("NewDocument: %s is empty", ref)
	}
	return &Document{
		Ref:      ref,
		Name:     storage.Filename(ref),
		MIMEType: mimeType,
		Data:     data,
	}, nil
}
