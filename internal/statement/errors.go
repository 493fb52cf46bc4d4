package statement

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStructure marks extractor output whose JSON shape does not
// match the statement record.
var ErrUnexpectedStructure = errors.New("unexpected structure")

// StructureError locates a shape problem inside the extracted fields.
type StructureError struct {
	Path string // e.g. "summary.opening_balance", "transactions[3]"
	Err  error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

func structureErr(path string, format string, args ...any) *StructureError {
	return &StructureError{
		Path: path,
		Err:  fmt.Errorf("%w: "+format, append([]any{ErrUnexpectedStructure}, args...)...),
	}
}

// ExtractionError wraps a failure to get any fields out of the document:
// an unreadable file, a failed model call or an unparseable reply.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
