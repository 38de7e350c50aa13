package subtitle

import (
	"errors"
	"fmt"
)

// ErrMissingHeader is wrapped by the FormatError returned for documents that
// do not start with the WEBVTT token.
var ErrMissingHeader = errors.New("missing WEBVTT header")

// FormatError reports captions text that cannot be parsed. Line is 1-based.
type FormatError struct {
	Line int
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("invalid captions at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid captions at line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
