// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned for an unrecognized export format selector.
var ErrUnknownFormat = errors.New("unknown export format")

// ExportError represents a failure while formatting an article for export
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
