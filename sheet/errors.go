/*
errors.go - Centralized error types for sheets

PURPOSE:
  All domain errors in one place. Stores, the HTTP layer and the views wrap
  or match these with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Lookup errors - Missing or duplicate sheets
  2. Validation errors - Bad rows, bad CSV, bad titles (never hit the network)

SEE ALSO:
  - types.go: Row decoding produces ValidationError
  - csv.go:   Upload parsing produces ErrInvalidCSV
  - api/handlers.go: Maps these to HTTP status codes
*/
package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSheetNotFound is returned when no sheet has the requested title.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrDuplicateTitle is returned when uploading under a title already in use.
	ErrDuplicateTitle = errors.New("sheet title already exists")

	// ErrInvalidCSV is returned when an upload is not a well-formed sheet CSV.
	ErrInvalidCSV = errors.New("invalid CSV format")

	// ErrValidation is the sentinel behind every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrTitleRequired is returned for an empty or blank title.
	ErrTitleRequired = errors.New("title is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError is a single field-level validation failure.
type FieldError struct {
	Row     int // zero-based row index; -1 when not tied to a row set
	Field   Field
	Message string
}

func (e FieldError) String() string {
	if e.Row >= 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError reports every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

// Add records a failure for a field that is not tied to a row index.
func (e *ValidationError) Add(f Field, msg string) {
	e.Fields = append(e.Fields, FieldError{Row: -1, Field: f, Message: msg})
}

// HasErrors reports whether anything was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// For returns the message recorded for a field, or "".
func (e *ValidationError) For(f Field) string {
	for _, fe := range e.Fields {
		if fe.Field == f {
			return fe.Message
		}
	}
	return ""
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// CSVError locates a CSV parsing failure.
type CSVError struct {
	Line   int
	Reason string
}

func (e *CSVError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid CSV format: line %d: %s", e.Line, e.Reason)
	}
	return "invalid CSV format: " + e.Reason
}

func (e *CSVError) Unwrap() error {
	return ErrInvalidCSV
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// ValidateRows checks every row and reports failures with their row index.
func ValidateRows(rows []Row) error {
	verr := &ValidationError{}
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			var rowErr *ValidationError
			if errors.As(err, &rowErr) {
				for _, fe := range rowErr.Fields {
					fe.Row = i
					verr.Fields = append(verr.Fields, fe)
				}
			}
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidCSV) ||
		errors.Is(err, ErrTitleRequired)
}
