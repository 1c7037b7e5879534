package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Input shape errors
	ErrColumnNotFound    = errors.New("required column not found")
	ErrTimestampParse    = errors.New("timestamp not parseable")
	ErrEmptyTable        = errors.New("table has no data rows")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Lookup errors
	ErrNotFound      = errors.New("resource not found")
	ErrPhaseNotFound = fmt.Errorf("%w: phase", ErrNotFound)
)

// TimestampParseError reports the first row whose timestamp cell could not be
// converted to an instant. Row is 1-based and counts data rows only.
type TimestampParseError struct {
	Row   int
	Value string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q as a timestamp", e.Row, e.Value)
}

func (e *TimestampParseError) Is(target error) bool {
	return target == ErrTimestampParse
}

// ColumnNotFoundError reports a column role that the table cannot satisfy.
// Available lists the table's headers so callers can see what was loaded.
type ColumnNotFoundError struct {
	Role      string
	Position  int
	Required  int
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	var b strings.Builder
	if e.Role != "" {
		fmt.Fprintf(&b, "%s column not found at position %d", e.Role, e.Position)
	} else {
		fmt.Fprintf(&b, "table has %d columns, need at least %d", len(e.Available), e.Required)
	}
	b.WriteString("; available columns:")
	if len(e.Available) == 0 {
		b.WriteString(" (none)")
	}
	for i, name := range e.Available {
		fmt.Fprintf(&b, " [%d]%q", i+1, name)
	}
	return b.String()
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}
