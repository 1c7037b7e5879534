package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTimestampParseErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("analyze: %w", &TimestampParseError{Row: 3, Value: "yesterday"})

	if !errors.Is(err, ErrTimestampParse) {
		t.Fatalf("expected errors.Is(err, ErrTimestampParse)")
	}
	if errors.Is(err, ErrColumnNotFound) {
		t.Errorf("timestamp error must not match ErrColumnNotFound")
	}

	var tsErr *TimestampParseError
	if !errors.As(err, &tsErr) {
		t.Fatalf("expected errors.As to find *TimestampParseError")
	}
	if tsErr.Row != 3 || tsErr.Value != "yesterday" {
		t.Errorf("unexpected fields: %+v", tsErr)
	}
}

func TestColumnNotFoundErrorListsColumns(t *testing.T) {
	err := &ColumnNotFoundError{Required: 15, Available: []string{"Time", "Event"}}

	msg := err.Error()
	if !strings.Contains(msg, "need at least 15") {
		t.Errorf("message should state the requirement: %s", msg)
	}
	if !strings.Contains(msg, `[1]"Time"`) || !strings.Contains(msg, `[2]"Event"`) {
		t.Errorf("message should list available columns: %s", msg)
	}
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected errors.Is(err, ErrColumnNotFound)")
	}

	role := &ColumnNotFoundError{Role: "phase", Position: 15}
	if !strings.Contains(role.Error(), "phase column not found at position 15") {
		t.Errorf("unexpected role message: %s", role.Error())
	}
	if !strings.Contains(role.Error(), "(none)") {
		t.Errorf("empty header list should be reported: %s", role.Error())
	}
}
