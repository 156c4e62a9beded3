package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "record_date", Message: "must be a date in YYYY-MM-DD format"}
	want := "validation error on field record_date: must be a date in YYYY-MM-DD format"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "list records") != nil {
		t.Error("WrapError(nil) should be nil")
	}

	cause := fmt.Errorf("owner 4: %w", ErrNotFound)
	got := WrapError(cause, "ask")
	if got.Error() != "ask: owner 4: not found" {
		t.Errorf("WrapError() = %q", got)
	}
	if !errors.Is(got, ErrNotFound) || !errors.Is(got, cause) {
		t.Error("WrapError() should keep the chain")
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	var err error = &ValidationError{Field: "mood_score", Message: "must be between 1 and 10"}
	wrapped := WrapError(err, "add record")

	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped ValidationError should match ErrInvalidInput")
	}
	var ve *ValidationError
	if !errors.As(wrapped, &ve) || ve.Field != "mood_score" {
		t.Errorf("errors.As() = %+v, want field mood_score", ve)
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("ValidationError should not match ErrNotFound")
	}
}
