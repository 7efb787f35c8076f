package testutil

import (
	"errors"
	"testing"

	apperrors "lumen/internal/errors"
	"lumen/internal/toast"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertToast checks that the newest queued toast has the given kind and message.
func AssertToast(t *testing.T, store *toast.Store, kind toast.Kind, message string) {
	t.Helper()

	list := store.List()
	if len(list) == 0 {
		t.Fatalf("expected a %s toast %q, queue is empty", kind, message)
	}
	last := list[len(list)-1]
	if last.Kind != kind || last.Message != message {
		t.Errorf("expected %s toast %q, got %s toast %q", kind, message, last.Kind, last.Message)
	}
}
