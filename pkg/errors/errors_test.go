package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSchema, "key column %q not found", "region")

	if err.Code != ErrCodeSchema {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSchema)
	}

	if err.Message != `key column "region" not found` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `SCHEMA_ERROR: key column "region" not found`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("invalid byte sequence")
	err := Wrap(ErrCodeUnreadableFile, cause, "decode failed")

	if err.Code != ErrCodeUnreadableFile {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnreadableFile)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeEmptyInput, "test"),
			code:     ErrCodeEmptyInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeEmptyInput, "test"),
			code:     ErrCodeSchema,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeUnreadableFile, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeUnreadableFile,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeSchema,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeSchema,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeKeyNotFound, "test"), ErrCodeKeyNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeSchema, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v", got)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		empty bool
	}{
		{"schema", New(ErrCodeSchema, "x"), false},
		{"empty input", New(ErrCodeEmptyInput, "x"), false},
		{"unreadable", New(ErrCodeUnreadableFile, "x"), false},
		{"internal", New(ErrCodeInternal, "x"), true},
		{"plain", errors.New("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); (got == "") != tt.empty {
				t.Errorf("Hint() = %q, want empty=%v", got, tt.empty)
			}
		})
	}
}

func TestRecoverable(t *testing.T) {
	for _, code := range []Code{ErrCodeSchema, ErrCodeEmptyInput, ErrCodeUnreadableFile} {
		if !Recoverable(New(code, "x")) {
			t.Errorf("Recoverable(%s) = false, want true", code)
		}
	}
	if Recoverable(New(ErrCodeInternal, "x")) {
		t.Error("Recoverable(INTERNAL_ERROR) = true, want false")
	}
	if Recoverable(errors.New("plain")) {
		t.Error("Recoverable(plain) = true, want false")
	}
}
