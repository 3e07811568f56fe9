package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidColor, "unknown swatch: %s", "cobalt")

	if err.Code != ErrCodeInvalidColor {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidColor)
	}
	if err.Message != "unknown swatch: cobalt" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause should be nil, got %v", err.Cause)
	}

	want := "INVALID_COLOR: unknown swatch: cobalt"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "failed to save painting %s", "abc")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() should include cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeNotFound, "missing"), ErrCodeNotFound, true},
		{"different code", New(ErrCodeNotFound, "missing"), ErrCodeInternal, false},
		{"wrapped structured error", fmt.Errorf("outer: %w", New(ErrCodeInvalidGeometry, "bad point")), ErrCodeInvalidGeometry, true},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidAudio, "bad buffer")); got != ErrCodeInvalidAudio {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidAudio)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPalette, "palette has no swatches")
	if got := UserMessage(err); got != "palette has no swatches" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
