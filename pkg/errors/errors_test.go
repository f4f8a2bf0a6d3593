package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodePointlessComparison, "tree %q has no nodes", "t2"),
			want: `POINTLESS_COMPARISON: tree "t2" has no nodes`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "open %s", "a.json"),
			want: "FILE_NOT_FOUND: open a.json: file does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeUnsupportedGraphType, fs.ErrInvalid, "tree1")
	if !errors.Is(err, fs.ErrInvalid) {
		t.Error("cause not reachable through errors.Is")
	}
	if errors.Unwrap(err) != fs.ErrInvalid {
		t.Error("Unwrap did not return the cause")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeUnbalancedSequence, "stray close")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", inner, ErrCodeUnbalancedSequence, true},
		{"other code", inner, ErrCodeInvalidEncoding, false},
		{"outer code wins", Wrap(ErrCodeInvalidInput, inner, "seq1"), ErrCodeInvalidInput, true},
		{"inner code hidden", Wrap(ErrCodeInvalidInput, inner, "seq1"), ErrCodeUnbalancedSequence, false},
		{"fmt wrapped", fmt.Errorf("decode: %w", inner), ErrCodeUnbalancedSequence, true},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
		{"nil with empty code", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("x: %w", New(ErrCodeUnknownImplementation, "native"))); got != ErrCodeUnknownImplementation {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeInvalidInput, errors.New("unexpected EOF"), "decode request body")
	if got := UserMessage(err); got != "decode request body" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
