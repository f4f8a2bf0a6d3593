package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/treematch/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{context.Canceled, 130},
		{fmt.Errorf("solve: %w", context.Canceled), 130},
		{errors.New(errors.ErrCodeFileNotFound, "a.json"), 2},
		{errors.New(errors.ErrCodeUnknownImplementation, "native"), 2},
		{errors.New(errors.ErrCodePointlessComparison, "empty"), 1},
		{fmt.Errorf("boom"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
