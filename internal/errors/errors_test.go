package errors_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
)

func TestCgwtError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *cerrors.CgwtError
		expected string
	}{
		{
			name:     "without cause",
			err:      cerrors.NewWorkspaceMissing("feature-x"),
			expected: `WORKSPACE_MISSING: no workspace for branch "feature-x"`,
		},
		{
			name:     "with cause",
			err:      cerrors.NewGitError("clone", "fatal: repository not found", 128, fmt.Errorf("network error")),
			expected: "GIT_ERROR: git clone failed: network error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCgwtError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := cerrors.NewGitError("push", "", 1, cause)

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestCgwtError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same code matches",
			err:    cerrors.NewWorkspaceMissing("ws1"),
			target: cerrors.WorkspaceMissingErr,
			want:   true,
		},
		{
			name:   "different code does not match",
			err:    cerrors.NewWorkspaceMissing("ws1"),
			target: cerrors.GitErr,
			want:   false,
		},
		{
			name:   "wrapped error still matches by code",
			err:    fmt.Errorf("context: %w", cerrors.NewTimeout("git fetch", 30*time.Second)),
			target: cerrors.TimeoutErr,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCgwtError_WithContext(t *testing.T) {
	base := cerrors.NewWorkspaceBusy("feature-x", "dirty working tree")
	enriched := base.WithContext("requested_by", "cli")

	if _, ok := base.Context["requested_by"]; ok {
		t.Fatal("WithContext mutated the original error's context")
	}

	if enriched.Context["requested_by"] != "cli" {
		t.Errorf("enriched context missing requested_by")
	}

	if enriched.Context["branch"] != "feature-x" {
		t.Errorf("enriched context lost original branch key")
	}
}
