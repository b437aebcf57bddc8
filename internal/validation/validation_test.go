package validation_test

import (
	"errors"
	"strings"
	"testing"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/validation"
)

func TestValidateBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		branch  string
		wantErr bool
	}{
		{name: "simple", branch: "main", wantErr: false},
		{name: "with slash", branch: "feature/login", wantErr: false},
		{name: "max length", branch: strings.Repeat("a", 255), wantErr: false},
		{name: "empty", branch: "", wantErr: true},
		{name: "too long", branch: strings.Repeat("a", 256), wantErr: true},
		{name: "reserved HEAD", branch: "HEAD", wantErr: true},
		{name: "leading slash", branch: "/main", wantErr: true},
		{name: "trailing slash", branch: "main/", wantErr: true},
		{name: "consecutive slashes", branch: "feature//login", wantErr: true},
		{name: "double dot", branch: "feature..login", wantErr: true},
		{name: "contains whitespace", branch: "feature login", wantErr: true},
		{name: "contains tilde", branch: "feature~1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validation.ValidateBranchName(tt.branch)
			if tt.wantErr {
				var cerr *cerrors.CgwtError
				if !errors.As(err, &cerr) || cerr.Code != cerrors.ErrInvalidArgument {
					t.Fatalf("ValidateBranchName(%q) = %v, want InvalidArgument error", tt.branch, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ValidateBranchName(%q) = %v, want nil", tt.branch, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "simple relative", path: "feature-x", wantErr: false},
		{name: "nested relative", path: "a/b/c", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "absolute unix", path: "/etc/passwd", wantErr: true},
		{name: "absolute windows", path: `C:\Users`, wantErr: true},
		{name: "traversal", path: "../../etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validation.ValidatePath(tt.path)
			if tt.wantErr && err == nil {
				t.Fatalf("ValidatePath(%q) = nil, want error", tt.path)
			}

			if !tt.wantErr && err != nil {
				t.Fatalf("ValidatePath(%q) = %v, want nil", tt.path, err)
			}
		})
	}
}
