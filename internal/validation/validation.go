// Package validation provides centralized input validation functions
// to prevent security issues like path traversal and ensure consistent UX.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
)

// MaxBranchNameLength is the maximum allowed length for branch names.
const MaxBranchNameLength = 255

// Git ref reserved names that cannot be used as branch names.
var gitReservedNames = map[string]bool{
	"HEAD":             true,
	"head":             true,
	"FETCH_HEAD":       true,
	"ORIG_HEAD":        true,
	"MERGE_HEAD":       true,
	"CHERRY_PICK_HEAD": true,
}

// gitRefInvalidPatterns contains patterns that are invalid in git ref names.
// Based on git-check-ref-format rules.
var gitRefInvalidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.\.`),            // double dots
	regexp.MustCompile(`^\.`),             // starts with dot
	regexp.MustCompile(`\.$`),             // ends with dot
	regexp.MustCompile(`\.lock$`),         // ends with .lock
	regexp.MustCompile(`@\{`),             // @{ sequence
	regexp.MustCompile(`[\x00-\x1f\x7f]`), // control characters
	regexp.MustCompile(`[~^:?*\[\\]`),     // special characters
	regexp.MustCompile(`\s`),              // whitespace
}

// ValidateBranchName validates a git branch name.
// Returns an error if the name is invalid, nil otherwise.
func ValidateBranchName(name string) error {
	if name == "" {
		return cerrors.NewInvalidArgument("branch", "cannot be empty")
	}

	if len(name) > MaxBranchNameLength {
		return cerrors.NewInvalidArgument("branch", "exceeds maximum length of 255 characters")
	}

	if gitReservedNames[name] {
		return cerrors.NewInvalidArgument("branch", "reserved name not allowed: "+name)
	}

	for _, pattern := range gitRefInvalidPatterns {
		if pattern.MatchString(name) {
			return cerrors.NewInvalidArgument("branch", "contains invalid characters or sequences for git refs")
		}
	}

	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return cerrors.NewInvalidArgument("branch", "cannot start or end with /")
	}

	if strings.Contains(name, "//") {
		return cerrors.NewInvalidArgument("branch", "cannot contain consecutive slashes")
	}

	return nil
}

// ValidatePath validates a path to prevent path traversal attacks.
// The path must be relative and not attempt to escape the expected directory.
// Returns an error if the path is invalid, nil otherwise.
func ValidatePath(path string) error {
	if path == "" {
		return cerrors.NewInvalidArgument("path", "cannot be empty")
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return cerrors.NewInvalidArgument("path", "absolute paths not allowed")
	}

	if len(path) >= 2 && path[1] == ':' {
		return cerrors.NewInvalidArgument("path", "absolute paths not allowed")
	}

	if strings.Contains(path, "..") {
		return cerrors.NewInvalidArgument("path", "path traversal sequences (..) not allowed")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return cerrors.NewInvalidArgument("path", "cannot contain control characters")
		}
	}

	return nil
}
