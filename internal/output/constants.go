// Package output provides helpers for CLI output formatting.
package output

import "strings"

// Shared formatting constants for CLI output.
const (
	SeparatorWidth     = 50
	SeparatorChar      = "─"
	BranchColumnWidth  = 28
	StatusColumnWidth  = 12
	SessionColumnWidth = 24
	PathColumnWidth    = 45
)

// SeparatorLine returns a horizontal separator line at the given width.
func SeparatorLine(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(SeparatorChar, width)
}
