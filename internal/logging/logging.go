// Package logging provides simple structured logging helpers.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
)

// FilePath returns the log file cgwt appends to alongside stderr, under the
// user's home directory. Callers that cannot resolve a home directory get an
// empty string and fall back to stderr-only logging.
func FilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".cgwt", "cgwt.log")
}

// sensitivePatterns matches common sensitive data patterns for redaction.
var sensitivePatterns = []*regexp.Regexp{
	// API keys, tokens, secrets (key=value or key:value) - captures up to next whitespace or quote
	regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|auth[_-]?token|access[_-]?token|secret[_-]?key|password|passwd|pwd)\s*[=:]\s*[^\s]+`),
	// Bearer tokens (Authorization: Bearer xxx)
	regexp.MustCompile(`(?i)bearer\s+[^\s]+`),
	// SSH URLs with embedded credentials
	regexp.MustCompile(`ssh://[^@\s]+@`),
	// HTTPS URLs with embedded credentials
	regexp.MustCompile(`https?://[^:@\s]+:[^@\s]+@`),
	// AWS-style keys (AKIA...)
	regexp.MustCompile(`(?i)(AKIA|ASIA)[A-Z0-9]{16}`),
	// Generic hex/base64 tokens that look like secrets (32+ chars)
	regexp.MustCompile(`(?i)(token|key|secret|password)[=:]["']?[A-Za-z0-9+/]{32,}=*["']?`),
}

// RedactSensitive replaces potentially sensitive data in a string with [REDACTED].
// This is used to sanitize log output that might contain secrets.
func RedactSensitive(input string) string {
	result := input
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}

	return result
}

// Logger wraps the application logger
type Logger struct {
	*log.Logger
}

// New creates a new logger instance. It writes to stderr, and additionally
// appends to FilePath() when that file can be opened (best-effort: a
// read-only home directory degrades to stderr-only logging rather than
// failing startup).
func New(debug bool) *Logger {
	var w io.Writer = os.Stderr

	if path := FilePath(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
				w = io.MultiWriter(os.Stderr, f)
			}
		}
	}

	l := log.New(w)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.Kitchen)

	if debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}

	return &Logger{Logger: l}
}

// NewFromVerbosity maps a -v/-vv/-vvv flag count to a log level: 0 is Info,
// 1 is Debug, 2+ also reports caller source locations.
func NewFromVerbosity(verbosity int) *Logger {
	l := New(verbosity > 0)
	if verbosity >= 2 {
		l.SetReportCaller(true)
	}

	return l
}

// SetDebug enables debug logging
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
}
