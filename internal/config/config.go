// Package config provides configuration loading and management for cgwt.
//
// # Configuration Loading Priority
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Explicit --config flag path
//  2. CGWT_CONFIG environment variable
//  3. Default search paths (in order):
//     - ./config.yaml (current directory)
//     - ~/.cgwt/config.yaml
//     - ~/.config/cgwt/config.yaml
//
// When an explicit config path is provided via --config flag or CGWT_CONFIG
// environment variable, the file must exist or loading will fail. Default search
// paths are optional - if no config file is found, defaults are used.
//
// Paths support tilde (~) expansion to the user's home directory.
//
// Environment variables with the CGWT_ prefix can override configuration values.
//
// # Configuration Options
//
// Key configuration options include:
//   - mux_binary: terminal multiplexer binary to drive (default "tmux")
//   - assistant_command: AI-assistant program launched inside each session
//   - assistant_match_substring: substring used to detect the assistant process
//   - git_timeout / mux_timeout: subprocess deadlines for git and multiplexer calls
//   - poll_interval_ms / retention_hours: message bus polling and retention
//
// See the configuration documentation for complete reference.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
)

// GitRetrySettings holds YAML configuration for git network operation retry behavior.
// This is the config-file representation; use ParsedRetryConfig for runtime use.
type GitRetrySettings struct {
	MaxAttempts  int     `mapstructure:"max_attempts"`
	InitialDelay string  `mapstructure:"initial_delay"` // Duration string, e.g. "1s"
	MaxDelay     string  `mapstructure:"max_delay"`     // Duration string, e.g. "30s"
	Multiplier   float64 `mapstructure:"multiplier"`
	JitterFactor float64 `mapstructure:"jitter_factor"`
}

// ParsedRetryConfig holds the parsed retry configuration with proper Go types.
type ParsedRetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64
}

// Parse converts the string-based GitRetrySettings to ParsedRetryConfig with proper duration types.
func (r GitRetrySettings) Parse() (ParsedRetryConfig, error) {
	initialDelay, err := time.ParseDuration(r.InitialDelay)
	if err != nil {
		return ParsedRetryConfig{}, cerrors.NewInvalidArgument("git.retry.initial_delay", fmt.Sprintf("invalid duration %q: %v", r.InitialDelay, err))
	}

	maxDelay, err := time.ParseDuration(r.MaxDelay)
	if err != nil {
		return ParsedRetryConfig{}, cerrors.NewInvalidArgument("git.retry.max_delay", fmt.Sprintf("invalid duration %q: %v", r.MaxDelay, err))
	}

	return ParsedRetryConfig{
		MaxAttempts:  r.MaxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		Multiplier:   r.Multiplier,
		JitterFactor: r.JitterFactor,
	}, nil
}

// GitConfig holds git-related configuration.
type GitConfig struct {
	Retry GitRetrySettings `mapstructure:"retry"`
}

// Config holds the global configuration.
type Config struct {
	MuxBinary               string    `mapstructure:"mux_binary"`
	AssistantCommand        string    `mapstructure:"assistant_command"`
	AssistantMatchSubstring string    `mapstructure:"assistant_match_substring"`
	GitTimeout              string    `mapstructure:"git_timeout"`
	MuxTimeout              string    `mapstructure:"mux_timeout"`
	PollIntervalMS          int       `mapstructure:"poll_interval_ms"`
	RetentionHours          int       `mapstructure:"retention_hours"`
	Git                     GitConfig `mapstructure:"git"`
	Warnings                []string  `mapstructure:"-"` // Warnings collected during loading (e.g., deprecated keys)
}

// knownConfigFields contains all valid top-level and nested config field names
// for providing suggestions when unknown fields are detected.
var knownConfigFields = []string{
	"mux_binary",
	"assistant_command",
	"assistant_match_substring",
	"git_timeout",
	"mux_timeout",
	"poll_interval_ms",
	"retention_hours",
	"git",
	"git.retry",
	"git.retry.max_attempts",
	"git.retry.initial_delay",
	"git.retry.max_delay",
	"git.retry.multiplier",
	"git.retry.jitter_factor",
}

// DeprecatedKey represents a deprecated configuration key with migration guidance.
type DeprecatedKey struct {
	OldKey    string // The deprecated key name
	NewKey    string // The replacement key name (empty if removed entirely)
	Message   string // Migration guidance message
	RemovedIn string // Version when the key will be removed (empty if just deprecated)
}

// deprecatedKeys maps deprecated config field names to their migration information.
// Add entries here when deprecating config keys to provide helpful warnings to users.
var deprecatedKeys = map[string]DeprecatedKey{
	"workspaces_root": {
		OldKey:  "workspaces_root",
		Message: "cgwt derives workspace locations from the shared git store; this key has no effect",
	},
}

// checkDeprecatedKeys checks for deprecated keys in the raw config map
// and returns warnings for any that are found.
func checkDeprecatedKeys(allSettings map[string]interface{}) []string {
	var warnings []string

	for oldKey, info := range deprecatedKeys {
		if _, exists := allSettings[oldKey]; exists {
			var warning string

			if info.NewKey != "" {
				warning = fmt.Sprintf("config key %q is deprecated, use %q instead", oldKey, info.NewKey)
			} else {
				warning = fmt.Sprintf("config key %q is deprecated: %s", oldKey, info.Message)
			}

			if info.RemovedIn != "" {
				warning += fmt.Sprintf(" (will be removed in %s)", info.RemovedIn)
			}

			warnings = append(warnings, warning)
		}
	}

	return warnings
}

// findSimilarField finds the most similar known field name using Levenshtein distance.
// Returns empty string if no similar field is found (distance > 3).
func findSimilarField(unknown string) string {
	bestMatch := ""
	bestDistance := 4 // Only suggest if distance is 3 or less

	for _, known := range knownConfigFields {
		parts := strings.Split(known, ".")
		fieldName := parts[len(parts)-1]

		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(fieldName))
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = fieldName
		}

		if len(parts) > 1 {
			dist = levenshteinDistance(strings.ToLower(unknown), strings.ToLower(known))
			if dist < bestDistance {
				bestDistance = dist
				bestMatch = known
			}
		}
	}

	return bestMatch
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)

	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}

	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// formatUnknownFieldError creates a user-friendly error message for unknown config fields.
func formatUnknownFieldError(unknownFields []string) string {
	var msgs []string

	for _, field := range unknownFields {
		similar := findSimilarField(field)
		if similar != "" {
			msgs = append(msgs, fmt.Sprintf("unknown config field %q, did you mean %q?", field, similar))
		} else {
			msgs = append(msgs, fmt.Sprintf("unknown config field %q", field))
		}
	}

	return strings.Join(msgs, "; ")
}

// extractUnknownFields parses mapstructure error messages to extract unknown field names.
// The error format is: "... has invalid keys: field1, field2" or similar.
func extractUnknownFields(errMsg string) []string {
	idx := strings.Index(errMsg, "invalid keys:")
	if idx == -1 {
		return nil
	}

	keysStr := strings.TrimSpace(errMsg[idx+len("invalid keys:"):])

	var fields []string

	for _, field := range strings.Split(keysStr, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}

	return fields
}

// Load initializes and loads the configuration.
// If configPath is provided (non-empty), it takes precedence over all other config locations.
// Otherwise, CGWT_CONFIG environment variable is checked, then default locations.
// Priority order: configPath parameter > CGWT_CONFIG env > default locations.
func Load(configPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, cerrors.NewInternalError("get user home dir", err)
	}

	viper.SetConfigType("yaml")

	explicitConfigPath := false

	switch {
	case configPath != "":
		expandedPath := expandPath(configPath, home)
		viper.SetConfigFile(expandedPath)

		explicitConfigPath = true
	case os.Getenv("CGWT_CONFIG") != "":
		expandedPath := expandPath(os.Getenv("CGWT_CONFIG"), home)
		viper.SetConfigFile(expandedPath)

		explicitConfigPath = true
	default:
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(home, ".cgwt"))
		viper.AddConfigPath(filepath.Join(home, ".config", "cgwt"))
	}

	viper.SetDefault("mux_binary", DefaultMuxBinary)
	viper.SetDefault("assistant_command", DefaultAssistantCommand)
	viper.SetDefault("assistant_match_substring", DefaultAssistantCommand)
	viper.SetDefault("git_timeout", DefaultGitTimeout.String())
	viper.SetDefault("mux_timeout", DefaultMuxTimeout.String())
	viper.SetDefault("poll_interval_ms", DefaultPollIntervalMS)
	viper.SetDefault("retention_hours", DefaultRetentionHours)

	viper.SetDefault("git.retry.max_attempts", 3)
	viper.SetDefault("git.retry.initial_delay", "1s")
	viper.SetDefault("git.retry.max_delay", "30s")
	viper.SetDefault("git.retry.multiplier", 2.0)
	viper.SetDefault("git.retry.jitter_factor", 0.25)

	viper.SetEnvPrefix("CGWT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if explicitConfigPath {
				return nil, cerrors.NewInternalError("read config file", fmt.Errorf("config file not found: %s", viper.ConfigFileUsed()))
			}
		} else {
			return nil, cerrors.NewInternalError("read config file", err)
		}
	}

	settings := viper.AllSettings()
	warnings := checkDeprecatedKeys(settings)

	// Deprecated keys have no Config field; drop them before the strict
	// decode so they produce a warning instead of an unknown-key error.
	for oldKey := range deprecatedKeys {
		delete(settings, oldKey)
	}

	decodeFrom := viper.New()
	if err := decodeFrom.MergeConfigMap(settings); err != nil {
		return nil, cerrors.NewInternalError("read config file", err)
	}

	var cfg Config
	if err := decodeFrom.Unmarshal(&cfg, func(config *mapstructure.DecoderConfig) {
		config.ErrorUnused = true
	}); err != nil {
		return nil, handleUnmarshalError(err)
	}

	// CGWT_MUX / CGWT_ASSISTANT are documented shorthand overrides for the
	// equivalent config fields, applied after AutomaticEnv resolution.
	if mux := os.Getenv("CGWT_MUX"); mux != "" {
		cfg.MuxBinary = mux
	}

	if assistant := os.Getenv("CGWT_ASSISTANT"); assistant != "" {
		cfg.AssistantCommand = assistant
	}

	cfg.Warnings = warnings

	return &cfg, nil
}

// handleUnmarshalError processes viper unmarshal errors and provides helpful suggestions
// for unknown fields (typos, etc.).
func handleUnmarshalError(err error) error {
	errMsg := err.Error()
	if strings.Contains(errMsg, "has invalid keys") {
		unknownFields := extractUnknownFields(errMsg)
		if len(unknownFields) > 0 {
			return cerrors.NewInvalidArgument("config", formatUnknownFieldError(unknownFields))
		}
	}

	return cerrors.NewInvalidArgument("config", fmt.Sprintf("failed to unmarshal: %v", err))
}

func expandPath(path, home string) string {
	if path == "~" {
		return home
	}

	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(home, path[2:])
	}

	return path
}

// Default values for runtime configuration.
const (
	DefaultMuxBinary        = "tmux"
	DefaultAssistantCommand = "claude"
	DefaultGitTimeout       = 30 * time.Second
	DefaultMuxTimeout       = 10 * time.Second
	DefaultPollIntervalMS   = 2000
	DefaultRetentionHours   = 24
)

// maxRetryAttempts is the maximum allowed value for retry attempts to prevent misconfiguration.
const maxRetryAttempts = 10

// Validate performs complete configuration validation of field values.
func (c *Config) Validate() error {
	if err := c.validateRuntimeSettings(); err != nil {
		return err
	}

	return c.validateGitRetry()
}

func (c *Config) validateRuntimeSettings() error {
	if strings.TrimSpace(c.MuxBinary) == "" {
		return cerrors.NewInvalidArgument("mux_binary", "cannot be empty")
	}

	if strings.TrimSpace(c.AssistantCommand) == "" {
		return cerrors.NewInvalidArgument("assistant_command", "cannot be empty")
	}

	if _, err := time.ParseDuration(c.GitTimeout); err != nil {
		return cerrors.NewInvalidArgument("git_timeout", fmt.Sprintf("invalid duration %q: %v", c.GitTimeout, err))
	}

	if _, err := time.ParseDuration(c.MuxTimeout); err != nil {
		return cerrors.NewInvalidArgument("mux_timeout", fmt.Sprintf("invalid duration %q: %v", c.MuxTimeout, err))
	}

	if c.PollIntervalMS <= 0 {
		return cerrors.NewInvalidArgument("poll_interval_ms", fmt.Sprintf("must be positive, got %d", c.PollIntervalMS))
	}

	if c.RetentionHours <= 0 {
		return cerrors.NewInvalidArgument("retention_hours", fmt.Sprintf("must be positive, got %d", c.RetentionHours))
	}

	return nil
}

// validateGitRetry validates the git retry configuration.
//
//nolint:gocyclo // Sequential validation checks are simpler to read than refactoring for lower complexity
func (c *Config) validateGitRetry() error {
	retry := c.Git.Retry

	if retry.MaxAttempts < 1 {
		return cerrors.NewInvalidArgument("git.retry.max_attempts", fmt.Sprintf("must be at least 1, got %d", retry.MaxAttempts))
	}

	if retry.MaxAttempts > maxRetryAttempts {
		return cerrors.NewInvalidArgument("git.retry.max_attempts", fmt.Sprintf("must not exceed %d, got %d", maxRetryAttempts, retry.MaxAttempts))
	}

	initialDelay, err := time.ParseDuration(retry.InitialDelay)
	if err != nil {
		return cerrors.NewInvalidArgument("git.retry.initial_delay", fmt.Sprintf("invalid: %v", err))
	}

	if initialDelay <= 0 {
		return cerrors.NewInvalidArgument("git.retry.initial_delay", fmt.Sprintf("must be positive, got %s", retry.InitialDelay))
	}

	maxDelay, err := time.ParseDuration(retry.MaxDelay)
	if err != nil {
		return cerrors.NewInvalidArgument("git.retry.max_delay", fmt.Sprintf("invalid: %v", err))
	}

	if maxDelay <= 0 {
		return cerrors.NewInvalidArgument("git.retry.max_delay", fmt.Sprintf("must be positive, got %s", retry.MaxDelay))
	}

	if initialDelay > maxDelay {
		return cerrors.NewInvalidArgument("git.retry.initial_delay", fmt.Sprintf("(%s) must not exceed max_delay (%s)", retry.InitialDelay, retry.MaxDelay))
	}

	if retry.Multiplier < 1.0 {
		return cerrors.NewInvalidArgument("git.retry.multiplier", fmt.Sprintf("must be at least 1.0, got %f", retry.Multiplier))
	}

	if retry.JitterFactor < 0 || retry.JitterFactor > 1 {
		return cerrors.NewInvalidArgument("git.retry.jitter_factor", fmt.Sprintf("must be between 0 and 1, got %f", retry.JitterFactor))
	}

	return nil
}

// GetGitTimeout returns the parsed git subprocess timeout.
func (c *Config) GetGitTimeout() time.Duration {
	parsed, err := time.ParseDuration(c.GitTimeout)
	if err != nil {
		return DefaultGitTimeout
	}

	return parsed
}

// GetMuxTimeout returns the parsed multiplexer subprocess timeout.
func (c *Config) GetMuxTimeout() time.Duration {
	parsed, err := time.ParseDuration(c.MuxTimeout)
	if err != nil {
		return DefaultMuxTimeout
	}

	return parsed
}

// GetPollInterval returns the message bus poll interval as a Duration.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// GetRetention returns the message bus retention window.
func (c *Config) GetRetention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// GetGitRetryConfig returns the parsed git retry configuration.
// Since validation has already run, we can safely ignore the error.
func (c *Config) GetGitRetryConfig() ParsedRetryConfig {
	parsed, _ := c.Git.Retry.Parse()
	return parsed
}

// GetWarnings returns any warnings collected during config loading.
// These may include deprecation warnings or other non-fatal issues.
func (c *Config) GetWarnings() []string {
	return c.Warnings
}

// HasWarnings returns true if there are any warnings from config loading.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}
