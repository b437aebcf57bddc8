// Package ports defines interfaces for external dependencies (hexagonal architecture).
package ports

import "context"

// LaunchOptions configures MultiplexerDriver.Launch.
type LaunchOptions struct {
	SessionName string
	WorkingDir  string
	Command     []string
	// ChildSessionNames is only consulted when launching a supervisor: one
	// pane is split per entry, attaching to that child session from
	// WorkingDir. Launch does not start the assistant in these panes.
	ChildSessionNames []string
}

// SplitOptions configures MultiplexerDriver.SplitPane.
type SplitOptions struct {
	SessionName string
	WorkingDir  string
	Command     []string
	// Horizontal requests a side-by-side split; the default is a stacked
	// (vertical) split.
	Horizontal bool
	// Percentage sizes the new pane, in percent of the window. Zero leaves
	// the multiplexer's default split size.
	Percentage int
}

// SessionInfo reports one live multiplexer session.
type SessionInfo struct {
	Name              string
	Attached          bool
	Windows           int
	AssistantRunning  bool
}

// MultiplexerDriver drives an external terminal multiplexer over subprocess
// calls to manage one detached session per workspace.
type MultiplexerDriver interface {
	// Available reports whether the configured multiplexer binary is on PATH.
	Available(ctx context.Context) bool

	// InsideMultiplexer reports whether the current process is itself
	// running inside a multiplexer session.
	InsideMultiplexer() bool

	// SessionName derives the deterministic session name for a branch.
	SessionName(project, branch string) string

	// CreateDetached starts a new detached session if one by this name does
	// not already exist. Idempotent.
	CreateDetached(ctx context.Context, name, cwd string, command []string) error

	// Attach attaches (or switches the client to, if already inside a
	// multiplexer) the named session.
	Attach(ctx context.Context, name string) error

	// Launch creates (if needed) and attaches a session, per opts.
	Launch(ctx context.Context, opts LaunchOptions) error

	// ListSessions enumerates all live sessions whose name has the given
	// prefix (every session when prefix is empty).
	ListSessions(ctx context.Context, prefix string) ([]SessionInfo, error)

	// ShutdownAll kills every live session whose name has the given prefix.
	// Missing sessions are not an error.
	ShutdownAll(ctx context.Context, prefix string) error

	// SplitPane splits a new pane in the named session's active window and
	// runs command in it.
	SplitPane(ctx context.Context, opts SplitOptions) error
}
