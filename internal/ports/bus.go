// Package ports defines interfaces for external dependencies (hexagonal architecture).
package ports

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
)

// BusEventKind identifies what kind of notification a bus watch delivered.
type BusEventKind string

// Bus event kinds: one generic notification per new message, plus one
// kind-specific notification.
const (
	BusEventMessage BusEventKind = "message"
	BusEventKindTag BusEventKind = "kind"
)

// BusEvent is delivered on the channel returned by MessageBus.StartWatching.
type BusEvent struct {
	Kind    BusEventKind
	Message domain.Message
}

// MessageBus is a filesystem-backed, per-instance inbox/outbox/processed
// message queue.
type MessageBus interface {
	// Send enqueues a message addressed to target.
	Send(ctx context.Context, target domain.MessageTarget, kind domain.MessageKind, content string, metadata map[string]string) error

	// Pending returns and consumes (moves to processed/) all messages
	// currently in the inbox addressed to this instance.
	Pending(ctx context.Context) ([]domain.Message, error)

	// StartWatching begins delivering BusEvents for new inbox messages,
	// falling back to a periodMs poll when the filesystem watcher is
	// unavailable.
	StartWatching(ctx context.Context, periodMs int) (<-chan BusEvent, error)

	// StopWatching stops a prior StartWatching call.
	StopWatching()

	// Cleanup deletes processed/ entries older than the retention window.
	Cleanup(ctx context.Context) error
}

// SessionAttachmentChecker reports whether a workspace branch currently has
// a live multiplexer session attached to it. WorkspaceManager depends on
// this instead of importing the orchestrator directly, to avoid an import
// cycle between internal/workspace and internal/orchestrator.
type SessionAttachmentChecker interface {
	IsAttached(ctx context.Context, branch string) (bool, error)
}
