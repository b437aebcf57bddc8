package mocks

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Compile-time check that MockMessageBus implements ports.MessageBus.
var _ ports.MessageBus = (*MockMessageBus)(nil)

// MockMessageBus is a mock implementation of ports.MessageBus for testing.
type MockMessageBus struct {
	SendFunc          func(ctx context.Context, target domain.MessageTarget, kind domain.MessageKind, content string, metadata map[string]string) error
	PendingFunc       func(ctx context.Context) ([]domain.Message, error)
	StartWatchingFunc func(ctx context.Context, periodMs int) (<-chan ports.BusEvent, error)
	StopWatchingFunc  func()
	CleanupFunc       func(ctx context.Context) error
}

// NewMockMessageBus creates a new MockMessageBus with default no-op behavior.
func NewMockMessageBus() *MockMessageBus {
	return &MockMessageBus{}
}

// Send calls the mock function if set, otherwise returns nil.
func (m *MockMessageBus) Send(ctx context.Context, target domain.MessageTarget, kind domain.MessageKind, content string, metadata map[string]string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, target, kind, content, metadata)
	}

	return nil
}

// Pending calls the mock function if set, otherwise returns an empty slice.
func (m *MockMessageBus) Pending(ctx context.Context) ([]domain.Message, error) {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx)
	}

	return nil, nil
}

// StartWatching calls the mock function if set, otherwise returns a closed channel.
func (m *MockMessageBus) StartWatching(ctx context.Context, periodMs int) (<-chan ports.BusEvent, error) {
	if m.StartWatchingFunc != nil {
		return m.StartWatchingFunc(ctx, periodMs)
	}

	ch := make(chan ports.BusEvent)
	close(ch)

	return ch, nil
}

// StopWatching calls the mock function if set, otherwise does nothing.
func (m *MockMessageBus) StopWatching() {
	if m.StopWatchingFunc != nil {
		m.StopWatchingFunc()
	}
}

// Cleanup calls the mock function if set, otherwise returns nil.
func (m *MockMessageBus) Cleanup(ctx context.Context) error {
	if m.CleanupFunc != nil {
		return m.CleanupFunc(ctx)
	}

	return nil
}

// Compile-time check that MockSessionAttachmentChecker implements ports.SessionAttachmentChecker.
var _ ports.SessionAttachmentChecker = (*MockSessionAttachmentChecker)(nil)

// MockSessionAttachmentChecker is a mock implementation of
// ports.SessionAttachmentChecker for testing.
type MockSessionAttachmentChecker struct {
	IsAttachedFunc func(ctx context.Context, branch string) (bool, error)
}

// NewMockSessionAttachmentChecker creates a new MockSessionAttachmentChecker.
func NewMockSessionAttachmentChecker() *MockSessionAttachmentChecker {
	return &MockSessionAttachmentChecker{}
}

// IsAttached calls the mock function if set, otherwise returns false.
func (m *MockSessionAttachmentChecker) IsAttached(ctx context.Context, branch string) (bool, error) {
	if m.IsAttachedFunc != nil {
		return m.IsAttachedFunc(ctx, branch)
	}

	return false, nil
}
