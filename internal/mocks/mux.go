package mocks

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Compile-time check that MockMultiplexerDriver implements ports.MultiplexerDriver.
var _ ports.MultiplexerDriver = (*MockMultiplexerDriver)(nil)

// MockMultiplexerDriver is a mock implementation of ports.MultiplexerDriver for testing.
type MockMultiplexerDriver struct {
	AvailableFunc        func(ctx context.Context) bool
	InsideMultiplexerFunc func() bool
	SessionNameFunc      func(project, branch string) string
	CreateDetachedFunc   func(ctx context.Context, name, cwd string, command []string) error
	AttachFunc           func(ctx context.Context, name string) error
	LaunchFunc           func(ctx context.Context, opts ports.LaunchOptions) error
	ListSessionsFunc     func(ctx context.Context, prefix string) ([]ports.SessionInfo, error)
	ShutdownAllFunc      func(ctx context.Context, prefix string) error
	SplitPaneFunc        func(ctx context.Context, opts ports.SplitOptions) error
}

// NewMockMultiplexerDriver creates a new MockMultiplexerDriver with default no-op behavior.
func NewMockMultiplexerDriver() *MockMultiplexerDriver {
	return &MockMultiplexerDriver{}
}

// Available calls the mock function if set, otherwise returns true.
func (m *MockMultiplexerDriver) Available(ctx context.Context) bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc(ctx)
	}

	return true
}

// InsideMultiplexer calls the mock function if set, otherwise returns false.
func (m *MockMultiplexerDriver) InsideMultiplexer() bool {
	if m.InsideMultiplexerFunc != nil {
		return m.InsideMultiplexerFunc()
	}

	return false
}

// SessionName calls the mock function if set, otherwise returns a deterministic name.
func (m *MockMultiplexerDriver) SessionName(project, branch string) string {
	if m.SessionNameFunc != nil {
		return m.SessionNameFunc(project, branch)
	}

	return "cgwt-" + project + "-" + branch
}

// CreateDetached calls the mock function if set, otherwise returns nil.
func (m *MockMultiplexerDriver) CreateDetached(ctx context.Context, name, cwd string, command []string) error {
	if m.CreateDetachedFunc != nil {
		return m.CreateDetachedFunc(ctx, name, cwd, command)
	}

	return nil
}

// Attach calls the mock function if set, otherwise returns nil.
func (m *MockMultiplexerDriver) Attach(ctx context.Context, name string) error {
	if m.AttachFunc != nil {
		return m.AttachFunc(ctx, name)
	}

	return nil
}

// Launch calls the mock function if set, otherwise returns nil.
func (m *MockMultiplexerDriver) Launch(ctx context.Context, opts ports.LaunchOptions) error {
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}

	return nil
}

// ListSessions calls the mock function if set, otherwise returns an empty slice.
func (m *MockMultiplexerDriver) ListSessions(ctx context.Context, prefix string) ([]ports.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, prefix)
	}

	return nil, nil
}

// ShutdownAll calls the mock function if set, otherwise returns nil.
func (m *MockMultiplexerDriver) ShutdownAll(ctx context.Context, prefix string) error {
	if m.ShutdownAllFunc != nil {
		return m.ShutdownAllFunc(ctx, prefix)
	}

	return nil
}

// SplitPane calls the mock function if set, otherwise returns nil.
func (m *MockMultiplexerDriver) SplitPane(ctx context.Context, opts ports.SplitOptions) error {
	if m.SplitPaneFunc != nil {
		return m.SplitPaneFunc(ctx, opts)
	}

	return nil
}
