package mocks

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Compile-time check that MockWorkspaceManager implements ports.WorkspaceManager.
var _ ports.WorkspaceManager = (*MockWorkspaceManager)(nil)

// MockWorkspaceManager is a mock implementation of ports.WorkspaceManager for testing.
type MockWorkspaceManager struct {
	ListFunc                     func(ctx context.Context, storePath string) ([]domain.Workspace, error)
	AddFunc                      func(ctx context.Context, storePath, branch, base string) (string, error)
	RemoveFunc                   func(ctx context.Context, storePath, branch string, force bool) error
	BranchesWithoutWorkspaceFunc func(ctx context.Context, storePath string) ([]string, error)
}

// NewMockWorkspaceManager creates a new MockWorkspaceManager with default no-op behavior.
func NewMockWorkspaceManager() *MockWorkspaceManager {
	return &MockWorkspaceManager{}
}

// List calls the mock function if set, otherwise returns an empty slice.
func (m *MockWorkspaceManager) List(ctx context.Context, storePath string) ([]domain.Workspace, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, storePath)
	}

	return nil, nil
}

// Add calls the mock function if set, otherwise returns storePath/branch.
func (m *MockWorkspaceManager) Add(ctx context.Context, storePath, branch, base string) (string, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, storePath, branch, base)
	}

	return storePath + "/" + branch, nil
}

// Remove calls the mock function if set, otherwise returns nil.
func (m *MockWorkspaceManager) Remove(ctx context.Context, storePath, branch string, force bool) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, storePath, branch, force)
	}

	return nil
}

// BranchesWithoutWorkspace calls the mock function if set, otherwise returns an empty slice.
func (m *MockWorkspaceManager) BranchesWithoutWorkspace(ctx context.Context, storePath string) ([]string, error) {
	if m.BranchesWithoutWorkspaceFunc != nil {
		return m.BranchesWithoutWorkspaceFunc(ctx, storePath)
	}

	return nil, nil
}
