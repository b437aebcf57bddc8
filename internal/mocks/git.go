// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Compile-time check that MockGitOperations implements ports.GitOperations.
var _ ports.GitOperations = (*MockGitOperations)(nil)

// MockGitOperations is a mock implementation of ports.GitOperations for testing.
type MockGitOperations struct {
	InitSharedFunc              func(ctx context.Context, path, remoteURL string) (string, error)
	FetchFunc                   func(ctx context.Context, path string) error
	ResolveDefaultBranchFunc    func(ctx context.Context, path string) (string, error)
	StatusFunc                  func(ctx context.Context, path string) (bool, int, int, string, error)
	AddWorktreeFunc             func(ctx context.Context, storePath, worktreePath, branch, base string) error
	RemoveWorktreeFunc          func(ctx context.Context, storePath, worktreePath string) error
	PruneWorktreesFunc          func(ctx context.Context, storePath string) error
	ListWorktreesFunc           func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error)
	ListBranchesFunc            func(ctx context.Context, storePath string) ([]string, error)
	HasUncommittedSubmodulesFunc func(ctx context.Context, path string) (bool, error)
	RunCommandFunc              func(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error)
}

// NewMockGitOperations creates a new MockGitOperations with default no-op behavior.
func NewMockGitOperations() *MockGitOperations {
	return &MockGitOperations{}
}

// InitShared calls the mock function if set, otherwise returns "main".
func (m *MockGitOperations) InitShared(ctx context.Context, path, remoteURL string) (string, error) {
	if m.InitSharedFunc != nil {
		return m.InitSharedFunc(ctx, path, remoteURL)
	}

	return "main", nil
}

// Fetch calls the mock function if set, otherwise returns nil.
func (m *MockGitOperations) Fetch(ctx context.Context, path string) error {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, path)
	}

	return nil
}

// ResolveDefaultBranch calls the mock function if set, otherwise returns "main".
func (m *MockGitOperations) ResolveDefaultBranch(ctx context.Context, path string) (string, error) {
	if m.ResolveDefaultBranchFunc != nil {
		return m.ResolveDefaultBranchFunc(ctx, path)
	}

	return "main", nil
}

// Status calls the mock function if set, otherwise returns default values.
func (m *MockGitOperations) Status(ctx context.Context, path string) (bool, int, int, string, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, path)
	}

	return false, 0, 0, "main", nil
}

// AddWorktree calls the mock function if set, otherwise returns nil.
func (m *MockGitOperations) AddWorktree(ctx context.Context, storePath, worktreePath, branch, base string) error {
	if m.AddWorktreeFunc != nil {
		return m.AddWorktreeFunc(ctx, storePath, worktreePath, branch, base)
	}

	return nil
}

// RemoveWorktree calls the mock function if set, otherwise returns nil.
func (m *MockGitOperations) RemoveWorktree(ctx context.Context, storePath, worktreePath string) error {
	if m.RemoveWorktreeFunc != nil {
		return m.RemoveWorktreeFunc(ctx, storePath, worktreePath)
	}

	return nil
}

// PruneWorktrees calls the mock function if set, otherwise returns nil.
func (m *MockGitOperations) PruneWorktrees(ctx context.Context, storePath string) error {
	if m.PruneWorktreesFunc != nil {
		return m.PruneWorktreesFunc(ctx, storePath)
	}

	return nil
}

// ListWorktrees calls the mock function if set, otherwise returns an empty slice.
func (m *MockGitOperations) ListWorktrees(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
	if m.ListWorktreesFunc != nil {
		return m.ListWorktreesFunc(ctx, storePath)
	}

	return nil, nil
}

// ListBranches calls the mock function if set, otherwise returns an empty slice.
func (m *MockGitOperations) ListBranches(ctx context.Context, storePath string) ([]string, error) {
	if m.ListBranchesFunc != nil {
		return m.ListBranchesFunc(ctx, storePath)
	}

	return nil, nil
}

// HasUncommittedSubmodules calls the mock function if set, otherwise returns false.
func (m *MockGitOperations) HasUncommittedSubmodules(ctx context.Context, path string) (bool, error) {
	if m.HasUncommittedSubmodulesFunc != nil {
		return m.HasUncommittedSubmodulesFunc(ctx, path)
	}

	return false, nil
}

// RunCommand calls the mock function if set, otherwise returns a zero-exit empty result.
func (m *MockGitOperations) RunCommand(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
	if m.RunCommandFunc != nil {
		return m.RunCommandFunc(ctx, repoPath, args...)
	}

	return &ports.CommandResult{}, nil
}
