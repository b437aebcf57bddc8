package workspace_test

import (
	"context"
	"testing"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/mocks"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
	"github.com/alexisbeaulieu97/cgwt/internal/workspace"
)

func TestManager_List(t *testing.T) {
	t.Parallel()

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return []ports.WorktreeInfo{
			{Path: "/repo/.bare", Bare: true},
			{Path: "/repo/main", Branch: "main", Head: "abc123"},
			{Path: "/repo/feature-x", Branch: "feature-x", Head: "def456"},
		}, nil
	}

	m := workspace.New(git, nil, nil)

	workspaces, err := m.List(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(workspaces) != 2 {
		t.Fatalf("List() returned %d workspaces, want 2", len(workspaces))
	}

	if workspaces[0].Branch != "main" || workspaces[1].Branch != "feature-x" {
		t.Errorf("unexpected branches: %+v", workspaces)
	}
}

func TestManager_Add_CreatesWorktree(t *testing.T) {
	t.Parallel()

	var gotBranch, gotBase string

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return nil, nil
	}
	git.AddWorktreeFunc = func(ctx context.Context, storePath, worktreePath, branch, base string) error {
		gotBranch = branch
		gotBase = base

		return nil
	}

	m := workspace.New(git, nil, nil)

	path, err := m.Add(context.Background(), t.TempDir(), "feature-x", "main")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if gotBranch != "feature-x" || gotBase != "main" {
		t.Errorf("AddWorktree called with branch=%q base=%q", gotBranch, gotBase)
	}

	if path == "" {
		t.Error("Add() returned empty path")
	}
}

func TestManager_Add_RefusesExisting(t *testing.T) {
	t.Parallel()

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return []ports.WorktreeInfo{{Path: "/repo/feature-x", Branch: "feature-x"}}, nil
	}

	m := workspace.New(git, nil, nil)

	_, err := m.Add(context.Background(), "/repo", "feature-x", "main")
	if !errorIs(err, cerrors.WorkspaceExistsErr) {
		t.Fatalf("Add() error = %v, want WorkspaceExists", err)
	}
}

func TestManager_Remove_MissingWorkspace(t *testing.T) {
	t.Parallel()

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return nil, nil
	}

	m := workspace.New(git, nil, nil)

	err := m.Remove(context.Background(), "/repo", "feature-x", false)
	if !errorIs(err, cerrors.WorkspaceMissingErr) {
		t.Fatalf("Remove() error = %v, want WorkspaceMissing", err)
	}
}

func TestManager_Remove_RefusesDirtyWorktree(t *testing.T) {
	t.Parallel()

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return []ports.WorktreeInfo{{Path: "/repo/feature-x", Branch: "feature-x"}}, nil
	}
	git.StatusFunc = func(ctx context.Context, path string) (bool, int, int, string, error) {
		return true, 0, 0, "feature-x", nil
	}

	m := workspace.New(git, nil, nil)

	err := m.Remove(context.Background(), "/repo", "feature-x", false)
	if !errorIs(err, cerrors.WorkspaceBusyErr) {
		t.Fatalf("Remove() error = %v, want WorkspaceBusy", err)
	}
}

func TestManager_Remove_RefusesAttachedSession(t *testing.T) {
	t.Parallel()

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return []ports.WorktreeInfo{{Path: "/repo/feature-x", Branch: "feature-x"}}, nil
	}

	attachment := mocks.NewMockSessionAttachmentChecker()
	attachment.IsAttachedFunc = func(ctx context.Context, branch string) (bool, error) {
		return true, nil
	}

	m := workspace.New(git, attachment, nil)

	err := m.Remove(context.Background(), "/repo", "feature-x", false)
	if !errorIs(err, cerrors.WorkspaceBusyErr) {
		t.Fatalf("Remove() error = %v, want WorkspaceBusy", err)
	}
}

func TestManager_Remove_ForceBypassesBusyChecks(t *testing.T) {
	t.Parallel()

	var removed bool

	git := mocks.NewMockGitOperations()
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return []ports.WorktreeInfo{{Path: "/repo/feature-x", Branch: "feature-x"}}, nil
	}
	git.StatusFunc = func(ctx context.Context, path string) (bool, int, int, string, error) {
		return true, 0, 0, "feature-x", nil
	}
	git.RemoveWorktreeFunc = func(ctx context.Context, storePath, worktreePath string) error {
		removed = true

		return nil
	}

	m := workspace.New(git, nil, nil)

	if err := m.Remove(context.Background(), t.TempDir(), "feature-x", true); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if !removed {
		t.Error("expected RemoveWorktree to be called")
	}
}

func TestManager_BranchesWithoutWorkspace(t *testing.T) {
	t.Parallel()

	git := mocks.NewMockGitOperations()
	git.ListBranchesFunc = func(ctx context.Context, storePath string) ([]string, error) {
		return []string{"main", "feature-x", "feature-y"}, nil
	}
	git.ListWorktreesFunc = func(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
		return []ports.WorktreeInfo{{Path: "/repo/main", Branch: "main"}}, nil
	}

	m := workspace.New(git, nil, nil)

	missing, err := m.BranchesWithoutWorkspace(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("BranchesWithoutWorkspace() error = %v", err)
	}

	if len(missing) != 2 {
		t.Fatalf("BranchesWithoutWorkspace() = %v, want 2 entries", missing)
	}
}

func errorIs(err error, target error) bool {
	type isser interface{ Is(error) bool }

	ce, ok := err.(isser)

	return ok && ce.Is(target)
}
