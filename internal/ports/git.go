// Package ports defines interfaces for external dependencies (hexagonal architecture).
package ports

import "context"

// CommandResult holds the output and exit code from a git command execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// GitOperations defines the git plumbing needed by the repository and
// workspace layers.
type GitOperations interface {
	// InitShared creates a bare object store at path and fetches remoteURL
	// into it, returning the resolved default branch.
	InitShared(ctx context.Context, path, remoteURL string) (defaultBranch string, err error)

	// Fetch updates all refs in the shared store at path.
	Fetch(ctx context.Context, path string) error

	// ResolveDefaultBranch determines the default branch for the shared
	// store at path: remote HEAD symref, then main/master/trunk, then the
	// first branch, then a hardcoded fallback.
	ResolveDefaultBranch(ctx context.Context, path string) (string, error)

	// Status reports dirty/ahead/behind state for the worktree at path.
	Status(ctx context.Context, path string) (isDirty bool, ahead, behind int, branch string, err error)

	// AddWorktree creates a worktree for branch (creating it from base if it
	// does not yet exist) at worktreePath, against the shared store at
	// storePath.
	AddWorktree(ctx context.Context, storePath, worktreePath, branch, base string) error

	// RemoveWorktree removes a worktree from the shared store.
	RemoveWorktree(ctx context.Context, storePath, worktreePath string) error

	// PruneWorktrees cleans up stale worktree references.
	PruneWorktrees(ctx context.Context, storePath string) error

	// ListWorktrees enumerates the worktrees registered against storePath.
	ListWorktrees(ctx context.Context, storePath string) ([]WorktreeInfo, error)

	// ListBranches enumerates all local branches known to the shared store.
	ListBranches(ctx context.Context, storePath string) ([]string, error)

	// HasUncommittedSubmodules reports whether path contains a .gitmodules
	// file, used to refuse automatic plain-to-shared conversion.
	HasUncommittedSubmodules(ctx context.Context, path string) (bool, error)

	// RunCommand executes an arbitrary git command rooted at repoPath.
	RunCommand(ctx context.Context, repoPath string, args ...string) (*CommandResult, error)
}

// WorktreeInfo describes one worktree as reported by `git worktree list`.
type WorktreeInfo struct {
	Path   string
	Branch string
	Head   string
	Bare   bool
}
