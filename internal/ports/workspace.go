package ports

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
)

// WorkspaceManager manages the branch worktrees checked out against a single
// shared store. The orchestrator depends on this interface rather than the
// concrete internal/workspace type so both packages can be tested in
// isolation.
type WorkspaceManager interface {
	// List returns every worktree checked out against the shared store at
	// storePath.
	List(ctx context.Context, storePath string) ([]domain.Workspace, error)

	// Add creates a worktree for branch, rooted at a sanitized subdirectory
	// of storePath, branching from base when branch does not yet exist.
	Add(ctx context.Context, storePath, branch, base string) (path string, err error)

	// Remove deletes the worktree for branch. It refuses when the worktree
	// has uncommitted changes or an attached session, unless force is set.
	Remove(ctx context.Context, storePath, branch string, force bool) error

	// BranchesWithoutWorkspace returns branches known to the shared store
	// that have no corresponding worktree.
	BranchesWithoutWorkspace(ctx context.Context, storePath string) ([]string, error)
}
