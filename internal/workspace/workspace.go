// Package workspace manages the branch worktrees checked out against a
// single shared store.
package workspace

import (
	"context"
	"path/filepath"
	"time"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

const (
	bareDirName = ".bare"

	// DefaultLockTimeout bounds how long Add/Remove wait on a contended
	// branch lock before giving up.
	DefaultLockTimeout = 10 * time.Second

	// DefaultStaleLockThreshold is how old a lock's heartbeat must be before
	// a waiting caller takes it over.
	DefaultStaleLockThreshold = 30 * time.Second
)

// Compile-time check that Manager implements ports.WorkspaceManager.
var _ ports.WorkspaceManager = (*Manager)(nil)

// Manager implements ports.WorkspaceManager against a shared git store.
type Manager struct {
	Git        ports.GitOperations
	Attachment ports.SessionAttachmentChecker
	Locks      *LockManager
	Logger     *logging.Logger
}

// New creates a Manager. attachment may be nil, in which case Remove never
// refuses on attachment-busy grounds (used by callers with no orchestrator,
// such as one-shot CLI invocations).
func New(git ports.GitOperations, attachment ports.SessionAttachmentChecker, logger *logging.Logger) *Manager {
	return &Manager{
		Git:        git,
		Attachment: attachment,
		Locks:      NewLockManager(DefaultLockTimeout, DefaultStaleLockThreshold, logger),
		Logger:     logger,
	}
}

// List returns every worktree checked out against the shared store at
// storePath, as reported by `git worktree list --porcelain`.
func (m *Manager) List(ctx context.Context, storePath string) ([]domain.Workspace, error) {
	worktrees, err := m.Git.ListWorktrees(ctx, filepath.Join(storePath, bareDirName))
	if err != nil {
		return nil, err
	}

	workspaces := make([]domain.Workspace, 0, len(worktrees))

	for _, wt := range worktrees {
		if wt.Bare {
			continue
		}

		workspaces = append(workspaces, domain.Workspace{
			RepositoryID: storePath,
			Branch:       wt.Branch,
			AbsolutePath: wt.Path,
			Head:         wt.Head,
		})
	}

	return workspaces, nil
}

// Add creates a worktree for branch, rooted at a sanitized subdirectory of
// storePath, branching from base when branch does not yet exist.
func (m *Manager) Add(ctx context.Context, storePath, branch, base string) (string, error) {
	worktreePath := filepath.Join(storePath, domain.SanitizeBranchDir(branch))

	if existing, err := m.findByBranch(ctx, storePath, branch); err == nil && existing != nil {
		return "", cerrors.NewWorkspaceExists(branch)
	}

	lock, err := m.Locks.Acquire(ctx, worktreePath, branch)
	if err != nil {
		return "", err
	}
	defer func() { _ = lock.Release() }()

	bareDir := filepath.Join(storePath, bareDirName)
	if err := m.Git.AddWorktree(ctx, bareDir, worktreePath, branch, base); err != nil {
		return "", err
	}

	return worktreePath, nil
}

// Remove deletes the worktree for branch. It refuses when the worktree has
// uncommitted changes or an attached session, unless force is set.
func (m *Manager) Remove(ctx context.Context, storePath, branch string, force bool) error {
	ws, err := m.findByBranch(ctx, storePath, branch)
	if err != nil {
		return err
	}

	if ws == nil {
		return cerrors.NewWorkspaceMissing(branch)
	}

	if !force {
		if reason, busy := m.busyReason(ctx, ws.AbsolutePath, branch); busy {
			return cerrors.NewWorkspaceBusy(branch, reason)
		}
	}

	lock, err := m.Locks.Acquire(ctx, ws.AbsolutePath, branch)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	bareDir := filepath.Join(storePath, bareDirName)

	return m.Git.RemoveWorktree(ctx, bareDir, ws.AbsolutePath)
}

func (m *Manager) busyReason(ctx context.Context, worktreePath, branch string) (string, bool) {
	isDirty, _, _, _, err := m.Git.Status(ctx, worktreePath)
	if err == nil && isDirty {
		return "uncommitted or staged changes", true
	}

	if m.Attachment == nil {
		return "", false
	}

	attached, err := m.Attachment.IsAttached(ctx, branch)
	if err == nil && attached {
		return "has an attached session", true
	}

	return "", false
}

// BranchesWithoutWorkspace returns branches known to the shared store at
// storePath that have no corresponding worktree.
func (m *Manager) BranchesWithoutWorkspace(ctx context.Context, storePath string) ([]string, error) {
	bareDir := filepath.Join(storePath, bareDirName)

	branches, err := m.Git.ListBranches(ctx, bareDir)
	if err != nil {
		return nil, err
	}

	worktrees, err := m.List(ctx, storePath)
	if err != nil {
		return nil, err
	}

	checkedOut := make(map[string]bool, len(worktrees))
	for _, ws := range worktrees {
		checkedOut[ws.Branch] = true
	}

	var missing []string

	for _, branch := range branches {
		if !checkedOut[branch] {
			missing = append(missing, branch)
		}
	}

	return missing, nil
}

func (m *Manager) findByBranch(ctx context.Context, storePath, branch string) (*domain.Workspace, error) {
	workspaces, err := m.List(ctx, storePath)
	if err != nil {
		return nil, err
	}

	for i := range workspaces {
		if workspaces[i].Branch == branch {
			return &workspaces[i], nil
		}
	}

	return nil, nil
}
