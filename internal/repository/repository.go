// Package repository manages the shared bare object store that every
// workspace worktree shares.
package repository

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

const (
	bareDirName    = ".bare"
	pointerContent = "gitdir: ./.bare\n"
)

// Service wraps git plumbing to manage the shared store at a parent
// directory: `<path>/.bare` holds the object database and `<path>/.git`
// is a pointer file naming it.
type Service struct {
	Git ports.GitOperations
}

// New creates a Service backed by the given git operations implementation.
func New(git ports.GitOperations) *Service {
	return &Service{Git: git}
}

// InitShared creates a bare object store at `<path>/.bare`, writes the
// `.git` pointer file, and returns the resolved default branch.
func (s *Service) InitShared(ctx context.Context, path, remoteURL string) (string, error) {
	barePath := filepath.Join(path, bareDirName)

	defaultBranch, err := s.Git.InitShared(ctx, barePath, remoteURL)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(path, ".git"), []byte(pointerContent), 0o644); err != nil {
		if cleanupErr := os.RemoveAll(barePath); cleanupErr != nil {
			return "", cerrors.NewInternalError("cleanup partial shared store after pointer write failure", cleanupErr)
		}

		return "", cerrors.NewInternalError("write .git pointer file", err)
	}

	return defaultBranch, nil
}

// Fetch refreshes every remote known to the shared store at path.
func (s *Service) Fetch(ctx context.Context, path string) error {
	return s.Git.Fetch(ctx, filepath.Join(path, bareDirName))
}

// ResolveDefaultBranch returns the shared store's default branch.
func (s *Service) ResolveDefaultBranch(ctx context.Context, path string) (string, error) {
	return s.Git.ResolveDefaultBranch(ctx, filepath.Join(path, bareDirName))
}

// CanConvertPlainToShared reports whether the plain repository at path is
// safe to convert: no uncommitted changes and no submodules.
func (s *Service) CanConvertPlainToShared(ctx context.Context, path string) (bool, string) {
	isDirty, _, _, _, err := s.Git.Status(ctx, path)
	if err != nil {
		return false, "unable to determine working tree status: " + err.Error()
	}

	if isDirty {
		return false, "working tree has uncommitted or staged changes"
	}

	hasSubmodules, err := s.Git.HasUncommittedSubmodules(ctx, path)
	if err != nil {
		return false, "unable to check for submodules: " + err.Error()
	}

	if hasSubmodules {
		return false, "repository contains submodules"
	}

	return true, ""
}

// ConvertPlainToShared moves `<path>/.git` to `<path>/.bare`, rewrites
// `.git` as a pointer file, and returns the default branch and the branch
// the repository was previously on. The directory's prior working tree
// contents are relocated into a `<path>/<originalBranch>/` workspace, so
// `path` ends up holding nothing but the shared store and the pointer file,
// matching every other shared store parent. A failure after the move and
// before the workspace exists is rolled back by restoring `.git`; a failure
// while removing the stale entries afterwards is returned without rollback.
func (s *Service) ConvertPlainToShared(ctx context.Context, path string) (defaultBranch, originalBranch string, err error) {
	if ok, reason := s.CanConvertPlainToShared(ctx, path); !ok {
		return "", "", cerrors.NewConvertError(path, reason)
	}

	_, _, _, originalBranch, err = s.Git.Status(ctx, path)
	if err != nil {
		return "", "", cerrors.NewConvertError(path, "unable to determine current branch: "+err.Error())
	}

	gitDir := filepath.Join(path, ".git")
	barePath := filepath.Join(path, bareDirName)

	legacyEntries, err := legacyWorktreeEntries(path)
	if err != nil {
		return "", "", cerrors.NewInternalError("enumerate working tree entries", err)
	}

	if err := os.Rename(gitDir, barePath); err != nil {
		return "", "", cerrors.NewInternalError("move .git to .bare", err)
	}

	if err := os.WriteFile(gitDir, []byte(pointerContent), 0o644); err != nil {
		if rollbackErr := os.Rename(barePath, gitDir); rollbackErr != nil {
			return "", "", cerrors.NewInternalError("rollback failed after pointer write failure", rollbackErr)
		}

		return "", "", cerrors.NewConvertError(path, "unable to write .git pointer file: "+err.Error())
	}

	// A repository converted in place from a normal checkout still has
	// core.bare=false and implicitly treats `path` as its main worktree,
	// which would make `git worktree add` refuse originalBranch as "already
	// checked out". Marking it bare removes that implicit main worktree, the
	// same state go-git's PlainCloneContext(bare=true) leaves InitShared's
	// fresh stores in.
	if _, err := s.Git.RunCommand(ctx, barePath, "config", "core.bare", "true"); err != nil {
		if rollbackErr := s.rollbackConversion(gitDir, barePath); rollbackErr != nil {
			return "", "", cerrors.NewInternalError("rollback failed after marking store bare", rollbackErr)
		}

		return "", "", cerrors.NewConvertError(path, "unable to mark shared store bare: "+err.Error())
	}

	defaultBranch, err = s.Git.ResolveDefaultBranch(ctx, barePath)
	if err != nil {
		if rollbackErr := s.rollbackConversion(gitDir, barePath); rollbackErr != nil {
			return "", "", cerrors.NewInternalError("rollback failed after default branch resolution failure", rollbackErr)
		}

		return "", "", cerrors.NewConvertError(path, "unable to resolve default branch: "+err.Error())
	}

	workspacePath := filepath.Join(path, domain.SanitizeBranchDir(originalBranch))

	if err := s.Git.AddWorktree(ctx, barePath, workspacePath, originalBranch, ""); err != nil {
		if rollbackErr := s.rollbackConversion(gitDir, barePath); rollbackErr != nil {
			return "", "", cerrors.NewInternalError("rollback failed after workspace creation failure", rollbackErr)
		}

		return "", "", cerrors.NewConvertError(path, "unable to recreate workspace for "+originalBranch+": "+err.Error())
	}

	// The fresh checkout at workspacePath reproduces the prior working tree
	// (CanConvertPlainToShared already required it to be clean); the
	// original entries directly under path are now stale and removed so
	// path matches the layout of every other shared store parent.
	for _, name := range legacyEntries {
		if err := os.RemoveAll(filepath.Join(path, name)); err != nil {
			return "", "", cerrors.NewInternalError("remove stale working tree entry "+name, err)
		}
	}

	return defaultBranch, originalBranch, nil
}

// legacyWorktreeEntries lists path's entries other than .git, so they can be
// removed once their content has been recreated under the new workspace
// subdirectory.
func legacyWorktreeEntries(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}

		names = append(names, entry.Name())
	}

	return names, nil
}

func (s *Service) rollbackConversion(gitDir, barePath string) error {
	if err := os.Remove(gitDir); err != nil {
		return err
	}

	return os.Rename(barePath, gitDir)
}

// EnumerateBranchesWithoutWorkspace returns branches known to the shared
// store at path that have no corresponding worktree checked out.
func (s *Service) EnumerateBranchesWithoutWorkspace(ctx context.Context, path string) ([]string, error) {
	barePath := filepath.Join(path, bareDirName)

	branches, err := s.Git.ListBranches(ctx, barePath)
	if err != nil {
		return nil, err
	}

	worktrees, err := s.Git.ListWorktrees(ctx, barePath)
	if err != nil {
		return nil, err
	}

	checkedOut := make(map[string]bool, len(worktrees))
	for _, wt := range worktrees {
		if wt.Branch != "" {
			checkedOut[wt.Branch] = true
		}
	}

	var missing []string

	for _, branch := range branches {
		if !checkedOut[branch] {
			missing = append(missing, branch)
		}
	}

	return missing, nil
}
