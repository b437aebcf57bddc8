// Package prober classifies a filesystem path into the directory states the
// rest of cgwt dispatches on.
package prober

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Compile-time check that Prober implements ports.DirectoryClassifier.
var _ ports.DirectoryClassifier = (*Prober)(nil)

// Prober classifies directories using the git subprocess for the NonRepo
// probe and plain file reads for the shared-store/workspace pointer checks.
type Prober struct {
	Git ports.GitOperations
}

// New creates a Prober backed by the given git operations implementation.
func New(git ports.GitOperations) *Prober {
	return &Prober{Git: git}
}

// Classify implements the DirectoryProber algorithm (spec §4.1): missing path
// is created and reported Empty, an empty directory is Empty, a `.bare` +
// pointer-file layout is SharedStoreParent, a failing git status probe is
// NonRepo, and otherwise the `.git` entry distinguishes Workspace from
// PlainRepo.
func (p *Prober) Classify(ctx context.Context, path string) (domain.DirectoryState, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
				return domain.DirectoryState{}, cerrors.NewProbeError(path, mkErr)
			}

			return domain.DirectoryState{Kind: domain.DirEmpty, Path: path}, nil
		}

		return domain.DirectoryState{}, cerrors.NewProbeError(path, err)
	}

	if len(entries) == 0 {
		return domain.DirectoryState{Kind: domain.DirEmpty, Path: path}, nil
	}

	if isSharedStoreParent(path) {
		return domain.DirectoryState{Kind: domain.DirSharedStoreParent, Path: path, StorePath: path}, nil
	}

	if _, err := p.Git.RunCommand(ctx, path, "status", "--porcelain"); err != nil {
		return domain.DirectoryState{Kind: domain.DirNonRepo, Path: path}, nil
	}

	gitPath := filepath.Join(path, ".git")

	info, err := os.Lstat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DirectoryState{Kind: domain.DirNonRepo, Path: path}, nil
		}

		return domain.DirectoryState{}, cerrors.NewProbeError(path, err)
	}

	kind := domain.DirPlainRepo

	var storePath string

	if !info.IsDir() {
		content, err := os.ReadFile(gitPath)
		if err != nil {
			return domain.DirectoryState{}, cerrors.NewProbeError(gitPath, err)
		}

		if strings.HasPrefix(strings.TrimSpace(string(content)), "gitdir:") {
			kind = domain.DirWorkspace
			if root, ok := storeRootFromWorktreeGitdir(path, string(content)); ok {
				storePath = root
			}
		}
	}

	state := domain.DirectoryState{Kind: kind, Path: path, StorePath: storePath}

	if _, _, _, branchName, statusErr := p.Git.Status(ctx, path); statusErr == nil {
		state.CurrentBranch = branchName
	}

	if remote, ok := p.firstRemote(ctx, path); ok {
		state.RemoteURL = remote
	}

	return state, nil
}

// isSharedStoreParent checks for the `.bare`+pointer layout spec §4.1 step 3
// describes: a `.bare` directory containing `HEAD`, and a `.git` file whose
// content references it.
func isSharedStoreParent(path string) bool {
	bareDir := filepath.Join(path, ".bare")

	info, err := os.Stat(bareDir)
	if err != nil || !info.IsDir() {
		return false
	}

	if _, err := os.Stat(filepath.Join(bareDir, "HEAD")); err != nil {
		return false
	}

	gitPath := filepath.Join(path, ".git")

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return false
	}

	return strings.Contains(string(content), "gitdir: ./.bare")
}

// storeRootFromWorktreeGitdir resolves a workspace's shared-store root from
// the content of its `.git` pointer file, e.g. "gitdir:
// /repo/.bare/worktrees/feature". The target is resolved relative to
// workspacePath if not already absolute, then walked upward looking for the
// `.bare` path segment git worktree layouts always place directly under the
// store root.
func storeRootFromWorktreeGitdir(workspacePath, pointerContent string) (string, bool) {
	target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(pointerContent), "gitdir:"))
	if target == "" {
		return "", false
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(workspacePath, target)
	}

	target = filepath.Clean(target)

	for {
		parent := filepath.Dir(target)

		if filepath.Base(target) == ".bare" {
			return parent, true
		}

		if parent == target {
			return "", false
		}

		target = parent
	}
}

func (p *Prober) firstRemote(ctx context.Context, path string) (string, bool) {
	result, err := p.Git.RunCommand(ctx, path, "remote")
	if err != nil || result.ExitCode != 0 {
		return "", false
	}

	fields := strings.Fields(result.Stdout)
	if len(fields) == 0 {
		return "", false
	}

	urlResult, err := p.Git.RunCommand(ctx, path, "remote", "get-url", fields[0])
	if err != nil || urlResult.ExitCode != 0 {
		return "", false
	}

	return strings.TrimSpace(urlResult.Stdout), true
}
