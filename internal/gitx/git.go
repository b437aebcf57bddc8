// Package gitx wraps the git operations used by the repository and workspace
// layers.
//
// # go-git Implementation Notes
//
// This package uses go-git (github.com/go-git/go-git/v5) to clone the shared
// store and fetch into it. Status, branch listing, default-branch resolution
// and worktree management run the git CLI through [Engine.RunCommand].
//
// ## Known Limitations
//
//   - Authentication: go-git relies on SSH agents for authentication. Users
//     must have their SSH keys properly configured.
//
//   - Worktree creation: go-git's Worktree.Add() does not support creating a
//     worktree for a non-existent branch, or for a bare repository at all. We
//     use git CLI via [Engine.RunCommand] as a fallback for this operation.
//
//   - Interactive operations: rebase, merge conflict resolution, and similar
//     are not available in go-git.
//
// ## Escape Hatch
//
// [Engine.RunCommand] provides an escape hatch for operations that cannot be
// performed with go-git. It executes git commands directly via exec.Command.
package gitx

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// DefaultNetworkTimeout is the default timeout for network operations
// (init, fetch).
const DefaultNetworkTimeout = 30 * time.Second

// DefaultLocalTimeout is the default timeout for local git operations
// (status, worktree add/remove/prune, branch listing).
const DefaultLocalTimeout = 30 * time.Second

var defaultBranchCandidates = []string{"main", "master", "trunk"}

// Compile-time check that Engine implements ports.GitOperations.
var _ ports.GitOperations = (*Engine)(nil)

// Engine implements ports.GitOperations using go-git, falling back to the
// git CLI for worktree management.
type Engine struct {
	RetryConfig    RetryConfig
	NetworkTimeout time.Duration
	LocalTimeout   time.Duration
}

// New creates a new Engine with default retry configuration and timeouts.
func New() *Engine {
	return &Engine{
		RetryConfig:    DefaultRetryConfig(),
		NetworkTimeout: DefaultNetworkTimeout,
		LocalTimeout:   DefaultLocalTimeout,
	}
}

// NewWithRetry creates a new Engine with custom retry configuration.
func NewWithRetry(retryCfg RetryConfig) *Engine {
	e := New()
	e.RetryConfig = retryCfg

	return e
}

// InitShared creates a bare object store at path and fetches remoteURL into
// it, returning the resolved default branch.
func (g *Engine) InitShared(ctx context.Context, path, remoteURL string) (string, error) {
	ctx, cancel := g.withNetworkTimeout(ctx)
	defer cancel()

	var r *git.Repository

	err := WithRetryNoResult(ctx, g.RetryConfig, func() error {
		var cloneErr error

		r, cloneErr = git.PlainCloneContext(ctx, path, true, &git.CloneOptions{URL: remoteURL})
		if cloneErr != nil {
			if cleanupErr := os.RemoveAll(path); cleanupErr != nil {
				log.Warn("failed to cleanup partial shared store", "path", path, "error", cleanupErr)
			}
		}

		return cloneErr
	})
	if err != nil {
		return "", g.wrapCtxErr(ctx, "init", remoteURL, err)
	}

	if err := g.storeUpstreamURL(r, remoteURL); err != nil {
		log.Warn("failed to store upstream URL in shared store config", "path", path, "error", err)
	}

	return g.ResolveDefaultBranch(ctx, path)
}

// Fetch updates all refs in the shared store at path.
func (g *Engine) Fetch(ctx context.Context, path string) error {
	r, err := git.PlainOpen(path)
	if err != nil {
		return cerrors.NewGitError("fetch", "", 0, err)
	}

	ctx, cancel := g.withNetworkTimeout(ctx)
	defer cancel()

	remotes, err := r.Remotes()
	if err != nil {
		return cerrors.NewGitError("fetch", "", 0, err)
	}

	for _, remote := range remotes {
		remoteName := remote.Config().Name
		refSpec := config.RefSpec("+refs/heads/*:refs/heads/*")

		fetchErr := WithRetryNoResult(ctx, g.RetryConfig, func() error {
			return remote.FetchContext(ctx, &git.FetchOptions{RefSpecs: []config.RefSpec{refSpec}})
		})
		if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
			return g.wrapCtxErr(ctx, "fetch", remoteName, fetchErr)
		}
	}

	return nil
}

// ResolveDefaultBranch determines the default branch for the shared store at
// path: the remote HEAD symref, then main/master/trunk, then the first
// branch, then a hardcoded fallback of "main".
func (g *Engine) ResolveDefaultBranch(ctx context.Context, path string) (string, error) {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	if result, err := g.RunCommand(ctx, path, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil && result.ExitCode == 0 {
		ref := strings.TrimSpace(result.Stdout)
		if branch, ok := strings.CutPrefix(ref, "refs/remotes/origin/"); ok {
			return branch, nil
		}
	}

	branches, err := g.ListBranches(ctx, path)
	if err != nil {
		return "", err
	}

	for _, candidate := range defaultBranchCandidates {
		for _, b := range branches {
			if b == candidate {
				return candidate, nil
			}
		}
	}

	if len(branches) > 0 {
		return branches[0], nil
	}

	return "main", nil
}

// Status reports dirty/ahead/behind state for the worktree at path.
func (g *Engine) Status(ctx context.Context, path string) (bool, int, int, string, error) {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	result, err := g.RunCommand(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return false, 0, 0, "", g.wrapCtxErr(ctx, "status", path, err)
	}

	if result.ExitCode != 0 {
		return false, 0, 0, "", cerrors.NewGitError("status", result.Stderr, result.ExitCode, nil)
	}

	branchName := strings.TrimSpace(result.Stdout)

	result, err = g.RunCommand(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, 0, 0, "", g.wrapCtxErr(ctx, "status", path, err)
	}

	isDirty := strings.TrimSpace(result.Stdout) != ""

	ahead, behind := 0, 0
	remoteBranch := "origin/" + branchName

	if verify, verifyErr := g.RunCommand(ctx, path, "rev-parse", "--verify", remoteBranch); verifyErr == nil && verify.ExitCode == 0 {
		if revList, revErr := g.RunCommand(ctx, path, "rev-list", "--count", "--left-right", remoteBranch+"...HEAD"); revErr == nil && revList.ExitCode == 0 {
			parts := strings.Fields(strings.TrimSpace(revList.Stdout))
			if len(parts) == 2 {
				_, _ = fmt.Sscanf(parts[0], "%d", &behind)
				_, _ = fmt.Sscanf(parts[1], "%d", &ahead)
			}
		}
	}

	return isDirty, ahead, behind, branchName, nil
}

// AddWorktree creates a worktree for branch at worktreePath against the
// shared store at storePath, using git CLI since go-git's worktree API does
// not support creating worktrees for a bare repository.
func (g *Engine) AddWorktree(ctx context.Context, storePath, worktreePath, branch, base string) error {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	exists := g.branchExists(ctx, storePath, branch)

	var (
		result *ports.CommandResult
		err    error
	)

	switch {
	case exists:
		result, err = g.RunCommand(ctx, storePath, "worktree", "add", worktreePath, branch)
	case base != "":
		result, err = g.RunCommand(ctx, storePath, "worktree", "add", "-b", branch, worktreePath, base)
	default:
		result, err = g.RunCommand(ctx, storePath, "worktree", "add", "-b", branch, worktreePath)
	}

	if err != nil {
		return g.wrapCtxErr(ctx, "worktree add", worktreePath, err)
	}

	if result.ExitCode != 0 {
		return cerrors.NewGitError("worktree add", result.Stderr, result.ExitCode, nil)
	}

	return nil
}

func (g *Engine) branchExists(ctx context.Context, storePath, branch string) bool {
	result, err := g.RunCommand(ctx, storePath, "rev-parse", "--verify", "refs/heads/"+branch)

	return err == nil && result.ExitCode == 0
}

// RemoveWorktree removes a worktree from the shared store.
func (g *Engine) RemoveWorktree(ctx context.Context, storePath, worktreePath string) error {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	result, err := g.RunCommand(ctx, storePath, "worktree", "remove", "--force", worktreePath)
	if err != nil {
		return g.wrapCtxErr(ctx, "worktree remove", worktreePath, err)
	}

	// Exit code 128 usually means the worktree is already gone, which is fine.
	if result.ExitCode != 0 && result.ExitCode != 128 {
		return cerrors.NewGitError("worktree remove", result.Stderr, result.ExitCode, nil)
	}

	return nil
}

// PruneWorktrees cleans up stale worktree references from the shared store.
func (g *Engine) PruneWorktrees(ctx context.Context, storePath string) error {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	result, err := g.RunCommand(ctx, storePath, "worktree", "prune")
	if err != nil {
		return g.wrapCtxErr(ctx, "worktree prune", storePath, err)
	}

	if result.ExitCode != 0 {
		return cerrors.NewGitError("worktree prune", result.Stderr, result.ExitCode, nil)
	}

	return nil
}

// ListWorktrees enumerates the worktrees registered against storePath.
func (g *Engine) ListWorktrees(ctx context.Context, storePath string) ([]ports.WorktreeInfo, error) {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	result, err := g.RunCommand(ctx, storePath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, g.wrapCtxErr(ctx, "worktree list", storePath, err)
	}

	if result.ExitCode != 0 {
		return nil, cerrors.NewGitError("worktree list", result.Stderr, result.ExitCode, nil)
	}

	return parseWorktreePorcelain(result.Stdout), nil
}

func parseWorktreePorcelain(out string) []ports.WorktreeInfo {
	var (
		worktrees []ports.WorktreeInfo
		current   ports.WorktreeInfo
	)

	flush := func() {
		if current.Path != "" {
			worktrees = append(worktrees, current)
		}

		current = ports.WorktreeInfo{}
	}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()

			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "bare":
			current.Bare = true
		}
	}

	flush()

	return worktrees
}

// ListBranches enumerates all local branches known to the shared store.
func (g *Engine) ListBranches(ctx context.Context, storePath string) ([]string, error) {
	ctx, cancel := g.withLocalTimeout(ctx)
	defer cancel()

	result, err := g.RunCommand(ctx, storePath, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, g.wrapCtxErr(ctx, "list branches", storePath, err)
	}

	if result.ExitCode != 0 {
		return nil, cerrors.NewGitError("list branches", result.Stderr, result.ExitCode, nil)
	}

	var branches []string

	for _, line := range strings.Split(result.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}

	return branches, nil
}

// HasUncommittedSubmodules reports whether path contains a .gitmodules file.
func (g *Engine) HasUncommittedSubmodules(_ context.Context, path string) (bool, error) {
	if _, err := os.Stat(path + "/.gitmodules"); err == nil {
		return true, nil
	} else if !os.IsNotExist(err) {
		return false, cerrors.NewInternalError("stat .gitmodules", err)
	}

	return false, nil
}

// RunCommand executes an arbitrary git command rooted at repoPath. This is
// an escape hatch for operations that cannot be performed with go-git, such
// as worktree management. Use sparingly.
//
// Security note: the git binary path is hardcoded and arguments are passed
// as separate parameters to prevent shell injection.
func (g *Engine) RunCommand(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
	if len(args) == 0 {
		return nil, cerrors.NewInvalidArgument("args", "git command requires at least one argument")
	}

	cmdArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", cmdArgs...) //nolint:gosec // git binary is hardcoded, args passed safely as separate parameters
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr strings.Builder

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &ports.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, g.wrapCtxErr(ctx, "git "+strings.Join(args, " "), repoPath, ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return nil, cerrors.NewInternalError("run git command", err)
		}
	}

	return result, nil
}

// wrapCtxErr maps a context cancellation/deadline into the documented error
// taxonomy, otherwise wraps err as a plain git error.
func (g *Engine) wrapCtxErr(ctx context.Context, operation, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return cerrors.NewTimeout(operation, g.LocalTimeout).WithContext("target", target)
	}

	return cerrors.NewGitError(operation, "", 0, err).WithContext("target", target)
}

func (g *Engine) withNetworkTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	timeout := g.NetworkTimeout
	if timeout <= 0 {
		timeout = DefaultNetworkTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

func (g *Engine) withLocalTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	timeout := g.LocalTimeout
	if timeout <= 0 {
		timeout = DefaultLocalTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// storeUpstreamURL stores the upstream URL in the shared store's git config
// under a custom [cgwt] section, mirroring how worktrees later discover it.
func (g *Engine) storeUpstreamURL(repo *git.Repository, url string) error {
	cfg, err := repo.Config()
	if err != nil {
		return cerrors.NewGitError("store upstream url", "", 0, err)
	}

	cfg.Raw.SetOption("cgwt", "", "upstreamUrl", url)

	if err := repo.SetConfig(cfg); err != nil {
		return cerrors.NewGitError("store upstream url", "", 0, err)
	}

	return nil
}
