package prober_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/mocks"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
	"github.com/alexisbeaulieu97/cgwt/internal/prober"
)

func TestClassify_MissingPathCreatesEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "does-not-exist")

	p := prober.New(mocks.NewMockGitOperations())

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirEmpty {
		t.Errorf("Kind = %v, want DirEmpty", state.Kind)
	}

	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("expected directory to be created, stat error: %v", statErr)
	}
}

func TestClassify_EmptyDirectory(t *testing.T) {
	t.Parallel()

	path := t.TempDir()

	p := prober.New(mocks.NewMockGitOperations())

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirEmpty {
		t.Errorf("Kind = %v, want DirEmpty", state.Kind)
	}
}

func TestClassify_SharedStoreParent(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	bareDir := filepath.Join(path, ".bare")

	if err := os.MkdirAll(bareDir, 0o755); err != nil {
		t.Fatalf("failed to create .bare: %v", err)
	}

	if err := os.WriteFile(filepath.Join(bareDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatalf("failed to write HEAD: %v", err)
	}

	if err := os.WriteFile(filepath.Join(path, ".git"), []byte("gitdir: ./.bare\n"), 0o644); err != nil {
		t.Fatalf("failed to write .git pointer: %v", err)
	}

	p := prober.New(mocks.NewMockGitOperations())

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirSharedStoreParent {
		t.Errorf("Kind = %v, want DirSharedStoreParent", state.Kind)
	}

	if state.StorePath != path {
		t.Errorf("StorePath = %q, want %q", state.StorePath, path)
	}
}

func TestClassify_NonRepoWhenGitStatusFails(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	if err := os.WriteFile(filepath.Join(path, "file.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	git := mocks.NewMockGitOperations()
	git.RunCommandFunc = func(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
		return nil, os.ErrInvalid
	}

	p := prober.New(git)

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirNonRepo {
		t.Errorf("Kind = %v, want DirNonRepo", state.Kind)
	}
}

func TestClassify_PlainRepo(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	if err := os.MkdirAll(filepath.Join(path, ".git"), 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}

	git := mocks.NewMockGitOperations()
	git.RunCommandFunc = func(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
		return &ports.CommandResult{}, nil
	}

	p := prober.New(git)

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirPlainRepo {
		t.Errorf("Kind = %v, want DirPlainRepo", state.Kind)
	}
}

func TestClassify_Workspace(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	if err := os.WriteFile(filepath.Join(path, ".git"), []byte("gitdir: ../store.git/worktrees/feature\n"), 0o644); err != nil {
		t.Fatalf("failed to write .git pointer: %v", err)
	}

	git := mocks.NewMockGitOperations()
	git.RunCommandFunc = func(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
		return &ports.CommandResult{}, nil
	}

	p := prober.New(git)

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirWorkspace {
		t.Errorf("Kind = %v, want DirWorkspace", state.Kind)
	}
}

func TestClassify_WorkspaceResolvesStorePath(t *testing.T) {
	t.Parallel()

	storeRoot := t.TempDir()
	path := filepath.Join(storeRoot, "feature")

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}

	pointer := "gitdir: " + filepath.Join(storeRoot, ".bare", "worktrees", "feature") + "\n"
	if err := os.WriteFile(filepath.Join(path, ".git"), []byte(pointer), 0o644); err != nil {
		t.Fatalf("failed to write .git pointer: %v", err)
	}

	git := mocks.NewMockGitOperations()
	git.RunCommandFunc = func(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
		return &ports.CommandResult{}, nil
	}

	p := prober.New(git)

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.Kind != domain.DirWorkspace {
		t.Errorf("Kind = %v, want DirWorkspace", state.Kind)
	}

	if state.StorePath != storeRoot {
		t.Errorf("StorePath = %q, want %q", state.StorePath, storeRoot)
	}
}

func TestClassify_ResolvesCurrentBranch(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	if err := os.MkdirAll(filepath.Join(path, ".git"), 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}

	git := mocks.NewMockGitOperations()
	git.RunCommandFunc = func(ctx context.Context, repoPath string, args ...string) (*ports.CommandResult, error) {
		return &ports.CommandResult{}, nil
	}
	git.StatusFunc = func(ctx context.Context, path string) (bool, int, int, string, error) {
		return false, 0, 0, "feature-x", nil
	}

	p := prober.New(git)

	state, err := p.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if state.CurrentBranch != "feature-x" {
		t.Errorf("CurrentBranch = %q, want feature-x", state.CurrentBranch)
	}
}
