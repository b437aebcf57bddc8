package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexisbeaulieu97/cgwt/internal/app"
	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/mocks"
	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
)

type fakeRepository struct {
	initSharedFunc func(ctx context.Context, path, remoteURL string) (string, error)
	canConvertFunc func(ctx context.Context, path string) (bool, string)
	convertFunc    func(ctx context.Context, path string) (string, string, error)
}

func (f *fakeRepository) InitShared(ctx context.Context, path, remoteURL string) (string, error) {
	return f.initSharedFunc(ctx, path, remoteURL)
}

func (f *fakeRepository) CanConvertPlainToShared(ctx context.Context, path string) (bool, string) {
	return f.canConvertFunc(ctx, path)
}

func (f *fakeRepository) ConvertPlainToShared(ctx context.Context, path string) (string, string, error) {
	return f.convertFunc(ctx, path)
}

type fakeOrchestrator struct {
	initializeCalled bool
	ensuredBranches  []string
	shutdownCalled   bool
}

func (f *fakeOrchestrator) Initialize(ctx context.Context, repoPath string) error {
	f.initializeCalled = true
	return nil
}

func (f *fakeOrchestrator) EnsureChildFor(ctx context.Context, ws domain.Workspace) error {
	f.ensuredBranches = append(f.ensuredBranches, ws.Branch)
	return nil
}

func (f *fakeOrchestrator) Shutdown(ctx context.Context) error {
	f.shutdownCalled = true
	return nil
}

func (f *fakeOrchestrator) List(ctx context.Context) (orchestrator.OrchestratorView, error) {
	return orchestrator.OrchestratorView{}, nil
}

func (f *fakeOrchestrator) RemoveChildForWorkspace(ctx context.Context, branch string, alsoRemoveWorkspace bool) error {
	return nil
}

func (f *fakeOrchestrator) Broadcast(ctx context.Context, content string, exceptSender string) error {
	return nil
}

func (f *fakeOrchestrator) Attach(ctx context.Context, branch string) error { return nil }

func (f *fakeOrchestrator) AttachSupervisor(ctx context.Context) error { return nil }

func TestController_Run_EmptyDirectoryInitializesAndAddsDefaultBranch(t *testing.T) {
	t.Parallel()

	prober := mocks.NewMockDirectoryClassifier()
	prober.ClassifyFunc = func(ctx context.Context, path string) (domain.DirectoryState, error) {
		return domain.DirectoryState{Kind: domain.DirEmpty, Path: path}, nil
	}

	repo := &fakeRepository{
		initSharedFunc: func(ctx context.Context, path, remoteURL string) (string, error) {
			return "main", nil
		},
	}

	workspaces := mocks.NewMockWorkspaceManager()

	var addedBranch string

	workspaces.AddFunc = func(ctx context.Context, storePath, branch, base string) (string, error) {
		addedBranch = branch
		return storePath + "/" + branch, nil
	}
	workspaces.ListFunc = func(ctx context.Context, storePath string) ([]domain.Workspace, error) {
		return []domain.Workspace{{Branch: "main", AbsolutePath: storePath + "/main"}}, nil
	}

	orch := &fakeOrchestrator{}

	c := app.New(prober, repo, workspaces, orch, nil, nil, nil)

	err := c.Run(context.Background(), app.Options{Path: "/repos/myapp", RemoteURL: "https://example.com/repo.git", Quiet: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if addedBranch != "main" {
		t.Errorf("Add() called with branch = %q, want main", addedBranch)
	}

	if !orch.initializeCalled {
		t.Error("expected orchestrator to be initialized")
	}

	if len(orch.ensuredBranches) != 1 || orch.ensuredBranches[0] != "main" {
		t.Errorf("expected orchestrator to ensure a child for main, got %v", orch.ensuredBranches)
	}
}

func TestController_Run_EmptyDirectoryRequiresRemoteURL(t *testing.T) {
	t.Parallel()

	prober := mocks.NewMockDirectoryClassifier()
	prober.ClassifyFunc = func(ctx context.Context, path string) (domain.DirectoryState, error) {
		return domain.DirectoryState{Kind: domain.DirEmpty, Path: path}, nil
	}

	c := app.New(prober, &fakeRepository{}, mocks.NewMockWorkspaceManager(), &fakeOrchestrator{}, nil, nil, nil)

	err := c.Run(context.Background(), app.Options{Path: "/repos/myapp", Quiet: true})
	if err == nil {
		t.Fatal("expected error when no remote URL is given for an empty directory")
	}

	var cgwtErr *cerrors.CgwtError
	if !errors.As(err, &cgwtErr) || cgwtErr.Code != cerrors.ErrInvalidArgument {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestController_Run_SharedStoreParentCreatesFirstWorkspaceWhenNoneExist(t *testing.T) {
	t.Parallel()

	prober := mocks.NewMockDirectoryClassifier()
	prober.ClassifyFunc = func(ctx context.Context, path string) (domain.DirectoryState, error) {
		return domain.DirectoryState{Kind: domain.DirSharedStoreParent, Path: path, StorePath: path}, nil
	}

	workspaces := mocks.NewMockWorkspaceManager()

	listCalls := 0

	workspaces.ListFunc = func(ctx context.Context, storePath string) ([]domain.Workspace, error) {
		listCalls++
		if listCalls == 1 {
			return nil, nil
		}

		return []domain.Workspace{{Branch: "main", AbsolutePath: storePath + "/main"}}, nil
	}
	workspaces.BranchesWithoutWorkspaceFunc = func(ctx context.Context, storePath string) ([]string, error) {
		return []string{"main"}, nil
	}

	var addedBranch string

	workspaces.AddFunc = func(ctx context.Context, storePath, branch, base string) (string, error) {
		addedBranch = branch
		return storePath + "/" + branch, nil
	}

	orch := &fakeOrchestrator{}

	c := app.New(prober, &fakeRepository{}, workspaces, orch, nil, nil, nil)

	err := c.Run(context.Background(), app.Options{Path: "/repos/myapp", Quiet: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if addedBranch != "main" {
		t.Errorf("Add() called with branch = %q, want main", addedBranch)
	}
}

func TestController_Run_PlainRepoRefusesDirtyConversion(t *testing.T) {
	t.Parallel()

	prober := mocks.NewMockDirectoryClassifier()
	prober.ClassifyFunc = func(ctx context.Context, path string) (domain.DirectoryState, error) {
		return domain.DirectoryState{Kind: domain.DirPlainRepo, Path: path}, nil
	}

	repo := &fakeRepository{
		canConvertFunc: func(ctx context.Context, path string) (bool, string) {
			return false, "working tree is dirty"
		},
	}

	c := app.New(prober, repo, mocks.NewMockWorkspaceManager(), &fakeOrchestrator{}, nil, nil, nil)

	err := c.Run(context.Background(), app.Options{Path: "/repos/myapp", Quiet: true, AutoConvert: true})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (refusal is reported, not an error)", err)
	}
}

func TestController_Run_NonRepoReturnsError(t *testing.T) {
	t.Parallel()

	prober := mocks.NewMockDirectoryClassifier()
	prober.ClassifyFunc = func(ctx context.Context, path string) (domain.DirectoryState, error) {
		return domain.DirectoryState{Kind: domain.DirNonRepo, Path: path}, nil
	}

	c := app.New(prober, &fakeRepository{}, mocks.NewMockWorkspaceManager(), &fakeOrchestrator{}, nil, nil, nil)

	err := c.Run(context.Background(), app.Options{Path: "/tmp/somewhere", Quiet: true})
	if err == nil {
		t.Fatal("expected error for a non-repo directory")
	}
}

func TestController_Shutdown(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{}
	c := app.New(mocks.NewMockDirectoryClassifier(), &fakeRepository{}, mocks.NewMockWorkspaceManager(), orch, nil, nil, nil)

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if !orch.shutdownCalled {
		t.Error("expected orchestrator.Shutdown to be called")
	}
}

func TestIsExitError(t *testing.T) {
	t.Parallel()

	if app.IsExitError(nil) {
		t.Error("IsExitError(nil) = true, want false")
	}

	if !app.IsExitError(cerrors.NewTimeout("git fetch", 0)) {
		t.Error("IsExitError(Timeout) = false, want true")
	}

	if app.IsExitError(cerrors.NewWorkspaceExists("feature-x")) {
		t.Error("IsExitError(WorkspaceExists) = true, want false")
	}
}
