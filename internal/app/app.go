// Package app wires the cgwt components together and drives the
// AppController state machine described in spec §4.7.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/cgwt/internal/config"
	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
	"github.com/alexisbeaulieu97/cgwt/internal/output"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Menu is the interactive collaborator the controller hands off to once a
// directory reaches the "ready" state. internal/tui implements this; wiring
// happens in internal/cli so internal/app never imports internal/tui directly.
type Menu interface {
	Run(ctx context.Context, c *Controller, storePath string) error
}

// Options configures one Controller.Run invocation, mirroring the `app`
// subcommand's flags.
type Options struct {
	Path          string
	RemoteURL     string
	Branch        string
	Quiet         bool
	NoInteractive bool
	AutoConvert   bool
}

// Controller implements the AppController state machine: DirectoryProber's
// classification selects the action, which drives C2/C3 to reach "ready"
// and then hands off to C5/the interactive menu.
type Controller struct {
	Prober       ports.DirectoryClassifier
	Repository   RepositoryService
	Workspaces   ports.WorkspaceManager
	Orchestrator OrchestratorService
	Config       *config.Config
	Logger       *logging.Logger
	Menu         Menu
}

// RepositoryService is the subset of internal/repository.Service that the
// controller depends on.
type RepositoryService interface {
	InitShared(ctx context.Context, path, remoteURL string) (string, error)
	CanConvertPlainToShared(ctx context.Context, path string) (bool, string)
	ConvertPlainToShared(ctx context.Context, path string) (defaultBranch, originalBranch string, err error)
}

// OrchestratorService is the subset of internal/orchestrator.Orchestrator
// that the controller and the interactive menu depend on.
type OrchestratorService interface {
	Initialize(ctx context.Context, repoPath string) error
	EnsureChildFor(ctx context.Context, ws domain.Workspace) error
	List(ctx context.Context) (orchestrator.OrchestratorView, error)
	RemoveChildForWorkspace(ctx context.Context, branch string, alsoRemoveWorkspace bool) error
	Broadcast(ctx context.Context, content string, exceptSender string) error
	Attach(ctx context.Context, branch string) error
	AttachSupervisor(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// New creates a Controller from already-constructed dependencies. Wiring
// concrete adapters (gitx.Engine, mux.Driver, internal/bus.Bus, ...) into
// these interfaces happens in App.NewController (container.go).
func New(prober ports.DirectoryClassifier, repo RepositoryService, workspaces ports.WorkspaceManager, orch OrchestratorService, cfg *config.Config, logger *logging.Logger, menu Menu) *Controller {
	return &Controller{
		Prober:       prober,
		Repository:   repo,
		Workspaces:   workspaces,
		Orchestrator: orch,
		Config:       cfg,
		Logger:       logger,
		Menu:         menu,
	}
}

// Run executes the state machine per spec §4.7's classification table.
func (c *Controller) Run(ctx context.Context, opts Options) error {
	state, err := c.Prober.Classify(ctx, opts.Path)
	if err != nil {
		return err
	}

	switch state.Kind {
	case domain.DirEmpty:
		return c.handleEmpty(ctx, state, opts)
	case domain.DirSharedStoreParent, domain.DirWorkspace:
		return c.handleReady(ctx, state, opts)
	case domain.DirPlainRepo:
		return c.handlePlainRepo(ctx, state, opts)
	case domain.DirNonRepo:
		return c.handleNonRepo(ctx, state, opts)
	default:
		return cerrors.NewInternalError(fmt.Sprintf("unknown directory classification %q", state.Kind), nil)
	}
}

func (c *Controller) handleEmpty(ctx context.Context, state domain.DirectoryState, opts Options) error {
	if opts.RemoteURL == "" {
		return cerrors.NewInvalidArgument("repo", "a remote URL is required to initialize an empty directory")
	}

	defaultBranch, err := c.Repository.InitShared(ctx, state.Path, opts.RemoteURL)
	if err != nil {
		return err
	}

	branch := opts.Branch
	if branch == "" {
		branch = defaultBranch
	}

	if _, err := c.Workspaces.Add(ctx, state.Path, branch, defaultBranch); err != nil {
		return err
	}

	output.SuccessWithPath("initialized shared store", opts.RemoteURL, state.Path)

	return c.handleReady(ctx, domain.DirectoryState{Kind: domain.DirSharedStoreParent, Path: state.Path, StorePath: state.Path}, opts)
}

func (c *Controller) handleReady(ctx context.Context, state domain.DirectoryState, opts Options) error {
	storePath := state.StorePath
	if storePath == "" {
		storePath = state.Path
	}

	workspaces, err := c.Workspaces.List(ctx, storePath)
	if err != nil {
		return err
	}

	if len(workspaces) == 0 {
		branches, err := c.Workspaces.BranchesWithoutWorkspace(ctx, storePath)
		if err != nil {
			return err
		}

		branch := opts.Branch
		if branch == "" && len(branches) > 0 {
			branch = branches[0]
		}

		if branch == "" {
			return cerrors.NewInvalidArgument("branch", "no branch available to create the first workspace from")
		}

		if _, err := c.Workspaces.Add(ctx, storePath, branch, ""); err != nil {
			return err
		}

		workspaces, err = c.Workspaces.List(ctx, storePath)
		if err != nil {
			return err
		}
	}

	if c.Orchestrator != nil {
		if err := c.Orchestrator.Initialize(ctx, storePath); err != nil {
			return err
		}

		for _, ws := range workspaces {
			if err := c.Orchestrator.EnsureChildFor(ctx, ws); err != nil {
				// EnsureChildFor already logs and swallows per-workspace
				// failures; a non-nil error here is unexpected.
				return err
			}
		}
	}

	if opts.Quiet || opts.NoInteractive || c.Menu == nil {
		return nil
	}

	if err := c.Menu.Run(ctx, c, storePath); err != nil {
		return err
	}

	return c.Shutdown(ctx)
}

func (c *Controller) handlePlainRepo(ctx context.Context, state domain.DirectoryState, opts Options) error {
	ok, reason := c.Repository.CanConvertPlainToShared(ctx, state.Path)
	if !ok {
		output.Warnf("directory cannot be converted to a shared store: %s", reason)
		return nil
	}

	if !opts.AutoConvert {
		output.Info("this is a plain git repository; pass --repo-convert to convert it to a shared store")
		return nil
	}

	defaultBranch, originalBranch, err := c.Repository.ConvertPlainToShared(ctx, state.Path)
	if err != nil {
		return err
	}

	output.Success("converted to shared store", state.Path)
	output.Infof("recreated workspace for %s", originalBranch)

	return c.handleReady(ctx, domain.DirectoryState{Kind: domain.DirSharedStoreParent, Path: state.Path, StorePath: state.Path, CurrentBranch: defaultBranch}, opts)
}

func (c *Controller) handleNonRepo(ctx context.Context, state domain.DirectoryState, opts Options) error {
	return cerrors.NewInvalidArgument("path", fmt.Sprintf("%q is neither empty nor a git repository", state.Path))
}

// Shutdown tears down the orchestrator, if one is attached. It is safe to
// call even when no orchestrator was configured.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c.Orchestrator == nil {
		return nil
	}

	return c.Orchestrator.Shutdown(ctx)
}

// IsExitError reports whether err is fatal and maps to process exit status
// 1: Timeout, probe and git failures, and any error outside the CgwtError
// taxonomy. cli.Execute prints every error before consulting it.
func IsExitError(err error) bool {
	if err == nil {
		return false
	}

	var cgwtErr *cerrors.CgwtError
	if !errors.As(err, &cgwtErr) {
		return true
	}

	switch cgwtErr.Code {
	case cerrors.ErrTimeout, cerrors.ErrProbe, cerrors.ErrGit:
		return true
	default:
		return false
	}
}
