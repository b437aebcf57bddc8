package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/cgwt/internal/app"
	"github.com/alexisbeaulieu97/cgwt/internal/domain"
)

// Menu implements app.Menu: it runs the fleet list program in a loop,
// pausing it to hand the terminal to the multiplexer whenever the user
// switches to or enters a session, and resuming once that session detaches.
type Menu struct{}

// Run implements app.Menu.
func (Menu) Run(ctx context.Context, c *app.Controller, storePath string) error {
	for {
		cmds := make(chan Command)
		results := make(chan Result)
		done := make(chan struct{})

		go runLoop(ctx, c, storePath, cmds, results, done)

		program := tea.NewProgram(NewModel(cmds, results))

		finalModel, err := program.Run()
		close(cmds)
		<-done

		if err != nil {
			return err
		}

		m, ok := finalModel.(Model)
		if !ok {
			return nil
		}

		if m.exitRequested && m.pendingAttach == nil {
			return nil
		}

		if m.pendingAttach != nil {
			if attachErr := attach(ctx, c, *m.pendingAttach); attachErr != nil && c.Logger != nil {
				c.Logger.Warn("attach failed", "err", attachErr)
			}

			continue
		}

		return nil
	}
}

func attach(ctx context.Context, c *app.Controller, cmd Command) error {
	switch cmd.Kind {
	case SwitchCmd:
		return c.Orchestrator.Attach(ctx, cmd.Branch)
	case EnterSupervisorCmd:
		return c.Orchestrator.AttachSupervisor(ctx)
	}

	return nil
}

// runLoop owns the controller's ports for the lifetime of one menu session,
// translating each Command into the corresponding ports calls and reporting
// back a Result. It exits when cmds is closed.
func runLoop(ctx context.Context, c *app.Controller, storePath string, cmds <-chan Command, results chan<- Result, done chan<- struct{}) {
	defer close(done)
	defer close(results)

	for cmd := range cmds {
		results <- handle(ctx, c, storePath, cmd)
	}
}

func handle(ctx context.Context, c *app.Controller, storePath string, cmd Command) Result {
	switch cmd.Kind {
	case ListCmd, ManageSessionsCmd:
		return refresh(ctx, c, storePath, cmd.Kind)

	case CreateWorkspaceCmd, CreateWorkspaceFromExistingBranchCmd:
		base := ""
		if cmd.Kind == CreateWorkspaceCmd {
			base = cmd.Base
		}

		path, err := c.Workspaces.Add(ctx, storePath, cmd.Branch, base)
		if err != nil {
			return Result{Kind: cmd.Kind, Err: err}
		}

		if err := c.Orchestrator.EnsureChildFor(ctx, domain.Workspace{Branch: cmd.Branch, AbsolutePath: path}); err != nil {
			return Result{Kind: cmd.Kind, Err: err}
		}

		return refresh(ctx, c, storePath, cmd.Kind)

	case RemoveCmd:
		if err := c.Orchestrator.RemoveChildForWorkspace(ctx, cmd.Branch, true); err != nil {
			return Result{Kind: cmd.Kind, Err: err}
		}

		return refresh(ctx, c, storePath, cmd.Kind)

	case ShutdownAllCmd:
		err := c.Orchestrator.Shutdown(ctx)
		return Result{Kind: cmd.Kind, Err: err}
	}

	return Result{Kind: cmd.Kind}
}

func refresh(ctx context.Context, c *app.Controller, storePath string, kind CommandKind) Result {
	workspaces, err := c.Workspaces.List(ctx, storePath)
	if err != nil {
		return Result{Kind: kind, Err: err}
	}

	view, err := c.Orchestrator.List(ctx)
	if err != nil {
		return Result{Kind: kind, Err: err}
	}

	branches, err := c.Workspaces.BranchesWithoutWorkspace(ctx, storePath)
	if err != nil {
		return Result{Kind: kind, Err: err}
	}

	return Result{Kind: kind, View: view, Workspaces: workspaces, Branches: branches}
}
