package tui

import (
	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
)

// CommandKind tags one of the actions the interactive menu can ask the
// controller to perform, per the classification table's action set.
type CommandKind string

// Command kinds. ListCmd and ManageSessionsCmd refresh the fleet view; the
// create, remove and shutdown kinds change it; SwitchCmd and
// EnterSupervisorCmd attach to a session; ExitCmd leaves the menu.
const (
	ListCmd                             CommandKind = "list"
	CreateWorkspaceCmd                  CommandKind = "create_workspace"
	CreateWorkspaceFromExistingBranchCmd CommandKind = "create_workspace_existing_branch"
	SwitchCmd                           CommandKind = "switch"
	RemoveCmd                           CommandKind = "remove"
	EnterSupervisorCmd                  CommandKind = "enter_supervisor"
	ManageSessionsCmd                   CommandKind = "manage_sessions"
	ShutdownAllCmd                      CommandKind = "shutdown_all"
	ExitCmd                             CommandKind = "exit"
)

// Command is sent on the menu's command channel to the goroutine driving
// the controller. Branch is the target of Switch/Remove/
// CreateWorkspaceFromExistingBranchCmd; Base is the optional start point for
// CreateWorkspaceCmd.
type Command struct {
	Kind   CommandKind
	Branch string
	Base   string
}

// Result is sent back on the menu's result channel once a Command has been
// carried out. View, Workspaces and Branches are populated for the list,
// manage-sessions, create and remove kinds; a ShutdownAllCmd result carries
// only Err.
type Result struct {
	Kind       CommandKind
	Err        error
	View       orchestrator.OrchestratorView
	Workspaces []domain.Workspace
	Branches   []string
}
