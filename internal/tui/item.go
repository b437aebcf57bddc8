package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
)

type itemKind int

const (
	itemAction itemKind = iota
	itemSession
	itemBranch
)

// fleetItem is the single list.Item type backing the menu's list.Model: it
// is either one of the fixed top-level actions, a live session (supervisor
// or worker), or a branch offered during the "create from existing branch"
// flow.
type fleetItem struct {
	kind    itemKind
	label   string
	cmdKind CommandKind
	record  domain.InstanceRecord
	branch  string
}

func (i fleetItem) Title() string {
	switch i.kind {
	case itemAction:
		return i.label
	case itemBranch:
		return i.branch
	default:
		name := i.record.Branch
		if i.record.Role == domain.RoleSupervisor {
			name = "supervisor"
		}

		return name
	}
}

func (i fleetItem) Description() string {
	switch i.kind {
	case itemAction:
		return ""
	case itemBranch:
		return "no workspace yet"
	default:
		return fmt.Sprintf("%s  •  %s", i.record.Role, i.record.Status)
	}
}

func (i fleetItem) FilterValue() string {
	switch i.kind {
	case itemAction:
		return i.label
	case itemBranch:
		return i.branch
	default:
		return i.record.Branch
	}
}

// fleetDelegate renders fleetItem rows, borrowing the cursor/title/status
// styling from styles.go rather than bubbles' default item styles.
type fleetDelegate struct{}

func (d fleetDelegate) Height() int                             { return 2 }
func (d fleetDelegate) Spacing() int                             { return 1 }
func (d fleetDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d fleetDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(fleetItem)
	if !ok {
		return
	}

	cursor := iconNoCursor
	if index == m.Index() {
		cursor = cursorStyle.Render(iconCursor)
	}

	title := titleStyle.Render(it.Title())
	if index == m.Index() {
		title = accentTextStyle.Render(it.Title())
	}

	var status string

	switch it.kind {
	case itemSession:
		status = sessionStatusBadge(it.record.Status)
	case itemBranch:
		status = subtleTextStyle.Render(iconNoCursor)
	default:
		status = " "
	}

	fmt.Fprintf(w, "%s %s %s\n", cursor, status, title)

	desc := it.Description()
	if desc != "" {
		fmt.Fprintf(w, "    %s\n", mutedTextStyle.Render(desc))
	} else {
		fmt.Fprintln(w)
	}
}

func sessionStatusBadge(status domain.StatusKind) string {
	switch status {
	case domain.StatusAttached:
		return statusCleanStyle.Render(iconClean)
	case domain.StatusDetached:
		return statusWarnStyle.Render(iconWarning)
	case domain.StatusStopped, domain.StatusAbsent:
		return statusDirtyStyle.Render(iconError)
	default:
		return statusLoadingStyle.Render(iconLoading)
	}
}

func actionItems() []list.Item {
	return []list.Item{
		fleetItem{kind: itemAction, label: "create workspace", cmdKind: CreateWorkspaceCmd},
		fleetItem{kind: itemAction, label: "create workspace from existing branch", cmdKind: CreateWorkspaceFromExistingBranchCmd},
		fleetItem{kind: itemAction, label: "manage sessions (refresh)", cmdKind: ManageSessionsCmd},
		fleetItem{kind: itemAction, label: "shutdown all", cmdKind: ShutdownAllCmd},
		fleetItem{kind: itemAction, label: "exit", cmdKind: ExitCmd},
	}
}
