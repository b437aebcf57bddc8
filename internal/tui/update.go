package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
)

// Update dispatches incoming messages per mode, mirroring the teacher's
// flag-driven (rather than stateful ViewState) model style.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)

		return m, nil

	case Result:
		return m.applyResult(msg)

	case resultChannelClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) applyResult(r Result) (tea.Model, tea.Cmd) {
	m.loading = false
	m.err = r.Err

	switch r.Kind {
	case ListCmd, ManageSessionsCmd, CreateWorkspaceCmd, CreateWorkspaceFromExistingBranchCmd, RemoveCmd:
		m.view = r.View
		m.branches = r.Branches
		m.list.SetItems(fleetItems(m.view, r.Workspaces))
		m.mode = modeList
	case ShutdownAllCmd:
		m.exitRequested = true
		return m, tea.Quit
	}

	return m, waitForResult(m.results)
}

func fleetItems(view orchestrator.OrchestratorView, _ []domain.Workspace) []list.Item {
	items := actionItems()

	if view.Supervisor != nil {
		items = append(items, fleetItem{kind: itemSession, record: *view.Supervisor})
	}

	for _, child := range view.Children {
		items = append(items, fleetItem{kind: itemSession, record: child})
	}

	return items
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeInput:
		return m.handleInputKey(key)
	case modeBranchPick:
		return m.handleBranchPickKey(key)
	case modeConfirm:
		return m.handleConfirmKey(key)
	default:
		return m.handleListKey(key)
	}
}

func (m Model) handleListKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		m.exitRequested = true
		return m, tea.Quit
	case "x":
		if it, ok := m.selected(); ok && it.kind == itemSession && it.record.Role != domain.RoleSupervisor {
			m.pendingRemove = it.record.Branch
			m.mode = modeConfirm
		}

		return m, nil
	case "enter":
		return m.handleSelect()
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(key)

	return m, cmd
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	it, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch it.kind {
	case itemSession:
		if it.record.Role == domain.RoleSupervisor {
			m.pendingAttach = &Command{Kind: EnterSupervisorCmd}
		} else {
			m.pendingAttach = &Command{Kind: SwitchCmd, Branch: it.record.Branch}
		}

		return m, tea.Quit
	case itemAction:
		return m.dispatchAction(it.cmdKind)
	}

	return m, nil
}

func (m Model) dispatchAction(kind CommandKind) (tea.Model, tea.Cmd) {
	switch kind {
	case CreateWorkspaceCmd:
		m.mode = modeInput
		m.input.SetValue("")
		m.input.Focus()

		return m, nil
	case CreateWorkspaceFromExistingBranchCmd:
		if len(m.branches) == 0 {
			m.info = "no branches without a workspace"
			return m, nil
		}

		m.mode = modeBranchPick
		m.list.SetItems(branchListItems(m.branches))

		return m, nil
	case ManageSessionsCmd:
		m.loading = true
		return m, sendCommand(m.cmds, Command{Kind: ListCmd})
	case ShutdownAllCmd:
		m.pendingShutdown = true
		m.mode = modeConfirm

		return m, nil
	case ExitCmd:
		m.exitRequested = true
		return m, tea.Quit
	}

	return m, nil
}

func branchListItems(branches []string) []list.Item {
	items := make([]list.Item, 0, len(branches))
	for _, b := range branches {
		items = append(items, fleetItem{kind: itemBranch, branch: b})
	}

	return items
}

func (m Model) handleInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()

		return m, nil
	case "enter":
		branch := m.input.Value()
		m.input.Blur()
		m.mode = modeList
		m.loading = true

		return m, sendCommand(m.cmds, Command{Kind: CreateWorkspaceCmd, Branch: branch})
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(key)

	return m, cmd
}

func (m Model) handleBranchPickKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeList
		m.list.SetItems(fleetItems(m.view, nil))

		return m, nil
	case "enter":
		it, ok := m.selected()
		if !ok || it.kind != itemBranch {
			return m, nil
		}

		m.mode = modeList
		m.loading = true

		return m, sendCommand(m.cmds, Command{Kind: CreateWorkspaceFromExistingBranchCmd, Branch: it.branch})
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(key)

	return m, cmd
}

func (m Model) handleConfirmKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y":
		m.mode = modeList
		m.loading = true

		if m.pendingShutdown {
			return m, sendCommand(m.cmds, Command{Kind: ShutdownAllCmd})
		}

		branch := m.pendingRemove
		m.pendingRemove = ""

		return m, sendCommand(m.cmds, Command{Kind: RemoveCmd, Branch: branch})
	case "n", "esc":
		m.mode = modeList
		m.pendingRemove = ""
		m.pendingShutdown = false

		return m, nil
	}

	return m, nil
}

func (m Model) selected() (fleetItem, bool) {
	it, ok := m.list.SelectedItem().(fleetItem)
	return it, ok
}
