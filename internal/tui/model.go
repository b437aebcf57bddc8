// Package tui implements the interactive fleet menu: a bubbletea program
// that lists the supervisor and worker sessions for a shared store and lets
// the user create, switch to, remove, or tear down sessions. It talks to
// the rest of cgwt only through a bounded Command/Result channel pair, so
// internal/app never imports this package.
package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
)

type viewMode int

const (
	modeList viewMode = iota
	modeInput
	modeBranchPick
	modeConfirm
)

// Model is the bubbletea model driving the fleet menu.
type Model struct {
	list    list.Model
	spinner spinner.Model
	input   textinput.Model

	mode    viewMode
	loading bool

	pendingRemove    string
	pendingShutdown  bool

	view       orchestrator.OrchestratorView
	branches   []string
	err        error
	info       string

	exitRequested bool
	pendingAttach *Command

	cmds    chan<- Command
	results <-chan Result
}

// NewModel builds the menu's Model, wired to the command/result channels a
// Menu sets up in Run.
func NewModel(cmds chan<- Command, results <-chan Result) Model {
	delegate := fleetDelegate{}

	l := list.New(actionItems(), delegate, 0, 0)
	l.Title = "cgwt fleet"
	l.SetShowTitle(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusLoadingStyle

	ti := textinput.New()
	ti.Placeholder = "branch name"
	ti.CharLimit = 200

	return Model{
		list:    l,
		spinner: sp,
		input:   ti,
		mode:    modeList,
		loading: true,
		cmds:    cmds,
		results: results,
	}
}

// Init kicks off the spinner and requests the first fleet listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, sendCommand(m.cmds, Command{Kind: ListCmd}), waitForResult(m.results))
}

func sendCommand(cmds chan<- Command, cmd Command) tea.Cmd {
	return func() tea.Msg {
		cmds <- cmd
		return nil
	}
}

func waitForResult(results <-chan Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return resultChannelClosedMsg{}
		}

		return r
	}
}

type resultChannelClosedMsg struct{}

// View renders the current mode.
func (m Model) View() string {
	switch m.mode {
	case modeInput:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			confirmPromptStyle.Render("new branch name:"),
			m.input.View(),
			helpTextStyle.Render("enter to confirm, esc to cancel"),
		)
	case modeConfirm:
		prompt := "remove workspace " + m.pendingRemove + "?"
		if m.pendingShutdown {
			prompt = "shut down every cgwt session for this project?"
		}

		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			confirmPromptStyle.Render(prompt),
			helpTextStyle.Render("y to confirm, n/esc to cancel"),
		)
	default:
		body := m.list.View()
		if m.loading {
			body = m.spinner.View() + " loading fleet..."
		}

		footer := ""
		if m.err != nil {
			footer = statusDirtyStyle.Render(m.err.Error())
		} else if m.info != "" {
			footer = subtleTextStyle.Render(m.info)
		}

		return lipgloss.JoinVertical(lipgloss.Left, body, footer)
	}
}
