// Package tui provides the interactive terminal UI for Specter.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/specter-dev/specter/internal/action"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// App is the main TUI application model.
type App struct {
	client       *Client
	sequences    []string
	selectedIdx  int
	width        int
	height       int
	mode         string // "list", "detail"
	detail       *action.Sequence
	viewport     viewport.Model
	status       Status
	message      string
	loading      bool
	daemonOnline bool
}

// New creates a TUI talking to the daemon at socketPath.
func New(socketPath string) *App {
	return &App{
		client:   NewClient(socketPath),
		mode:     "list",
		viewport: viewport.New(80, 20),
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchSequences(),
		a.pollStatus(),
		a.tickCmd(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit

		case "esc":
			if a.mode == "detail" {
				a.mode = "list"
				a.detail = nil
			}

		case "up", "k":
			if a.mode == "list" && a.selectedIdx > 0 {
				a.selectedIdx--
			}

		case "down", "j":
			if a.mode == "list" && a.selectedIdx < len(a.sequences)-1 {
				a.selectedIdx++
			}

		case "enter":
			if a.mode == "list" && len(a.sequences) > 0 {
				a.mode = "detail"
				return a, a.fetchDetail(a.sequences[a.selectedIdx])
			}

		case "p":
			if len(a.sequences) > 0 {
				name := a.selected()
				a.message = fmt.Sprintf("Playing %s...", name)
				return a, a.playSequence(name)
			}

		case "s":
			return a, a.stopPlayback()

		case "d":
			if a.mode == "list" && len(a.sequences) > 0 {
				return a, a.deleteSequence(a.sequences[a.selectedIdx])
			}

		case "r":
			return a, a.fetchSequences()
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-10, 5)

	case sequencesLoadedMsg:
		a.loading = false
		a.sequences = msg.names
		if a.selectedIdx >= len(a.sequences) {
			a.selectedIdx = max(0, len(a.sequences)-1)
		}

	case detailLoadedMsg:
		a.detail = msg.seq
		a.viewport.SetContent(a.renderSteps(msg.seq))
		a.viewport.GotoTop()

	case statusMsg:
		a.daemonOnline = msg.err == nil
		if msg.err == nil {
			a.status = msg.status
		}

	case tickMsg:
		return a, tea.Batch(a.pollStatus(), a.tickCmd())

	case actionDoneMsg:
		a.message = msg.message
		return a, a.fetchSequences()

	case errMsg:
		a.message = "Error: " + msg.err.Error()
	}

	if a.mode == "detail" {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	daemonStatus := onlineStyle.Render("● DAEMON")
	if !a.daemonOnline {
		daemonStatus = offlineStyle.Render("○ DAEMON")
	}

	header := titleStyle.Render("SPECTER Sequences")
	header += "  " + daemonStatus
	if a.status.Recording {
		header += "  " + lipgloss.NewStyle().Foreground(errorColor).Bold(true).Render("● REC")
	}
	if a.status.Playing {
		playing := fmt.Sprintf("▶ %s [%d/%d]", a.status.Sequence, a.status.Step, a.status.Total)
		header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(playing)
	}

	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 20)) + "\n")

	contentHeight := a.height - 6
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case "detail":
		b.WriteString(a.renderDetail(contentHeight))
	default:
		b.WriteString(a.renderList(contentHeight))
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var status string
	switch a.mode {
	case "detail":
		status = " Esc:back | p:play | q:quit"
	default:
		status = fmt.Sprintf(" Sequences: %d | ↑↓:nav | Enter:inspect | p:play | s:stop | d:delete | r:refresh | q:quit", len(a.sequences))
	}
	b.WriteString(statusBarStyle.Width(max(a.width, len(status))).Render(status))

	return b.String()
}

func (a *App) renderList(height int) string {
	if a.loading {
		return "\n  Loading sequences...\n"
	}
	if len(a.sequences) == 0 {
		return "\n  No sequences recorded yet.\n  Use `specter record start <name>` to create one.\n"
	}

	var lines []string
	for i, name := range a.sequences {
		if i == a.selectedIdx {
			lines = append(lines, selectedStyle.Render("▶ "+name))
		} else {
			lines = append(lines, itemStyle.Render("  "+name))
		}
	}

	if len(lines) > height {
		start := a.selectedIdx - height/2
		if start < 0 {
			start = 0
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

func (a *App) renderDetail(height int) string {
	if a.detail == nil {
		return "\n  Loading...\n"
	}

	var b strings.Builder
	seq := a.detail

	b.WriteString(fmt.Sprintf("\n  %s\n", lipgloss.NewStyle().Bold(true).Render(seq.Name)))
	if seq.Description != "" {
		b.WriteString(fmt.Sprintf("  %s\n", seq.Description))
	}
	if len(seq.Tags) > 0 {
		b.WriteString("  " + helpStyle.Render("Tags: "+strings.Join(seq.Tags, ", ")) + "\n")
	}
	b.WriteString(fmt.Sprintf("  Steps: %d  Total delay: %s\n\n",
		len(seq.Actions), seq.TotalDelay()))
	b.WriteString(a.viewport.View())

	return b.String()
}

func (a *App) renderSteps(seq *action.Sequence) string {
	var b strings.Builder
	for i, step := range seq.Actions {
		delay := lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("%6dms", step.DelayMS))
		b.WriteString(fmt.Sprintf("  %3d  %s  %s\n", i+1, delay, step.Action.String()))
	}
	return b.String()
}

func (a *App) selected() string {
	if a.mode == "detail" && a.detail != nil {
		return a.detail.Name
	}
	return a.sequences[a.selectedIdx]
}

func (a *App) fetchSequences() tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		names, err := a.client.ListSequences()
		if err != nil {
			return errMsg{err}
		}
		return sequencesLoadedMsg{names}
	}
}

func (a *App) fetchDetail(name string) tea.Cmd {
	return func() tea.Msg {
		seq, err := a.client.GetSequence(name)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{seq}
	}
}

func (a *App) playSequence(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.client.Play(name); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{fmt.Sprintf("✓ Played %s", name)}
	}
}

func (a *App) stopPlayback() tea.Cmd {
	return func() tea.Msg {
		if err := a.client.StopPlayback(); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{"✓ Playback stopped"}
	}
}

func (a *App) deleteSequence(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.client.Delete(name); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{fmt.Sprintf("✓ Deleted %s", name)}
	}
}

func (a *App) pollStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := a.client.FetchStatus()
		return statusMsg{status: st, err: err}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type sequencesLoadedMsg struct {
	names []string
}

type detailLoadedMsg struct {
	seq *action.Sequence
}

type statusMsg struct {
	status Status
	err    error
}

type actionDoneMsg struct {
	message string
}

type errMsg struct {
	err error
}

type tickMsg time.Time
