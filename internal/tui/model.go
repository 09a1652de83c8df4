package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/voidwatch/blockd/internal/topology"
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// errorStyle defines the style for the refresh error line.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// SnapshotMsg is a [tea.Msg] carrying a freshly published topology snapshot.
type SnapshotMsg struct {
	Snapshot *topology.Snapshot
}

// RefreshErrMsg is a [tea.Msg] carrying a failed refresh outcome.
type RefreshErrMsg struct {
	Err error
}

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler

	fullWidthWithBorders int

	fingerprint string
	refreshedAt time.Time
	refreshing  bool
	lastErr     error

	spinner          spinner.Model
	snapshotViewport viewport.Model
	logsViewport     viewport.Model
	logs             []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, cancel context.CancelFunc) TeaModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))),
	)

	snapshotViewport := viewport.New(80, 20)
	logsViewport := viewport.New(80, 10)

	return TeaModel{
		uiHandler:        uiHandler,
		spinner:          sp,
		snapshotViewport: snapshotViewport,
		logsViewport:     logsViewport,
		logs:             make([]string, 0, 100),
		cancel:           cancel,
		ready:            false,
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
	)
}

// requestRefresh produces a [tea.Cmd] that asks the coordinator for a fresh
// topology snapshot. The outcome arrives asynchronously as [SnapshotMsg] or
// [RefreshErrMsg], pushed by whoever subscribed to the coordinator.
func (m TeaModel) requestRefresh() tea.Cmd {
	refresh := m.uiHandler.refresh

	return func() tea.Msg {
		refresh()

		return nil
	}
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				cmds = append(cmds, m.requestRefresh())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2

		// Snapshot panel takes about 60% of the height.
		upperHeight := m.height * 3 / 5
		lowerHeight := m.height - upperHeight

		m.snapshotViewport.Width = m.fullWidthWithBorders
		m.snapshotViewport.Height = upperHeight - 3

		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = lowerHeight - 4

		if len(m.logs) > 0 {
			m.setLogsContent()
		}

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case SnapshotMsg:
		m.refreshing = false
		m.lastErr = nil
		m.refreshedAt = time.Now()

		// Identical topology content needs no re-render.
		if fp, err := msg.Snapshot.Fingerprint(); err == nil {
			if fp == m.fingerprint {
				break
			}
			m.fingerprint = fp
		}

		m.snapshotViewport.SetContent(lipgloss.NewStyle().
			Width(m.snapshotViewport.Width).
			Render(renderSnapshot(msg.Snapshot)))

	case RefreshErrMsg:
		m.refreshing = false
		m.lastErr = msg.Err

	case LogMsg:
		if len(m.logs) >= 100 {
			m.logs = m.logs[1:]
		}

		m.logs = append(m.logs, string(msg))
		m.setLogsContent()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.snapshotViewport, cmd = m.snapshotViewport.Update(msg)
	cmds = append(cmds, cmd)

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// setLogsContent re-renders the accumulated log lines into the logs viewport.
func (m *TeaModel) setLogsContent() {
	logs := lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))

	m.logsViewport.SetContent(logs)
	m.logsViewport.GotoBottom()
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	var s strings.Builder

	title := "Topology"
	if !m.refreshedAt.IsZero() {
		title = fmt.Sprintf("Topology (refreshed %s)", m.refreshedAt.Format("15:04:05"))
	}
	if m.refreshing {
		title += " " + m.spinner.View()
	}

	snapshotSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render(title),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.snapshotViewport.View()),
			),
		)

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Process Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	var errSection string
	if m.lastErr != nil {
		errSection = errorStyle.
			Width(m.fullWidthWithBorders).
			Render("refresh failed: " + m.lastErr.Error())
	}

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("r: refresh • q: quit gui • ctrl+c: quit program")

	sections := []string{snapshotSection, logsSection}
	if errSection != "" {
		sections = append(sections, errSection)
	}
	sections = append(sections, helpSection)

	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return s.String()
}
