package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/repositories"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/desertthunder/weeklymix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HistoryListView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// runKind selects which engine operation a confirmed run executes.
type runKind int

const (
	weeklyRun runKind = iota
	dropsRun
)

func (k runKind) String() string {
	if k == dropsRun {
		return "new drops"
	}
	return "weekly mix"
}

type historyFetchedMsg struct {
	runs []*models.Run
	err  error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.RunResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	store        *repositories.RunRepository
	config       *shared.Config
	width        int
	height       int
	historyList  list.Model
	runs         []*models.Run
	pending      runKind
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// store may be nil; the history view is then empty but runs still work.
func NewModel(ctx context.Context, engine tasks.Engine, store *repositories.RunRepository, config *shared.Config) *Model {
	return &Model{
		ctx:    ctx,
		view:   HistoryListView,
		engine: engine,
		store:  store,
		config: config,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching run history.
func (m *Model) Init() tea.Cmd {
	return m.fetchHistory()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.historyList.Width() == 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HistoryListView:
			return m.handleHistoryKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case historyFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.runs = msg.runs
		items := make([]list.Item, len(msg.runs))
		for i, run := range msg.runs {
			items[i] = runItem{run: run}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.historyList.Title = "Playlist Runs"
		m.historyList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case HistoryListView:
		return m.renderHistory()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "w":
		m.pending = weeklyRun
		m.view = ConfirmView
		return m, nil
	case "d":
		m.pending = dropsRun
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = HistoryListView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = HistoryListView
		m.result = nil
		m.err = nil
		return m, m.fetchHistory()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == HistoryListView {
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		if m.store == nil {
			return historyFetchedMsg{runs: []*models.Run{}}
		}
		runs, err := m.store.List(map[string]any{"limit": 50})
		return historyFetchedMsg{runs: runs, err: err}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	kind := m.pending

	go func() {
		var result *tasks.RunResult
		var err error
		if kind == dropsRun {
			result, err = m.engine.RunDrops(m.ctx, progress, tasks.DropsOptsFromConfig(m.config.Playlist))
		} else {
			result, err = m.engine.RunOnce(m.ctx, progress, tasks.RunOptsFromConfig(m.config.Playlist))
		}
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderHistory() string {
	helpKeys := []key.Binding{m.keys.weekly, m.keys.drops, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Start a %s run?", m.pending))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render(fmt.Sprintf("Running %s", m.pending))

	var phase string
	switch m.progress.Phase {
	case tasks.ConnectGateway:
		phase = "Connecting to gateway..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	case tasks.SearchTracks:
		if m.progress.Total > 0 {
			phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
		} else {
			phase = "Searching tracks..."
		}
	case tasks.AddTracks:
		phase = "Adding tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress r for history, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r for history, q to quit")
	}

	title := styles.ok.Render("✓ Run Complete!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nWeek: %s\nTracks added: %d\nStatus: %s",
		m.result.Playlist.Name,
		shared.FormatWindow(m.result.WindowStart, m.result.WindowEnd),
		m.result.TracksAdded,
		m.result.Status,
	)

	var warnings string
	if len(m.result.Warnings) > 0 {
		warnings = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d warning(s):", len(m.result.Warnings))))
		for _, w := range m.result.Warnings {
			warnings += fmt.Sprintf("\n  • %s", w)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, warnings, helpView)
}
