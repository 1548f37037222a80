// ABOUTME: Terminal dashboard using the bubbletea framework
// ABOUTME: Loads the three collections in parallel and shows stats, pipeline and attention lists
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/reicrm/models"
	"github.com/harperreed/reicrm/viz"
)

// Fetcher loads all three collections, failing as a whole if any one fails.
type Fetcher interface {
	FetchAll(ctx context.Context) (models.Snapshot, error)
}

type viewState int

const (
	stateLoading viewState = iota
	stateReady
	stateError
)

type dashboardLoadedMsg struct {
	dashboard viz.Dashboard
}

type fetchFailedMsg struct {
	err error
}

// Model is the dashboard bubbletea model.
type Model struct {
	ctx     context.Context
	fetcher Fetcher
	now     func() time.Time

	state     viewState
	spinner   spinner.Model
	dashboard viz.Dashboard
	table     table.Model
	err       error

	width  int
	height int
}

func NewModel(ctx context.Context, fetcher Fetcher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	return Model{
		ctx:     ctx,
		fetcher: fetcher,
		now:     time.Now,
		state:   stateLoading,
		spinner: s,
		table:   newPropertiesTable(),
		width:   100,
		height:  30,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// fetch runs the whole fetch-all sequence. A retry always starts over.
func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.fetcher.FetchAll(m.ctx)
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return dashboardLoadedMsg{dashboard: viz.BuildDashboard(snap, m.now())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardLoadedMsg:
		m.state = stateReady
		m.dashboard = msg.dashboard
		m.err = nil
		m.table.SetRows(propertyRows(msg.dashboard.RecentProperties))
		return m, nil

	case fetchFailedMsg:
		m.state = stateError
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		if m.state == stateLoading {
			return m, nil
		}
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	}

	if m.state == stateReady {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return m.renderLoading()
	case stateError:
		return m.renderError()
	default:
		return m.renderDashboard()
	}
}

// Run shows the dashboard full screen until the user quits.
func Run(ctx context.Context, fetcher Fetcher) error {
	p := tea.NewProgram(NewModel(ctx, fetcher), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
