package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/storage"
)

// maxRuns is how many runs the browser loads.
const maxRuns = 200

// RunsModel is the Bubble Tea model for the run history browser.
type RunsModel struct {
	store    *storage.Store
	runs     []storage.RunRecord
	stats    *storage.RunStats
	table    table.Model
	help     help.Model
	keys     RunsKeyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewRunsModel creates a new run history model.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		store:  store,
		keys:   DefaultRunsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Canvas", Width: 11},
		{Title: "Depth", Width: 5},
		{Title: "Seed", Width: 10},
		{Title: "Policy", Width: 8},
		{Title: "State", Width: 9},
		{Title: "Placed", Width: 11},
		{Title: "Time", Width: 8},
		{Title: "When", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Clamp(m.height-8, 3, maxRuns)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads runs and stats from the store.
func (m *RunsModel) load() {
	m.runs, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		m.runs, m.err = m.store.RecentRuns(maxRuns)
		if m.err == nil {
			m.stats, m.err = m.store.Stats()
		}
	}
	m.updateTableRows()
}

// RunRow formats a run as table cells. The plain listing uses it too.
func RunRow(r storage.RunRecord) []string {
	return []string{
		r.ShortID(),
		fmt.Sprintf("%dx%d", r.Width, r.Height),
		fmt.Sprintf("%d", r.Depth),
		fmt.Sprintf("%d", r.Seed),
		r.Policy,
		r.State,
		humanize.Comma(int64(r.Placed)),
		r.Duration.Round(100 * time.Millisecond).String(),
		humanize.Time(r.CreatedAt),
	}
}

// updateTableRows updates the table with current runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = RunRow(r)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

// Init initializes the runs model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Delete):
			if i := m.table.Cursor(); m.store != nil && i >= 0 && i < len(m.runs) {
				if err := m.store.DeleteRun(m.runs[i].ID); err != nil {
					m.err = err
					return m, nil
				}
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("RUN HISTORY"))
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.stats != nil && m.stats.Runs > 0 {
		b.WriteString(dim.Render(fmt.Sprintf("%d runs, %d completed, %s colors placed, last %s",
			m.stats.Runs, m.stats.Completed, humanize.Comma(m.stats.Colors), humanize.Time(m.stats.LastRun))))
	}
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.err != nil:
		b.WriteString(tableStyle.Render("error: " + m.err.Error()))
	case len(m.runs) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No runs recorded yet.\nRun `allcolors view` or `allcolors generate` first.")))
	default:
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))
	return b.String()
}

// Runs returns the loaded runs, newest first.
func (m RunsModel) Runs() []storage.RunRecord {
	return m.runs
}

// RunRunsBrowser runs the history browser.
func RunRunsBrowser(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewRunsModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
