package cliapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coreapp "cminify/internal/core/app"
)

// maxRunItems bounds the run list of a long watch session.
const maxRunItems = 200

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8"))
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelRuns panelMode = iota
	panelSymbols
)

type updateMsg struct {
	outcome *coreapp.Outcome
	err     error
}

type model struct {
	runList      list.Model
	mode         panelMode
	source       string
	irPath       string
	minifiedPath string

	last       *coreapp.Outcome
	lastErr    string
	lastUpdate time.Time
	runs       int
	failures   int
}

func initialModel(source, irPath, minifiedPath string) model {
	runList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	runList.Title = "Runs"
	runList.SetShowStatusBar(false)
	runList.SetFilteringEnabled(false)

	return model{
		runList:      runList,
		mode:         panelRuns,
		source:       source,
		irPath:       irPath,
		minifiedPath: minifiedPath,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.runList.SetSize(msg.Width-h, height)
		return m, nil
	case updateMsg:
		return m.applyUpdate(msg)
	}

	var cmd tea.Cmd
	m.runList, cmd = m.runList.Update(msg)
	return m, cmd
}

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelRuns {
			m.mode = panelSymbols
		} else {
			m.mode = panelRuns
		}
		return m, nil
	}

	if m.mode != panelRuns {
		return m, nil
	}
	var cmd tea.Cmd
	m.runList, cmd = m.runList.Update(msg)
	return m, cmd
}

func (m model) applyUpdate(msg updateMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil && msg.outcome == nil {
		return m, nil
	}
	m.runs++
	m.lastUpdate = time.Now()
	stamp := m.lastUpdate.Format("15:04:05")

	var it item
	if msg.err != nil {
		m.failures++
		m.lastErr = msg.err.Error()
		it = item{title: stamp + " failed", desc: m.lastErr}
	} else {
		m.last = msg.outcome
		m.lastErr = ""
		stats := msg.outcome.Result.Stats
		it = item{
			title: fmt.Sprintf("%s  %d -> %d bytes (%s)", stamp, stats.SourceBytes, stats.MinifiedBytes, percent(stats.MinifiedBytes, stats.SourceBytes)),
			desc:  runNotes(msg.outcome),
		}
	}

	items := append([]list.Item{it}, m.runList.Items()...)
	if len(items) > maxRunItems {
		items = items[:maxRunItems]
	}
	cmd := m.runList.SetItems(items)
	return m, cmd
}

func runNotes(out *coreapp.Outcome) string {
	stats := out.Result.Stats
	notes := []string{
		fmt.Sprintf("renamed %d symbols", stats.RenamedSymbols),
		fmt.Sprintf("took %s", out.Duration.Round(time.Microsecond)),
	}
	if out.Cached {
		notes = append(notes, "cached")
	}
	if out.Result.Formatted {
		notes = append(notes, "ir formatted")
	}
	return strings.Join(notes, ", ")
}

func (m model) View() string {
	lastUpdate := "never"
	if !m.lastUpdate.IsZero() {
		lastUpdate = m.lastUpdate.Format("15:04:05")
	}
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d runs | %d failed", lastUpdate, m.runs, m.failures))

	var summary string
	switch {
	case m.lastErr != "":
		summary = errorStyle.Render("error") + " " + m.lastErr
	case m.last != nil:
		stats := m.last.Result.Stats
		summary = successStyle.Render(fmt.Sprintf("%d -> %d bytes", stats.SourceBytes, stats.MinifiedBytes)) +
			fmt.Sprintf(" | ir %s | output %s", m.irPath, m.minifiedPath)
	default:
		summary = statusStyle.Render("waiting for first run")
	}

	header := fmt.Sprintf("%s %s\n%s\n%s\n", titleStyle.Render("cminify watch"), m.source, status, summary)
	help := helpStyle.Render("tab: runs/symbols | q: quit")

	var body string
	if m.mode == panelSymbols {
		body = renderSymbolPanel(m)
	} else {
		body = m.runList.View()
	}
	return docStyle.Render(header + help + "\n\n" + body)
}

func renderSymbolPanel(m model) string {
	if m.last == nil || m.last.Result.Report == nil {
		return statusStyle.Render("no symbol statistics; run with -verbose")
	}
	return titleStyle.Render("Symbols") + "\n" + reportStyle.Render(strings.TrimRight(m.last.Result.Report.String(), "\n"))
}
