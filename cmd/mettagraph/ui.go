package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mettagraph/internal/engine/graph"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	orphanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	stats      graph.Stats
	warnings   int
	lastUpdate time.Time
}

type updateMsg struct {
	result *graph.AnalysisResult
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.stats = msg.result.Stats
		m.warnings = len(msg.result.Warnings)
		m.lastUpdate = time.Now()
		m.list.SetItems(resultItems(msg.result))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func resultItems(result *graph.AnalysisResult) []list.Item {
	items := []list.Item{}
	for _, c := range result.Components {
		if c.Size == 1 {
			continue
		}
		items = append(items, item{
			title: fmt.Sprintf("Component %d (%d nodes)", c.ID, c.Size),
			desc:  strings.Join(c.MemberIDs, ", "),
		})
	}
	for _, id := range result.Orphans {
		items = append(items, item{
			title: "Orphan",
			desc:  id,
		})
	}
	for _, w := range result.Warnings {
		desc := w.Message
		if w.Line > 0 {
			desc = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		items = append(items, item{
			title: "Parse Warning",
			desc:  desc,
		})
	}
	return items
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d nodes | %d edges",
		m.lastUpdate.Format("15:04:05"), m.stats.NodeCount, m.stats.EdgeCount))

	var summary string
	if m.stats.OrphanCount == 0 && m.warnings == 0 {
		summary = successStyle.Render(fmt.Sprintf("✅ %d components, fully explained", m.stats.ComponentCount))
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			orphanStyle.Render(fmt.Sprintf("%d Orphans", m.stats.OrphanCount)),
			warningStyle.Render(fmt.Sprintf("%d Warnings", m.warnings)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Relationship Graph Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Components & Orphans"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
