package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is a Bubble Tea model for the browser list view.
type Model struct {
	summary  Summary
	width    int
	height   int
	quitting bool
	static   bool
}

// NewModel creates a new model.
func NewModel(s Summary) Model {
	return Model{summary: s}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Browsers"))
	b.WriteString("\n")

	if len(m.summary.Queries) > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n\n",
			nameStyle.Render("Queries:"),
			versionsStyle.Render(strings.Join(m.summary.Queries, ", "))))
	}

	if len(m.summary.Coverage) > 0 {
		boxes := make([]string, 0, len(m.summary.Coverage))
		for _, s := range m.summary.Coverage {
			boxes = append(boxes, m.coverageCard(s.Label, s.Percent))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		b.WriteString("\n\n")
	}

	groups := m.summary.Groups()
	if len(groups) == 0 {
		b.WriteString(noneStyle.Render("No browsers selected"))
	}
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("%s %s\n",
			nameStyle.Render(g.Name),
			versionsStyle.Render(strings.Join(g.Versions, ", "))))
	}
	b.WriteString(fmt.Sprintf("\n%s %s",
		nameStyle.Render("Total:"),
		totalStyle.Render(fmt.Sprintf("%d", len(m.summary.Browsers)))))

	if m.static {
		return b.String()
	}
	help := helpStyle.Render("Press q or Ctrl+C to quit")
	return b.String() + "\n" + help
}

func (m Model) coverageCard(label, value string) string {
	valueStr := coverageValue.Render(value)
	labelStr := coverageLabel.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return coverageBox.Render(content)
}
