package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Share is one coverage figure, already formatted for display.
type Share struct {
	// Label completes "of all users ..." (e.g. "globally", "in the US").
	Label string
	// Percent is the rounded percentage including the % sign.
	Percent string
}

// Summary is the data shown by the TUI. It carries the same information
// as the non-TUI output.
type Summary struct {
	Queries  []string
	Browsers []string
	Coverage []Share
}

// Group is the versions selected for one browser, in result order.
type Group struct {
	Name     string
	Versions []string
}

// Groups collects "name version" entries by browser name, keeping the
// order in which names first appear.
func (s Summary) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, entry := range s.Browsers {
		name, version, _ := strings.Cut(entry, " ")
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Versions = append(groups[i].Versions, version)
	}
	return groups
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Run shows the summary in a full-screen program until the user quits.
func Run(s Summary) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatic renders the summary without a program (for fallback).
func RenderStatic(s Summary) string {
	model := NewModel(s)
	model.width = 80
	model.height = 24
	model.static = true
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
