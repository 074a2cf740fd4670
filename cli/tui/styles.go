// Package tui provides the Bubble Tea view behind --tui.
//
// The view shows the same browsers and coverage as the plain output; it
// adds grouping by browser and nothing else.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#2563EB")
	muted  = lipgloss.Color("#6B7280")
	good   = lipgloss.Color("#16A34A")
	warn   = lipgloss.Color("#D97706")
	plain  = lipgloss.Color("#F9FAFB")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)

	// Browser names sit in a fixed-width column so version lists line up.
	nameStyle     = lipgloss.NewStyle().Foreground(muted).Width(16)
	versionsStyle = lipgloss.NewStyle().Foreground(plain)
	totalStyle    = lipgloss.NewStyle().Foreground(good)
	noneStyle     = lipgloss.NewStyle().Foreground(warn)
	helpStyle     = lipgloss.NewStyle().Foreground(muted).MarginTop(1)

	coverageBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(22).
			Align(lipgloss.Center)
	coverageLabel = lipgloss.NewStyle().Foreground(muted).Align(lipgloss.Center)
	coverageValue = lipgloss.NewStyle().Bold(true).Foreground(plain).Align(lipgloss.Center)
)
