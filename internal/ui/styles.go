package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/task"
)

var (
	accentColor = lipgloss.Color("#2563EB")
	mutedColor  = lipgloss.Color("#6B7280")
	redColor    = lipgloss.Color("#DC2626")
	orangeColor = lipgloss.Color("#EA580C")
	yellowColor = lipgloss.Color("#CA8A04")
	greenColor  = lipgloss.Color("#16A34A")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	subtleStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(mutedColor).
			PaddingRight(1).
			MarginRight(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	statStyle = cardStyle.
			MarginRight(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(redColor)
)

func priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return lipgloss.NewStyle().Foreground(redColor)
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(yellowColor)
	case task.PriorityLow:
		return lipgloss.NewStyle().Foreground(greenColor)
	default:
		return subtleStyle
	}
}

func statusStyle(s task.Status) lipgloss.Style {
	switch s {
	case task.StatusCompleted:
		return lipgloss.NewStyle().Foreground(greenColor)
	case task.StatusInProgress:
		return lipgloss.NewStyle().Foreground(accentColor)
	default:
		return subtleStyle
	}
}

var (
	overdueStyle  = lipgloss.NewStyle().Bold(true).Foreground(redColor)
	dueTodayStyle = lipgloss.NewStyle().Bold(true).Foreground(orangeColor)
)
