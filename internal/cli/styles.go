package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rpggio/pmdash/internal/domain/project"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e5e5")).Bold(true)
	bannerStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f59e0b")).
			Padding(0, 1)
)

var statusColors = map[project.Status]lipgloss.Color{
	project.StatusPlanning:   lipgloss.Color("#a3a3a3"),
	project.StatusInProgress: lipgloss.Color("#3b82f6"),
	project.StatusReview:     lipgloss.Color("#eab308"),
	project.StatusCompleted:  lipgloss.Color("#22c55e"),
}

var priorityColors = map[project.Priority]lipgloss.Color{
	project.PriorityLow:      lipgloss.Color("#a3a3a3"),
	project.PriorityMedium:   lipgloss.Color("#3b82f6"),
	project.PriorityHigh:     lipgloss.Color("#f97316"),
	project.PriorityCritical: lipgloss.Color("#ef4444"),
}

func renderStatus(s project.Status) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(string(s))
}

func renderPriority(p project.Priority) string {
	return lipgloss.NewStyle().Foreground(priorityColors[p]).Render(string(p))
}

// progressBar draws a ten-cell bar followed by the percentage.
func progressBar(progress int) string {
	filled := progress / 10
	bar := ""
	for i := 0; i < 10; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return fmt.Sprintf("%s %3d%%", bar, progress)
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+msg))
}

func demoBanner() string {
	return bannerStyle.Render("Demo mode: data is stored locally. Sign in with demo@example.com / demo123")
}
