package tui

import (
	"github.com/charmbracelet/lipgloss"

	"taskchain/internal/service"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	headingStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC"))
	labelStyle        = lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color("#888888"))
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	selectedStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	okStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
)

var statusColors = map[service.Status]lipgloss.Color{
	service.StatusPending:   lipgloss.Color("#F7B801"),
	service.StatusOngoing:   lipgloss.Color("#5B8DEF"),
	service.StatusCancelled: lipgloss.Color("#FF6B6B"),
	service.StatusCompleted: lipgloss.Color("#4CAF50"),
}

var badgeStyle = lipgloss.NewStyle().Width(11).Bold(true)

// statusBadge renders s as a fixed-width colored label.
func statusBadge(s service.Status) string {
	c, ok := statusColors[s]
	if !ok {
		c = lipgloss.Color("#999999")
	}
	return badgeStyle.Foreground(c).Render(string(s))
}
