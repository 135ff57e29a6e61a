package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports about the loaded data.
type StatusInfo struct {
	Period      string
	Balance     string
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := muted.Render(" [?]help  [[/]]month  [q]uit")
	if info.Period != "" {
		left += dim.Render("  │ ") + accent.Render(info.Period)
	}
	if info.Balance != "" {
		left += dim.Render(" │ ") + muted.Render("balance ") + accent.Render(info.Balance)
	}

	var right []string
	switch {
	case info.Refreshing:
		right = append(right, accent.Render("refreshing…"))
	case info.AutoRefresh:
		right = append(right, dim.Render("auto"))
	}
	if info.DataAge != "" {
		right = append(right, muted.Render("data "+info.DataAge))
	}
	rightStr := strings.Join(right, dim.Render("  ")) + muted.Render(" ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	bar := left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap)) + rightStr

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(bar)
}
