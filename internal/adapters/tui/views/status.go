package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"schemer/internal/adapters/tui/styles"
)

// Status is what the bottom bar shows.
type Status struct {
	Tool      string
	Zoom      float64
	Entities  int
	Links     int
	Selection []string
	Saving    bool
	Message   string
	IsError   bool
}

// RenderStatusBar renders one terminal row of status for the given width.
func RenderStatusBar(s Status, width int) string {
	tool := styles.StatusKey.
		Background(styles.ToolColor(s.Tool)).
		Render(strings.ToUpper(s.Tool))

	parts := []string{
		fmt.Sprintf("%d%%", int(s.Zoom*100+0.5)),
		fmt.Sprintf("%d entities", s.Entities),
		fmt.Sprintf("%d links", s.Links),
	}
	if len(s.Selection) > 0 {
		parts = append(parts, "selected: "+strings.Join(s.Selection, ", "))
	}
	if s.Saving {
		parts = append(parts, "saving…")
	}
	info := styles.StatusText.Render(strings.Join(parts, "  "))

	msg := ""
	if s.Message != "" {
		msg = " " + RenderMessage(s.Message, s.IsError)
	}
	help := styles.StatusText.Render("  ? help")

	line := lipgloss.JoinHorizontal(lipgloss.Top, tool, info, msg)
	if gap := width - lipgloss.Width(line) - lipgloss.Width(help) - 2; gap > 0 {
		line += strings.Repeat(" ", gap) + help
	}
	return styles.StatusBar.Width(max(width, 0)).MaxWidth(max(width, 0)).Render(line)
}
