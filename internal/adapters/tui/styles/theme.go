package styles

import "github.com/charmbracelet/lipgloss"

// Palette shared by the overlays and the status bar. The canvas itself
// takes its colours from render.Palette.
var (
	Primary = lipgloss.Color("#1E88E5")
	Accent  = lipgloss.Color("#10B981")
	Muted   = lipgloss.Color("#6B7280")
	Danger  = lipgloss.Color("#EF4444")
	White   = lipgloss.Color("#FFFFFF")
	Panel   = lipgloss.Color("#1F2937")

	ToolSelect = lipgloss.Color("#6366F1")
	ToolNode   = lipgloss.Color("#10B981")
	ToolLink   = lipgloss.Color("#F97316")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Overlay frames the edit form and help over the canvas.
	Overlay = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(lipgloss.Color("#111827")).
		Padding(1, 2)

	StatusBar = lipgloss.NewStyle().
			Background(Panel).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Background(Panel).
			Foreground(lipgloss.Color("#D1D5DB"))

	InputLabel = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	Success = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	MutedText = lipgloss.NewStyle().Foreground(Muted)
)

// ToolColor picks the status badge colour for a tool.
func ToolColor(tool string) lipgloss.Color {
	switch tool {
	case "select":
		return ToolSelect
	case "node":
		return ToolNode
	case "link":
		return ToolLink
	default:
		return Primary
	}
}
