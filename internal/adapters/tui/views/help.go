package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"schemer/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help overlay
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// CloseHelpMsg asks the app to hide the help overlay.
type CloseHelpMsg struct{}

// HelpModel is the model for the help overlay
type HelpModel struct{}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (*HelpModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg {
			return CloseHelpMsg{}
		}
	}
	return m, nil
}

// View renders the help overlay
func (m *HelpModel) View() string {
	v := NewViewBuilder().
		Title("Schemer Help").
		Subtitle("Entity-relationship diagram editor")

	v.Raw(styles.InputLabel.Render("Tools")).BlankLine().
		Raw(helpLine("1", "Select: drag entities, click links and references")).
		Raw(helpLine("2", "Entity: click empty canvas to add an entity")).
		Raw(helpLine("3", "Link: click two entities to connect them")).
		BlankLine()

	v.Raw(styles.InputLabel.Render("Mouse")).BlankLine().
		Raw(helpLine("double click", "Edit entity title and fields")).
		Raw(helpLine("right drag", "Pan the canvas")).
		Raw(helpLine("wheel", "Zoom around the pointer")).
		BlankLine()

	v.Raw(styles.InputLabel.Render("Keys")).BlankLine().
		Raw(helpLine("e", "Edit the entity under the pointer in $EDITOR")).
		Raw(helpLine("f", "Fit the diagram to the window")).
		Raw(helpLine("y", "Copy selected link labels")).
		Raw(helpLine("s", "Save now")).
		Raw(helpLine("esc", "Cancel draft, close editor, clear selection")).
		Raw(helpLine("?", "Toggle help")).
		Raw(helpLine("q / Ctrl+C", "Save and quit")).
		BlankLine()

	v.Raw(styles.InputLabel.Render("Field syntax")).BlankLine().
		Line(styles.MutedText.Render("  name:type [meta]   one per line, e.g. id:int [PK]")).
		BlankLine().
		Help(HelpKeys.Close)

	return v.String()
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 14)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len([]rune(s)) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len([]rune(s)))
}
