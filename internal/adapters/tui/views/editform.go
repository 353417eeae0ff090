package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"schemer/internal/adapters/tui/styles"
	"schemer/internal/engine"
)

// EditFormKeyMap defines key bindings for the entity edit form
type EditFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultEditFormKeys returns the default edit form key bindings
var DefaultEditFormKeys = EditFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch field"),
	),
}

// enter submits from single line inputs only; in the fields area it breaks
// the line.
var enterKey = key.NewBinding(key.WithKeys("enter"))

// EditSubmitMsg carries the form contents to apply.
type EditSubmitMsg struct {
	Title string
	Text  string
}

// EditCancelMsg closes the form without applying.
type EditCancelMsg struct{}

const (
	focusTitle = iota
	focusText
)

// EditForm edits an entity's title and fields, or a single field line.
type EditForm struct {
	ViewState
	Keys EditFormKeyMap

	kind  engine.EditKind
	title textinput.Model
	text  textarea.Model
	line  textinput.Model
	focus int
}

// NewEditForm builds a form prefilled from a pending edit.
func NewEditForm(pe *engine.PendingEdit) *EditForm {
	f := &EditForm{Keys: DefaultEditFormKeys, kind: pe.Kind}

	f.title = textinput.New()
	f.title.Placeholder = "Entity title"
	f.title.CharLimit = 120
	f.title.SetValue(pe.Title)

	f.text = textarea.New()
	f.text.Placeholder = "id:int [PK]"
	f.text.ShowLineNumbers = true
	f.text.SetWidth(48)
	f.text.SetHeight(8)
	f.text.SetValue(pe.Text)

	f.line = textinput.New()
	f.line.Placeholder = "name:type [meta]"
	f.line.SetValue(pe.Text)

	if pe.Kind == engine.EditField {
		f.line.Focus()
	} else {
		f.title.Focus()
	}
	if pe.Err != nil {
		f.SetError(pe.Err)
	}
	return f
}

// Init returns the blink command for the focused input
func (f *EditForm) Init() tea.Cmd {
	return textinput.Blink
}

// SetError shows a rejected submission.
func (f *EditForm) SetError(err error) {
	if err == nil {
		f.ClearMessage()
		return
	}
	f.SetMessage(err.Error(), true)
}

// SetSize fits the inputs to a window of the given size.
func (f *EditForm) SetSize(width, height int) {
	w := min(max(width-16, 20), 72)
	f.title.Width = w
	f.line.Width = w
	f.text.SetWidth(w)
	f.text.SetHeight(min(max(height-18, 3), 12))
}

// Values returns the title and text the form would submit.
func (f *EditForm) Values() (title, text string) {
	if f.kind == engine.EditField {
		return "", f.line.Value()
	}
	return f.title.Value(), f.text.Value()
}

func (f *EditForm) submit() tea.Cmd {
	title, text := f.Values()
	return func() tea.Msg {
		return EditSubmitMsg{Title: title, Text: text}
	}
}

// Update handles messages for the form.
func (f *EditForm) Update(msg tea.Msg) (*EditForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Cancel):
			return f, func() tea.Msg { return EditCancelMsg{} }
		case key.Matches(msg, f.Keys.Submit):
			return f, f.submit()
		case key.Matches(msg, enterKey) && (f.kind == engine.EditField || f.focus == focusTitle):
			return f, f.submit()
		case key.Matches(msg, f.Keys.Tab) && f.kind == engine.EditEntity:
			f.toggleFocus()
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch {
	case f.kind == engine.EditField:
		f.line, cmd = f.line.Update(msg)
	case f.focus == focusTitle:
		f.title, cmd = f.title.Update(msg)
	default:
		f.text, cmd = f.text.Update(msg)
	}
	return f, cmd
}

func (f *EditForm) toggleFocus() {
	if f.focus == focusTitle {
		f.focus = focusText
		f.title.Blur()
		f.text.Focus()
		return
	}
	f.focus = focusTitle
	f.text.Blur()
	f.title.Focus()
}

// View renders the form
func (f *EditForm) View() string {
	v := NewViewBuilder()
	if f.kind == engine.EditField {
		v.Title("Edit field").
			Line(styles.InputLabel.Render("Field")).
			Line(styles.InputFocused.Render(f.line.View())).
			BlankLine()
	} else {
		v.Title("Edit entity").
			Line(styles.InputLabel.Render("Title")).
			Line(f.frame(focusTitle).Render(f.title.View())).
			BlankLine().
			Line(styles.InputLabel.Render("Fields")).
			Line(f.frame(focusText).Render(f.text.View())).
			BlankLine()
	}
	if f.MessageErr {
		v.Message(formatError(f.Message), true)
	}
	if f.kind == engine.EditEntity {
		return v.Help(f.Keys.Tab, f.Keys.Submit, f.Keys.Cancel).String()
	}
	return v.Help(key.NewBinding(key.WithHelp("enter", "apply")), f.Keys.Cancel).String()
}

func (f *EditForm) frame(field int) lipgloss.Style {
	if f.focus == field {
		return styles.InputFocused
	}
	return styles.InputField
}

// formatError keeps multi-line parse errors readable in the overlay.
func formatError(msg string) string {
	lines := strings.Split(msg, "\n")
	if len(lines) == 1 {
		return msg
	}
	return fmt.Sprintf("%s\n  %s", lines[0], strings.Join(lines[1:], "\n  "))
}
