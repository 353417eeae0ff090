package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"schemer/internal/adapters/tui/styles"
)

// RenderMessage styles a form message as an error or a success.
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// ViewBuilder assembles an overlay body line by line.
type ViewBuilder struct {
	b strings.Builder
}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title writes a heading followed by a blank line.
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.Raw(styles.Title.Render(title) + "\n\n")
}

func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	return v.Raw(styles.Subtitle.Render(subtitle) + "\n\n")
}

func (v *ViewBuilder) Line(text string) *ViewBuilder {
	return v.Raw(text + "\n")
}

func (v *ViewBuilder) BlankLine() *ViewBuilder {
	return v.Raw("\n")
}

// Message writes a styled message; empty messages are skipped.
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	return v.Raw(RenderMessage(message, isError) + "\n\n")
}

// Help writes the bindings' key and description, bullet separated.
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return v.Raw(strings.Join(parts, styles.HelpSeparator.String()))
}

func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String frames the body as an overlay.
func (v *ViewBuilder) String() string {
	return styles.Overlay.Render(v.b.String())
}
