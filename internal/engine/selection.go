package engine

import (
	"encoding/json"
	"log/slog"
)

// Message types understood by the selection bridge.
const (
	MsgSelectLink = "select-link"
	MsgLinkSelect = "link-select"
	MsgClear      = "clear-link-selection"
)

// Message is an external selection command. Action is accepted as an alias
// for Type.
type Message struct {
	Type   string `json:"type,omitempty"`
	Action string `json:"action,omitempty"`
	ID     string `json:"id,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Kind returns Type, falling back to Action.
func (m Message) Kind() string {
	if m.Type != "" {
		return m.Type
	}
	return m.Action
}

// DecodeMessage parses a message payload. Anything that is not a JSON object
// yields ok == false.
func DecodeMessage(data []byte) (Message, bool) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, false
	}
	return m, true
}

// SelectLinks replaces the selection with ids.
func (e *Engine) SelectLinks(ids []string) {
	sel := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	e.State.Selected = sel
}

func (e *Engine) selectOnly(id string) {
	if id == "" {
		e.ClearLinkSelection()
		return
	}
	e.SelectLinks([]string{id})
}

// ClearLinkSelection removes every highlight.
func (e *Engine) ClearLinkSelection() {
	e.State.Selected = map[string]struct{}{}
}

// SelectLinkByID highlights exactly the link with id. An unknown id clears
// the selection.
func (e *Engine) SelectLinkByID(id string) bool {
	l, ok := e.Store.Link(id)
	if !ok {
		e.ClearLinkSelection()
		return false
	}
	e.selectOnly(l.ID)
	return true
}

// SelectLinkByTitles highlights the first link between two titled entities.
func (e *Engine) SelectLinkByTitles(from, to string) bool {
	l, ok := e.Store.FindLinkByTitles(from, to)
	if !ok {
		e.ClearLinkSelection()
		return false
	}
	e.selectOnly(l.ID)
	return true
}

// SelectLinkByLabel highlights the first link whose label matches.
func (e *Engine) SelectLinkByLabel(label string) bool {
	l, ok := e.Store.FindLinkByLabel(label)
	if !ok {
		e.ClearLinkSelection()
		return false
	}
	e.selectOnly(l.ID)
	return true
}

// HandleMessage applies a selection command. Lookups run id, then titles,
// then label; a select that resolves nothing clears the selection. Unknown
// types are ignored. It reports whether the message was recognized.
func (e *Engine) HandleMessage(m Message) bool {
	switch m.Kind() {
	case MsgClear:
		e.ClearLinkSelection()
		return true
	case MsgSelectLink, MsgLinkSelect:
	default:
		return false
	}

	if m.ID != "" {
		if l, ok := e.Store.Link(m.ID); ok {
			e.selectOnly(l.ID)
			return true
		}
	}
	if m.From != "" && m.To != "" {
		if l, ok := e.Store.FindLinkByTitles(m.From, m.To); ok {
			e.selectOnly(l.ID)
			return true
		}
	}
	if m.Label != "" {
		if l, ok := e.Store.FindLinkByLabel(m.Label); ok {
			e.selectOnly(l.ID)
			return true
		}
	}
	e.ClearLinkSelection()
	return true
}

// Bridge filters incoming messages by source before they reach the engine.
// With no parent configured every source is trusted.
type Bridge struct {
	engine *Engine
	parent string
	logger *slog.Logger
}

// NewBridge returns a bridge that accepts messages only from parent, or from
// anyone when parent is empty.
func NewBridge(e *Engine, parent string) *Bridge {
	return &Bridge{engine: e, parent: parent, logger: e.logger}
}

// Trusted reports whether a message from source may change the selection.
func (b *Bridge) Trusted(source string) bool {
	return b.parent == "" || source == b.parent
}

// Receive decodes and applies one message. Untrusted or undecodable messages
// are dropped without error.
func (b *Bridge) Receive(source string, payload []byte) bool {
	if !b.Trusted(source) {
		b.logger.Debug("selection message dropped", slog.String("source", source))
		return false
	}
	m, ok := DecodeMessage(payload)
	if !ok {
		return false
	}
	return b.engine.HandleMessage(m)
}
