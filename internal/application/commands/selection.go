package commands

import (
	"context"
	"encoding/json"

	"schemer/internal/application"
	"schemer/internal/engine"
	"schemer/internal/ports"
)

// SelectResult lists the links a selection message resolved to
type SelectResult struct {
	Recognized bool
	Links      []LinkSummary
}

// SelectCommand resolves a selection message against the stored diagram
// without changing it
type SelectCommand struct {
	repo    ports.DiagramStore
	Message engine.Message
}

// NewSelectByLabelCommand creates a SelectCommand for a rendered label
func NewSelectByLabelCommand(repo ports.DiagramStore, label string) *SelectCommand {
	return &SelectCommand{
		repo:    repo,
		Message: engine.Message{Type: engine.MsgSelectLink, Label: label},
	}
}

// NewSelectMessageCommand creates a SelectCommand for a decoded message
func NewSelectMessageCommand(repo ports.DiagramStore, m engine.Message) *SelectCommand {
	return &SelectCommand{repo: repo, Message: m}
}

// NewSelectCommand creates a SelectCommand for a raw message payload
func NewSelectCommand(repo ports.DiagramStore, payload []byte) (*SelectCommand, error) {
	var m engine.Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, &application.ValidationError{Field: "message", Message: err.Error()}
	}
	return &SelectCommand{repo: repo, Message: m}, nil
}

// Execute runs the select command
func (c *SelectCommand) Execute(ctx context.Context) (*SelectResult, error) {
	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	e := engine.New(s)
	res := &SelectResult{Recognized: e.HandleMessage(c.Message), Links: []LinkSummary{}}
	for _, l := range e.SelectedLinks() {
		res.Links = append(res.Links, summarize(s, l))
	}
	return res, nil
}
