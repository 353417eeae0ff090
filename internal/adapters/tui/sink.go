package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"schemer/internal/ports"
)

// Sender is the part of *tea.Program a ProgramSink needs.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramSink forwards selection messages into a running program's event
// loop, where the app's bridge decides whether to apply them.
type ProgramSink struct {
	program Sender
}

var _ ports.SelectionSink = (*ProgramSink)(nil)

// NewProgramSink returns a sink posting to p.
func NewProgramSink(p Sender) *ProgramSink {
	return &ProgramSink{program: p}
}

// Post copies payload and hands it to the program.
func (s *ProgramSink) Post(source string, payload []byte) error {
	s.program.Send(SelectionMsg{Source: source, Payload: append([]byte(nil), payload...)})
	return nil
}
