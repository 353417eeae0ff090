package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"schemer/internal/engine"
)

// DoubleClickInterval is the longest gap between two presses on the same
// cell that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

// wheelDelta is the scroll amount one wheel notch stands for.
const wheelDelta = 100

// clickTracker recognizes double clicks from terminal presses, which carry
// no click count of their own.
type clickTracker struct {
	now      func() time.Time
	last     time.Time
	col, row int
}

func newClickTracker() *clickTracker {
	return &clickTracker{now: time.Now}
}

// press records a left press and reports whether it completes a double
// click. A completed double click does not start another one.
func (t *clickTracker) press(col, row int) bool {
	now := t.now()
	double := !t.last.IsZero() && col == t.col && row == t.row && now.Sub(t.last) <= DoubleClickInterval
	if double {
		t.last = time.Time{}
		return true
	}
	t.last, t.col, t.row = now, col, row
	return false
}

// pointer is the mouse state the app feeds into the engine.
type pointer struct {
	clicks        *clickTracker
	pendingDouble bool
	col, row      int
	inside        bool
}

func newPointer() *pointer {
	return &pointer{clicks: newClickTracker()}
}

// handle translates one terminal mouse event into engine calls. rows is the
// canvas height; events below it land on the status bar and are ignored.
func (p *pointer) handle(e *engine.Engine, msg tea.MouseMsg, rows int) {
	if msg.Y >= rows {
		if p.inside {
			p.inside = false
			e.PointerLeave()
		}
		return
	}
	p.col, p.row, p.inside = msg.X, msg.Y, true
	at := CellCenter(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			p.pendingDouble = p.clicks.press(msg.X, msg.Y)
			e.PointerDown(at, engine.ButtonLeft)
		case tea.MouseButtonRight:
			e.PointerDown(at, engine.ButtonRight)
			e.ContextMenu()
		case tea.MouseButtonWheelUp:
			e.Wheel(at, -wheelDelta)
		case tea.MouseButtonWheelDown:
			e.Wheel(at, wheelDelta)
		}
	case tea.MouseActionRelease:
		e.PointerUp()
		if p.pendingDouble {
			p.pendingDouble = false
			e.DoubleClick(at)
		}
	case tea.MouseActionMotion:
		e.PointerMove(at)
	}
}

// leave ends any drag or pan when the terminal loses focus.
func (p *pointer) leave(e *engine.Engine) {
	p.inside = false
	p.pendingDouble = false
	e.PointerLeave()
}
