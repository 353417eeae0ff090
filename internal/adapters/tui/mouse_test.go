package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"schemer/internal/engine"
	"schemer/internal/geometry"
	"schemer/internal/graph"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestClickTracker(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tr := &clickTracker{now: clock.now}

	assert.False(t, tr.press(3, 4))
	clock.advance(200 * time.Millisecond)
	assert.True(t, tr.press(3, 4), "second press within the interval")

	clock.advance(100 * time.Millisecond)
	assert.False(t, tr.press(3, 4), "a third press starts over")

	clock.advance(500 * time.Millisecond)
	assert.False(t, tr.press(3, 4), "too slow")

	clock.advance(100 * time.Millisecond)
	assert.False(t, tr.press(4, 4), "different cell")
}

func press(x, y int, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: b}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func TestPointer_NodeToolAddsEntity(t *testing.T) {
	e := engine.New(graph.NewStore())
	e.SetTool(engine.ToolNode)
	p := newPointer()

	p.handle(e, press(10, 5, tea.MouseButtonLeft), 20)
	p.handle(e, release(10, 5), 20)

	assert.Len(t, e.Store.Nodes(), 1)
}

func TestPointer_DoubleClickOpensEditor(t *testing.T) {
	e := engine.New(graph.NewStore())
	id := e.Store.AddNode(geometry.Point{}).ID
	e.Prepare()
	p := newPointer()

	for i := 0; i < 2; i++ {
		p.handle(e, press(2, 0, tea.MouseButtonLeft), 20)
		p.handle(e, release(2, 0), 20)
	}

	if assert.NotNil(t, e.State.Edit) {
		assert.Equal(t, id, e.State.Edit.NodeID)
		assert.Equal(t, engine.EditEntity, e.State.Edit.Kind)
	}
}

func TestPointer_DragMovesEntity(t *testing.T) {
	e := engine.New(graph.NewStore())
	id := e.Store.AddNode(geometry.Point{}).ID
	e.Prepare()
	p := newPointer()

	p.handle(e, press(2, 0, tea.MouseButtonLeft), 20)
	p.handle(e, motion(12, 3), 20)
	p.handle(e, release(12, 3), 20)

	n, _ := e.Store.Node(id)
	assert.Equal(t, 70.0, n.X)
	assert.Equal(t, 42.0, n.Y)
}

func TestPointer_WheelZooms(t *testing.T) {
	e := engine.New(graph.NewStore())
	p := newPointer()

	p.handle(e, press(5, 5, tea.MouseButtonWheelUp), 20)
	assert.Greater(t, e.Camera.Scale, 1.0)

	p.handle(e, press(5, 5, tea.MouseButtonWheelDown), 20)
	p.handle(e, press(5, 5, tea.MouseButtonWheelDown), 20)
	assert.Less(t, e.Camera.Scale, 1.0)
}

func TestPointer_StatusRowLeaves(t *testing.T) {
	e := engine.New(graph.NewStore())
	p := newPointer()

	p.handle(e, press(5, 5, tea.MouseButtonRight), 20)
	assert.True(t, e.State.Panning)

	p.handle(e, motion(5, 20), 20)
	assert.False(t, e.State.Panning)
	assert.False(t, p.inside)
}
