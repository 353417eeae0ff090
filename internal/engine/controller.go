package engine

import (
	"log/slog"

	"schemer/internal/geometry"
	"schemer/internal/hittest"
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// SetTool switches the active tool. Leaving the link tool drops any draft.
func (e *Engine) SetTool(t Tool) {
	if t != ToolLink {
		e.State.Draft = nil
	}
	e.State.Tool = t
}

// PointerDown handles a button press at a screen position.
func (e *Engine) PointerDown(screen geometry.Point, b Button) {
	st := &e.State
	if b == ButtonRight {
		st.Panning = true
		st.PanStart = screen
		st.CamStart = geometry.Point{X: e.Camera.X, Y: e.Camera.Y}
		st.Dragging = false
		st.DragID = 0
		return
	}

	world := e.Camera.ScreenToWorld(screen)
	ht := e.Tester()

	switch st.Tool {
	case ToolSelect:
		if ref, ok := ht.Reference(world); ok {
			e.selectPath(ref)
			st.Dragging = false
			st.DragID = 0
			return
		}
		if l, ok := ht.Link(world); ok {
			e.selectOnly(l.ID)
			st.Dragging = false
			st.DragID = 0
			return
		}
		if n, ok := ht.Node(world); ok {
			st.DragID = n.ID
			st.Dragging = true
			st.DragOffset = geometry.Point{X: world.X - n.X, Y: world.Y - n.Y}
			e.ClearLinkSelection()
			return
		}
		e.ClearLinkSelection()
		st.DragID = 0

	case ToolNode:
		n := e.Store.AddNode(world)
		e.logger.Debug("entity added", slog.Int("id", n.ID))

	case ToolLink:
		n, ok := ht.Node(world)
		if !ok {
			st.Draft = nil
			return
		}
		if st.Draft == nil {
			st.Draft = &Draft{FromID: n.ID, End: world}
			return
		}
		if st.Draft.FromID == n.ID {
			return
		}
		l, err := e.Store.AddLink(st.Draft.FromID, n.ID)
		if err != nil {
			e.logger.Warn("link not created", slog.String("error", err.Error()))
		} else {
			e.logger.Debug("link added", slog.String("id", l.ID), slog.Int("num", l.Num))
		}
		st.Draft = nil
	}
}

// selectPath highlights the links of a shortest path from the row's entity to
// the entity it names. No route means an empty highlight.
func (e *Engine) selectPath(ref hittest.RefHit) {
	e.SelectLinks(e.Store.PathToTitle(ref.NodeID, ref.TargetTitle))
	e.State.Draft = nil
}

// PointerMove handles pointer motion at a screen position.
func (e *Engine) PointerMove(screen geometry.Point) {
	st := &e.State
	if st.Panning {
		e.Camera.X = st.CamStart.X + (screen.X - st.PanStart.X)
		e.Camera.Y = st.CamStart.Y + (screen.Y - st.PanStart.Y)
		return
	}

	world := e.Camera.ScreenToWorld(screen)
	if st.Draft != nil {
		st.Draft.End = world
	}

	ht := e.Tester()
	if ref, ok := ht.Reference(world); ok {
		st.HoveredRef = &ref
	} else {
		st.HoveredRef = nil
	}

	st.HoveredLink = ""
	if st.Tool == ToolSelect && !st.Dragging && st.Draft == nil {
		if l, ok := ht.Link(world); ok {
			st.HoveredLink = l.ID
		}
	}

	if st.Dragging && st.DragID != 0 {
		pos := world.Sub(st.DragOffset)
		if err := e.Store.MoveNode(st.DragID, pos); err != nil {
			st.Dragging = false
			st.DragID = 0
		}
	}
}

// PointerUp ends dragging and panning.
func (e *Engine) PointerUp() {
	e.State.Dragging = false
	e.State.DragID = 0
	e.State.Panning = false
}

// PointerLeave ends dragging and panning and clears hover.
func (e *Engine) PointerLeave() {
	e.PointerUp()
	e.State.HoveredRef = nil
	e.State.HoveredLink = ""
}

// DoubleClick deletes a link under the pointer, or opens an editor for the
// entity under it.
func (e *Engine) DoubleClick(screen geometry.Point) {
	world := e.Camera.ScreenToWorld(screen)
	ht := e.Tester()

	if l, ok := ht.Link(world); ok {
		id := l.ID
		e.Store.DeleteLink(id)
		if e.State.IsSelected(id) {
			e.ClearLinkSelection()
		}
		if e.State.HoveredLink == id {
			e.State.HoveredLink = ""
		}
		e.logger.Debug("link deleted", slog.String("id", id))
		return
	}

	n, ok := ht.Node(world)
	if !ok {
		return
	}
	if ht.InHeader(*n, world) {
		e.OpenEntityEditor(n.ID)
		return
	}
	if idx := ht.Field(*n, world); idx >= 0 {
		e.OpenFieldEditor(n.ID, idx)
		return
	}
	e.OpenEntityEditor(n.ID)
}

// ContextMenu cancels a link draft.
func (e *Engine) ContextMenu() {
	e.State.Draft = nil
}

// Wheel zooms around the pointer.
func (e *Engine) Wheel(screen geometry.Point, deltaY float64) {
	e.Camera.ZoomAt(screen, geometry.WheelFactor(deltaY))
}

// Escape backs out of everything in progress.
func (e *Engine) Escape() {
	e.State.Draft = nil
	e.CloseEditor()
	e.State.HelpOpen = false
	e.ClearLinkSelection()
}

// ToggleHelp shows or hides the help overlay.
func (e *Engine) ToggleHelp() {
	e.State.HelpOpen = !e.State.HelpOpen
}

// Key handles a keyboard shortcut and reports whether it was recognized.
func (e *Engine) Key(k string) bool {
	switch k {
	case "esc", "Escape":
		e.Escape()
	case "1":
		e.SetTool(ToolSelect)
	case "2":
		e.SetTool(ToolNode)
	case "3":
		e.SetTool(ToolLink)
	default:
		return false
	}
	return true
}
