package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemer/internal/domain"
	"schemer/internal/geometry"
	"schemer/internal/graph"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

// abc builds A -> B -> C laid out left to right and prepares one frame.
func abc(t *testing.T) (*Engine, []domain.Node, []domain.Link) {
	t.Helper()
	e := New(graph.NewStore())
	var nodes []domain.Node
	for i, title := range []string{"A", "B", "C"} {
		n := e.Store.AddNode(pt(float64(i)*400, 0))
		require.NoError(t, e.Store.RenameNode(n.ID, title))
		n.Title = title
		nodes = append(nodes, n)
	}
	var links []domain.Link
	for i := 1; i < len(nodes); i++ {
		l, err := e.Store.AddLink(nodes[i-1].ID, nodes[i].ID)
		require.NoError(t, err)
		links = append(links, l)
	}
	e.Prepare()
	return e, nodes, links
}

func linkMid(t *testing.T, e *Engine, l domain.Link) geometry.Point {
	t.Helper()
	p1, p2, ok := e.Tester().Endpoints(l)
	require.True(t, ok)
	return e.Camera.WorldToScreen(pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2))
}

func TestEngine_PrepareWritesHeights(t *testing.T) {
	e, nodes, _ := abc(t)

	a, _ := e.Store.Node(nodes[0].ID)
	c, _ := e.Store.Node(nodes[2].ID)
	assert.Equal(t, 24.0+16+2*14+2*28, a.Height, "A lists B and C")
	assert.Equal(t, 54.0, c.Height)
	assert.Equal(t, []string{"B", "C"}, e.Refs().Of(nodes[0].ID))
}

func TestEngine_Keys(t *testing.T) {
	e := New(nil)
	tests := []struct {
		key  string
		want Tool
	}{
		{key: "2", want: ToolNode},
		{key: "3", want: ToolLink},
		{key: "1", want: ToolSelect},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.True(t, e.Key(tt.key))
			assert.Equal(t, tt.want, e.State.Tool)
		})
	}
	assert.False(t, e.Key("x"))
	assert.Equal(t, "link", ToolLink.String())
}

func TestEngine_NodeToolPlacesAtPointer(t *testing.T) {
	e := New(nil)
	e.Camera = geometry.Camera{X: 100, Y: 50, Scale: 2}
	e.SetTool(ToolNode)

	e.PointerDown(pt(300, 250), ButtonLeft)
	e.PointerDown(pt(500, 250), ButtonLeft)

	nodes := e.Store.Nodes()
	require.Len(t, nodes, 2, "node tool stays active")
	assert.Equal(t, 100.0, nodes[0].X)
	assert.Equal(t, 100.0, nodes[0].Y)
	assert.Equal(t, "Entity 2", nodes[1].Title)
	assert.Equal(t, ToolNode, e.State.Tool)
}

func TestEngine_LinkTool(t *testing.T) {
	e := New(nil)
	a := e.Store.AddNode(pt(0, 0))
	b := e.Store.AddNode(pt(400, 0))
	e.Prepare()
	e.SetTool(ToolLink)

	e.PointerDown(pt(10, 10), ButtonLeft)
	require.NotNil(t, e.State.Draft)
	assert.Equal(t, a.ID, e.State.Draft.FromID)

	e.PointerMove(pt(300, 30))
	assert.Equal(t, pt(300, 30), e.State.Draft.End)

	e.PointerDown(pt(20, 20), ButtonLeft)
	require.NotNil(t, e.State.Draft, "same entity keeps the draft")
	assert.Empty(t, e.Store.Links())

	e.PointerDown(pt(410, 10), ButtonLeft)
	assert.Nil(t, e.State.Draft)
	require.Len(t, e.Store.Links(), 1)
	l := e.Store.Links()[0]
	assert.Equal(t, a.ID, l.From)
	assert.Equal(t, b.ID, l.To)
	assert.Equal(t, domain.CardinalityOne, l.FromCardinality)
	assert.Equal(t, domain.CardinalityMany, l.ToCardinality)

	e.PointerDown(pt(10, 10), ButtonLeft)
	e.PointerDown(pt(300, 300), ButtonLeft)
	assert.Nil(t, e.State.Draft, "empty space cancels")

	e.PointerDown(pt(10, 10), ButtonLeft)
	e.ContextMenu()
	assert.Nil(t, e.State.Draft)

	e.PointerDown(pt(10, 10), ButtonLeft)
	e.SetTool(ToolSelect)
	assert.Nil(t, e.State.Draft, "leaving the link tool drops the draft")
}

func TestEngine_SelectLinkAndDrag(t *testing.T) {
	e, nodes, links := abc(t)

	e.PointerDown(linkMid(t, e, links[1]), ButtonLeft)
	assert.True(t, e.State.IsSelected(links[1].ID))
	assert.Len(t, e.State.Selected, 1)
	assert.False(t, e.State.Dragging)

	e.PointerDown(pt(410, 5), ButtonLeft)
	assert.Empty(t, e.State.Selected, "pressing an entity clears link selection")
	require.True(t, e.State.Dragging)
	assert.Equal(t, nodes[1].ID, e.State.DragID)

	e.PointerMove(pt(460, 105))
	b, _ := e.Store.Node(nodes[1].ID)
	assert.Equal(t, 450.0, b.X)
	assert.Equal(t, 100.0, b.Y)

	e.PointerUp()
	assert.False(t, e.State.Dragging)
	e.PointerMove(pt(600, 300))
	assert.Equal(t, 450.0, b.X)

	e.SelectLinks([]string{links[0].ID})
	e.PointerDown(pt(200, 600), ButtonLeft)
	assert.Empty(t, e.State.Selected, "empty space clears")
}

func TestEngine_ReferenceRowSelectsPath(t *testing.T) {
	e, nodes, links := abc(t)
	require.Equal(t, []string{"B", "C"}, e.Refs().Of(nodes[0].ID))

	// second reference row of A: baseline 0 + 40 + 14 + 2*14 + 28 = 110
	e.PointerDown(pt(50, 108), ButtonLeft)

	assert.Len(t, e.State.Selected, 2)
	assert.True(t, e.State.IsSelected(links[0].ID))
	assert.True(t, e.State.IsSelected(links[1].ID))
	assert.False(t, e.State.Dragging, "reference rows win over the entity body")

	num, ok := e.RefPrefix(nodes[0].ID, "C")
	require.True(t, ok)
	assert.Equal(t, links[0].Num, num)
}

func TestEngine_HoverTracksLinksAndRows(t *testing.T) {
	e, nodes, links := abc(t)

	e.PointerMove(linkMid(t, e, links[0]))
	assert.Equal(t, links[0].ID, e.State.HoveredLink)

	e.PointerMove(pt(50, 80))
	require.NotNil(t, e.State.HoveredRef)
	assert.Equal(t, nodes[0].ID, e.State.HoveredRef.NodeID)
	assert.Equal(t, "B", e.State.HoveredRef.TargetTitle)
	assert.Empty(t, e.State.HoveredLink)

	e.PointerLeave()
	assert.Nil(t, e.State.HoveredRef)
}

func TestEngine_RightDragPans(t *testing.T) {
	e := New(nil)
	e.PointerDown(pt(100, 100), ButtonRight)
	e.PointerMove(pt(130, 80))
	assert.Equal(t, 30.0, e.Camera.X)
	assert.Equal(t, -20.0, e.Camera.Y)

	e.PointerLeave()
	e.PointerMove(pt(500, 500))
	assert.Equal(t, 30.0, e.Camera.X)
}

func TestEngine_WheelZoomKeepsAnchor(t *testing.T) {
	e := New(nil)
	e.Camera = geometry.Camera{X: 40, Y: -10, Scale: 1.2}
	anchor := pt(321, 123)
	before := e.Camera.ScreenToWorld(anchor)

	e.Wheel(anchor, -240)
	after := e.Camera.ScreenToWorld(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.Greater(t, e.Camera.Scale, 1.2)

	for i := 0; i < 50; i++ {
		e.Wheel(anchor, -1000)
	}
	assert.Equal(t, geometry.MaxScale, e.Camera.Scale)
	for i := 0; i < 50; i++ {
		e.Wheel(anchor, 1000)
	}
	assert.Equal(t, geometry.MinScale, e.Camera.Scale)
}

func TestEngine_DoubleClick(t *testing.T) {
	t.Run("link is deleted", func(t *testing.T) {
		e, _, links := abc(t)
		e.SelectLinks([]string{links[0].ID})
		e.DoubleClick(linkMid(t, e, links[0]))

		_, ok := e.Store.Link(links[0].ID)
		assert.False(t, ok)
		assert.Empty(t, e.State.Selected)
	})

	t.Run("header opens entity editor", func(t *testing.T) {
		e, nodes, _ := abc(t)
		e.DoubleClick(pt(810, 10))
		require.NotNil(t, e.State.Edit)
		assert.Equal(t, EditEntity, e.State.Edit.Kind)
		assert.Equal(t, nodes[2].ID, e.State.Edit.NodeID)
		assert.Equal(t, "id:int [PK]", e.State.Edit.Text)
	})

	t.Run("field row opens field editor", func(t *testing.T) {
		e, nodes, _ := abc(t)
		e.DoubleClick(pt(810, 45))
		require.NotNil(t, e.State.Edit)
		assert.Equal(t, EditField, e.State.Edit.Kind)
		assert.Equal(t, nodes[2].ID, e.State.Edit.NodeID)
		assert.Equal(t, 0, e.State.Edit.FieldIndex)
	})

	t.Run("body below fields falls back to entity editor", func(t *testing.T) {
		e, _, _ := abc(t)
		e.DoubleClick(pt(10, 80))
		require.NotNil(t, e.State.Edit)
		assert.Equal(t, EditEntity, e.State.Edit.Kind)
	})
}

func TestEngine_ApplyEntityEdit(t *testing.T) {
	e, nodes, _ := abc(t)
	e.OpenEntityEditor(nodes[0].ID)

	err := e.ApplyEdit("Users", "id:int [PK]\nbad line")
	require.Error(t, err)
	require.NotNil(t, e.State.Edit, "editor stays open")
	assert.Equal(t, err, e.State.Edit.Err)
	assert.Equal(t, "Users", e.State.Edit.Title, "submitted title kept")
	assert.Equal(t, "id:int [PK]\nbad line", e.State.Edit.Text, "submitted fields kept")
	a, _ := e.Store.Node(nodes[0].ID)
	assert.Equal(t, "A", a.Title, "nothing applied on error")

	require.NoError(t, e.ApplyEdit("  Users ", "id:int [PK]\nemail:text"))
	assert.Nil(t, e.State.Edit)
	a, _ = e.Store.Node(nodes[0].ID)
	assert.Equal(t, "Users", a.Title)
	assert.Len(t, a.Fields, 2)

	e.OpenEntityEditor(nodes[0].ID)
	require.NoError(t, e.ApplyEdit("", ""))
	a, _ = e.Store.Node(nodes[0].ID)
	assert.Equal(t, "Users", a.Title, "blank title keeps the old one")
	assert.Equal(t, []domain.Field{domain.DefaultField()}, a.Fields)

	assert.ErrorIs(t, e.ApplyEdit("x", "y:int"), ErrNoEdit)
}

func TestEngine_ApplyFieldEdit(t *testing.T) {
	e, nodes, _ := abc(t)
	e.OpenFieldEditor(nodes[0].ID, 0)

	require.Error(t, e.ApplyEdit("", "not a field"))
	assert.Equal(t, "not a field", e.State.Edit.Text)
	assert.Equal(t, "A", e.State.Edit.Title, "field edits keep the entity title")
	require.NoError(t, e.ApplyEdit("", "user_id : int [FK]"))

	a, _ := e.Store.Node(nodes[0].ID)
	assert.Equal(t, domain.Field{Name: "user_id", Type: "int", Meta: "FK"}, a.Fields[0])

	assert.Nil(t, e.OpenFieldEditor(nodes[0].ID, 5))
}

func TestEngine_EscapeBacksOut(t *testing.T) {
	e, nodes, links := abc(t)
	e.SelectLinks([]string{links[0].ID})
	e.OpenEntityEditor(nodes[0].ID)
	e.ToggleHelp()
	e.State.Draft = &Draft{FromID: nodes[0].ID}

	require.True(t, e.Key("esc"))
	assert.Nil(t, e.State.Draft)
	assert.Nil(t, e.State.Edit)
	assert.False(t, e.State.HelpOpen)
	assert.Empty(t, e.State.Selected)
}

func TestEngine_ApplyKeepsViewState(t *testing.T) {
	e, nodes, links := abc(t)
	e.Camera.Scale = 2
	e.SelectLinks([]string{links[0].ID, links[1].ID})
	e.State.Draft = &Draft{FromID: nodes[2].ID}
	e.OpenEntityEditor(nodes[0].ID)

	d := e.Store.Snapshot()
	d.Links = d.Links[:1]
	d.Nodes = append(d.Nodes, domain.Node{ID: d.NextEntityID, Title: "D", Fields: []domain.Field{domain.DefaultField()}})
	d.NextEntityID++
	e.Apply(d)

	assert.Equal(t, 2.0, e.Camera.Scale)
	assert.True(t, e.State.IsSelected(links[0].ID))
	assert.False(t, e.State.IsSelected(links[1].ID), "deleted link leaves the selection")
	assert.NotNil(t, e.State.Draft)
	assert.NotNil(t, e.State.Edit)
	assert.Len(t, e.Store.Nodes(), 4)
	assert.Equal(t, []string{"B"}, e.Refs().Of(nodes[0].ID))

	next := e.Store.AddNode(pt(0, 0))
	assert.Equal(t, 5, next.ID, "ids continue past the external writer's")
}

func TestBridge(t *testing.T) {
	e, _, links := abc(t)

	t.Run("untrusted source is dropped", func(t *testing.T) {
		b := NewBridge(e, "parent")
		assert.False(t, b.Receive("stranger", []byte(`{"type":"select-link","label":"A -> B"}`)))
		assert.Empty(t, e.State.Selected)
	})

	b := NewBridge(e, "")
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{name: "by id", payload: `{"type":"select-link","id":"` + links[1].ID + `"}`, want: []string{links[1].ID}},
		{name: "by titles", payload: `{"type":"link-select","from":" a ","to":"B"}`, want: []string{links[0].ID}},
		{name: "by label", payload: `{"action":"select-link","label":"b → c"}`, want: []string{links[1].ID}},
		{name: "id falls through to label", payload: `{"type":"select-link","id":"nope","label":"A->B"}`, want: []string{links[0].ID}},
		{name: "unresolved clears", payload: `{"type":"select-link","label":"C -> A"}`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.SelectLinks([]string{"stale"})
			assert.True(t, b.Receive("", []byte(tt.payload)))
			got := []string{}
			for _, l := range e.SelectedLinks() {
				got = append(got, l.ID)
			}
			if tt.want == nil {
				assert.Empty(t, e.State.Selected)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("clear and unknown", func(t *testing.T) {
		e.SelectLinks([]string{links[0].ID})
		assert.False(t, b.Receive("", []byte(`{"type":"zoom"}`)))
		assert.Len(t, e.State.Selected, 1)
		assert.False(t, b.Receive("", []byte(`not json`)))
		assert.True(t, b.Receive("", []byte(`{"type":"clear-link-selection"}`)))
		assert.Empty(t, e.State.Selected)
	})
}

func TestEngine_DirectSelectionAPI(t *testing.T) {
	e, _, links := abc(t)

	assert.True(t, e.SelectLinkByID(links[0].ID))
	assert.True(t, e.SelectLinkByTitles("b", "c"))
	assert.True(t, e.State.IsSelected(links[1].ID))
	assert.True(t, e.SelectLinkByLabel("A — B"))
	assert.True(t, e.State.IsSelected(links[0].ID))
	assert.False(t, e.SelectLinkByLabel("nobody -> home"))
	assert.Empty(t, e.State.Selected)
}

type memoryStore struct {
	saves int
	last  *domain.Diagram
}

func (m *memoryStore) Load(context.Context) (*domain.Diagram, error) { return m.last, nil }

func (m *memoryStore) Save(_ context.Context, d *domain.Diagram) error {
	m.saves++
	m.last = d
	return nil
}

func TestAutosaver_SkipsUnchanged(t *testing.T) {
	e, nodes, _ := abc(t)
	store := &memoryStore{}
	a := NewAutosaver(store, nil)
	ctx := context.Background()

	wrote, err := a.Flush(ctx, e)
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = a.Flush(ctx, e)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Equal(t, 1, store.saves)

	require.NoError(t, e.Store.RenameNode(nodes[0].ID, "Z"))
	wrote, err = a.Flush(ctx, e)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, "Z", store.last.Nodes[0].Title)
}

func TestAutosaver_CheckpointAfterLoad(t *testing.T) {
	e, _, _ := abc(t)
	store := &memoryStore{}
	a := NewAutosaver(store, nil)

	loaded := New(nil)
	loaded.Load(e.Store.Snapshot())
	a.Checkpoint(loaded)

	wrote, err := a.Flush(context.Background(), loaded)
	require.NoError(t, err)
	assert.False(t, wrote)
}
