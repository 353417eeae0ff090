package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemer/internal/adapters/tui/views"
	"schemer/internal/domain"
	"schemer/internal/engine"
	"schemer/internal/geometry"
)

type memStore struct {
	mu      sync.Mutex
	current *domain.Diagram
	loadErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) (*domain.Diagram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.current == nil {
		return nil, nil
	}
	return m.current.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, d *domain.Diagram) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = d.Clone()
	m.saves++
	return nil
}

func twoEntities() *domain.Diagram {
	d := domain.NewDiagram()
	d.Nodes = []domain.Node{
		{ID: 1, X: 0, Y: 0, Width: 220, Title: "Users", Fields: []domain.Field{domain.DefaultField()}},
		{ID: 2, X: 400, Y: 0, Width: 220, Title: "Orders", Fields: []domain.Field{domain.DefaultField()}},
	}
	d.Links = []domain.Link{
		{ID: "l1", From: 1, To: 2, Num: 1, FromCardinality: domain.CardinalityOne, ToCardinality: domain.CardinalityMany},
	}
	d.NextEntityID = 3
	d.NextLinkNo = 2
	return d
}

// started returns an app that has received its load result and a window
// size.
func started(t *testing.T, store *memStore, opts Options) *App {
	t.Helper()
	opts.Store = store
	a := NewApp(opts)
	a.Update(a.load()())
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_LoadDoesNotSave(t *testing.T) {
	store := &memStore{current: twoEntities()}
	a := started(t, store, Options{})

	assert.Len(t, a.Engine().Store.Nodes(), 2)
	assert.Nil(t, a.autosave(), "freshly loaded state counts as saved")
	assert.Equal(t, 0, store.saves)
}

func TestApp_AutosaveWritesChanges(t *testing.T) {
	store := &memStore{current: twoEntities()}
	a := started(t, store, Options{})

	a.Engine().Store.AddNode(geometry.Point{X: 10, Y: 300})
	cmd := a.autosave()
	require.NotNil(t, cmd)
	assert.True(t, a.saving)
	assert.Nil(t, a.autosave(), "one write at a time")

	a.Update(cmd())
	assert.False(t, a.saving)
	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.current.Nodes, 3)
	assert.Nil(t, a.autosave(), "nothing changed since the last write")
}

func TestApp_NoSaveBeforeLoad(t *testing.T) {
	store := &memStore{current: twoEntities()}
	a := NewApp(Options{Store: store})

	a.Engine().Store.AddNode(geometry.Point{})
	assert.Nil(t, a.autosave())
}

func TestApp_MalformedLoadStartsEmpty(t *testing.T) {
	store := &memStore{loadErr: fmt.Errorf("decode: %w", domain.ErrMalformedDiagram)}
	a := started(t, store, Options{})

	assert.Empty(t, a.Engine().Store.Nodes())
	assert.True(t, a.msgErr)
	assert.Contains(t, a.message, "malformed")
	assert.Nil(t, a.autosave())
}

func TestApp_QuitFlushes(t *testing.T) {
	store := &memStore{current: twoEntities()}
	a := started(t, store, Options{})
	a.Engine().Store.AddNode(geometry.Point{})

	_, cmd := a.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, store.saves)
}

func TestApp_ToolKeys(t *testing.T) {
	a := started(t, &memStore{}, Options{})

	a.Update(runes("3"))
	assert.Equal(t, "link", a.Engine().State.Tool.String())
	a.Update(runes("2"))
	assert.Equal(t, "node", a.Engine().State.Tool.String())
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a.Update(runes("1"))
	assert.Equal(t, "select", a.Engine().State.Tool.String())
}

func TestApp_HelpOverlay(t *testing.T) {
	a := started(t, &memStore{}, Options{})

	a.Update(runes("?"))
	assert.True(t, a.Engine().State.HelpOpen)
	assert.Contains(t, a.View(), "Schemer Help")

	_, cmd := a.Update(runes("?"))
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.False(t, a.Engine().State.HelpOpen)
}

func TestApp_SelectionMessages(t *testing.T) {
	store := &memStore{current: twoEntities()}
	a := started(t, store, Options{ParentSource: "parent"})

	a.Update(SelectionMsg{Source: "stranger", Payload: []byte(`{"type":"select-link","id":"l1"}`)})
	assert.Empty(t, a.Engine().SelectedLinks())

	a.Update(SelectionMsg{Source: "parent", Payload: []byte(`{"type":"select-link","label":"users → orders"}`)})
	assert.Equal(t, []string{"Users -> Orders"}, a.selectedLabels())
	assert.Contains(t, a.View(), "selected: Users -> Orders")

	a.Update(SelectionMsg{Source: "parent", Payload: []byte(`{"type":"clear-link-selection"}`)})
	assert.Empty(t, a.selectedLabels())
}

func TestApp_EditForm(t *testing.T) {
	store := &memStore{current: twoEntities()}
	a := started(t, store, Options{})

	for i := 0; i < 2; i++ {
		a.Update(press(2, 0, tea.MouseButtonLeft))
		a.Update(release(2, 0))
	}
	require.NotNil(t, a.form)
	assert.Contains(t, a.View(), "Edit entity")

	a.Update(views.EditSubmitMsg{Title: "Accounts", Text: "id:int [PK]\n???"})
	require.NotNil(t, a.form, "a rejected edit keeps the form open")
	assert.True(t, a.form.MessageErr)
	n, _ := a.Engine().Store.Node(1)
	assert.Equal(t, "Users", n.Title)

	a.Update(views.EditSubmitMsg{Title: "Accounts", Text: "id:int [PK]\nemail:text"})
	assert.Nil(t, a.form)
	n, _ = a.Engine().Store.Node(1)
	assert.Equal(t, "Accounts", n.Title)
	assert.Len(t, n.Fields, 2)
}

func TestApp_EditCancel(t *testing.T) {
	a := started(t, &memStore{current: twoEntities()}, Options{})
	a.Engine().OpenEntityEditor(2)
	a.syncForm()
	require.NotNil(t, a.form)

	a.Update(views.EditCancelMsg{})
	assert.Nil(t, a.form)
	assert.Nil(t, a.Engine().State.Edit)
}

func TestApp_EditorFinished(t *testing.T) {
	a := started(t, &memStore{current: twoEntities()}, Options{})

	path := filepath.Join(t.TempDir(), "edit.txt")
	require.NoError(t, os.WriteFile(path, []byte("Customers\nid:int [PK]\nname:text\n"), 0o644))

	a.Update(editorFinishedMsg{path: path, nodeID: 1})
	n, _ := a.Engine().Store.Node(1)
	assert.Equal(t, "Customers", n.Title)
	assert.Len(t, n.Fields, 2)
	assert.Nil(t, a.form)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "edit file is removed")
}

func TestApp_EditorFinishedRejected(t *testing.T) {
	a := started(t, &memStore{current: twoEntities()}, Options{})

	path := filepath.Join(t.TempDir(), "edit.txt")
	require.NoError(t, os.WriteFile(path, []byte("Customers\nnot a field\n"), 0o644))

	a.Update(editorFinishedMsg{path: path, nodeID: 1})
	require.NotNil(t, a.form)
	assert.True(t, a.form.MessageErr)
	assert.Contains(t, a.form.Message, "line 1")

	title, text := a.form.Values()
	assert.Equal(t, "Customers", title, "the edited text is shown, not the stored one")
	assert.Equal(t, "not a field\n", text)
}

func TestWriteEditFile(t *testing.T) {
	path, err := writeEditFile("Users", "id:int [PK]")
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Users\nid:int [PK]\n", string(data))
}

func TestApp_ViewDrawsCanvas(t *testing.T) {
	a := started(t, &memStore{current: twoEntities()}, Options{})

	out := a.View()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "2 entities")
}

type recordingSender struct{ msgs []tea.Msg }

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestProgramSink(t *testing.T) {
	rec := &recordingSender{}
	sink := NewProgramSink(rec)
	payload := []byte(`{"type":"clear-link-selection"}`)

	require.NoError(t, sink.Post("mcp", payload))
	payload[0] = 'x'

	require.Len(t, rec.msgs, 1)
	msg := rec.msgs[0].(SelectionMsg)
	assert.Equal(t, "mcp", msg.Source)
	assert.Equal(t, `{"type":"clear-link-selection"}`, string(msg.Payload))
}

func TestApp_EscapeClosesHelpAndBacksOut(t *testing.T) {
	a := started(t, &memStore{current: twoEntities()}, Options{})
	a.Update(runes("3"))
	require.True(t, a.Engine().SelectLinkByID("l1"))
	a.Engine().State.Draft = &engine.Draft{FromID: 1}

	a.Update(runes("?"))
	require.True(t, a.Engine().State.HelpOpen)
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, a.Engine().State.HelpOpen)
	assert.Empty(t, a.Engine().SelectedLinks())
	assert.Nil(t, a.Engine().State.Draft)
}

func TestApp_EscapeClosesFormAndBacksOut(t *testing.T) {
	a := started(t, &memStore{current: twoEntities()}, Options{})
	require.True(t, a.Engine().SelectLinkByID("l1"))
	a.Engine().OpenEntityEditor(1)
	a.syncForm()
	require.NotNil(t, a.form)

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, a.form)
	assert.Nil(t, a.Engine().State.Edit)
	assert.Empty(t, a.Engine().SelectedLinks())
}
