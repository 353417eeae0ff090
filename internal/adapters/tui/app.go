package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"schemer/internal/adapters/tui/views"
	"schemer/internal/application/commands"
	"schemer/internal/domain"
	"schemer/internal/engine"
	"schemer/internal/graph"
	"schemer/internal/ports"
	"schemer/internal/render"
)

// DefaultAutosave is the autosave interval used when Options leaves it unset.
const DefaultAutosave = time.Second

// Options configures an App.
type Options struct {
	Store ports.DiagramStore
	// Editor opens $EDITOR for the "e" key. Nil disables it.
	Editor ports.EditorOpener
	// Locale collates reference titles.
	Locale string
	// ParentSource is the only selection source trusted by the bridge. Empty
	// trusts every source.
	ParentSource string
	// EntityWidth is the width given to new entities.
	EntityWidth float64
	Autosave    time.Duration
	Logger      *slog.Logger
}

// KeyMap defines the canvas key bindings
type KeyMap struct {
	Select key.Binding
	Node   key.Binding
	Link   key.Binding
	Escape key.Binding
	Help   key.Binding
	Edit   key.Binding
	Fit    key.Binding
	Copy   key.Binding
	Save   key.Binding
	Quit   key.Binding
}

var Keys = KeyMap{
	Select: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "select")),
	Node:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "entity")),
	Link:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "link")),
	Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit in $EDITOR")),
	Fit:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
	Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selection")),
	Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// SelectionMsg is an external link selection message delivered to the
// running program.
type SelectionMsg struct {
	Source  string
	Payload []byte
}

type loadedMsg struct {
	diagram *domain.Diagram
	err     error
}

type autosaveTickMsg time.Time

type savedMsg struct {
	data []byte
	err  error
}

type editorFinishedMsg struct {
	path   string
	nodeID int
	err    error
}

// App is the diagram editor model. It owns the engine and hands it every
// pointer, key and selection event.
type App struct {
	engine    *engine.Engine
	renderer  *render.Renderer
	autosaver *engine.Autosaver
	bridge    *engine.Bridge
	store     ports.DiagramStore
	editor    ports.EditorOpener
	logger    *slog.Logger
	interval  time.Duration

	pointer *pointer
	form    *views.EditForm
	help    *views.HelpModel

	loaded  bool
	saving  bool
	message string
	msgErr  bool

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var storeOpts []graph.Option
	if opts.EntityWidth > 0 {
		storeOpts = append(storeOpts, graph.WithEntityWidth(opts.EntityWidth))
	}
	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.Locale != "" {
		engineOpts = append(engineOpts, engine.WithLocale(opts.Locale))
	}
	e := engine.New(graph.NewStore(storeOpts...), engineOpts...)

	interval := opts.Autosave
	if interval <= 0 {
		interval = DefaultAutosave
	}
	return &App{
		engine:    e,
		renderer:  render.New(),
		autosaver: engine.NewAutosaver(opts.Store, logger),
		bridge:    engine.NewBridge(e, opts.ParentSource),
		store:     opts.Store,
		editor:    opts.Editor,
		logger:    logger,
		interval:  interval,
		pointer:   newPointer(),
		help:      views.NewHelpModel(),
	}
}

// Engine exposes the editing context, mainly for tests.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Init starts loading the diagram and the autosave clock
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.load(), a.tick())
}

func (a *App) load() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		d, err := store.Load(context.Background())
		return loadedMsg{diagram: d, err: err}
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return autosaveTickMsg(t)
	})
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case loadedMsg:
		a.onLoaded(msg)
		return a, nil

	case autosaveTickMsg:
		return a, tea.Batch(a.autosave(), a.tick())

	case savedMsg:
		a.saving = false
		if msg.err != nil {
			a.logger.Error("autosave failed", slog.Any("error", msg.err))
			a.setMessage("Save failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.autosaver.Commit(msg.data)
		return a, nil

	case SelectionMsg:
		a.bridge.Receive(msg.Source, msg.Payload)
		return a, nil

	case runMsg:
		return a, a.onRun(msg)

	case editorFinishedMsg:
		a.onEditorFinished(msg)
		return a, a.syncForm()

	case views.EditSubmitMsg:
		if err := a.engine.ApplyEdit(msg.Title, msg.Text); err != nil {
			if a.form != nil {
				a.form.SetError(err)
			}
			return a, nil
		}
		a.form = nil
		return a, nil

	case views.EditCancelMsg:
		a.engine.CloseEditor()
		a.form = nil
		return a, nil

	case views.CloseHelpMsg:
		a.engine.State.HelpOpen = false
		return a, nil

	case tea.BlurMsg:
		a.pointer.leave(a.engine)
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.engine.State.HelpOpen {
			return a, nil
		}
		a.pointer.handle(a.engine, msg, a.canvasRows())
		return a, a.syncForm()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.form != nil {
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) onLoaded(msg loadedMsg) {
	a.loaded = true
	switch {
	case errors.Is(msg.err, domain.ErrMalformedDiagram):
		a.logger.Warn("stored diagram is malformed, starting empty", slog.Any("error", msg.err))
		a.setMessage("Stored diagram is malformed, starting empty", true)
	case msg.err != nil:
		a.logger.Error("load diagram", slog.Any("error", msg.err))
		a.setMessage("Load failed: "+msg.err.Error(), true)
	case msg.diagram != nil:
		a.engine.Load(msg.diagram)
		a.logger.Info("diagram loaded",
			slog.Int("entities", len(msg.diagram.Nodes)),
			slog.Int("links", len(msg.diagram.Links)))
	}
	// Whatever is on screen now counts as saved so a failed load is never
	// written back over the store.
	a.autosaver.Checkpoint(a.engine)
}

// autosave hands a changed snapshot to a background write. Only one write
// runs at a time and nothing is written before the first load finishes.
func (a *App) autosave() tea.Cmd {
	if !a.loaded || a.saving {
		return nil
	}
	p, err := a.autosaver.Check(a.engine)
	if err != nil {
		a.logger.Error("autosave", slog.Any("error", err))
		return nil
	}
	if p == nil {
		return nil
	}
	a.saving = true
	saver := a.autosaver
	return func() tea.Msg {
		err := saver.Write(context.Background(), p)
		return savedMsg{data: p.Data, err: err}
	}
}

// flush saves synchronously before quitting.
func (a *App) flush() {
	if !a.loaded {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := a.autosaver.Flush(ctx, a.engine); err != nil {
		a.logger.Error("final save failed", slog.Any("error", err))
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Esc backs out of everything at once, overlays included.
	if key.Matches(msg, Keys.Escape) {
		a.engine.Escape()
		a.message = ""
		return a, a.syncForm()
	}
	if a.form != nil {
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	if a.engine.State.HelpOpen {
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	a.message = ""
	switch {
	case key.Matches(msg, Keys.Quit):
		a.flush()
		return a, tea.Quit

	case key.Matches(msg, Keys.Select, Keys.Node, Keys.Link):
		a.engine.Key(msg.String())

	case key.Matches(msg, Keys.Help):
		a.engine.ToggleHelp()

	case key.Matches(msg, Keys.Fit):
		w, h := float64(a.width*CellWidth), float64(a.canvasRows()*CellHeight)
		a.engine.Camera = commands.Fit(a.engine, w, h)

	case key.Matches(msg, Keys.Copy):
		a.copySelection()

	case key.Matches(msg, Keys.Save):
		if a.saving {
			return a, nil
		}
		return a, a.autosave()

	case key.Matches(msg, Keys.Edit):
		return a, a.openEditor()
	}
	return a, nil
}

// syncForm opens the edit form when the engine has a pending edit the app
// is not showing yet.
func (a *App) syncForm() tea.Cmd {
	pe := a.engine.State.Edit
	if pe == nil {
		a.form = nil
		return nil
	}
	if a.form != nil {
		return nil
	}
	a.form = views.NewEditForm(pe)
	a.form.SetSize(a.width, a.height)
	return a.form.Init()
}

func (a *App) copySelection() {
	labels := a.selectedLabels()
	if len(labels) == 0 {
		a.setMessage("No link selected", true)
		return
	}
	if err := clipboard.WriteAll(strings.Join(labels, "\n")); err != nil {
		a.setMessage("Copy failed: "+err.Error(), true)
		return
	}
	a.setMessage("Copied "+strings.Join(labels, ", "), false)
}

func (a *App) selectedLabels() []string {
	var labels []string
	for _, l := range a.engine.SelectedLinks() {
		from, ok1 := a.engine.Store.Node(l.From)
		to, ok2 := a.engine.Store.Node(l.To)
		if !ok1 || !ok2 {
			continue
		}
		labels = append(labels, domain.LinkLabel(from.Title, to.Title))
	}
	return labels
}

// openEditor writes the entity under the pointer to a temp file, title on
// the first line and fields below, and opens it in $EDITOR.
func (a *App) openEditor() tea.Cmd {
	if a.editor == nil {
		a.setMessage("No editor configured", true)
		return nil
	}
	if !a.pointer.inside {
		return nil
	}
	world := a.engine.Camera.ScreenToWorld(CellCenter(a.pointer.col, a.pointer.row))
	n, ok := a.engine.Tester().Node(world)
	if !ok {
		a.setMessage("No entity under the pointer", true)
		return nil
	}
	id := n.ID

	path, err := writeEditFile(n.Title, domain.FormatFields(n.Fields))
	if err != nil {
		a.setMessage(err.Error(), true)
		return nil
	}
	cmd, err := a.editor.Command(path)
	if err != nil {
		os.Remove(path)
		a.setMessage(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, nodeID: id, err: err}
	})
}

func writeEditFile(title, fields string) (string, error) {
	f, err := os.CreateTemp("", "schemer-*.txt")
	if err != nil {
		return "", fmt.Errorf("create edit file: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s\n%s\n", title, fields); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write edit file: %w", err)
	}
	return f.Name(), nil
}

// onEditorFinished applies the edited file. A rejected edit stays open in
// the form with its error.
func (a *App) onEditorFinished(msg editorFinishedMsg) {
	defer os.Remove(msg.path)
	if msg.err != nil {
		a.setMessage("Editor failed: "+msg.err.Error(), true)
		return
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		a.setMessage("Read edit file: "+err.Error(), true)
		return
	}
	title, fields, _ := strings.Cut(string(data), "\n")
	if a.engine.OpenEntityEditor(msg.nodeID) == nil {
		a.setMessage("Entity no longer exists", true)
		return
	}
	if err := a.engine.ApplyEdit(title, fields); err != nil {
		a.logger.Debug("edit rejected", slog.Any("error", err))
	}
}

func (a *App) setMessage(msg string, isErr bool) {
	a.message = msg
	a.msgErr = isErr
}

func (a *App) canvasRows() int {
	return max(a.height-1, 0)
}

// View renders the canvas, any overlay and the status bar
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}
	rows := a.canvasRows()

	var body string
	switch {
	case a.form != nil:
		body = lipgloss.Place(a.width, rows, lipgloss.Center, lipgloss.Center, a.form.View())
	case a.engine.State.HelpOpen:
		body = lipgloss.Place(a.width, rows, lipgloss.Center, lipgloss.Center, a.help.View())
	default:
		canvas := NewCanvas(a.width, rows)
		a.renderer.Draw(canvas, a.engine)
		body = canvas.String()
	}

	status := views.Status{
		Tool:      a.engine.State.Tool.String(),
		Zoom:      a.engine.Camera.Scale,
		Entities:  len(a.engine.Store.Nodes()),
		Links:     len(a.engine.Store.Links()),
		Selection: a.selectedLabels(),
		Saving:    a.saving,
		Message:   a.message,
		IsError:   a.msgErr,
	}
	return body + "\n" + views.RenderStatusBar(status, a.width)
}
