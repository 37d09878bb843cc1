// Package engine is the whiteboard editor core. The Engine owns the app
// state, the element layer, the undo log and the handler and action
// registries, and turns pointer, wheel and keyboard input into edits.
//
// The engine is single-threaded: every method runs to completion before the
// next one is called, and all invariants spanning the layer and the log are
// re-established before a method returns.
package engine

import (
	"log/slog"
	"time"

	"github.com/inamate/whiteboard/internal/action"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/layer"
	"github.com/inamate/whiteboard/internal/oplog"
	"github.com/inamate/whiteboard/internal/pointer"
	"github.com/inamate/whiteboard/internal/state"
	"github.com/inamate/whiteboard/internal/transform"
	"github.com/inamate/whiteboard/internal/typeid"
)

// Options configures a new Engine. Zero values select defaults.
type Options struct {
	GridSize             float64
	GridHidden           bool
	LockCurrentTool      bool
	DoubleClickTimeout   time.Duration
	DoubleClickMaxOffset float64

	// Overlay is the text input used while editing text. A MemoryOverlay
	// is used when nil.
	Overlay handler.TextOverlay
	Logger  *slog.Logger
}

// Engine is the editor core.
type Engine struct {
	store    *state.Store
	layer    *layer.Layer
	log      *oplog.Log
	handlers *handler.Registry
	actions  *action.Registry
	overlay  handler.TextOverlay
	dblclick *pointer.DoubleClick
	logger   *slog.Logger

	// sessionID tags the log lines of this engine instance.
	sessionID string

	// Gesture state, reset when the gesture ends.
	pointer      *pointer.CanvasPointer
	session      *transform.Session
	createOrigin geom.XYCoords

	// editingNew is set while editing a text element whose create batch
	// is still open.
	editingNew bool

	onChange func()
}

// New creates an engine with an empty canvas.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sessionID := typeid.NewSessionID()
	logger = logger.With("session", sessionID)

	initial := state.Default()
	if opts.GridSize > 0 {
		initial.Grid.Size = opts.GridSize
	}
	initial.Grid.Visible = !opts.GridHidden
	initial.LockCurrentTool = opts.LockCurrentTool

	overlay := opts.Overlay
	if overlay == nil {
		overlay = &handler.MemoryOverlay{}
	}

	e := &Engine{
		store:    state.NewStore(initial, logger),
		layer:    layer.New(),
		log:      oplog.NewLog(logger),
		handlers: handler.DefaultRegistry(),
		actions:  action.Defaults(),
		overlay:  overlay,
		dblclick: pointer.NewDoubleClick(opts.DoubleClickTimeout, opts.DoubleClickMaxOffset),
		logger:   logger,

		sessionID: sessionID,
	}
	e.layer.OnChange(e.changed)
	e.store.Subscribe(func(state.AppState) { e.changed() })
	overlay.OnChange(e.onOverlayChange)
	overlay.OnBlur(e.onOverlayBlur)
	return e
}

// OnChange registers fn to run after every change to the state or the
// element layer.
func (e *Engine) OnChange(fn func()) {
	e.onChange = fn
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Actions exposes the action registry, e.g. for custom key bindings.
func (e *Engine) Actions() *action.Registry {
	return e.actions
}

// Overlay returns the text overlay.
func (e *Engine) Overlay() handler.TextOverlay {
	return e.overlay
}

// SessionID identifies this engine instance.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// CanUndo reports whether there is something to undo.
func (e *Engine) CanUndo() bool { return e.log.CanUndo() }

// CanRedo reports whether there is something to redo.
func (e *Engine) CanRedo() bool { return e.log.CanRedo() }

// EditingID returns the id of the text element being edited, or "".
func (e *Engine) EditingID() string {
	return e.layer.EditingID()
}

// Creating returns the element being created, if any.
func (e *Engine) Creating() (element.Element, bool) {
	return e.layer.Creating()
}

// Get returns the element with the given id.
func (e *Engine) Get(id string) (element.Element, bool) {
	return e.layer.Get(id)
}

// SetTool switches the active tool. Text editing ends first.
func (e *Engine) SetTool(name string) error {
	tool, err := state.ParseTool(name)
	if err != nil {
		return err
	}
	if err := e.EndEditing(); err != nil {
		return err
	}
	e.store.Update(func(s *state.AppState) { s.Tool = tool })
	return nil
}

// Resize records the canvas size in screen pixels.
func (e *Engine) Resize(w, h float64) {
	e.store.Update(func(s *state.AppState) {
		s.Width, s.Height = w, h
	})
}

// Exec runs a named action. An open context menu is closed.
func (e *Engine) Exec(name string) error {
	e.CloseContextMenu()
	return e.actions.Exec(name, e)
}
