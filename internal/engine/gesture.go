package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/hittest"
	"github.com/inamate/whiteboard/internal/oplog"
	"github.com/inamate/whiteboard/internal/pointer"
	"github.com/inamate/whiteboard/internal/state"
	"github.com/inamate/whiteboard/internal/transform"
	"github.com/inamate/whiteboard/internal/viewport"
)

// PointerEvent is a pointer event in screen space.
type PointerEvent struct {
	X         float64           `json:"x" yaml:"x"`
	Y         float64           `json:"y" yaml:"y"`
	Type      string            `json:"type,omitempty" yaml:"type,omitempty"`
	Button    int               `json:"button,omitempty" yaml:"button,omitempty"`
	Modifiers pointer.Modifiers `json:"modifiers" yaml:"modifiers"`
	Time      time.Time         `json:"-" yaml:"-"`
}

// ButtonSecondary is the button number of a right click.
const ButtonSecondary = 2

func (ev PointerEvent) screen() geom.XYCoords {
	return geom.XYCoords{X: ev.X, Y: ev.Y}
}

func (ev PointerEvent) pointerType() string {
	if ev.Type == "" {
		return "mouse"
	}
	return ev.Type
}

func (ev PointerEvent) at() time.Time {
	if ev.Time.IsZero() {
		return time.Now()
	}
	return ev.Time
}

var toolHandlers = map[state.Tool]handler.Key{
	state.ToolRect:     {Kind: element.KindShape, Shape: element.ShapeRect},
	state.ToolEllipse:  {Kind: element.KindShape, Shape: element.ShapeEllipse},
	state.ToolFreedraw: {Kind: element.KindFreedraw},
	state.ToolText:     {Kind: element.KindText},
}

func (e *Engine) setMode(m state.Usermode) {
	e.store.Update(func(s *state.AppState) { s.Usermode = m })
}

// snapGrid is the grid size unless the precise modifier is held.
func (e *Engine) snapGrid(mods pointer.Modifiers) float64 {
	if mods.Precise() {
		return 0
	}
	return e.store.Get().Grid.Size
}

// PointerDown starts a gesture. A secondary button opens the context menu
// instead.
func (e *Engine) PointerDown(ev PointerEvent) error {
	e.CloseContextMenu()
	if ev.Button == ButtonSecondary {
		_, err := e.OpenContextMenu(ev.X, ev.Y)
		return err
	}
	if e.pointer != nil {
		// A press without a release in between: the previous gesture was
		// lost.
		if err := e.PointerCancel(); err != nil {
			return err
		}
	}
	if err := e.EndEditing(); err != nil {
		return err
	}

	st := e.store.Get()
	hit, err := hittest.Test(ev.screen(), st.Viewport(), e.layer, e.handlers)
	if err != nil {
		return err
	}
	e.dblclick.Down(ev.pointerType(), ev.screen(), ev.at())
	e.pointer = pointer.New(ev.pointerType(), ev.screen(), ev.Modifiers, hit, e.view)

	switch {
	case st.Tool == state.ToolHand:
		e.setMode(state.UsermodePanning)
		return nil
	case st.Tool == state.ToolSelection:
		return e.selectionDown(hit, ev.Modifiers)
	case st.Tool.Creates():
		return e.createDown(st, ev.Modifiers)
	default:
		return fmt.Errorf("pointer down with tool %q: %w", st.Tool, errs.ErrUnknownTool)
	}
}

func (e *Engine) view() viewport.Transform {
	return e.store.Get().Viewport()
}

func (e *Engine) selectionDown(hit hittest.Result, mods pointer.Modifiers) error {
	switch hit.Kind {
	case hittest.KindTransformHandle:
		e.session = transform.Begin(e.layer.Selected())
		if hit.Handle == hittest.HandleRotate {
			e.log.StartBatch("rotate")
			e.setMode(state.UsermodeRotating)
		} else {
			e.log.StartBatch("resize")
			e.setMode(state.UsermodeResizing)
		}
		return nil

	case hittest.KindSelectionBox, hittest.KindElement:
		if hit.ElementID != "" && !e.layer.IsSelected(hit.ElementID) {
			if !mods.Extend() {
				e.layer.UnselectAll()
			}
			e.layer.Select(hit.ElementID)
		}
		e.session = transform.Begin(e.layer.Selected())
		e.log.StartBatch("move")
		e.setMode(state.UsermodeDragging)
		return nil

	default:
		if !mods.Extend() {
			e.layer.UnselectAll()
		}
		origin := e.pointer.Origin()
		e.store.Update(func(s *state.AppState) {
			s.Usermode = state.UsermodeIdle
			s.Highlight = &geom.BoundingBox{X: origin.X, Y: origin.Y}
		})
		return nil
	}
}

func (e *Engine) createDown(st state.AppState, mods pointer.Modifiers) error {
	key, ok := toolHandlers[st.Tool]
	if !ok {
		return fmt.Errorf("create with tool %q: %w", st.Tool, errs.ErrImpossibleState)
	}
	h, err := e.handlers.Lookup(key)
	if err != nil {
		return err
	}

	origin := e.pointer.Origin()
	if key.Kind != element.KindFreedraw {
		origin = geom.SnapPointToGrid(origin, e.snapGrid(mods))
	}
	e.createOrigin = origin

	el := h.Create(geom.BoundingBox{X: origin.X, Y: origin.Y})
	el.Fill = st.Fill
	if el.Type == element.KindText {
		el.FontSize, el.FontFamily = st.FontSize, st.FontFamily
		el.W, el.H = handler.MeasureText("", el.FontSize)
	}

	e.layer.UnselectAll()
	e.layer.BeginCreate(el)
	e.log.StartBatch("create")
	e.setMode(state.UsermodeCreating)
	return nil
}

// PointerMove updates the active gesture. Moves without a gesture are
// ignored.
func (e *Engine) PointerMove(ev PointerEvent) error {
	if e.pointer == nil {
		return nil
	}
	e.pointer.Move(ev.screen(), ev.Modifiers)
	p := e.pointer
	st := e.store.Get()

	switch st.Usermode {
	case state.UsermodePanning:
		e.store.Update(func(s *state.AppState) { s.Pan(p.ScreenStep()) })
		return nil

	case state.UsermodeCreating:
		el, ok := e.layer.Creating()
		if !ok {
			return fmt.Errorf("creating without an element: %w", errs.ErrImpossibleState)
		}
		h, err := e.handlers.For(el)
		if err != nil {
			return err
		}
		return h.OnCreateDrag(el, handler.CreateDrag{
			Origin:    e.createOrigin,
			Offset:    p.Offset(),
			KeepRatio: p.Modifiers.KeepRatio(),
			Precise:   p.Modifiers.Precise(),
			Grid:      st.Grid.Size,
		}, e.layer)

	case state.UsermodeDragging:
		return e.applyChanges(e.session.Translate(p.Delta(), e.snapGrid(p.Modifiers)))

	case state.UsermodeResizing:
		return e.applyChanges(e.session.Resize(p.Hit.Handle, p.Delta(), transform.ResizeOptions{
			KeepRatio: p.Modifiers.KeepRatio(),
			Grid:      e.snapGrid(p.Modifiers),
		}))

	case state.UsermodeRotating:
		return e.applyChanges(e.session.Rotate(p.Origin(), p.Offset(), p.Modifiers.KeepRatio()))

	case state.UsermodeIdle:
		if st.Highlight != nil {
			box := p.DragBox()
			e.store.Update(func(s *state.AppState) { s.Highlight = &box })
		}
		return nil

	default:
		return nil
	}
}

func (e *Engine) applyChanges(changes []transform.Change) error {
	if e.session == nil {
		return fmt.Errorf("transform without a session: %w", errs.ErrImpossibleState)
	}
	for _, c := range changes {
		if err := e.mutate(c.ID, c.Patch); err != nil {
			return err
		}
	}
	return nil
}

// PointerUp finishes the gesture.
func (e *Engine) PointerUp(ev PointerEvent) error {
	if e.pointer == nil {
		return nil
	}
	p := e.pointer
	e.pointer = nil
	e.session = nil
	st := e.store.Get()
	doubleClick := e.dblclick.Up(ev.pointerType(), ev.screen(), ev.at())

	switch st.Usermode {
	case state.UsermodeCreating:
		return e.finishCreate(st)

	case state.UsermodeDragging, state.UsermodeResizing, state.UsermodeRotating:
		e.log.CompleteBatch()
		e.setMode(state.UsermodeIdle)
		if doubleClick && st.Usermode == state.UsermodeDragging {
			return e.editOnDoubleClick(p.Hit.ElementID)
		}
		return nil

	case state.UsermodeIdle:
		if st.Highlight != nil {
			e.selectEnclosed(*st.Highlight)
			e.store.Update(func(s *state.AppState) { s.Highlight = nil })
		}
		return nil

	default:
		e.setMode(state.UsermodeIdle)
		return nil
	}
}

func (e *Engine) finishCreate(st state.AppState) error {
	el, ok := e.layer.Creating()
	if !ok {
		return fmt.Errorf("create end without an element: %w", errs.ErrImpossibleState)
	}
	h, err := e.handlers.For(el)
	if err != nil {
		return err
	}

	if h.IsNegligible(el, st.Grid.Size) {
		e.layer.DiscardCreate()
		e.log.CancelBatch()
		e.logger.Debug("discarded negligible element", "type", el.Type)
		e.finishTool()
		return nil
	}

	committed, err := e.layer.CommitCreate()
	if err != nil {
		return err
	}
	e.log.Push(oplog.Add(committed, e.layer.IndexOf(committed.ID)))
	e.layer.Select(committed.ID)

	if h.Features().StartEditingOnCreateEnd {
		return e.startEditing(committed.ID, true)
	}
	e.log.CompleteBatch()
	e.finishTool()
	return nil
}

// finishTool returns to idle and, unless the tool is locked, to the
// selection tool.
func (e *Engine) finishTool() {
	e.store.Update(func(s *state.AppState) {
		s.Usermode = state.UsermodeIdle
		if !s.LockCurrentTool {
			s.Tool = state.ToolSelection
		}
	})
}

// selectEnclosed selects every unlocked element whose rotated outline lies
// inside box.
func (e *Engine) selectEnclosed(box geom.BoundingBox) {
	if box.IsEmpty() {
		return
	}
	enclosed := lo.Filter(e.layer.All(), func(el element.Element, _ int) bool {
		return !el.Locked && box.ContainsBox(outline(el))
	})
	e.layer.Select(lo.Map(enclosed, func(el element.Element, _ int) string { return el.ID })...)
}

// outline is the axis-aligned extent of the element's rotated box.
func outline(el element.Element) geom.BoundingBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range geom.RotatedBoxVertices(el.RotatedBox()) {
		minX, minY = min(minX, v.X), min(minY, v.Y)
		maxX, maxY = max(maxX, v.X), max(maxY, v.Y)
	}
	return geom.BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// PointerCancel aborts the gesture: a half-created element is dropped and
// any transform so far is kept as one undo step.
func (e *Engine) PointerCancel() error {
	if e.pointer == nil {
		return nil
	}
	e.pointer = nil
	e.session = nil
	e.dblclick.Reset()

	switch e.store.Get().Usermode {
	case state.UsermodeCreating:
		e.layer.DiscardCreate()
		e.log.CancelBatch()
	case state.UsermodeDragging, state.UsermodeResizing, state.UsermodeRotating:
		e.log.CompleteBatch()
	case state.UsermodeEditing:
		return nil
	}
	e.store.Update(func(s *state.AppState) {
		s.Usermode = state.UsermodeIdle
		s.Highlight = nil
	})
	return nil
}

// WheelEvent is a wheel or trackpad scroll in screen space.
type WheelEvent struct {
	X         float64           `json:"x" yaml:"x"`
	Y         float64           `json:"y" yaml:"y"`
	DeltaX    float64           `json:"deltaX" yaml:"deltaX"`
	DeltaY    float64           `json:"deltaY" yaml:"deltaY"`
	Modifiers pointer.Modifiers `json:"modifiers" yaml:"modifiers"`
}

// Wheel zooms around the pointer when Ctrl or Cmd is held and pans
// otherwise.
func (e *Engine) Wheel(ev WheelEvent) {
	e.SetState(func(s *state.AppState) {
		if ev.Modifiers.Ctrl || ev.Modifiers.Meta {
			step := viewport.ZoomStep
			if ev.DeltaY > 0 {
				step = 1 / step
			}
			s.ZoomAt(s.Viewport().Zoom*step, geom.XYCoords{X: ev.X, Y: ev.Y})
			return
		}
		s.Pan(geom.XYCoords{X: -ev.DeltaX, Y: -ev.DeltaY})
	})
}
