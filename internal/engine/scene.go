package engine

import (
	"encoding/json"
	"image"
	"image/color"
	"math"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/hittest"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/viewport"
)

const (
	selectionColor = "#6965db"
	gridColor      = "#e9ecef"
)

// Render paints one frame: grid, elements in z-order, the element being
// created, the selection box with its handles and the box-select highlight.
// The element under text edit is left to the overlay.
func (e *Engine) Render(s render.Surface) error {
	st := e.store.Get()
	vp := st.Viewport()

	s.Save()
	defer s.Restore()
	s.Translate(vp.Scroll.X, vp.Scroll.Y)
	s.Scale(vp.Zoom, vp.Zoom)

	if st.Grid.Visible && st.Grid.Size > 0 && st.Width > 0 && st.Height > 0 {
		topLeft := vp.ToVirtual(geom.XYCoords{})
		bottomRight := vp.ToVirtual(geom.XYCoords{X: st.Width, Y: st.Height})
		drawGrid(s, geom.BoundingBox{
			X: topLeft.X,
			Y: topLeft.Y,
			W: bottomRight.X - topLeft.X,
			H: bottomRight.Y - topLeft.Y,
		}, st.Grid.Size, vp)
	}

	editing := e.layer.EditingID()
	elements := e.layer.All()
	if el, ok := e.layer.Creating(); ok {
		elements = append(elements, el)
	}
	for _, el := range elements {
		if el.ID == editing {
			continue
		}
		h, err := e.handlers.For(el)
		if err != nil {
			return err
		}
		h.Render(el, s)
	}

	if e.layer.HasSelection() && editing == "" {
		box, _ := hittest.SelectionBox(e.layer)
		drawSelection(s, box, vp)
	}
	if st.Highlight != nil {
		drawHighlight(s, *st.Highlight, vp)
	}
	return nil
}

func drawGrid(s render.Surface, view geom.BoundingBox, size float64, vp viewport.Transform) {
	// Lines closer than a few pixels apart would paint the canvas solid.
	if size*vp.Zoom < 4 {
		return
	}
	s.BeginPath()
	for x := math.Floor(view.X/size) * size; x <= view.X+view.W; x += size {
		s.MoveTo(x, view.Y)
		s.LineTo(x, view.Y+view.H)
	}
	for y := math.Floor(view.Y/size) * size; y <= view.Y+view.H; y += size {
		s.MoveTo(view.X, y)
		s.LineTo(view.X+view.W, y)
	}
	s.SetStrokeStyle(gridColor)
	s.SetLineWidth(vp.ToVirtualLength(1))
	s.Stroke()
}

func drawSelection(s render.Surface, box geom.RotatedBoundingBox, vp viewport.Transform) {
	s.SetStrokeStyle(selectionColor)
	s.SetLineWidth(vp.ToVirtualLength(1))

	render.WithTransform(s, box.X, box.Y, box.W, box.H, box.Rotate, false, false, func() {
		s.BeginPath()
		s.Rect(0, 0, box.W, box.H)
		s.Stroke()
	})

	top := hittest.HandlePosition(box, hittest.HandleRotate, vp.Zoom)
	s.BeginPath()
	cx, cy := box.Center().X, box.Center().Y
	x, y := geom.RotatePoint(cx, box.Y, cx, cy, box.Rotate)
	s.MoveTo(x, y)
	s.LineTo(top.X, top.Y)
	s.Stroke()

	half := vp.ToVirtualLength(hittest.HandleSize / 2)
	for _, h := range hittest.Handles {
		p := hittest.HandlePosition(box, h, vp.Zoom)
		s.BeginPath()
		if h == hittest.HandleRotate {
			s.Ellipse(p.X, p.Y, half, half)
		} else {
			s.Rect(p.X-half, p.Y-half, 2*half, 2*half)
		}
		s.SetFillStyle("#ffffff")
		s.Fill()
		s.Stroke()
	}
}

func drawHighlight(s render.Surface, box geom.BoundingBox, vp viewport.Transform) {
	s.BeginPath()
	s.Rect(box.X, box.Y, box.W, box.H)
	s.SetStrokeStyle(selectionColor)
	s.SetLineWidth(vp.ToVirtualLength(1))
	s.Stroke()
}

// RenderJSON renders a frame into draw commands for the Canvas2D
// frontend.
func (e *Engine) RenderJSON() (string, error) {
	rec := render.NewRecorder()
	if err := e.Render(rec); err != nil {
		return "[]", err
	}
	return render.DrawCommandsToJSON(rec.Commands())
}

// Rasterize renders a frame into a w×h image on a white background.
func (e *Engine) Rasterize(w, h int) (*image.RGBA, error) {
	r := render.NewRaster(w, h, color.White)
	if err := e.Render(r); err != nil {
		return nil, err
	}
	return r.Image(), nil
}

// Snapshot is the serialisable view of the engine handed to hosts.
type Snapshot struct {
	SessionID string            `json:"sessionId"`
	State     json.RawMessage   `json:"state"`
	Elements  []element.Element `json:"elements"`
	Selected  []string          `json:"selected"`
	EditingID string            `json:"editingId,omitempty"`
	CanUndo   bool              `json:"canUndo"`
	CanRedo   bool              `json:"canRedo"`
}

// Snapshot captures the state, the elements and the history flags.
func (e *Engine) Snapshot() (Snapshot, error) {
	st, err := json.Marshal(e.store.Get())
	if err != nil {
		return Snapshot{}, err
	}
	elements := e.layer.All()
	if elements == nil {
		elements = []element.Element{}
	}
	selected := e.layer.SelectedIDs()
	if selected == nil {
		selected = []string{}
	}
	return Snapshot{
		SessionID: e.sessionID,
		State:     st,
		Elements:  elements,
		Selected:  selected,
		EditingID: e.layer.EditingID(),
		CanUndo:   e.CanUndo(),
		CanRedo:   e.CanRedo(),
	}, nil
}

// SnapshotJSON is Snapshot serialised to a JSON string.
func (e *Engine) SnapshotJSON() (string, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return "{}", err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}
