// Package pointer tracks one pointer gesture from press to release and
// detects double clicks.
package pointer

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/hittest"
	"github.com/inamate/whiteboard/internal/viewport"
)

// Modifiers is a snapshot of the modifier keys.
type Modifiers struct {
	Shift bool `json:"shift" yaml:"shift"`
	Alt   bool `json:"alt" yaml:"alt"`
	Ctrl  bool `json:"ctrl" yaml:"ctrl"`
	Meta  bool `json:"meta" yaml:"meta"`
}

// Extend reports whether a click should add to the selection.
func (m Modifiers) Extend() bool { return m.Shift || m.Ctrl || m.Meta }

// Precise reports whether grid snapping is suspended.
func (m Modifiers) Precise() bool { return m.Alt }

// KeepRatio reports whether sizes keep their aspect ratio.
func (m Modifiers) KeepRatio() bool { return m.Shift }

// CanvasPointer is the state of one gesture. Screen positions are stored;
// virtual positions are derived through the live viewport on every call so
// zooming or panning mid-drag is respected.
type CanvasPointer struct {
	Type string

	OriginScreen geom.XYCoords
	OffsetScreen geom.XYCoords
	PrevScreen   geom.XYCoords

	OriginModifiers Modifiers
	Modifiers       Modifiers

	// Hit is what lay under the pointer when the gesture started.
	Hit hittest.Result

	view func() viewport.Transform
}

// New starts a gesture at screen.
func New(pointerType string, screen geom.XYCoords, mods Modifiers, hit hittest.Result, view func() viewport.Transform) *CanvasPointer {
	return &CanvasPointer{
		Type:            pointerType,
		OriginScreen:    screen,
		OffsetScreen:    screen,
		PrevScreen:      screen,
		OriginModifiers: mods,
		Modifiers:       mods,
		Hit:             hit,
		view:            view,
	}
}

// Move records a new pointer position.
func (p *CanvasPointer) Move(screen geom.XYCoords, mods Modifiers) {
	p.PrevScreen = p.OffsetScreen
	p.OffsetScreen = screen
	p.Modifiers = mods
}

// Origin is the gesture start in virtual space.
func (p *CanvasPointer) Origin() geom.XYCoords {
	return p.view().ToVirtual(p.OriginScreen)
}

// Offset is the current position in virtual space.
func (p *CanvasPointer) Offset() geom.XYCoords {
	return p.view().ToVirtual(p.OffsetScreen)
}

// Delta is the virtual-space travel since the gesture started.
func (p *CanvasPointer) Delta() geom.XYCoords {
	return p.Offset().Sub(p.Origin())
}

// ScreenStep is the screen-space travel since the previous move.
func (p *CanvasPointer) ScreenStep() geom.XYCoords {
	return p.OffsetScreen.Sub(p.PrevScreen)
}

// DragBox is the normalized virtual box spanned by origin and offset.
func (p *CanvasPointer) DragBox() geom.BoundingBox {
	o, c := p.Origin(), p.Offset()
	box, _, _ := geom.NormalizeBox(geom.BoundingBox{X: o.X, Y: o.Y, W: c.X - o.X, H: c.Y - o.Y})
	return box
}
