package handler

import (
	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
)

// Shape handles rect and ellipse elements.
type Shape struct {
	shape element.ShapeType
}

func NewShape(shape element.ShapeType) Shape {
	return Shape{shape: shape}
}

func (h Shape) Key() Key {
	return Key{Kind: element.KindShape, Shape: h.shape}
}

func (h Shape) Features() Features {
	return Features{}
}

func (h Shape) Create(box geom.BoundingBox) element.Element {
	el := element.Element{
		ID:    newID(),
		Type:  element.KindShape,
		Shape: h.shape,
		X:     box.X,
		Y:     box.Y,
		W:     box.W,
		H:     box.H,
		Fill:  DefaultFill,
	}
	el.Round()
	return el
}

func (h Shape) HitTest(el element.Element, p geom.XYCoords) bool {
	local := localPoint(el, p)
	switch el.Shape {
	case element.ShapeEllipse:
		rx, ry := el.W/2, el.H/2
		if rx <= 0 || ry <= 0 {
			return false
		}
		dx := (local.X - rx) / rx
		dy := (local.Y - ry) / ry
		return dx*dx+dy*dy <= 1
	default:
		return local.X >= 0 && local.X <= el.W && local.Y >= 0 && local.Y <= el.H
	}
}

func (h Shape) Render(el element.Element, s render.Surface) {
	withElementTransform(el, s, func() {
		s.BeginPath()
		if el.Shape == element.ShapeEllipse {
			s.Ellipse(el.W/2, el.H/2, el.W/2, el.H/2)
		} else {
			s.Rect(0, 0, el.W, el.H)
		}
		s.SetFillStyle(el.Fill)
		s.Fill()
	})
}

func (h Shape) OnCreateDrag(el element.Element, d CreateDrag, m Mutator) error {
	box, flippedX, flippedY := dragBox(d)
	patch := element.BoxPatch(box)
	patch.FlippedX = lo.ToPtr(flippedX)
	patch.FlippedY = lo.ToPtr(flippedY)
	_, err := m.Mutate(el.ID, patch)
	return err
}

// IsNegligible reports shapes smaller than one grid cell in both
// dimensions. Without a grid the cell is one virtual unit.
func (h Shape) IsNegligible(el element.Element, grid float64) bool {
	cell := max(grid, 1)
	return el.W < cell && el.H < cell
}
