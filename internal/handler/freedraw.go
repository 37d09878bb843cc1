package handler

import (
	"math"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
)

const (
	// JoinThreshold is how close the last point must be to the first for a
	// path to count as closed.
	JoinThreshold = 10

	strokeWidth = 2
)

// Freedraw handles pen strokes. Path points are relative to the element
// origin.
type Freedraw struct{}

func (Freedraw) Key() Key {
	return Key{Kind: element.KindFreedraw}
}

func (Freedraw) Features() Features {
	return Features{}
}

func (Freedraw) Create(box geom.BoundingBox) element.Element {
	el := element.Element{
		ID:   newID(),
		Type: element.KindFreedraw,
		X:    box.X,
		Y:    box.Y,
		Fill: DefaultFill,
		Path: []geom.XYCoords{{}},
	}
	el.Round()
	return el
}

// IsClosed reports whether the path ends where it started.
func IsClosed(path []geom.XYCoords) bool {
	return len(path) > 2 && geom.Distance(path[0], path[len(path)-1]) <= JoinThreshold
}

func (Freedraw) HitTest(el element.Element, p geom.XYCoords) bool {
	local := localPoint(el, p)
	if local.X < -HitThreshold || local.Y < -HitThreshold ||
		local.X > el.W+HitThreshold || local.Y > el.H+HitThreshold {
		return false
	}
	if IsClosed(el.Path) && geom.PointInPolygon(local, el.Path) {
		return true
	}
	return geom.DistanceToPolyline(local, el.Path) <= HitThreshold
}

func (Freedraw) Render(el element.Element, s render.Surface) {
	if len(el.Path) == 0 {
		return
	}
	withElementTransform(el, s, func() {
		s.BeginPath()
		s.MoveTo(el.Path[0].X, el.Path[0].Y)
		for _, p := range el.Path[1:] {
			s.LineTo(p.X, p.Y)
		}
		if IsClosed(el.Path) {
			s.ClosePath()
			s.SetFillStyle(el.Fill)
			s.Fill()
		}
		s.SetStrokeStyle(el.Fill)
		s.SetLineWidth(strokeWidth)
		s.Stroke()
	})
}

// OnCreateDrag appends the pointer position and re-fits the element box
// around the path so points stay relative to the top-left corner.
func (Freedraw) OnCreateDrag(el element.Element, d CreateDrag, m Mutator) error {
	abs := lo.Map(el.Path, func(p geom.XYCoords, _ int) geom.XYCoords {
		return geom.XYCoords{X: el.X + p.X, Y: el.Y + p.Y}
	})
	abs = append(abs, d.Offset)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range abs {
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
	}
	path := lo.Map(abs, func(p geom.XYCoords, _ int) geom.XYCoords {
		return geom.XYCoords{X: p.X - minX, Y: p.Y - minY}
	})

	patch := element.BoxPatch(geom.BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY})
	patch.Path = &path
	_, err := m.Mutate(el.ID, patch)
	return err
}

func (Freedraw) IsNegligible(el element.Element, _ float64) bool {
	return len(el.Path) < 2
}
