// Package transform computes new geometry for a selection that is being
// moved, resized or rotated. A Session snapshots the selection when the
// gesture starts; every update derives the result from those snapshots, so
// intermediate pointer positions never accumulate error.
package transform

import (
	"math"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/hittest"
)

// RotationSnap is the rotation step used while snapping.
const RotationSnap = math.Pi / 12

// Snapshot pairs an element id with its geometry at gesture start.
type Snapshot struct {
	ID       string
	Original element.Element
}

// Change is the patch one element needs to reach the current gesture state.
type Change struct {
	ID    string
	Patch element.Patch
}

// Session is one translate, resize or rotate gesture.
type Session struct {
	snapshots []Snapshot
	box       geom.RotatedBoundingBox
}

// Begin snapshots elements. The group box keeps the rotation of a single
// element and is axis-aligned for several.
func Begin(elements []element.Element) *Session {
	return &Session{
		snapshots: lo.Map(elements, func(el element.Element, _ int) Snapshot {
			return Snapshot{ID: el.ID, Original: el.Clone()}
		}),
		box: geom.SurroundingBoundingBox(lo.Map(elements, func(el element.Element, _ int) geom.RotatedBoundingBox {
			return el.RotatedBox()
		})),
	}
}

// Box returns the group box at gesture start.
func (s *Session) Box() geom.RotatedBoundingBox {
	return s.box
}

// Snapshots returns the gesture-start snapshots.
func (s *Session) Snapshots() []Snapshot {
	return s.snapshots
}

// Translate moves every element by delta. With a grid, the group's
// top-left corner lands on the grid.
func (s *Session) Translate(delta geom.XYCoords, grid float64) []Change {
	if grid > 0 {
		delta.X = geom.SnapToGrid(s.box.X+delta.X, grid) - s.box.X
		delta.Y = geom.SnapToGrid(s.box.Y+delta.Y, grid) - s.box.Y
	}
	return lo.Map(s.snapshots, func(sn Snapshot, _ int) Change {
		x, y := sn.Original.X+delta.X, sn.Original.Y+delta.Y
		return Change{ID: sn.ID, Patch: element.Patch{X: &x, Y: &y}}
	})
}

// ResizeOptions tunes Resize.
type ResizeOptions struct {
	KeepRatio bool
	// Grid snaps the resulting group size when positive.
	Grid float64
}

// Resize scales the group by dragging handle by delta (virtual space). The
// corner opposite the handle stays fixed.
func (s *Session) Resize(handle hittest.Handle, delta geom.XYCoords, opts ResizeOptions) []Change {
	box := s.box
	if box.Rotate != 0 {
		delta.X, delta.Y = geom.RotatePoint(delta.X, delta.Y, 0, 0, -box.Rotate)
	}

	signX, signY, anchor := handleAnchor(box.BoundingBox, handle)
	sx := scaleFactor(signX*delta.X, box.W)
	sy := scaleFactor(signY*delta.Y, box.H)

	if opts.KeepRatio {
		m := max(math.Abs(sx), math.Abs(sy))
		sx, sy = math.Copysign(m, sx), math.Copysign(m, sy)
	}
	if opts.Grid > 0 {
		sx = snapScale(sx, box.W, opts.Grid)
		sy = snapScale(sy, box.H, opts.Grid)
	}

	flipX, flipY := sx < 0, sy < 0
	ax, ay := math.Abs(sx), math.Abs(sy)
	mirror := len(s.snapshots) > 1 && flipX != flipY

	return lo.Map(s.snapshots, func(sn Snapshot, _ int) Change {
		o := sn.Original
		w, h := ax*o.W, ay*o.H
		x := scaledPos(anchor.X, o.X, ax, w, flipX)
		y := scaledPos(anchor.Y, o.Y, ay, h, flipY)

		if box.Rotate != 0 {
			// Keep the anchor corner fixed in world space: the rotation
			// center moved with the new size.
			oldC := box.Center()
			newC := geom.XYCoords{X: x + w/2, Y: y + h/2}
			bx, by := geom.RotatePoint(anchor.X, anchor.Y, oldC.X, oldC.Y, box.Rotate)
			nx, ny := geom.RotatePoint(anchor.X, anchor.Y, newC.X, newC.Y, box.Rotate)
			x += bx - nx
			y += by - ny
		}

		p := element.Patch{
			X:        &x,
			Y:        &y,
			W:        &w,
			H:        &h,
			FlippedX: lo.ToPtr(o.FlippedX != flipX),
			FlippedY: lo.ToPtr(o.FlippedY != flipY),
		}
		if mirror {
			p.Rotate = lo.ToPtr(-o.Rotate)
		}
		switch o.Type {
		case element.KindFreedraw:
			path := lo.Map(o.Path, func(pt geom.XYCoords, _ int) geom.XYCoords {
				return geom.XYCoords{X: pt.X * ax, Y: pt.Y * ay}
			})
			p.Path = &path
		case element.KindText:
			p.FontSize = lo.ToPtr(o.FontSize * ay)
		}
		return Change{ID: sn.ID, Patch: p}
	})
}

// Rotate turns the group about its center by the angle swept from start to
// current. With snap the resulting group rotation is a multiple of
// RotationSnap.
func (s *Session) Rotate(start, current geom.XYCoords, snap bool) []Change {
	c := s.box.Center()
	delta := math.Atan2(current.Y-c.Y, current.X-c.X) - math.Atan2(start.Y-c.Y, start.X-c.X)
	if snap {
		target := math.Round((s.box.Rotate+delta)/RotationSnap) * RotationSnap
		delta = target - s.box.Rotate
	}

	return lo.Map(s.snapshots, func(sn Snapshot, _ int) Change {
		o := sn.Original
		oc := o.Center()
		cx, cy := geom.RotatePoint(oc.X, oc.Y, c.X, c.Y, delta)
		x, y := cx-o.W/2, cy-o.H/2
		r := o.Rotate + delta
		return Change{ID: sn.ID, Patch: element.Patch{X: &x, Y: &y, Rotate: &r}}
	})
}

// handleAnchor returns the per-axis drag sign of handle and the opposite
// corner.
func handleAnchor(b geom.BoundingBox, handle hittest.Handle) (float64, float64, geom.XYCoords) {
	switch handle {
	case hittest.HandleNW:
		return -1, -1, geom.XYCoords{X: b.X + b.W, Y: b.Y + b.H}
	case hittest.HandleNE:
		return 1, -1, geom.XYCoords{X: b.X, Y: b.Y + b.H}
	case hittest.HandleSW:
		return -1, 1, geom.XYCoords{X: b.X + b.W, Y: b.Y}
	default:
		return 1, 1, geom.XYCoords{X: b.X, Y: b.Y}
	}
}

func scaleFactor(d, size float64) float64 {
	if size == 0 {
		return 1
	}
	return 1 + d/size
}

func snapScale(s, size, grid float64) float64 {
	if size == 0 {
		return s
	}
	snapped := geom.SnapToGrid(math.Abs(s)*size, grid)
	if snapped == 0 {
		snapped = grid
	}
	return math.Copysign(snapped/size, s)
}

// scaledPos places an edge scaled by scale away from anchor, mirrored to
// the other side of the anchor when flipped.
func scaledPos(anchor, pos, scale, size float64, flipped bool) float64 {
	if flipped {
		return anchor - (scale*(pos-anchor) + size)
	}
	return anchor + scale*(pos-anchor)
}
