// Package hittest resolves what lies under a screen point: a transform
// handle of the selection, the selection box itself, or an element.
package hittest

import (
	"math"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/layer"
	"github.com/inamate/whiteboard/internal/viewport"
)

const (
	// HandleSize is the hit area around a handle in screen pixels.
	HandleSize = 8
	// RotateHandleOffset is the distance of the rotate handle above the
	// top edge in screen pixels.
	RotateHandleOffset = 20
)

// Kind tags a Result.
type Kind string

const (
	KindNone            Kind = ""
	KindElement         Kind = "element"
	KindSelectionBox    Kind = "selectionBox"
	KindTransformHandle Kind = "transformHandle"
)

// Handle names a transform handle.
type Handle string

const (
	HandleNW     Handle = "nw"
	HandleNE     Handle = "ne"
	HandleSE     Handle = "se"
	HandleSW     Handle = "sw"
	HandleRotate Handle = "rotate"
)

// Handles lists the handles in test order.
var Handles = []Handle{HandleRotate, HandleNW, HandleNE, HandleSE, HandleSW}

// Result is what a point hit.
//   - element: ElementID
//   - selectionBox: Box, Elements and ElementID, the element also under the
//     point if any
//   - transformHandle: Handle, Box, Elements
type Result struct {
	Kind      Kind                    `json:"type"`
	ElementID string                  `json:"elementId,omitempty"`
	Handle    Handle                  `json:"handle,omitempty"`
	Box       geom.RotatedBoundingBox `json:"box,omitzero"`
	Elements  []string                `json:"elements,omitempty"`
}

// SelectionBox returns the box surrounding the selected elements and their
// ids in z-order. A single element keeps its rotation.
func SelectionBox(l *layer.Layer) (geom.RotatedBoundingBox, []string) {
	selected := l.Selected()
	boxes := lo.Map(selected, func(el element.Element, _ int) geom.RotatedBoundingBox {
		return el.RotatedBox()
	})
	ids := lo.Map(selected, func(el element.Element, _ int) string { return el.ID })
	return geom.SurroundingBoundingBox(boxes), ids
}

// HandlePosition returns the virtual-space position of a handle of box at
// the given zoom.
func HandlePosition(box geom.RotatedBoundingBox, h Handle, zoom float64) geom.XYCoords {
	if h == HandleRotate {
		c := box.Center()
		x, y := geom.RotatePoint(c.X, box.Y-RotateHandleOffset/zoom, c.X, c.Y, box.Rotate)
		return geom.XYCoords{X: x, Y: y}
	}
	v := geom.RotatedBoxVertices(box)
	switch h {
	case HandleNW:
		return v[0]
	case HandleNE:
		return v[1]
	case HandleSE:
		return v[2]
	default:
		return v[3]
	}
}

// HitHandle returns the handle of box under p, if any.
func HitHandle(box geom.RotatedBoundingBox, p geom.XYCoords, zoom float64) (Handle, bool) {
	half := HandleSize / zoom
	return lo.Find(Handles, func(h Handle) bool {
		pos := HandlePosition(box, h, zoom)
		return math.Abs(p.X-pos.X) <= half && math.Abs(p.Y-pos.Y) <= half
	})
}

// HitElement returns the topmost unlocked element whose handler reports a
// hit at the virtual point p.
func HitElement(p geom.XYCoords, l *layer.Layer, reg *handler.Registry) (string, error) {
	all := l.All()
	for i := len(all) - 1; i >= 0; i-- {
		el := all[i]
		if el.Locked {
			continue
		}
		h, err := reg.For(el)
		if err != nil {
			return "", err
		}
		if h.HitTest(el, p) {
			return el.ID, nil
		}
	}
	return "", nil
}

// Test resolves the screen point in priority order: selection handles,
// selection box, elements top to bottom.
func Test(screen geom.XYCoords, vp viewport.Transform, l *layer.Layer, reg *handler.Registry) (Result, error) {
	p := vp.ToVirtual(screen)

	if l.HasSelection() {
		box, ids := SelectionBox(l)
		if h, ok := HitHandle(box, p, vp.Zoom); ok {
			return Result{Kind: KindTransformHandle, Handle: h, Box: box, Elements: ids}, nil
		}
		if box.ContainsPoint(p) {
			hit, err := HitElement(p, l, reg)
			if err != nil {
				return Result{}, err
			}
			return Result{Kind: KindSelectionBox, Box: box, Elements: ids, ElementID: hit}, nil
		}
	}

	hit, err := HitElement(p, l, reg)
	if err != nil || hit == "" {
		return Result{}, err
	}
	return Result{Kind: KindElement, ElementID: hit}, nil
}
