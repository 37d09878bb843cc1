// Package handler implements the per-kind element behaviour: creation,
// precise hit-testing, rendering, create-drag sizing and, for text, the
// bridge to an external editing overlay. Handlers are looked up through a
// Registry keyed by element kind and shape.
package handler

import (
	"fmt"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/typeid"
	"github.com/inamate/whiteboard/internal/viewport"
)

// DefaultFill is the fill of newly created elements.
const DefaultFill = "#1e1e1e"

// HitThreshold is the distance in virtual units within which a stroke
// counts as hit.
const HitThreshold = 8

// Key identifies a handler. Shape is only set for KindShape.
type Key struct {
	Kind  element.Kind
	Shape element.ShapeType
}

// KeyOf returns the handler key for el.
func KeyOf(el element.Element) Key {
	k := Key{Kind: el.Type}
	if el.Type == element.KindShape {
		k.Shape = el.Shape
	}
	return k
}

func (k Key) String() string {
	if k.Shape != "" {
		return string(k.Kind) + "/" + string(k.Shape)
	}
	return string(k.Kind)
}

// Features declares optional handler behaviour.
type Features struct {
	// StartEditingOnCreateEnd moves straight into editing once the create
	// gesture ends.
	StartEditingOnCreateEnd bool
}

// CreateDrag describes the create gesture in virtual space.
type CreateDrag struct {
	Origin geom.XYCoords
	Offset geom.XYCoords

	// KeepRatio forces a 1:1 box.
	KeepRatio bool
	// Precise disables grid snapping.
	Precise bool
	Grid    float64
}

// Mutator is the layer's mutate API. Handlers never write element fields
// directly.
type Mutator interface {
	Mutate(id string, patch element.Patch) (element.Patch, error)
}

// Handler is the capability set every element kind provides.
type Handler interface {
	Key() Key
	Create(box geom.BoundingBox) element.Element
	HitTest(el element.Element, p geom.XYCoords) bool
	Render(el element.Element, s render.Surface)
	OnCreateDrag(el element.Element, d CreateDrag, m Mutator) error
	IsNegligible(el element.Element, grid float64) bool
	Features() Features
}

// Editor is implemented by handlers whose elements can be edited in place.
type Editor interface {
	OnEditStart(el element.Element, vp viewport.Transform, ov TextOverlay)
	OnEditViewStateChange(el element.Element, vp viewport.Transform, ov TextOverlay)
	// OnEditEnd unmounts the overlay and returns the final text.
	OnEditEnd(el element.Element, ov TextOverlay) string
}

// Registry maps keys to handlers.
type Registry struct {
	handlers map[Key]Handler
}

// NewRegistry builds a registry. A later handler replaces an earlier one
// with the same key.
func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[Key]Handler, len(handlers))}
	for _, h := range handlers {
		r.handlers[h.Key()] = h
	}
	return r
}

// DefaultRegistry holds the rect, ellipse, freedraw and text handlers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewShape(element.ShapeRect),
		NewShape(element.ShapeEllipse),
		Freedraw{},
		Text{},
	)
}

// Lookup returns the handler registered under key.
func (r *Registry) Lookup(key Key) (Handler, error) {
	h, ok := r.handlers[key]
	if !ok {
		return nil, fmt.Errorf("handler %s: %w", key, errs.ErrUnknownElementType)
	}
	return h, nil
}

// For returns the handler of el.
func (r *Registry) For(el element.Element) (Handler, error) {
	return r.Lookup(KeyOf(el))
}

func newID() string {
	return typeid.NewElementID()
}

// dragBox turns a create gesture into a normalized box plus flip flags.
func dragBox(d CreateDrag) (geom.BoundingBox, bool, bool) {
	w := d.Offset.X - d.Origin.X
	h := d.Offset.Y - d.Origin.Y
	if d.KeepRatio {
		w, h = geom.ResizeAspectRatio(w, h, 1, 1)
	}
	if !d.Precise {
		w = geom.SnapToGrid(w, d.Grid)
		h = geom.SnapToGrid(h, d.Grid)
	}
	return geom.NormalizeBox(geom.BoundingBox{X: d.Origin.X, Y: d.Origin.Y, W: w, H: h})
}

// localPoint maps p into the element's unrotated, unflipped local space.
func localPoint(el element.Element, p geom.XYCoords) geom.XYCoords {
	c := el.Center()
	x, y := geom.RotatePoint(p.X, p.Y, c.X, c.Y, -el.Rotate)
	local := geom.XYCoords{X: x - el.X, Y: y - el.Y}
	if el.FlippedX {
		local.X = el.W - local.X
	}
	if el.FlippedY {
		local.Y = el.H - local.Y
	}
	return local
}

func withElementTransform(el element.Element, s render.Surface, draw func()) {
	render.WithTransform(s, el.X, el.Y, el.W, el.H, el.Rotate, el.FlippedX, el.FlippedY, draw)
}
