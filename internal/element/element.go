// Package element defines CanvasElement, the tagged union of drawable
// elements, and Patch, the partial-update record used by the element layer
// and the operation log.
package element

import (
	"fmt"
	"slices"

	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/geom"
)

// Kind tags the element variant.
type Kind string

const (
	KindShape    Kind = "shape"
	KindFreedraw Kind = "freedraw"
	KindText     Kind = "text"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindShape, KindFreedraw, KindText:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrUnknownElementType, s)
}

// ShapeType selects the geometry of a shape element.
type ShapeType string

const (
	ShapeRect    ShapeType = "rect"
	ShapeEllipse ShapeType = "ellipse"
)

// Element is a single drawable on the canvas. Variant fields are only
// meaningful for their Type: Shape for shapes, Path for freedraw (points
// relative to the element origin), Text/FontSize/FontFamily for text.
//
// Elements are values. The element layer owns the authoritative copy and
// everything else refers to elements by ID.
type Element struct {
	ID   string `json:"id"`
	Type Kind   `json:"type"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Rotate float64 `json:"rotate"`

	Fill     string `json:"fill"`
	FlippedX bool   `json:"flippedX"`
	FlippedY bool   `json:"flippedY"`
	Locked   bool   `json:"locked"`
	Deleted  bool   `json:"deleted"`

	Shape ShapeType `json:"shape,omitempty"`

	Path []geom.XYCoords `json:"path,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

// Box returns the element's unrotated bounding box.
func (e Element) Box() geom.BoundingBox {
	return geom.BoundingBox{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// RotatedBox returns the element's box with its rotation.
func (e Element) RotatedBox() geom.RotatedBoundingBox {
	return geom.RotatedBoundingBox{BoundingBox: e.Box(), Rotate: e.Rotate}
}

// Center returns the rotation center.
func (e Element) Center() geom.XYCoords {
	return e.Box().Center()
}

// Clone returns a deep copy.
func (e Element) Clone() Element {
	e.Path = slices.Clone(e.Path)
	return e
}

// Round normalizes every numeric field to geom.Precision decimal places so
// repeated mutations never drift and history diffs compare with ==.
func (e *Element) Round() {
	e.X = geom.Round(e.X)
	e.Y = geom.Round(e.Y)
	e.W = geom.Round(e.W)
	e.H = geom.Round(e.H)
	e.Rotate = geom.Round(geom.NormalizeAngle(e.Rotate))
	e.FontSize = geom.Round(e.FontSize)
	for i, p := range e.Path {
		e.Path[i] = geom.RoundPoint(p)
	}
}
