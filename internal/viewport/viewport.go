// Package viewport maps between screen space (device pixels, origin at the
// canvas top-left) and virtual space (the infinite drawing plane):
//
//	screen  = virtual*zoom + scroll
//	virtual = (screen - scroll) / zoom
package viewport

import "github.com/inamate/whiteboard/internal/geom"

const (
	MinZoom = 0.1
	MaxZoom = 30.0

	// ZoomStep is the factor applied by one zoom-in/zoom-out step.
	ZoomStep = 1.1
)

// Transform is the screen<->virtual mapping.
type Transform struct {
	Scroll geom.XYCoords `json:"scroll"`
	Zoom   float64       `json:"zoom"`
}

// Default returns the identity transform.
func Default() Transform {
	return Transform{Zoom: 1}
}

// ToVirtual converts a screen point to virtual space.
func (t Transform) ToVirtual(p geom.XYCoords) geom.XYCoords {
	return geom.XYCoords{
		X: (p.X - t.Scroll.X) / t.Zoom,
		Y: (p.Y - t.Scroll.Y) / t.Zoom,
	}
}

// ToScreen converts a virtual point to screen space.
func (t Transform) ToScreen(p geom.XYCoords) geom.XYCoords {
	return geom.XYCoords{
		X: p.X*t.Zoom + t.Scroll.X,
		Y: p.Y*t.Zoom + t.Scroll.Y,
	}
}

// ToVirtualLength converts a screen-pixel length into virtual units.
func (t Transform) ToVirtualLength(px float64) float64 {
	return px / t.Zoom
}

// ClampZoom clamps z into [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return max(MinZoom, min(MaxZoom, z))
}

// NewZoomState returns the transform zoomed to target while keeping the
// virtual point under anchor (a screen point) fixed.
func NewZoomState(target float64, anchor geom.XYCoords, cur Transform) Transform {
	zoom := ClampZoom(target)
	pinned := cur.ToVirtual(anchor)
	return Transform{
		Zoom: zoom,
		Scroll: geom.XYCoords{
			X: anchor.X - pinned.X*zoom,
			Y: anchor.Y - pinned.Y*zoom,
		},
	}
}

// ZoomIn steps the zoom up by ZoomStep around anchor.
func ZoomIn(anchor geom.XYCoords, cur Transform) Transform {
	return NewZoomState(cur.Zoom*ZoomStep, anchor, cur)
}

// ZoomOut steps the zoom down by ZoomStep around anchor.
func ZoomOut(anchor geom.XYCoords, cur Transform) Transform {
	return NewZoomState(cur.Zoom/ZoomStep, anchor, cur)
}

// Pan shifts the scroll offset by a raw screen delta. Panning moves screen
// content directly, so the delta is not divided by zoom.
func Pan(delta geom.XYCoords, cur Transform) Transform {
	cur.Scroll = cur.Scroll.Add(delta)
	return cur
}
