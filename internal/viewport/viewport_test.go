package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/whiteboard/internal/geom"
)

func TestRoundTrip(t *testing.T) {
	tr := Transform{Scroll: geom.XYCoords{X: 40, Y: -12}, Zoom: 2.5}
	p := geom.XYCoords{X: 123.4, Y: 56.7}

	back := tr.ToVirtual(tr.ToScreen(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestNewZoomStateKeepsAnchor(t *testing.T) {
	anchors := []geom.XYCoords{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: -50, Y: 1200}}
	targets := []float64{0.01, 0.5, 1, 3.3, 100}
	start := Transform{Scroll: geom.XYCoords{X: 17, Y: -90}, Zoom: 1.7}

	for _, anchor := range anchors {
		for _, target := range targets {
			before := start.ToVirtual(anchor)
			next := NewZoomState(target, anchor, start)
			after := next.ToVirtual(anchor)

			assert.InDelta(t, before.X, after.X, 1e-9)
			assert.InDelta(t, before.Y, after.Y, 1e-9)
			assert.GreaterOrEqual(t, next.Zoom, MinZoom)
			assert.LessOrEqual(t, next.Zoom, MaxZoom)
		}
	}
}

func TestZoomSteps(t *testing.T) {
	cur := Default()
	in := ZoomIn(geom.XYCoords{}, cur)
	assert.InDelta(t, ZoomStep, in.Zoom, 1e-9)

	out := ZoomOut(geom.XYCoords{}, in)
	assert.InDelta(t, 1, out.Zoom, 1e-9)
}

func TestPanIgnoresZoom(t *testing.T) {
	cur := Transform{Zoom: 4}
	next := Pan(geom.XYCoords{X: 10, Y: -5}, cur)
	assert.Equal(t, geom.XYCoords{X: 10, Y: -5}, next.Scroll)
	assert.Equal(t, 4.0, next.Zoom)
}

func TestClampZoomKeepsFloatBounds(t *testing.T) {
	assert.Equal(t, MaxZoom, ClampZoom(1000))
	assert.Equal(t, MinZoom, ClampZoom(0))
	assert.Equal(t, 2.5, ClampZoom(2.5))
}

func TestToVirtualLength(t *testing.T) {
	assert.Equal(t, 4.0, Transform{Zoom: 2}.ToVirtualLength(8))
	assert.Equal(t, 8.0, Default().ToVirtualLength(8))
}
