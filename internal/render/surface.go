// Package render defines the immediate-mode drawing surface elements are
// painted onto, and two implementations: Recorder, which buffers draw
// commands for the browser's Canvas2D context, and Raster, a headless RGBA
// surface for server-side and CLI rendering.
package render

// Surface is a 2D immediate-mode drawing context with a save/restore stack.
// Coordinates and angles follow Canvas2D: y grows downwards and positive
// angles rotate clockwise on screen.
type Surface interface {
	Save()
	Restore()

	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64)
	Rect(x, y, w, h float64)
	Ellipse(cx, cy, rx, ry float64)
	ClosePath()

	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetLineWidth(w float64)
	SetFont(size float64, family string)

	Fill()
	Stroke()
	FillText(text string, x, y float64)
}

// WithTransform runs draw inside a saved context where the origin is the
// top-left corner of a w×h box at (x, y) rotated by angle about its center
// and mirrored per flip flag.
func WithTransform(s Surface, x, y, w, h, angle float64, flipX, flipY bool, draw func()) {
	s.Save()
	defer s.Restore()

	s.Translate(x+w/2, y+h/2)
	if angle != 0 {
		s.Rotate(angle)
	}
	if flipX || flipY {
		s.Scale(flipSign(flipX), flipSign(flipY))
	}
	s.Translate(-w/2, -h/2)
	draw()
}

func flipSign(flipped bool) float64 {
	if flipped {
		return -1
	}
	return 1
}
