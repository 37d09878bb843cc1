package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter-ellipse.
const kappa = 0.5522847498

// curveSteps is how many line segments a cubic is flattened into for
// stroking.
const curveSteps = 16

type rasterState struct {
	matrix    Matrix2D
	fill      color.Color
	stroke    color.Color
	lineWidth float64
}

type pathOp struct {
	kind byte // 'M', 'L', 'C', 'Z'
	pts  [3][2]float64
}

// Raster is a headless Surface painting into an RGBA image. Path
// coordinates are transformed to device space as they are added.
type Raster struct {
	img   *image.RGBA
	ras   *vector.Rasterizer
	cur   rasterState
	stack []rasterState
	path  []pathOp
}

// NewRaster creates a w×h surface cleared to background.
func NewRaster(w, h int, background color.Color) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return &Raster{
		img: img,
		ras: vector.NewRasterizer(w, h),
		cur: rasterState{
			matrix:    Identity(),
			fill:      color.Black,
			stroke:    color.Black,
			lineWidth: 1,
		},
	}
}

// Image returns the painted image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) Save() {
	r.stack = append(r.stack, r.cur)
}

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) Translate(x, y float64) { r.cur.matrix = r.cur.matrix.Multiply(Translate(x, y)) }
func (r *Raster) Rotate(angle float64)   { r.cur.matrix = r.cur.matrix.Multiply(Rotate(angle)) }
func (r *Raster) Scale(sx, sy float64)   { r.cur.matrix = r.cur.matrix.Multiply(Scale(sx, sy)) }

func (r *Raster) BeginPath() {
	r.path = r.path[:0]
}

func (r *Raster) device(x, y float64) [2]float64 {
	dx, dy := r.cur.matrix.TransformPoint(x, y)
	return [2]float64{dx, dy}
}

func (r *Raster) MoveTo(x, y float64) {
	r.path = append(r.path, pathOp{kind: 'M', pts: [3][2]float64{r.device(x, y)}})
}

func (r *Raster) LineTo(x, y float64) {
	r.path = append(r.path, pathOp{kind: 'L', pts: [3][2]float64{r.device(x, y)}})
}

func (r *Raster) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.path = append(r.path, pathOp{kind: 'C', pts: [3][2]float64{
		r.device(c1x, c1y), r.device(c2x, c2y), r.device(x, y),
	}})
}

func (r *Raster) ClosePath() {
	r.path = append(r.path, pathOp{kind: 'Z'})
}

func (r *Raster) Rect(x, y, w, h float64) {
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.ClosePath()
}

func (r *Raster) Ellipse(cx, cy, rx, ry float64) {
	kx, ky := kappa*rx, kappa*ry
	r.MoveTo(cx+rx, cy)
	r.BezierCurveTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	r.BezierCurveTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	r.BezierCurveTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	r.BezierCurveTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	r.ClosePath()
}

// SetFillStyle ignores colours it cannot parse, keeping the previous one.
func (r *Raster) SetFillStyle(s string) {
	if c, err := ParseColor(s); err == nil {
		r.cur.fill = c
	}
}

func (r *Raster) SetStrokeStyle(s string) {
	if c, err := ParseColor(s); err == nil {
		r.cur.stroke = c
	}
}

func (r *Raster) SetLineWidth(w float64) {
	if w > 0 {
		r.cur.lineWidth = w
	}
}

// SetFont is a no-op: raster text always uses a fixed bitmap face.
func (r *Raster) SetFont(float64, string) {}

func (r *Raster) Fill() {
	if len(r.path) == 0 {
		return
	}
	r.resetRasterizer()
	for _, op := range r.path {
		switch op.kind {
		case 'M':
			r.ras.MoveTo(f32(op.pts[0]))
		case 'L':
			r.ras.LineTo(f32(op.pts[0]))
		case 'C':
			c1x, c1y := f32(op.pts[0])
			c2x, c2y := f32(op.pts[1])
			x, y := f32(op.pts[2])
			r.ras.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case 'Z':
			r.ras.ClosePath()
		}
	}
	r.ras.ClosePath()
	r.paint(r.cur.fill)
}

// Stroke flattens the path into line segments and fills a quad of the line
// width around each one.
func (r *Raster) Stroke() {
	if len(r.path) == 0 {
		return
	}
	hw := r.cur.lineWidth * r.cur.matrix.LinearScale() / 2
	r.resetRasterizer()
	for _, poly := range r.flatten() {
		for i := 1; i < len(poly); i++ {
			r.segmentQuad(poly[i-1], poly[i], hw)
		}
	}
	r.paint(r.cur.stroke)
}

// FillText draws text with its baseline-left at (x, y). Only the
// translation part of the current transform is applied.
func (r *Raster) FillText(text string, x, y float64) {
	dx, dy := r.cur.matrix.TransformPoint(x, y)
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(r.cur.fill),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(dx)), int(math.Round(dy))),
	}
	d.DrawString(text)
}

func (r *Raster) resetRasterizer() {
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	r.ras.DrawOp = draw.Over
}

func (r *Raster) paint(c color.Color) {
	if _, _, _, a := c.RGBA(); a == 0 {
		return
	}
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// flatten converts the current path into polylines in device space.
func (r *Raster) flatten() [][][2]float64 {
	var polys [][][2]float64
	var cur [][2]float64
	for _, op := range r.path {
		switch op.kind {
		case 'M':
			if len(cur) > 1 {
				polys = append(polys, cur)
			}
			cur = [][2]float64{op.pts[0]}
		case 'L':
			cur = append(cur, op.pts[0])
		case 'C':
			if len(cur) == 0 {
				cur = append(cur, op.pts[0])
			}
			p0 := cur[len(cur)-1]
			for i := 1; i <= curveSteps; i++ {
				cur = append(cur, cubicAt(p0, op.pts[0], op.pts[1], op.pts[2], float64(i)/curveSteps))
			}
		case 'Z':
			if len(cur) > 1 {
				cur = append(cur, cur[0])
				polys = append(polys, cur)
				cur = [][2]float64{cur[0]}
			}
		}
	}
	if len(cur) > 1 {
		polys = append(polys, cur)
	}
	return polys
}

func (r *Raster) segmentQuad(a, b [2]float64, hw float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*hw, dx/length*hw
	// Extend each end by half the width so joints overlap.
	ex, ey := dx/length*hw, dy/length*hw

	r.ras.MoveTo(float32(a[0]+nx-ex), float32(a[1]+ny-ey))
	r.ras.LineTo(float32(b[0]+nx+ex), float32(b[1]+ny+ey))
	r.ras.LineTo(float32(b[0]-nx+ex), float32(b[1]-ny+ey))
	r.ras.LineTo(float32(a[0]-nx-ex), float32(a[1]-ny-ey))
	r.ras.ClosePath()
}

func cubicAt(p0, p1, p2, p3 [2]float64, t float64) [2]float64 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return [2]float64{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}

func f32(p [2]float64) (float32, float32) {
	return float32(p[0]), float32(p[1])
}
