package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderBuffersInOrder(t *testing.T) {
	r := NewRecorder()
	WithTransform(r, 10, 20, 100, 50, math.Pi/2, true, false, func() {
		r.BeginPath()
		r.Rect(0, 0, 100, 50)
		r.SetFillStyle("#ff0000")
		r.Fill()
	})

	ops := make([]string, 0, len(r.Commands()))
	for _, c := range r.Commands() {
		ops = append(ops, c.Op)
	}
	assert.Equal(t, []string{
		"save", "translate", "rotate", "scale", "translate",
		"beginPath", "rect", "fillStyle", "fill", "restore",
	}, ops)
	assert.Equal(t, []float64{60, 45}, r.Commands()[1].Args)
	assert.Equal(t, []float64{-1, 1}, r.Commands()[3].Args)

	js, err := DrawCommandsToJSON(r.Commands())
	require.NoError(t, err)
	assert.Contains(t, js, `{"op":"fillStyle","style":"#ff0000"}`)

	r.Reset()
	js, err = DrawCommandsToJSON(r.Commands())
	require.NoError(t, err)
	assert.Equal(t, "[]", js)
}

func TestRecorderSkipsIdentityTransforms(t *testing.T) {
	r := NewRecorder()
	WithTransform(r, 0, 0, 10, 10, 0, false, false, func() {})
	assert.Len(t, r.Commands(), 4, "save, translate, translate, restore")
}

func TestMatrixMultiplyOrder(t *testing.T) {
	m := Translate(10, 0).Multiply(Rotate(math.Pi / 2))
	x, y := m.TransformPoint(1, 0)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9, "clockwise on a y-down surface")
	assert.InDelta(t, 2, Scale(2, 2).LinearScale(), 1e-9)
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"#000", "#1e1e1e", " #FFFFFF ", "transparent"} {
		_, err := ParseColor(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "red", "#12345", "#1234567", "#gggggg"} {
		_, err := ParseColor(s)
		assert.Error(t, err, s)
	}

	norm, ok := NormalizeColor("#FFF")
	require.True(t, ok)
	assert.Equal(t, "#ffffff", norm)
}

func TestRasterFillsRect(t *testing.T) {
	r := NewRaster(40, 40, color.White)
	r.SetFillStyle("#ff0000")
	r.BeginPath()
	r.Rect(10, 10, 20, 20)
	r.Fill()

	inside := r.Image().RGBAAt(20, 20)
	outside := r.Image().RGBAAt(5, 5)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, inside)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, outside)
}

func TestRasterRespectsSaveRestore(t *testing.T) {
	r := NewRaster(40, 40, color.White)
	r.Save()
	r.Translate(20, 20)
	r.SetFillStyle("#0000ff")
	r.Restore()

	r.BeginPath()
	r.Rect(0, 0, 10, 10)
	r.Fill()
	assert.Equal(t, color.RGBA{A: 255}, r.Image().RGBAAt(5, 5), "fill and transform restored")
}

func TestRasterStrokeLeavesInteriorEmpty(t *testing.T) {
	r := NewRaster(60, 60, color.White)
	r.SetStrokeStyle("#000000")
	r.SetLineWidth(2)
	r.BeginPath()
	r.Ellipse(30, 30, 20, 20)
	r.Stroke()

	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, r.Image().RGBAAt(30, 30))
	edge := r.Image().RGBAAt(50, 30)
	assert.Less(t, edge.R, uint8(128))
}

func TestRasterIgnoresInvalidColor(t *testing.T) {
	r := NewRaster(10, 10, color.White)
	r.SetFillStyle("#00ff00")
	r.SetFillStyle("not-a-colour")
	r.BeginPath()
	r.Rect(0, 0, 10, 10)
	r.Fill()
	assert.Equal(t, color.RGBA{G: 255, A: 255}, r.Image().RGBAAt(5, 5))
}
