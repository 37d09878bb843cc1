package pointer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/hittest"
	"github.com/inamate/whiteboard/internal/viewport"
)

func pt(x, y float64) geom.XYCoords { return geom.XYCoords{X: x, Y: y} }

func TestPointerUsesLiveViewport(t *testing.T) {
	vp := viewport.Default()
	p := New("mouse", pt(10, 10), Modifiers{}, hittest.Result{}, func() viewport.Transform { return vp })
	p.Move(pt(30, 50), Modifiers{Shift: true})

	assert.Equal(t, pt(10, 10), p.Origin())
	assert.Equal(t, pt(20, 40), p.Delta())
	assert.Equal(t, geom.BoundingBox{X: 10, Y: 10, W: 20, H: 40}, p.DragBox())
	assert.True(t, p.Modifiers.KeepRatio())
	assert.False(t, p.OriginModifiers.KeepRatio())

	vp.Zoom = 2
	assert.Equal(t, pt(5, 5), p.Origin(), "zoom change mid-drag is picked up")
	assert.Equal(t, pt(15, 25), p.Offset())

	p.Move(pt(25, 45), Modifiers{})
	assert.Equal(t, pt(-5, -5), p.ScreenStep())
}

func TestDoubleClick(t *testing.T) {
	t0 := time.Unix(0, 0)
	ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

	cases := []struct {
		name   string
		second geom.XYCoords
		typ    string
		at     int
		want   bool
	}{
		{"double click", pt(2, 2), "mouse", 200, true},
		{"too slow", pt(2, 2), "mouse", 800, false},
		{"moved too far", pt(20, 0), "mouse", 200, false},
		{"pointer type changed", pt(2, 2), "pen", 200, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDoubleClick(0, 0)
			d.Down("mouse", pt(0, 0), ms(0))
			assert.False(t, d.Up("mouse", pt(0, 0), ms(50)))
			d.Down(tc.typ, tc.second, ms(tc.at))
			assert.Equal(t, tc.want, d.Up(tc.typ, tc.second, ms(tc.at+50)))
		})
	}
}

func TestDoubleClickRecoversAfterReset(t *testing.T) {
	d := NewDoubleClick(time.Second, 5)
	at := time.Unix(0, 0)

	d.Down("mouse", pt(0, 0), at)
	d.Down("mouse", pt(0, 0), at) // out of order: starts over
	d.Up("mouse", pt(0, 0), at)
	d.Down("mouse", pt(0, 0), at)
	assert.True(t, d.Up("mouse", pt(0, 0), at))

	assert.False(t, d.Up("mouse", pt(0, 0), at), "release without a press is ignored")
}
