package engine

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/action"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/pointer"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/state"
	"github.com/inamate/whiteboard/internal/typeid"
)

type testEngine struct {
	*Engine
	t       *testing.T
	overlay *handler.MemoryOverlay
	now     time.Time
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ov := &handler.MemoryOverlay{}
	e := New(Options{Overlay: ov})
	e.Resize(800, 600)
	return &testEngine{Engine: e, t: t, overlay: ov, now: time.Unix(1000, 0)}
}

// tick advances the fake clock past the double-click timeout.
func (te *testEngine) tick() {
	te.now = te.now.Add(time.Second)
}

func (te *testEngine) drag(from, to [2]float64, mods pointer.Modifiers) {
	te.t.Helper()
	require.NoError(te.t, te.PointerDown(PointerEvent{X: from[0], Y: from[1], Modifiers: mods, Time: te.now}))
	require.NoError(te.t, te.PointerMove(PointerEvent{X: to[0], Y: to[1], Modifiers: mods, Time: te.now}))
	require.NoError(te.t, te.PointerUp(PointerEvent{X: to[0], Y: to[1], Modifiers: mods, Time: te.now}))
}

func (te *testEngine) click(x, y float64) {
	te.t.Helper()
	require.NoError(te.t, te.PointerDown(PointerEvent{X: x, Y: y, Time: te.now}))
	require.NoError(te.t, te.PointerUp(PointerEvent{X: x, Y: y, Time: te.now}))
}

// createRect draws a 100×60 rectangle at (20, 20) and returns it.
func (te *testEngine) createRect() element.Element {
	te.t.Helper()
	require.NoError(te.t, te.SetTool("rect"))
	te.drag([2]float64{20, 20}, [2]float64{120, 80}, pointer.Modifiers{})
	te.tick()
	els := te.Elements()
	require.NotEmpty(te.t, els)
	return els[len(els)-1]
}

func TestCreateRectangle(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()

	assert.Equal(t, element.KindShape, el.Type)
	assert.Equal(t, element.ShapeRect, el.Shape)
	assert.Equal(t, [4]float64{20, 20, 100, 60}, [4]float64{el.X, el.Y, el.W, el.H})
	assert.Equal(t, []string{el.ID}, te.layer.SelectedIDs())

	st := te.State()
	assert.Equal(t, state.ToolSelection, st.Tool)
	assert.Equal(t, state.UsermodeIdle, st.Usermode)

	require.NoError(t, te.Undo())
	assert.Empty(t, te.Elements())
	require.NoError(t, te.Redo())
	require.Len(t, te.Elements(), 1)
	assert.Equal(t, el.ID, te.Elements()[0].ID)
}

func TestLockCurrentToolKeepsTool(t *testing.T) {
	ov := &handler.MemoryOverlay{}
	e := New(Options{Overlay: ov, LockCurrentTool: true})
	te := &testEngine{Engine: e, t: t, overlay: ov, now: time.Unix(1000, 0)}
	te.createRect()
	assert.Equal(t, state.ToolRect, te.State().Tool)
}

func TestNegligibleShapeIsDiscarded(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("ellipse"))
	te.drag([2]float64{20, 20}, [2]float64{25, 24}, pointer.Modifiers{})

	assert.Empty(t, te.Elements())
	assert.False(t, te.CanUndo())
	_, creating := te.Creating()
	assert.False(t, creating)
	assert.Equal(t, state.ToolSelection, te.State().Tool, "a discarded create ends the tool like a committed one")
	assert.Equal(t, state.UsermodeIdle, te.State().Usermode)
}

func TestNegligibleShapeKeepsLockedTool(t *testing.T) {
	ov := &handler.MemoryOverlay{}
	e := New(Options{Overlay: ov, LockCurrentTool: true})
	te := &testEngine{Engine: e, t: t, overlay: ov, now: time.Unix(1000, 0)}
	require.NoError(t, te.SetTool("rect"))
	te.click(30, 30)

	assert.Empty(t, te.Elements())
	assert.Equal(t, state.ToolRect, te.State().Tool)
}

func TestFreedrawNeedsTwoPoints(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("freedraw"))
	te.click(40, 40)
	assert.Empty(t, te.Elements())

	te.tick()
	require.NoError(t, te.SetTool("freedraw"))
	te.drag([2]float64{40, 40}, [2]float64{90, 70}, pointer.Modifiers{})
	require.Len(t, te.Elements(), 1)
	assert.Equal(t, element.KindFreedraw, te.Elements()[0].Type)
}

func TestDragSelectionIsOneUndoStep(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()

	// Two moves within one gesture merge into a single step.
	require.NoError(t, te.PointerDown(PointerEvent{X: 50, Y: 50, Time: te.now}))
	require.NoError(t, te.PointerMove(PointerEvent{X: 70, Y: 60}))
	require.NoError(t, te.PointerMove(PointerEvent{X: 90, Y: 70}))
	require.NoError(t, te.PointerUp(PointerEvent{X: 90, Y: 70, Time: te.now}))

	moved, _ := te.Get(el.ID)
	assert.Equal(t, 60.0, moved.X)
	assert.Equal(t, 40.0, moved.Y)

	require.NoError(t, te.Undo())
	back, _ := te.Get(el.ID)
	assert.Equal(t, 20.0, back.X)
	assert.Equal(t, 20.0, back.Y)

	require.NoError(t, te.Undo())
	assert.Empty(t, te.Elements())
}

func TestPreciseDragSkipsGrid(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()
	te.drag([2]float64{50, 50}, [2]float64{57, 53}, pointer.Modifiers{Alt: true})

	moved, _ := te.Get(el.ID)
	assert.Equal(t, 27.0, moved.X)
	assert.Equal(t, 23.0, moved.Y)
}

func TestResizeFromCorner(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()
	te.drag([2]float64{120, 80}, [2]float64{140, 100}, pointer.Modifiers{})

	got, _ := te.Get(el.ID)
	assert.Equal(t, [4]float64{20, 20, 120, 80}, [4]float64{got.X, got.Y, got.W, got.H})
	assert.Equal(t, state.UsermodeIdle, te.State().Usermode)
}

func TestRotateAboutCenter(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()
	// The rotate handle sits above the top edge center (70, 20).
	te.drag([2]float64{70, 0}, [2]float64{170, 50}, pointer.Modifiers{})

	got, _ := te.Get(el.ID)
	assert.InDelta(t, math.Pi/2, got.Rotate, 0.01)
	assert.Equal(t, el.X, got.X)
	assert.Equal(t, el.Y, got.Y)
}

func TestBoxSelectEnclosedOnly(t *testing.T) {
	te := newTestEngine(t)
	a := te.createRect()
	require.NoError(t, te.SetTool("rect"))
	te.drag([2]float64{200, 200}, [2]float64{260, 260}, pointer.Modifiers{})
	te.tick()
	require.NoError(t, te.SetTool("rect"))
	te.drag([2]float64{400, 400}, [2]float64{500, 500}, pointer.Modifiers{})
	te.tick()
	require.Len(t, te.Elements(), 3)

	consumed, err := te.KeyDown("Escape", pointer.Modifiers{})
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Empty(t, te.layer.SelectedIDs())

	te.drag([2]float64{0, 0}, [2]float64{300, 300}, pointer.Modifiers{})
	b := te.Elements()[1]
	assert.ElementsMatch(t, []string{a.ID, b.ID}, te.layer.SelectedIDs())
	assert.Nil(t, te.State().Highlight)
}

func TestLockedElementsAreNotHit(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()
	require.NoError(t, te.Exec(action.LockSelected))
	te.UnselectAllElements()

	te.click(50, 50)
	assert.Empty(t, te.layer.SelectedIDs())

	require.NoError(t, te.Exec(action.SelectAll))
	assert.Empty(t, te.layer.SelectedIDs())

	require.NoError(t, te.Exec(action.UnlockAll))
	got, _ := te.Get(el.ID)
	assert.False(t, got.Locked)
}

func TestUndoRelockDropsSelection(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()
	require.NoError(t, te.Exec(action.LockSelected))
	require.NoError(t, te.Exec(action.UnlockAll))

	te.click(50, 50)
	te.tick()
	require.Equal(t, []string{el.ID}, te.layer.SelectedIDs())

	require.NoError(t, te.Undo())
	got, _ := te.Get(el.ID)
	require.True(t, got.Locked)
	assert.Empty(t, te.layer.SelectedIDs())

	te.drag([2]float64{50, 50}, [2]float64{150, 150}, pointer.Modifiers{Alt: true})
	got, _ = te.Get(el.ID)
	assert.Equal(t, [2]float64{20, 20}, [2]float64{got.X, got.Y}, "locked element must not move")

	// Undo the lock, then redo it: the redo path drops the selection too.
	require.NoError(t, te.Undo())
	te.SelectElements(el.ID)
	require.Equal(t, []string{el.ID}, te.layer.SelectedIDs())
	require.NoError(t, te.Redo())
	assert.Empty(t, te.layer.SelectedIDs())
}

func TestTextCreateEditAndUndo(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("text"))
	te.click(100, 100)

	id := te.EditingID()
	require.NotEmpty(t, id)
	assert.True(t, te.overlay.Mounted)
	assert.Equal(t, state.UsermodeEditing, te.State().Usermode)

	te.overlay.Type("hello")
	require.NoError(t, te.EndEditing())

	got, ok := te.Get(id)
	require.True(t, ok)
	assert.Equal(t, "hello", got.Text)
	assert.False(t, te.overlay.Mounted)
	assert.Equal(t, state.ToolSelection, te.State().Tool)

	// Creation and typing are one step.
	require.NoError(t, te.Undo())
	assert.Empty(t, te.Elements())
	assert.False(t, te.CanUndo())
}

func TestEmptyTextIsDeleted(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("text"))
	te.click(100, 100)
	te.overlay.Type("   ")

	consumed, err := te.KeyDown("Escape", pointer.Modifiers{})
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Empty(t, te.Elements())
	assert.False(t, te.CanUndo())
	assert.Equal(t, state.UsermodeIdle, te.State().Usermode)
}

func TestBlurEndsEditing(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("text"))
	te.click(100, 100)
	te.overlay.Type("hi")
	te.overlay.Blur()

	assert.Empty(t, te.EditingID())
	require.Len(t, te.Elements(), 1)
	assert.Equal(t, "hi", te.Elements()[0].Text)
}

func TestDoubleClickEditsText(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("text"))
	te.click(100, 100)
	te.overlay.Type("hi")
	require.NoError(t, te.EndEditing())
	id := te.Elements()[0].ID
	te.tick()

	te.click(105, 110)
	assert.Empty(t, te.EditingID())
	te.click(105, 110)
	assert.Equal(t, id, te.EditingID())
	assert.Equal(t, "hi", te.overlay.Text())

	// Clearing an existing text deletes it as its own undo step.
	te.overlay.Type("")
	require.NoError(t, te.EndEditing())
	assert.Empty(t, te.Elements())
	require.NoError(t, te.Undo())
	require.Len(t, te.Elements(), 1)
	assert.Equal(t, "hi", te.Elements()[0].Text)
}

func TestKeysAreIgnoredWhileEditing(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("text"))
	te.click(100, 100)

	consumed, err := te.KeyDown("Delete", pointer.Modifiers{})
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.NotEmpty(t, te.EditingID())
}

func TestDeleteKey(t *testing.T) {
	te := newTestEngine(t)
	te.createRect()

	consumed, err := te.KeyDown("Delete", pointer.Modifiers{})
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Empty(t, te.Elements())

	consumed, err = te.KeyDown("z", pointer.Modifiers{Ctrl: true})
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Len(t, te.Elements(), 1)

	consumed, err = te.KeyDown("F13", pointer.Modifiers{})
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestWheel(t *testing.T) {
	te := newTestEngine(t)

	te.Wheel(WheelEvent{DeltaX: 10, DeltaY: 5})
	vp := te.State().Viewport()
	assert.Equal(t, -10.0, vp.Scroll.X)
	assert.Equal(t, -5.0, vp.Scroll.Y)

	anchor := vp.ToVirtual(geom.XYCoords{X: 100, Y: 100})
	te.Wheel(WheelEvent{X: 100, Y: 100, DeltaY: -1, Modifiers: pointer.Modifiers{Ctrl: true}})
	vp = te.State().Viewport()
	assert.InDelta(t, 1.1, vp.Zoom, 1e-9)
	after := vp.ToVirtual(geom.XYCoords{X: 100, Y: 100})
	assert.InDelta(t, anchor.X, after.X, 1e-9)
	assert.InDelta(t, anchor.Y, after.Y, 1e-9)
}

func TestHandToolPans(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("hand"))
	te.drag([2]float64{100, 100}, [2]float64{130, 90}, pointer.Modifiers{})

	vp := te.State().Viewport()
	assert.Equal(t, 30.0, vp.Scroll.X)
	assert.Equal(t, -10.0, vp.Scroll.Y)
	assert.Equal(t, state.UsermodeIdle, te.State().Usermode)
}

func TestContextMenu(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()
	te.UnselectAllElements()

	items, err := te.OpenContextMenu(50, 50)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, action.MenuDropdown, items[0].Type)
	assert.Equal(t, []string{el.ID}, te.layer.SelectedIDs())
	require.NotNil(t, te.State().ContextMenu)

	require.NoError(t, te.Exec(action.DeleteSelected))
	assert.Nil(t, te.State().ContextMenu)
	assert.Empty(t, te.Elements())

	items, err = te.OpenContextMenu(50, 50)
	require.NoError(t, err)
	assert.Equal(t, action.SelectAll, items[0].Action)

	te.click(300, 300)
	assert.Nil(t, te.State().ContextMenu)
}

func TestSecondaryButtonOpensMenu(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.PointerDown(PointerEvent{X: 10, Y: 10, Button: ButtonSecondary}))
	assert.NotNil(t, te.State().ContextMenu)
	assert.Nil(t, te.Pointer())
}

func TestSetFill(t *testing.T) {
	te := newTestEngine(t)
	el := te.createRect()

	ok, err := te.SetFill("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, handler.DefaultFill, te.State().Fill)

	ok, err = te.SetFill("#FF0000")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#ff0000", te.State().Fill)
	got, _ := te.Get(el.ID)
	assert.Equal(t, "#ff0000", got.Fill)

	require.NoError(t, te.Undo())
	got, _ = te.Get(el.ID)
	assert.Equal(t, handler.DefaultFill, got.Fill)
}

func TestSetFontSize(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("text"))
	te.click(100, 100)
	te.overlay.Type("abc")
	require.NoError(t, te.EndEditing())
	id := te.Elements()[0].ID

	for _, bad := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		ok, err := te.SetFontSize(bad)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err := te.SetFontSize(40)
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ := te.Get(id)
	assert.Equal(t, 40.0, got.FontSize)
	w, h := handler.MeasureText("abc", 40)
	assert.Equal(t, w, got.W)
	assert.Equal(t, h, got.H)

	ok, _ = te.SetFontFamily("  ")
	assert.False(t, ok)
	ok, _ = te.SetFontFamily("serif")
	assert.True(t, ok)
	got, _ = te.Get(id)
	assert.Equal(t, "serif", got.FontFamily)
}

func TestUnknownTool(t *testing.T) {
	te := newTestEngine(t)
	assert.Error(t, te.SetTool("laser"))
	assert.Equal(t, state.ToolSelection, te.State().Tool)
}

func TestPointerCancelDropsCreation(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.SetTool("rect"))
	require.NoError(t, te.PointerDown(PointerEvent{X: 20, Y: 20}))
	require.NoError(t, te.PointerMove(PointerEvent{X: 200, Y: 200}))
	_, creating := te.Creating()
	require.True(t, creating)

	require.NoError(t, te.PointerCancel())
	_, creating = te.Creating()
	assert.False(t, creating)
	assert.Empty(t, te.Elements())
	assert.Equal(t, state.UsermodeIdle, te.State().Usermode)
}

func TestRenderJSON(t *testing.T) {
	te := newTestEngine(t)
	te.createRect()

	out, err := te.RenderJSON()
	require.NoError(t, err)
	var cmds []render.DrawCommand
	require.NoError(t, json.Unmarshal([]byte(out), &cmds))
	require.NotEmpty(t, cmds)
	assert.Equal(t, "save", cmds[0].Op)
	assert.Equal(t, "restore", cmds[len(cmds)-1].Op)

	var rects int
	for _, c := range cmds {
		if c.Op == "rect" {
			rects++
		}
	}
	// The element, the selection outline and four corner handles.
	assert.GreaterOrEqual(t, rects, 6)
}

func TestRasterize(t *testing.T) {
	te := newTestEngine(t)
	te.createRect()
	te.UnselectAllElements()

	img, err := te.Rasterize(200, 200)
	require.NoError(t, err)
	r, g, b, _ := img.At(70, 50).RGBA()
	assert.Less(t, r>>8, uint32(0x40))
	assert.Less(t, g>>8, uint32(0x40))
	assert.Less(t, b>>8, uint32(0x40))
	r, _, _, _ = img.At(190, 190).RGBA()
	assert.Greater(t, r>>8, uint32(0xc0))
}

func TestSnapshotJSON(t *testing.T) {
	te := newTestEngine(t)
	te.createRect()

	out, err := te.SnapshotJSON()
	require.NoError(t, err)
	var snap struct {
		SessionID string            `json:"sessionId"`
		Elements  []element.Element `json:"elements"`
		Selected  []string          `json:"selected"`
		CanUndo   bool              `json:"canUndo"`
		State     struct {
			Tool string  `json:"tool"`
			Zoom float64 `json:"zoom"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Elements, 1)
	assert.Len(t, snap.Selected, 1)
	assert.True(t, snap.CanUndo)
	assert.Equal(t, "selection", snap.State.Tool)
	assert.Equal(t, 1.0, snap.State.Zoom)
	assert.Equal(t, te.SessionID(), snap.SessionID)
	assert.NoError(t, typeid.Validate(snap.SessionID, typeid.PrefixSession))
}
