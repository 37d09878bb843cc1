package layer

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
)

func rect(id string, x float64) element.Element {
	return element.Element{ID: id, Type: element.KindShape, Shape: element.ShapeRect, X: x, W: 10, H: 10}
}

func newCountingLayer() (*Layer, *int) {
	l := New()
	calls := 0
	l.OnChange(func() { calls++ })
	return l, &calls
}

func TestAddInsertOrder(t *testing.T) {
	l, calls := newCountingLayer()
	l.Add(rect("a", 0))
	l.Add(rect("b", 0))
	l.Insert(rect("c", 0), 0)

	assert.Equal(t, []string{"c", "a", "b"}, l.Order())
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 1, l.IndexOf("a"))
	assert.Equal(t, -1, l.IndexOf("zzz"))
}

func TestDeleteRemovesFromSelectionAtomically(t *testing.T) {
	l, calls := newCountingLayer()
	l.Add(rect("a", 0))
	l.Add(rect("b", 20))
	l.Select("a", "b")
	*calls = 0

	removed, index, err := l.Delete("a")
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.True(t, removed.Deleted)
	assert.False(t, l.IsSelected("a"))
	assert.Equal(t, []string{"b"}, l.SelectedIDs())
	assert.Equal(t, 1, *calls, "delete must notify exactly once")

	_, _, err = l.Delete("a")
	assert.ErrorIs(t, err, errs.ErrElementNotFound)
}

func TestMutateReturnsBefore(t *testing.T) {
	l, calls := newCountingLayer()
	l.Add(rect("a", 1.234))
	*calls = 0

	before, err := l.Mutate("a", element.Patch{X: lo.ToPtr(50.0)})
	require.NoError(t, err)
	require.NotNil(t, before.X)
	assert.Equal(t, 1.23, *before.X)
	assert.Nil(t, before.Y)

	el, ok := l.Get("a")
	require.True(t, ok)
	assert.Equal(t, 50.0, el.X)
	assert.Equal(t, 1, *calls)

	_, err = l.Mutate("missing", element.Patch{})
	assert.ErrorIs(t, err, errs.ErrElementNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	l := New()
	l.Add(rect("a", 0))

	el, _ := l.Get("a")
	el.X = 999

	again, _ := l.Get("a")
	assert.Equal(t, 0.0, again.X)
}

func TestSelectionIsNoOpSafe(t *testing.T) {
	l, calls := newCountingLayer()
	l.Add(rect("a", 0))
	l.Add(rect("b", 0))
	*calls = 0

	l.Select("b", "a", "ghost")
	l.Select("a")
	l.Unselect("ghost")
	assert.Equal(t, 1, *calls)
	assert.Equal(t, []string{"a", "b"}, l.SelectedIDs(), "selection is reported in z-order")

	l.UnselectAll()
	l.UnselectAll()
	assert.Equal(t, 2, *calls)
	assert.False(t, l.HasSelection())
}

func TestSetOrder(t *testing.T) {
	l := New()
	l.Add(rect("a", 0))
	l.Add(rect("b", 0))

	require.NoError(t, l.SetOrder([]string{"b", "a"}))
	assert.Equal(t, []string{"b", "a"}, l.Order())

	assert.ErrorIs(t, l.SetOrder([]string{"a"}), errs.ErrImpossibleState)
	assert.ErrorIs(t, l.SetOrder([]string{"a", "a"}), errs.ErrImpossibleState)
	assert.ErrorIs(t, l.SetOrder([]string{"a", "x"}), errs.ErrElementNotFound)
}

func TestTransientCreate(t *testing.T) {
	l := New()
	l.BeginCreate(rect("new", 0))

	assert.Empty(t, l.All())
	_, err := l.Mutate("new", element.Patch{W: lo.ToPtr(40.0)})
	require.NoError(t, err)

	creating, ok := l.Creating()
	require.True(t, ok)
	assert.Equal(t, 40.0, creating.W)

	committed, err := l.CommitCreate()
	require.NoError(t, err)
	assert.Equal(t, "new", committed.ID)
	assert.Equal(t, []string{"new"}, l.Order())

	_, ok = l.Creating()
	assert.False(t, ok)

	_, err = l.CommitCreate()
	assert.ErrorIs(t, err, errs.ErrImpossibleState)
}

func TestDiscardCreate(t *testing.T) {
	l := New()
	l.BeginCreate(rect("tiny", 0))
	l.DiscardCreate()

	_, ok := l.Get("tiny")
	assert.False(t, ok)
	assert.Zero(t, l.Len())
}

func TestLockedElementsLeaveSelection(t *testing.T) {
	l := New()
	l.Add(rect("a", 0))
	l.Add(rect("b", 20))
	l.Select("a", "b")

	_, err := l.Mutate("a", element.Patch{Locked: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, l.SelectedIDs())

	l.Select("a")
	assert.False(t, l.IsSelected("a"), "locked elements cannot be selected")

	_, err = l.Mutate("a", element.Patch{Locked: lo.ToPtr(false)})
	require.NoError(t, err)
	l.Select("a")
	assert.Equal(t, []string{"a", "b"}, l.SelectedIDs())
}
