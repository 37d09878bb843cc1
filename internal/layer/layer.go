// Package layer is the scene store: it owns every element by value, keeps
// the z-order and the selection set, and fires a single change notification
// after each completed mutation.
package layer

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
)

// Layer holds the elements of one canvas. It is not safe for concurrent use;
// the engine drives it from a single event loop.
type Layer struct {
	order    []string                    // z-order, back to front
	elements map[string]*element.Element // id -> owned element
	selected map[string]struct{}

	// creating is the element of an in-progress create gesture. It renders
	// but is not part of order until committed.
	creating  *element.Element
	editingID string

	onChange func()
}

// New creates an empty layer.
func New() *Layer {
	return &Layer{
		elements: make(map[string]*element.Element),
		selected: make(map[string]struct{}),
	}
}

// OnChange registers the change callback, replacing any previous one.
func (l *Layer) OnChange(fn func()) {
	l.onChange = fn
}

func (l *Layer) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Add appends el on top of the z-order.
func (l *Layer) Add(el element.Element) {
	l.Insert(el, len(l.order))
}

// Insert places el at index in the z-order. Out-of-range indexes append.
func (l *Layer) Insert(el element.Element, index int) {
	el = el.Clone()
	el.Deleted = false
	el.Round()

	if _, exists := l.elements[el.ID]; exists {
		l.order = lo.Without(l.order, el.ID)
	}
	if index < 0 || index > len(l.order) {
		index = len(l.order)
	}
	l.order = slices.Insert(l.order, index, el.ID)
	l.elements[el.ID] = &el
	l.notify()
}

// Delete removes an element from the z-order and the selection set in one
// step. It returns the removed element (marked deleted) and its former index.
func (l *Layer) Delete(id string) (element.Element, int, error) {
	el, ok := l.elements[id]
	if !ok {
		return element.Element{}, -1, fmt.Errorf("delete %s: %w", id, errs.ErrElementNotFound)
	}

	index := slices.Index(l.order, id)
	l.order = slices.Delete(l.order, index, index+1)
	delete(l.elements, id)
	delete(l.selected, id)
	if l.editingID == id {
		l.editingID = ""
	}

	removed := el.Clone()
	removed.Deleted = true
	l.notify()
	return removed, index, nil
}

// Get returns a copy of the element with the given id. The transient
// element being created is included.
func (l *Layer) Get(id string) (element.Element, bool) {
	if el, ok := l.lookup(id); ok {
		return el.Clone(), true
	}
	return element.Element{}, false
}

func (l *Layer) lookup(id string) (*element.Element, bool) {
	if l.creating != nil && l.creating.ID == id {
		return l.creating, true
	}
	el, ok := l.elements[id]
	return el, ok
}

// Mutate applies the defined fields of patch and re-rounds the element. It
// returns the previous values of the patched fields. Locking an element
// drops it from the selection.
func (l *Layer) Mutate(id string, patch element.Patch) (element.Patch, error) {
	el, ok := l.lookup(id)
	if !ok {
		return element.Patch{}, fmt.Errorf("mutate %s: %w", id, errs.ErrElementNotFound)
	}

	before := patch.Capture(*el)
	patch.ApplyTo(el)
	if el.Locked {
		delete(l.selected, id)
	}
	l.notify()
	return before, nil
}

// All returns copies of the committed elements in z-order.
func (l *Layer) All() []element.Element {
	return lo.Map(l.order, func(id string, _ int) element.Element {
		return l.elements[id].Clone()
	})
}

// Len returns the number of committed elements.
func (l *Layer) Len() int {
	return len(l.order)
}

// Order returns the z-order as ids, back to front.
func (l *Layer) Order() []string {
	return slices.Clone(l.order)
}

// IndexOf returns the z-index of id, or -1.
func (l *Layer) IndexOf(id string) int {
	return slices.Index(l.order, id)
}

// SetOrder replaces the z-order. ids must be a permutation of the current
// order.
func (l *Layer) SetOrder(ids []string) error {
	if len(ids) != len(l.order) {
		return fmt.Errorf("set order: %w: got %d ids for %d elements", errs.ErrImpossibleState, len(ids), len(l.order))
	}
	for _, id := range ids {
		if _, ok := l.elements[id]; !ok {
			return fmt.Errorf("set order %s: %w", id, errs.ErrElementNotFound)
		}
	}
	if len(lo.Uniq(ids)) != len(ids) {
		return fmt.Errorf("set order: %w: duplicate ids", errs.ErrImpossibleState)
	}

	l.order = slices.Clone(ids)
	l.notify()
	return nil
}
