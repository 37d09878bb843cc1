package engine

import (
	"fmt"
	"slices"

	"github.com/inamate/whiteboard/internal/action"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/oplog"
	"github.com/inamate/whiteboard/internal/pointer"
	"github.com/inamate/whiteboard/internal/state"
)

var _ action.AppData = (*Engine)(nil)

// State returns a copy of the app state.
func (e *Engine) State() state.AppState {
	return e.store.Get()
}

// SetState mutates the app state. The edit overlay follows viewport
// changes.
func (e *Engine) SetState(fn func(*state.AppState)) {
	e.store.Update(fn)
	e.syncOverlay()
}

// Elements returns the committed elements in z-order.
func (e *Engine) Elements() []element.Element {
	return e.layer.All()
}

// SelectedElements returns the selected elements in z-order.
func (e *Engine) SelectedElements() []element.Element {
	return e.layer.Selected()
}

// Pointer returns the active gesture, or nil.
func (e *Engine) Pointer() *pointer.CanvasPointer {
	return e.pointer
}

// SelectElements adds unlocked elements to the selection.
func (e *Engine) SelectElements(ids ...string) {
	e.layer.Select(ids...)
}

// UnselectAllElements clears the selection.
func (e *Engine) UnselectAllElements() {
	e.layer.UnselectAll()
}

// DeleteElements removes elements as one undo step.
func (e *Engine) DeleteElements(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return e.record("delete", func() error {
		for _, id := range ids {
			removed, index, err := e.layer.Delete(id)
			if err != nil {
				return err
			}
			e.log.Push(oplog.Delete(removed, index))
		}
		return nil
	})
}

// SetLocked locks or unlocks elements as one undo step. Elements already
// in the requested state are skipped.
func (e *Engine) SetLocked(locked bool, ids ...string) error {
	return e.record("lock", func() error {
		for _, id := range ids {
			el, ok := e.layer.Get(id)
			if !ok {
				return fmt.Errorf("lock %s: %w", id, errs.ErrElementNotFound)
			}
			if el.Locked == locked {
				continue
			}
			if _, err := e.layer.Mutate(id, element.Patch{Locked: &locked}); err != nil {
				return err
			}
			if locked {
				e.log.Push(oplog.Lock(id))
			} else {
				e.log.Push(oplog.Unlock(id))
			}
		}
		return nil
	})
}

// ReorderElements replaces the z-order.
func (e *Engine) ReorderElements(order []string) error {
	before := e.layer.Order()
	if slices.Equal(before, order) {
		return nil
	}
	if err := e.layer.SetOrder(order); err != nil {
		return err
	}
	e.log.Push(oplog.Order(before, order))
	return nil
}

// Undo reverts the last step. Any gesture or text edit in progress is
// finished first.
func (e *Engine) Undo() error {
	if err := e.settle(); err != nil {
		return err
	}
	_, err := e.log.Undo(e.layer)
	return err
}

// Redo re-applies the last undone step.
func (e *Engine) Redo() error {
	if err := e.settle(); err != nil {
		return err
	}
	_, err := e.log.Redo(e.layer)
	return err
}

// settle finishes whatever interaction is in progress.
func (e *Engine) settle() error {
	if e.pointer != nil {
		if err := e.PointerCancel(); err != nil {
			return err
		}
	}
	return e.EndEditing()
}

// record runs fn inside a named batch so it becomes one undo step. Inside
// an already open batch fn simply joins it.
func (e *Engine) record(name string, fn func() error) error {
	if e.log.InBatch() {
		return fn()
	}
	e.log.StartBatch(name)
	err := fn()
	e.log.CompleteBatch()
	return err
}

// mutate applies patch through the layer and records the exact rounded
// change.
func (e *Engine) mutate(id string, patch element.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	before, err := e.layer.Mutate(id, patch)
	if err != nil {
		return err
	}
	el, _ := e.layer.Get(id)
	e.log.Push(oplog.Mutate(id, before, patch.Capture(el)))
	return nil
}
