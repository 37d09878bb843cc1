package engine

import (
	"github.com/inamate/whiteboard/internal/action"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/hittest"
	"github.com/inamate/whiteboard/internal/pointer"
	"github.com/inamate/whiteboard/internal/state"
)

// KeyDown handles a key press and reports whether it was consumed. Escape
// ends text editing, cancels a gesture or clears the selection. While text
// is being edited other keys belong to the overlay.
func (e *Engine) KeyDown(key string, mods pointer.Modifiers) (bool, error) {
	if key == "Escape" {
		switch {
		case e.layer.EditingID() != "":
			return true, e.EndEditing()
		case e.pointer != nil:
			return true, e.PointerCancel()
		default:
			e.CloseContextMenu()
			e.layer.UnselectAll()
			return true, nil
		}
	}
	if e.layer.EditingID() != "" {
		return false, nil
	}

	a, ok := e.actions.ForKey(action.KeyCombo(key, mods))
	if !ok {
		return false, nil
	}
	return true, e.Exec(a.Name)
}

// OpenContextMenu hit-tests the screen point, selects what was hit if it
// was not already selected, and returns the menu items for it.
func (e *Engine) OpenContextMenu(x, y float64) ([]action.MenuItem, error) {
	if err := e.settle(); err != nil {
		return nil, err
	}
	screen := geom.XYCoords{X: x, Y: y}
	hit, err := hittest.Test(screen, e.view(), e.layer, e.handlers)
	if err != nil {
		return nil, err
	}
	if hit.ElementID != "" && !e.layer.IsSelected(hit.ElementID) {
		e.layer.UnselectAll()
		e.layer.Select(hit.ElementID)
	}
	e.store.Update(func(s *state.AppState) {
		s.ContextMenu = &state.ContextMenu{Position: screen, Target: hit}
	})
	return e.actions.ContextMenu(hit), nil
}

// CloseContextMenu closes an open context menu.
func (e *Engine) CloseContextMenu() {
	if e.store.Get().ContextMenu == nil {
		return
	}
	e.store.Update(func(s *state.AppState) { s.ContextMenu = nil })
}
