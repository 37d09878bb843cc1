package engine

import (
	"fmt"
	"strings"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/oplog"
	"github.com/inamate/whiteboard/internal/state"
)

// StartEditing enters editing for an existing text element.
func (e *Engine) StartEditing(id string) error {
	if err := e.settle(); err != nil {
		return err
	}
	return e.startEditing(id, false)
}

func (e *Engine) editOnDoubleClick(id string) error {
	el, ok := e.layer.Get(id)
	if !ok || el.Type != element.KindText || el.Locked {
		return nil
	}
	return e.startEditing(id, false)
}

func (e *Engine) editor(id string) (element.Element, handler.Editor, error) {
	el, ok := e.layer.Get(id)
	if !ok {
		return element.Element{}, nil, fmt.Errorf("edit %s: %w", id, errs.ErrElementNotFound)
	}
	h, err := e.handlers.For(el)
	if err != nil {
		return element.Element{}, nil, err
	}
	ed, ok := h.(handler.Editor)
	if !ok {
		return element.Element{}, nil, fmt.Errorf("edit %s: %s elements are not editable: %w", id, el.Type, errs.ErrImpossibleState)
	}
	return el, ed, nil
}

// startEditing mounts the overlay on id. A new element keeps its create
// batch open so creation and typing undo together.
func (e *Engine) startEditing(id string, isNew bool) error {
	el, ed, err := e.editor(id)
	if err != nil {
		return err
	}
	if !isNew {
		e.log.StartBatch("edit")
	}
	e.editingNew = isNew
	e.layer.SetEditing(id)
	e.setMode(state.UsermodeEditing)
	ed.OnEditStart(el, e.view(), e.overlay)
	return nil
}

func (e *Engine) onOverlayChange(text string) {
	id := e.layer.EditingID()
	if id == "" {
		return
	}
	if err := e.setEditingText(id, text); err != nil {
		e.logger.Error("applying typed text", "id", id, "error", err)
	}
}

func (e *Engine) onOverlayBlur() {
	if err := e.EndEditing(); err != nil {
		e.logger.Error("ending text edit", "error", err)
	}
}

func (e *Engine) setEditingText(id, text string) error {
	el, ed, err := e.editor(id)
	if err != nil {
		return err
	}
	if el.Text == text {
		return nil
	}
	if err := e.mutate(id, handler.TextPatch(el, text)); err != nil {
		return err
	}
	el, _ = e.layer.Get(id)
	ed.OnEditViewStateChange(el, e.view(), e.overlay)
	return nil
}

// syncOverlay repositions the overlay after a viewport change.
func (e *Engine) syncOverlay() {
	id := e.layer.EditingID()
	if id == "" {
		return
	}
	el, ed, err := e.editor(id)
	if err != nil {
		return
	}
	ed.OnEditViewStateChange(el, e.view(), e.overlay)
}

// EndEditing commits the text being edited. Text left empty or
// whitespace-only deletes the element; a just-created element then leaves
// no trace in the history.
func (e *Engine) EndEditing() error {
	id := e.layer.EditingID()
	if id == "" {
		return nil
	}
	el, ed, err := e.editor(id)
	if err != nil {
		return err
	}
	// Clear editing first: unmounting may fire the overlay's blur callback.
	e.layer.SetEditing("")
	isNew := e.editingNew
	e.editingNew = false

	text := ed.OnEditEnd(el, e.overlay)
	if err := e.setEditingText(id, text); err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		removed, index, err := e.layer.Delete(id)
		if err != nil {
			return err
		}
		if isNew {
			e.log.CancelBatch()
		} else {
			e.log.Push(oplog.Delete(removed, index))
			e.log.CompleteBatch()
		}
	} else {
		e.log.CompleteBatch()
	}

	if isNew {
		e.finishTool()
	} else {
		e.setMode(state.UsermodeIdle)
	}
	return nil
}
