package layer

import (
	"fmt"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
)

// BeginCreate installs el as the element being created. It is visible to
// Get, Mutate and Creating but not to All, hit-testing or the selection.
func (l *Layer) BeginCreate(el element.Element) {
	el = el.Clone()
	el.Round()
	l.creating = &el
	l.notify()
}

// Creating returns the element being created, if any.
func (l *Layer) Creating() (element.Element, bool) {
	if l.creating == nil {
		return element.Element{}, false
	}
	return l.creating.Clone(), true
}

// CommitCreate moves the element being created on top of the z-order.
func (l *Layer) CommitCreate() (element.Element, error) {
	if l.creating == nil {
		return element.Element{}, fmt.Errorf("commit create: %w: nothing is being created", errs.ErrImpossibleState)
	}
	el := *l.creating
	l.creating = nil
	l.Add(el)
	return el.Clone(), nil
}

// DiscardCreate drops the element being created without committing it.
func (l *Layer) DiscardCreate() {
	if l.creating == nil {
		return
	}
	l.creating = nil
	l.notify()
}

// SetEditing marks id as the text element being edited. An empty id ends
// editing.
func (l *Layer) SetEditing(id string) {
	if l.editingID == id {
		return
	}
	l.editingID = id
	l.notify()
}

// EditingID returns the id of the element being edited, or "".
func (l *Layer) EditingID() string {
	return l.editingID
}
