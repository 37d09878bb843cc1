package layer

import (
	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
)

// Select adds ids to the selection. Unknown and locked ids are ignored.
func (l *Layer) Select(ids ...string) {
	changed := false
	for _, id := range ids {
		if el, ok := l.elements[id]; !ok || el.Locked {
			continue
		}
		if _, ok := l.selected[id]; ok {
			continue
		}
		l.selected[id] = struct{}{}
		changed = true
	}
	if changed {
		l.notify()
	}
}

// Unselect removes ids from the selection.
func (l *Layer) Unselect(ids ...string) {
	changed := false
	for _, id := range ids {
		if _, ok := l.selected[id]; ok {
			delete(l.selected, id)
			changed = true
		}
	}
	if changed {
		l.notify()
	}
}

// UnselectAll clears the selection.
func (l *Layer) UnselectAll() {
	if len(l.selected) == 0 {
		return
	}
	clear(l.selected)
	l.notify()
}

// IsSelected reports selection membership.
func (l *Layer) IsSelected(id string) bool {
	_, ok := l.selected[id]
	return ok
}

// SelectedIDs returns the selected ids in z-order.
func (l *Layer) SelectedIDs() []string {
	return lo.Filter(l.order, func(id string, _ int) bool {
		return l.IsSelected(id)
	})
}

// Selected returns copies of the selected elements in z-order.
func (l *Layer) Selected() []element.Element {
	return lo.Map(l.SelectedIDs(), func(id string, _ int) element.Element {
		return l.elements[id].Clone()
	})
}

// HasSelection reports whether anything is selected.
func (l *Layer) HasSelection() bool {
	return len(l.selected) > 0
}
