package action

import (
	"github.com/inamate/whiteboard/internal/hittest"
)

// MenuItemType tags a MenuItem.
type MenuItemType string

const (
	MenuButton    MenuItemType = "button"
	MenuDropdown  MenuItemType = "dropdown"
	MenuSeparator MenuItemType = "separator"
)

// MenuItem describes one context menu entry. Buttons carry an action name,
// dropdowns carry nested items.
type MenuItem struct {
	Type   MenuItemType `json:"type"`
	Label  string       `json:"label,omitempty"`
	Action string       `json:"action,omitempty"`
	Items  []MenuItem   `json:"items,omitempty"`
}

func (r *Registry) button(name string) MenuItem {
	a, _ := r.Get(name)
	return MenuItem{Type: MenuButton, Label: a.Label, Action: name}
}

var separator = MenuItem{Type: MenuSeparator}

// ContextMenu lists the contextual actions for what was hit.
func (r *Registry) ContextMenu(target hittest.Result) []MenuItem {
	if target.Kind == hittest.KindNone {
		return []MenuItem{
			r.button(SelectAll),
			r.button(ToggleGrid),
			separator,
			r.button(ZoomReset),
			r.button(UnlockAll),
		}
	}
	return []MenuItem{
		{
			Type:  MenuDropdown,
			Label: "Order",
			Items: []MenuItem{
				r.button(BringToFront),
				r.button(BringForward),
				r.button(SendBackward),
				r.button(SendToBack),
			},
		},
		separator,
		r.button(LockSelected),
		r.button(DeleteSelected),
	}
}
