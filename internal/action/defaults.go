package action

import (
	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/state"
	"github.com/inamate/whiteboard/internal/viewport"
)

const (
	DeleteSelected = "delete-selected"
	SelectAll      = "select-all"
	UnselectAll    = "unselect-all"
	ZoomIn         = "zoom-in"
	ZoomOut        = "zoom-out"
	ZoomReset      = "zoom-reset"
	Undo           = "undo"
	Redo           = "redo"
	LockSelected   = "lock-selected"
	UnlockAll      = "unlock-all"
	BringForward   = "bring-forward"
	SendBackward   = "send-backward"
	BringToFront   = "bring-to-front"
	SendToBack     = "send-to-back"
	ToggleGrid     = "toggle-grid"
	ToggleLockTool = "toggle-lock-tool"
)

func ids(els []element.Element) []string {
	return lo.Map(els, func(el element.Element, _ int) string { return el.ID })
}

func reorder(fn func(order []string, selected map[string]bool) []string) func(AppData) error {
	return func(d AppData) error {
		selected := lo.SliceToMap(ids(d.SelectedElements()), func(id string) (string, bool) {
			return id, true
		})
		if len(selected) == 0 {
			return nil
		}
		return d.ReorderElements(fn(ids(d.Elements()), selected))
	}
}

// Defaults returns a registry with the built-in actions.
func Defaults() *Registry {
	r := NewRegistry()
	for _, a := range []Action{
		{
			Name: DeleteSelected, Label: "Delete", Keys: []string{"Delete", "Backspace"},
			Exec: func(d AppData) error { return d.DeleteElements(ids(d.SelectedElements())...) },
		},
		{
			Name: SelectAll, Label: "Select all", Keys: []string{"Mod+A"},
			Exec: func(d AppData) error {
				unlocked := lo.Filter(d.Elements(), func(el element.Element, _ int) bool { return !el.Locked })
				d.SelectElements(ids(unlocked)...)
				return nil
			},
		},
		{
			Name: UnselectAll, Label: "Unselect all",
			Exec: func(d AppData) error {
				d.UnselectAllElements()
				return nil
			},
		},
		{
			Name: ZoomIn, Label: "Zoom in", Keys: []string{"Mod+=", "Mod++"},
			Exec: func(d AppData) error {
				d.SetState(func(s *state.AppState) { s.ZoomAt(s.Viewport().Zoom*viewport.ZoomStep, s.Center()) })
				return nil
			},
		},
		{
			Name: ZoomOut, Label: "Zoom out", Keys: []string{"Mod+-"},
			Exec: func(d AppData) error {
				d.SetState(func(s *state.AppState) { s.ZoomAt(s.Viewport().Zoom/viewport.ZoomStep, s.Center()) })
				return nil
			},
		},
		{
			Name: ZoomReset, Label: "Reset zoom", Keys: []string{"Mod+0"},
			Exec: func(d AppData) error {
				d.SetState(func(s *state.AppState) { s.ZoomAt(1, s.Center()) })
				return nil
			},
		},
		{
			Name: Undo, Label: "Undo", Keys: []string{"Mod+Z"},
			Exec: func(d AppData) error { return d.Undo() },
		},
		{
			Name: Redo, Label: "Redo", Keys: []string{"Mod+Shift+Z", "Mod+Y"},
			Exec: func(d AppData) error { return d.Redo() },
		},
		{
			Name: LockSelected, Label: "Lock", Keys: []string{"Mod+Shift+L"},
			Exec: func(d AppData) error {
				selected := ids(d.SelectedElements())
				d.UnselectAllElements()
				return d.SetLocked(true, selected...)
			},
		},
		{
			Name: UnlockAll, Label: "Unlock all",
			Exec: func(d AppData) error {
				locked := lo.Filter(d.Elements(), func(el element.Element, _ int) bool { return el.Locked })
				return d.SetLocked(false, ids(locked)...)
			},
		},
		{Name: BringForward, Label: "Bring forward", Keys: []string{"Mod+]"}, Exec: reorder(bringForward)},
		{Name: SendBackward, Label: "Send backward", Keys: []string{"Mod+["}, Exec: reorder(sendBackward)},
		{Name: BringToFront, Label: "Bring to front", Keys: []string{"Mod+Shift+]"}, Exec: reorder(bringToFront)},
		{Name: SendToBack, Label: "Send to back", Keys: []string{"Mod+Shift+["}, Exec: reorder(sendToBack)},
		{
			Name: ToggleGrid, Label: "Toggle grid", Keys: []string{"Mod+'"},
			Exec: func(d AppData) error {
				d.SetState(func(s *state.AppState) { s.Grid.Visible = !s.Grid.Visible })
				return nil
			},
		},
		{
			Name: ToggleLockTool, Label: "Keep tool active", Keys: []string{"Q"},
			Exec: func(d AppData) error {
				d.SetState(func(s *state.AppState) { s.LockCurrentTool = !s.LockCurrentTool })
				return nil
			},
		},
	} {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}

// bringForward moves each selected element above its next unselected
// neighbour.
func bringForward(order []string, selected map[string]bool) []string {
	out := append([]string(nil), order...)
	for i := len(out) - 2; i >= 0; i-- {
		if selected[out[i]] && !selected[out[i+1]] {
			out[i], out[i+1] = out[i+1], out[i]
		}
	}
	return out
}

func sendBackward(order []string, selected map[string]bool) []string {
	out := append([]string(nil), order...)
	for i := 1; i < len(out); i++ {
		if selected[out[i]] && !selected[out[i-1]] {
			out[i], out[i-1] = out[i-1], out[i]
		}
	}
	return out
}

func bringToFront(order []string, selected map[string]bool) []string {
	rest, top := lo.FilterReject(order, func(id string, _ int) bool { return !selected[id] })
	return append(rest, top...)
}

func sendToBack(order []string, selected map[string]bool) []string {
	bottom, rest := lo.FilterReject(order, func(id string, _ int) bool { return selected[id] })
	return append(bottom, rest...)
}
