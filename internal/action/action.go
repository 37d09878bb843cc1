// Package action is the command registry external callers (keyboard
// bindings, menus, toolbars) use to drive the editor. Every action runs
// against an AppData, the accessor bundle the engine exposes.
package action

import (
	"fmt"
	"sort"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/pointer"
	"github.com/inamate/whiteboard/internal/state"
)

// Commands are the history-recorded element commands available to actions.
type Commands interface {
	SelectElements(ids ...string)
	UnselectAllElements()
	DeleteElements(ids ...string) error
	SetLocked(locked bool, ids ...string) error
	ReorderElements(order []string) error
	Undo() error
	Redo() error
}

// AppData is what an action can see and change.
type AppData interface {
	State() state.AppState
	SetState(fn func(*state.AppState))
	Elements() []element.Element
	SelectedElements() []element.Element
	// Pointer is the active gesture, or nil.
	Pointer() *pointer.CanvasPointer
	Commands
}

// Action is a named command.
type Action struct {
	Name  string
	Label string
	// Keys are the default bindings, e.g. "Mod+Z".
	Keys []string
	Exec func(AppData) error
}

// Registry holds actions and their key bindings.
type Registry struct {
	actions  map[string]Action
	bindings map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		actions:  make(map[string]Action),
		bindings: make(map[string]string),
	}
}

// Register adds a and binds its default keys. Invalid key strings are
// skipped.
func (r *Registry) Register(a Action) error {
	if _, ok := r.actions[a.Name]; ok {
		return fmt.Errorf("register %q: %w", a.Name, errs.ErrDuplicateAction)
	}
	r.actions[a.Name] = a
	for _, k := range a.Keys {
		r.Bind(a.Name, k)
	}
	return nil
}

// Bind maps key to the named action. It reports false, changing nothing,
// when the action is unknown or the key string is invalid.
func (r *Registry) Bind(name, key string) bool {
	if _, ok := r.actions[name]; !ok {
		return false
	}
	combo, err := ParseKey(key)
	if err != nil {
		return false
	}
	r.bindings[combo] = name
	return true
}

// Get returns the named action.
func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names lists registered actions alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForKey returns the action bound to a normalized key combo.
func (r *Registry) ForKey(combo string) (Action, bool) {
	name, ok := r.bindings[combo]
	if !ok {
		return Action{}, false
	}
	return r.Get(name)
}

// Exec runs the named action.
func (r *Registry) Exec(name string, data AppData) error {
	a, ok := r.actions[name]
	if !ok {
		return fmt.Errorf("exec %q: %w", name, errs.ErrUnknownAction)
	}
	if err := a.Exec(data); err != nil {
		return fmt.Errorf("exec %q: %w", name, err)
	}
	return nil
}

// KeyCombo builds the normalized combo for a key press.
func KeyCombo(key string, mods pointer.Modifiers) string {
	combo, err := ParseKey(key)
	if err != nil {
		return ""
	}
	prefix := ""
	if mods.Ctrl || mods.Meta {
		prefix += "Mod+"
	}
	if mods.Alt {
		prefix += "Alt+"
	}
	if mods.Shift {
		prefix += "Shift+"
	}
	return prefix + combo
}
