//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/pointer"
)

var (
	eng     *engine.Engine
	overlay *jsOverlay
)

func main() {
	opts := engine.Options{}
	// The browser has no environment, so this yields the defaults.
	if cfg, err := config.Load(); err == nil {
		opts = cfg.EngineOptions(nil)
	}
	overlay = newJSOverlay()
	opts.Overlay = overlay
	eng = engine.New(opts)
	eng.OnChange(notifyChange)

	// Create the engine API object
	whiteboard := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	whiteboard.Set("setTool", js.FuncOf(setTool))
	whiteboard.Set("resize", js.FuncOf(resize))
	whiteboard.Set("pointerDown", js.FuncOf(pointerDown))
	whiteboard.Set("pointerMove", js.FuncOf(pointerMove))
	whiteboard.Set("pointerUp", js.FuncOf(pointerUp))
	whiteboard.Set("pointerCancel", js.FuncOf(pointerCancel))
	whiteboard.Set("wheel", js.FuncOf(wheel))
	whiteboard.Set("keyDown", js.FuncOf(keyDown))
	whiteboard.Set("exec", js.FuncOf(execAction))
	whiteboard.Set("undo", js.FuncOf(undo))
	whiteboard.Set("redo", js.FuncOf(redo))
	whiteboard.Set("setFill", js.FuncOf(setFill))
	whiteboard.Set("setFontSize", js.FuncOf(setFontSize))
	whiteboard.Set("setFontFamily", js.FuncOf(setFontFamily))
	whiteboard.Set("startEditing", js.FuncOf(startEditing))
	whiteboard.Set("endEditing", js.FuncOf(endEditing))
	whiteboard.Set("openContextMenu", js.FuncOf(openContextMenu))
	whiteboard.Set("closeContextMenu", js.FuncOf(closeContextMenu))
	whiteboard.Set("overlayChange", js.FuncOf(overlayChange))
	whiteboard.Set("overlayBlur", js.FuncOf(overlayBlur))

	// --- Queries (frontend ← engine) ---
	whiteboard.Set("render", js.FuncOf(render))
	whiteboard.Set("getSnapshot", js.FuncOf(getSnapshot))
	whiteboard.Set("canUndo", js.FuncOf(canUndo))
	whiteboard.Set("canRedo", js.FuncOf(canRedo))

	// Register on global scope
	js.Global().Set("whiteboardEngine", whiteboard)

	// Signal that WASM is ready
	js.Global().Set("whiteboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func notifyChange() {
	if cb := js.Global().Get("whiteboardOnChange"); cb.Type() == js.TypeFunction {
		cb.Invoke()
	}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

// decode unmarshals a JSON string argument into v.
func decode(args []js.Value, v any) bool {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return false
	}
	return json.Unmarshal([]byte(args[0].String()), v) == nil
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("tool")
	}
	return result(eng.SetTool(args[0].String()))
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("size")
	}
	eng.Resize(args[0].Float(), args[1].Float())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	var ev engine.PointerEvent
	if !decode(args, &ev) {
		return missing("pointer event JSON")
	}
	return result(eng.PointerDown(ev))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	var ev engine.PointerEvent
	if !decode(args, &ev) {
		return missing("pointer event JSON")
	}
	return result(eng.PointerMove(ev))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	var ev engine.PointerEvent
	if !decode(args, &ev) {
		return missing("pointer event JSON")
	}
	return result(eng.PointerUp(ev))
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	return result(eng.PointerCancel())
}

func wheel(this js.Value, args []js.Value) interface{} {
	var ev engine.WheelEvent
	if !decode(args, &ev) {
		return missing("wheel event JSON")
	}
	eng.Wheel(ev)
	return nil
}

// keyDown(key, modifiersJSON) reports whether the engine consumed the key
// so the frontend can call preventDefault.
func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("key")
	}
	var mods pointer.Modifiers
	decode(args[1:], &mods)
	handled, err := eng.KeyDown(args[0].String(), mods)
	if err != nil {
		return result(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "handled": handled})
}

func execAction(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("action name")
	}
	return result(eng.Exec(args[0].String()))
}

func undo(this js.Value, args []js.Value) interface{} {
	return result(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return result(eng.Redo())
}

func applied(ok bool, err error) interface{} {
	if err != nil {
		return result(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "applied": ok})
}

func setFill(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("color")
	}
	return applied(eng.SetFill(args[0].String()))
}

func setFontSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeNumber {
		return applied(false, nil)
	}
	return applied(eng.SetFontSize(args[0].Float()))
}

func setFontFamily(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("font family")
	}
	return applied(eng.SetFontFamily(args[0].String()))
}

func startEditing(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("element id")
	}
	return result(eng.StartEditing(args[0].String()))
}

func endEditing(this js.Value, args []js.Value) interface{} {
	return result(eng.EndEditing())
}

func openContextMenu(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("position")
	}
	items, err := eng.OpenContextMenu(args[0].Float(), args[1].Float())
	if err != nil {
		return result(err)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return result(err)
	}
	return js.ValueOf(string(data))
}

func closeContextMenu(this js.Value, args []js.Value) interface{} {
	eng.CloseContextMenu()
	return nil
}

func overlayChange(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	overlay.changed(args[0].String())
	return nil
}

func overlayBlur(this js.Value, args []js.Value) interface{} {
	overlay.blurred()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	out, err := eng.RenderJSON()
	if err != nil {
		return result(err)
	}
	return js.ValueOf(out)
}

func getSnapshot(this js.Value, args []js.Value) interface{} {
	out, err := eng.SnapshotJSON()
	if err != nil {
		return result(err)
	}
	return js.ValueOf(out)
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanRedo())
}
