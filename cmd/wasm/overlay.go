//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/handler"
)

// jsOverlay drives the frontend's text input through the global
// whiteboardOverlay object. The frontend reports typing and blur back via
// whiteboardEngine.overlayChange and overlayBlur.
type jsOverlay struct {
	text     string
	onChange func(string)
	onBlur   func()
}

func newJSOverlay() *jsOverlay {
	return &jsOverlay{}
}

func (o *jsOverlay) call(method string, args ...any) {
	host := js.Global().Get("whiteboardOverlay")
	if host.Type() != js.TypeObject {
		return
	}
	if host.Get(method).Type() == js.TypeFunction {
		host.Call(method, args...)
	}
}

func (o *jsOverlay) Mount()       { o.call("mount") }
func (o *jsOverlay) Unmount()     { o.call("unmount") }
func (o *jsOverlay) Text() string { return o.text }

func (o *jsOverlay) SetText(text string) {
	o.text = text
	o.call("setText", text)
}

func (o *jsOverlay) Sync(style handler.OverlayStyle) {
	data, err := json.Marshal(style)
	if err != nil {
		return
	}
	o.call("sync", string(data))
}

func (o *jsOverlay) OnChange(fn func(string)) { o.onChange = fn }
func (o *jsOverlay) OnBlur(fn func())         { o.onBlur = fn }

func (o *jsOverlay) changed(text string) {
	o.text = text
	if o.onChange != nil {
		o.onChange(text)
	}
}

func (o *jsOverlay) blurred() {
	if o.onBlur != nil {
		o.onBlur()
	}
}
