package handler

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/viewport"
)

// OverlayStyle positions and styles the text overlay in screen space.
type OverlayStyle struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Rotate     float64 `json:"rotate"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Color      string  `json:"color"`
}

// TextOverlay is the host-provided text input used while editing a text
// element.
type TextOverlay interface {
	Mount()
	Unmount()
	Text() string
	SetText(text string)
	Sync(style OverlayStyle)
	OnChange(fn func(text string))
	OnBlur(fn func())
}

// StyleFor computes the overlay style of el under vp.
func StyleFor(el element.Element, vp viewport.Transform) OverlayStyle {
	pos := vp.ToScreen(el.Box().Center())
	w, h := el.W*vp.Zoom, el.H*vp.Zoom
	return OverlayStyle{
		X:          pos.X - w/2,
		Y:          pos.Y - h/2,
		W:          w,
		H:          h,
		Rotate:     el.Rotate,
		FontSize:   el.FontSize * vp.Zoom,
		FontFamily: el.FontFamily,
		Color:      el.Fill,
	}
}

// MemoryOverlay is a TextOverlay without a host, for headless engines.
type MemoryOverlay struct {
	Mounted bool
	Style   OverlayStyle

	text     string
	onChange func(string)
	onBlur   func()
}

func (o *MemoryOverlay) Mount()                   { o.Mounted = true }
func (o *MemoryOverlay) Unmount()                 { o.Mounted = false }
func (o *MemoryOverlay) Text() string             { return o.text }
func (o *MemoryOverlay) SetText(text string)      { o.text = text }
func (o *MemoryOverlay) Sync(style OverlayStyle)  { o.Style = style }
func (o *MemoryOverlay) OnChange(fn func(string)) { o.onChange = fn }
func (o *MemoryOverlay) OnBlur(fn func())         { o.onBlur = fn }

// Type simulates the user typing: it replaces the text and fires the
// change callback.
func (o *MemoryOverlay) Type(text string) {
	o.text = text
	if o.onChange != nil {
		o.onChange(text)
	}
}

// Blur fires the blur callback.
func (o *MemoryOverlay) Blur() {
	if o.onBlur != nil {
		o.onBlur()
	}
}
