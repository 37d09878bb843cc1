package handler

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/viewport"
)

const (
	DefaultFontSize   = 20
	DefaultFontFamily = "sans-serif"

	LineHeight = 1.25
	// charWidth approximates the advance of one glyph as a share of the
	// font size.
	charWidth = 0.6
)

// Text handles text elements and bridges editing to a TextOverlay.
type Text struct{}

func (Text) Key() Key {
	return Key{Kind: element.KindText}
}

func (Text) Features() Features {
	return Features{StartEditingOnCreateEnd: true}
}

func (Text) Create(box geom.BoundingBox) element.Element {
	w, h := MeasureText("", DefaultFontSize)
	el := element.Element{
		ID:         newID(),
		Type:       element.KindText,
		X:          box.X,
		Y:          box.Y,
		W:          w,
		H:          h,
		Fill:       DefaultFill,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
	}
	el.Round()
	return el
}

// MeasureText estimates the box of text at fontSize. Empty text still
// measures one glyph wide so the caret has room.
func MeasureText(text string, fontSize float64) (float64, float64) {
	lines := strings.Split(text, "\n")
	longest := lo.Max(lo.Map(lines, func(l string, _ int) int {
		return utf8.RuneCountInString(l)
	}))
	longest = max(longest, 1)
	return float64(longest) * fontSize * charWidth, float64(len(lines)) * fontSize * LineHeight
}

// TextPatch sets the content of a text element and refits its box.
func TextPatch(el element.Element, text string) element.Patch {
	w, h := MeasureText(text, el.FontSize)
	return element.Patch{Text: &text, W: &w, H: &h}
}

// FontPatch changes the font of a text element and refits its box. Zero
// values keep the current setting.
func FontPatch(el element.Element, size float64, family string) element.Patch {
	var p element.Patch
	if size > 0 {
		p.FontSize = &size
	} else {
		size = el.FontSize
	}
	if family != "" {
		p.FontFamily = &family
	}
	w, h := MeasureText(el.Text, size)
	p.W, p.H = &w, &h
	return p
}

func (Text) HitTest(el element.Element, p geom.XYCoords) bool {
	local := localPoint(el, p)
	return local.X >= 0 && local.X <= el.W && local.Y >= 0 && local.Y <= el.H
}

func (Text) Render(el element.Element, s render.Surface) {
	withElementTransform(el, s, func() {
		s.SetFont(el.FontSize, el.FontFamily)
		s.SetFillStyle(el.Fill)
		for i, line := range strings.Split(el.Text, "\n") {
			s.FillText(line, 0, float64(i)*el.FontSize*LineHeight+el.FontSize)
		}
	})
}

// OnCreateDrag is a no-op: text boxes are sized by their content.
func (Text) OnCreateDrag(element.Element, CreateDrag, Mutator) error {
	return nil
}

// IsNegligible is always false; empty text is discarded when editing ends.
func (Text) IsNegligible(element.Element, float64) bool {
	return false
}

func (Text) OnEditStart(el element.Element, vp viewport.Transform, ov TextOverlay) {
	ov.SetText(el.Text)
	ov.Sync(StyleFor(el, vp))
	ov.Mount()
}

func (Text) OnEditViewStateChange(el element.Element, vp viewport.Transform, ov TextOverlay) {
	ov.Sync(StyleFor(el, vp))
}

func (Text) OnEditEnd(_ element.Element, ov TextOverlay) string {
	text := ov.Text()
	ov.Unmount()
	return text
}
