package element

import (
	"slices"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/geom"
)

// Patch is a partial element update. A nil field is undefined and leaves
// the element untouched.
type Patch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	W      *float64 `json:"w,omitempty"`
	H      *float64 `json:"h,omitempty"`
	Rotate *float64 `json:"rotate,omitempty"`

	Fill     *string `json:"fill,omitempty"`
	FlippedX *bool   `json:"flippedX,omitempty"`
	FlippedY *bool   `json:"flippedY,omitempty"`
	Locked   *bool   `json:"locked,omitempty"`

	Path *[]geom.XYCoords `json:"path,omitempty"`

	Text       *string  `json:"text,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
}

// BoxPatch sets position and size.
func BoxPatch(b geom.BoundingBox) Patch {
	return Patch{X: lo.ToPtr(b.X), Y: lo.ToPtr(b.Y), W: lo.ToPtr(b.W), H: lo.ToPtr(b.H)}
}

// IsEmpty reports whether no field is defined.
func (p Patch) IsEmpty() bool {
	return p == (Patch{})
}

// ApplyTo writes the defined fields into e and re-rounds it.
func (p Patch) ApplyTo(e *Element) {
	set(&e.X, p.X)
	set(&e.Y, p.Y)
	set(&e.W, p.W)
	set(&e.H, p.H)
	set(&e.Rotate, p.Rotate)
	set(&e.Fill, p.Fill)
	set(&e.FlippedX, p.FlippedX)
	set(&e.FlippedY, p.FlippedY)
	set(&e.Locked, p.Locked)
	if p.Path != nil {
		e.Path = slices.Clone(*p.Path)
	}
	set(&e.Text, p.Text)
	set(&e.FontSize, p.FontSize)
	set(&e.FontFamily, p.FontFamily)
	e.Round()
}

// Capture returns a patch holding e's current values for every field that
// is defined in p.
func (p Patch) Capture(e Element) Patch {
	var out Patch
	capture(&out.X, p.X, e.X)
	capture(&out.Y, p.Y, e.Y)
	capture(&out.W, p.W, e.W)
	capture(&out.H, p.H, e.H)
	capture(&out.Rotate, p.Rotate, e.Rotate)
	capture(&out.Fill, p.Fill, e.Fill)
	capture(&out.FlippedX, p.FlippedX, e.FlippedX)
	capture(&out.FlippedY, p.FlippedY, e.FlippedY)
	capture(&out.Locked, p.Locked, e.Locked)
	if p.Path != nil {
		out.Path = lo.ToPtr(slices.Clone(e.Path))
	}
	capture(&out.Text, p.Text, e.Text)
	capture(&out.FontSize, p.FontSize, e.FontSize)
	capture(&out.FontFamily, p.FontFamily, e.FontFamily)
	return out
}

// Merge returns p overlaid with every field defined in later.
func (p Patch) Merge(later Patch) Patch {
	return Patch{
		X:          pick(p.X, later.X),
		Y:          pick(p.Y, later.Y),
		W:          pick(p.W, later.W),
		H:          pick(p.H, later.H),
		Rotate:     pick(p.Rotate, later.Rotate),
		Fill:       pick(p.Fill, later.Fill),
		FlippedX:   pick(p.FlippedX, later.FlippedX),
		FlippedY:   pick(p.FlippedY, later.FlippedY),
		Locked:     pick(p.Locked, later.Locked),
		Path:       pick(p.Path, later.Path),
		Text:       pick(p.Text, later.Text),
		FontSize:   pick(p.FontSize, later.FontSize),
		FontFamily: pick(p.FontFamily, later.FontFamily),
	}
}

// FillMissing returns p with the fields it leaves undefined taken from
// other. Fields already defined in p win.
func (p Patch) FillMissing(other Patch) Patch {
	return other.Merge(p)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func capture[T any](dst **T, defined *T, v T) {
	if defined != nil {
		*dst = lo.ToPtr(v)
	}
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}
