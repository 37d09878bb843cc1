package engine

import (
	"math"
	"strings"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/state"
)

// SetFill sets the fill for new elements and the selection. Strings that
// are not colours are ignored and false is returned.
func (e *Engine) SetFill(color string) (bool, error) {
	fill, ok := render.NormalizeColor(color)
	if !ok {
		e.logger.Debug("ignoring invalid fill", "value", color)
		return false, nil
	}
	e.store.Update(func(s *state.AppState) { s.Fill = fill })
	return true, e.styleSelection("fill", func(el element.Element) (element.Patch, bool) {
		return element.Patch{Fill: &fill}, el.Fill != fill
	})
}

// SetFontSize sets the font size for new text and selected text elements.
// Non-positive or non-finite sizes are ignored.
func (e *Engine) SetFontSize(size float64) (bool, error) {
	if size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
		e.logger.Debug("ignoring invalid font size", "value", size)
		return false, nil
	}
	e.store.Update(func(s *state.AppState) { s.FontSize = size })
	return true, e.styleSelection("font size", func(el element.Element) (element.Patch, bool) {
		return handler.FontPatch(el, size, ""), el.Type == element.KindText && el.FontSize != size
	})
}

// SetFontFamily sets the font family for new text and selected text
// elements. Blank names are ignored.
func (e *Engine) SetFontFamily(family string) (bool, error) {
	family = strings.TrimSpace(family)
	if family == "" {
		e.logger.Debug("ignoring blank font family")
		return false, nil
	}
	e.store.Update(func(s *state.AppState) { s.FontFamily = family })
	return true, e.styleSelection("font family", func(el element.Element) (element.Patch, bool) {
		return handler.FontPatch(el, 0, family), el.Type == element.KindText && el.FontFamily != family
	})
}

// styleSelection patches every selected element for which patch reports
// true, as one undo step.
func (e *Engine) styleSelection(name string, patch func(element.Element) (element.Patch, bool)) error {
	targets := e.layer.Selected()
	if id := e.layer.EditingID(); id != "" && !e.layer.IsSelected(id) {
		if el, ok := e.layer.Get(id); ok {
			targets = append(targets, el)
		}
	}
	return e.record(name, func() error {
		for _, el := range targets {
			p, ok := patch(el)
			if !ok {
				continue
			}
			if err := e.mutate(el.ID, p); err != nil {
				return err
			}
		}
		e.syncOverlay()
		return nil
	})
}
