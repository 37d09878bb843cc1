package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Transparent is the fill that paints nothing.
const Transparent = "transparent"

// ParseColor parses "#rgb", "#rrggbb" or "transparent".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, Transparent) {
		return color.Transparent, nil
	}
	c, err := parseHex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}

func parseHex(s string) (colorful.Color, error) {
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, errors.New("want #rgb or #rrggbb")
	}
	return colorful.Hex(s)
}

// NormalizeColor returns the canonical lower-case "#rrggbb" form of s, or
// false when s is not a colour.
func NormalizeColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, Transparent) {
		return Transparent, true
	}
	c, err := parseHex(s)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}
