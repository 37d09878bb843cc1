package action

import (
	"errors"
	"strings"
)

var errInvalidKey = errors.New("invalid key")

var modifierOrder = []string{"Mod", "Alt", "Shift"}

// ParseKey normalizes a binding like "shift+mod+z" into "Mod+Shift+Z".
// Modifiers are Mod (Ctrl or Cmd), Alt and Shift; the final part is the key.
func ParseKey(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "+" {
		return s, nil
	}
	parts := strings.Split(s, "+")
	// "Mod++" binds the plus key.
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}
	key := parts[len(parts)-1]
	if key == "" {
		return "", errInvalidKey
	}

	seen := make(map[string]bool, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		mod, ok := canonicalModifier(p)
		if !ok || seen[mod] {
			return "", errInvalidKey
		}
		seen[mod] = true
	}

	var b strings.Builder
	for _, mod := range modifierOrder {
		if seen[mod] {
			b.WriteString(mod)
			b.WriteByte('+')
		}
	}
	b.WriteString(canonicalKey(key))
	return b.String(), nil
}

func canonicalModifier(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mod", "ctrl", "control", "cmd", "meta":
		return "Mod", true
	case "alt", "option":
		return "Alt", true
	case "shift":
		return "Shift", true
	}
	return "", false
}

func canonicalKey(s string) string {
	if len([]rune(s)) == 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
