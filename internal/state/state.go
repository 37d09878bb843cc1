// Package state holds AppState, the process-wide UI state, and the Store
// that owns it.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/hittest"
	"github.com/inamate/whiteboard/internal/viewport"
)

// Tool is the active canvas tool.
type Tool string

const (
	ToolSelection Tool = "selection"
	ToolHand      Tool = "hand"
	ToolRect      Tool = "rect"
	ToolEllipse   Tool = "ellipse"
	ToolFreedraw  Tool = "freedraw"
	ToolText      Tool = "text"
)

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(s); t {
	case ToolSelection, ToolHand, ToolRect, ToolEllipse, ToolFreedraw, ToolText:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrUnknownTool, s)
}

// Creates reports whether the tool creates elements.
func (t Tool) Creates() bool {
	switch t {
	case ToolRect, ToolEllipse, ToolFreedraw, ToolText:
		return true
	}
	return false
}

// Usermode is the interaction state.
type Usermode string

const (
	UsermodeIdle     Usermode = "idle"
	UsermodeCreating Usermode = "creating"
	UsermodeDragging Usermode = "dragging"
	UsermodeResizing Usermode = "resizing"
	UsermodeRotating Usermode = "rotating"
	UsermodeEditing  Usermode = "editing"
	UsermodePanning  Usermode = "panning"
)

// ParseUsermode validates a usermode name.
func ParseUsermode(s string) (Usermode, error) {
	switch m := Usermode(s); m {
	case UsermodeIdle, UsermodeCreating, UsermodeDragging, UsermodeResizing,
		UsermodeRotating, UsermodeEditing, UsermodePanning:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrUnknownUsermode, s)
}

// Grid configures the background grid. Snapping applies whenever Size is
// positive; Visible only affects rendering.
type Grid struct {
	Size    float64 `json:"size"`
	Visible bool    `json:"visible"`
}

// ContextMenu is an open context menu and what it was opened on.
type ContextMenu struct {
	Position geom.XYCoords  `json:"position"`
	Target   hittest.Result `json:"target"`
}

// AppState is the UI state. The viewport is unexported: zoom and scroll
// only change through ZoomAt, Pan and ResetView so the anchor invariant
// always holds.
type AppState struct {
	Tool            Tool     `json:"tool"`
	Usermode        Usermode `json:"usermode"`
	LockCurrentTool bool     `json:"lockCurrentTool"`
	Grid            Grid     `json:"grid"`

	// Style applied to newly created elements.
	Fill       string  `json:"fill"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Highlight is the box-selection rectangle in virtual space.
	Highlight   *geom.BoundingBox `json:"highlight,omitempty"`
	ContextMenu *ContextMenu      `json:"contextMenu,omitempty"`

	viewport viewport.Transform
}

// Default returns the startup state.
func Default() AppState {
	return AppState{
		Tool:       ToolSelection,
		Usermode:   UsermodeIdle,
		Grid:       Grid{Size: 20, Visible: true},
		Fill:       "#1e1e1e",
		FontSize:   20,
		FontFamily: "sans-serif",
		viewport:   viewport.Default(),
	}
}

// Viewport returns the screen/virtual mapping.
func (s AppState) Viewport() viewport.Transform {
	return s.viewport
}

// Center is the canvas center in screen space.
func (s AppState) Center() geom.XYCoords {
	return geom.XYCoords{X: s.Width / 2, Y: s.Height / 2}
}

// ZoomAt zooms to target keeping the virtual point under anchor fixed.
func (s *AppState) ZoomAt(target float64, anchor geom.XYCoords) {
	s.viewport = viewport.NewZoomState(target, anchor, s.viewport)
}

// Pan scrolls by a screen-space delta.
func (s *AppState) Pan(delta geom.XYCoords) {
	s.viewport = viewport.Pan(delta, s.viewport)
}

// ResetView restores zoom 1 and no scroll.
func (s *AppState) ResetView() {
	s.viewport = viewport.Default()
}

func (s AppState) MarshalJSON() ([]byte, error) {
	type plain AppState
	return json.Marshal(struct {
		plain
		Zoom   float64       `json:"zoom"`
		Scroll geom.XYCoords `json:"scroll"`
	}{plain(s), s.viewport.Zoom, s.viewport.Scroll})
}
