// Package script replays YAML gesture scripts against a headless engine.
//
// A script is a canvas size plus a list of steps, each setting exactly one
// field:
//
//	width: 400
//	height: 300
//	steps:
//	  - tool: rect
//	  - drag: {from: {x: 20, y: 20}, to: {x: 120, y: 80}}
//	  - fill: "#e03131"
//	  - action: undo
package script

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/handler"
	"github.com/inamate/whiteboard/internal/pointer"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	// MaxSide bounds the rendered image so a script cannot ask for an
	// arbitrarily large allocation.
	MaxSide = 4096

	// eventGap is how far the replay clock advances per pointer event.
	eventGap = 10 * time.Millisecond
	// dragSteps is the default number of moves in a drag.
	dragSteps = 4
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Drag is a press at From, Steps evenly spaced moves and a release at To.
type Drag struct {
	From      Point             `yaml:"from"`
	To        Point             `yaml:"to"`
	Steps     int               `yaml:"steps,omitempty"`
	Modifiers pointer.Modifiers `yaml:"modifiers,omitempty"`
}

type Key struct {
	Key       string            `yaml:"key"`
	Modifiers pointer.Modifiers `yaml:"modifiers,omitempty"`
}

// Step is one scripted input. Exactly one field is set.
type Step struct {
	Tool       string               `yaml:"tool,omitempty"`
	Down       *engine.PointerEvent `yaml:"down,omitempty"`
	Move       *engine.PointerEvent `yaml:"move,omitempty"`
	Up         *engine.PointerEvent `yaml:"up,omitempty"`
	Click      *Point               `yaml:"click,omitempty"`
	Drag       *Drag                `yaml:"drag,omitempty"`
	Wheel      *engine.WheelEvent   `yaml:"wheel,omitempty"`
	Key        *Key                 `yaml:"key,omitempty"`
	Action     string               `yaml:"action,omitempty"`
	Type       *string              `yaml:"type,omitempty"`
	EndEdit    bool                 `yaml:"endEdit,omitempty"`
	Fill       string               `yaml:"fill,omitempty"`
	FontSize   float64              `yaml:"fontSize,omitempty"`
	FontFamily string               `yaml:"fontFamily,omitempty"`
	Wait       time.Duration        `yaml:"wait,omitempty"`
}

// Kind returns the name of the step's single set field.
func (s Step) Kind() (string, error) {
	v := reflect.ValueOf(s)
	var set []string
	for i := 0; i < v.NumField(); i++ {
		if !v.Field(i).IsZero() {
			name, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("yaml"), ",")
			set = append(set, name)
		}
	}
	if len(set) != 1 {
		return "", fmt.Errorf("step sets %d fields %v, want exactly one: %w", len(set), set, errs.ErrInvalidScript)
	}
	return set[0], nil
}

type Script struct {
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(r io.Reader) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Script{}, fmt.Errorf("decode script: %w: %w", errs.ErrInvalidScript, err)
	}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.Width < 0 || s.Height < 0 || s.Width > MaxSide || s.Height > MaxSide {
		return Script{}, fmt.Errorf("canvas %dx%d out of range: %w", s.Width, s.Height, errs.ErrInvalidScript)
	}
	for i, st := range s.Steps {
		if _, err := st.Kind(); err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return s, nil
}

// Load parses the script at path.
func Load(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Player drives an engine with scripted input on a synthetic clock.
type Player struct {
	Engine  *engine.Engine
	Overlay *handler.MemoryOverlay

	clock  time.Time
	logger *slog.Logger
}

// NewPlayer creates an engine from opts with a memory text overlay.
func NewPlayer(opts engine.Options) *Player {
	ov := &handler.MemoryOverlay{}
	opts.Overlay = ov
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		Engine:  engine.New(opts),
		Overlay: ov,
		clock:   time.Unix(0, 0),
		logger:  logger,
	}
}

// Run replays every step, stopping at the first error or when ctx is done.
func (p *Player) Run(ctx context.Context, s Script) error {
	p.Engine.Resize(float64(s.Width), float64(s.Height))
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		kind, err := st.Kind()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := p.Step(st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, kind, err)
		}
	}
	p.logger.Debug("script replayed", "steps", len(s.Steps), "elements", len(p.Engine.Elements()))
	return nil
}

func (p *Player) tick() time.Time {
	p.clock = p.clock.Add(eventGap)
	return p.clock
}

func (p *Player) event(ev engine.PointerEvent) engine.PointerEvent {
	ev.Time = p.tick()
	return ev
}

// Step applies a single step.
func (p *Player) Step(st Step) error {
	e := p.Engine
	switch {
	case st.Tool != "":
		return e.SetTool(st.Tool)
	case st.Down != nil:
		return e.PointerDown(p.event(*st.Down))
	case st.Move != nil:
		return e.PointerMove(p.event(*st.Move))
	case st.Up != nil:
		return e.PointerUp(p.event(*st.Up))
	case st.Click != nil:
		ev := engine.PointerEvent{X: st.Click.X, Y: st.Click.Y}
		if err := e.PointerDown(p.event(ev)); err != nil {
			return err
		}
		return e.PointerUp(p.event(ev))
	case st.Drag != nil:
		return p.drag(*st.Drag)
	case st.Wheel != nil:
		e.Wheel(*st.Wheel)
		return nil
	case st.Key != nil:
		_, err := e.KeyDown(st.Key.Key, st.Key.Modifiers)
		return err
	case st.Action != "":
		return e.Exec(st.Action)
	case st.Type != nil:
		if e.EditingID() == "" {
			return fmt.Errorf("type without an active text edit: %w", errs.ErrInvalidScript)
		}
		p.Overlay.Type(*st.Type)
		return nil
	case st.EndEdit:
		return e.EndEditing()
	case st.Fill != "":
		_, err := e.SetFill(st.Fill)
		return err
	case st.FontSize != 0:
		_, err := e.SetFontSize(st.FontSize)
		return err
	case st.FontFamily != "":
		_, err := e.SetFontFamily(st.FontFamily)
		return err
	case st.Wait != 0:
		p.clock = p.clock.Add(st.Wait)
		return nil
	default:
		return fmt.Errorf("empty step: %w", errs.ErrInvalidScript)
	}
}

func (p *Player) drag(d Drag) error {
	e := p.Engine
	steps := d.Steps
	if steps <= 0 {
		steps = dragSteps
	}
	at := func(t float64) engine.PointerEvent {
		return p.event(engine.PointerEvent{
			X:         d.From.X + (d.To.X-d.From.X)*t,
			Y:         d.From.Y + (d.To.Y-d.From.Y)*t,
			Modifiers: d.Modifiers,
		})
	}
	if err := e.PointerDown(at(0)); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		if err := e.PointerMove(at(float64(i) / float64(steps))); err != nil {
			return err
		}
	}
	return e.PointerUp(at(1))
}

// RenderPNG replays s on a fresh engine and encodes the final frame.
func RenderPNG(ctx context.Context, s Script, opts engine.Options) ([]byte, error) {
	p := NewPlayer(opts)
	if err := p.Run(ctx, s); err != nil {
		return nil, err
	}
	img, err := p.Engine.Rasterize(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
