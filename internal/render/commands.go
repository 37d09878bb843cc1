package render

import (
	"encoding/json"
)

// DrawCommand is a single Canvas2D call for the frontend to execute. Args
// holds the numeric arguments in call order.
type DrawCommand struct {
	Op    string    `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Style string    `json:"style,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// Recorder is a Surface that buffers DrawCommands in painter's order.
type Recorder struct {
	commands []DrawCommand
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commands returns the buffered commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset empties the buffer for the next frame.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

func (r *Recorder) op(name string, args ...float64) {
	r.commands = append(r.commands, DrawCommand{Op: name, Args: args})
}

func (r *Recorder) Save()                  { r.op("save") }
func (r *Recorder) Restore()               { r.op("restore") }
func (r *Recorder) Translate(x, y float64) { r.op("translate", x, y) }
func (r *Recorder) Rotate(angle float64)   { r.op("rotate", angle) }
func (r *Recorder) Scale(sx, sy float64)   { r.op("scale", sx, sy) }
func (r *Recorder) BeginPath()             { r.op("beginPath") }
func (r *Recorder) MoveTo(x, y float64)    { r.op("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)    { r.op("lineTo", x, y) }
func (r *Recorder) ClosePath()             { r.op("closePath") }
func (r *Recorder) Fill()                  { r.op("fill") }
func (r *Recorder) Stroke()                { r.op("stroke") }
func (r *Recorder) SetLineWidth(w float64) { r.op("lineWidth", w) }

func (r *Recorder) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.op("bezierCurveTo", c1x, c1y, c2x, c2y, x, y)
}

func (r *Recorder) Rect(x, y, w, h float64) {
	r.op("rect", x, y, w, h)
}

// Ellipse records a full unrotated ellipse, matching
// ctx.ellipse(cx, cy, rx, ry, 0, 0, 2π).
func (r *Recorder) Ellipse(cx, cy, rx, ry float64) {
	r.op("ellipse", cx, cy, rx, ry)
}

func (r *Recorder) SetFillStyle(color string) {
	r.commands = append(r.commands, DrawCommand{Op: "fillStyle", Style: color})
}

func (r *Recorder) SetStrokeStyle(color string) {
	r.commands = append(r.commands, DrawCommand{Op: "strokeStyle", Style: color})
}

func (r *Recorder) SetFont(size float64, family string) {
	r.commands = append(r.commands, DrawCommand{Op: "font", Args: []float64{size}, Style: family})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.commands = append(r.commands, DrawCommand{Op: "fillText", Args: []float64{x, y}, Text: text})
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
