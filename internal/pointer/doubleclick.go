package pointer

import (
	"time"

	"github.com/inamate/whiteboard/internal/geom"
)

const (
	DefaultDoubleClickTimeout   = 500 * time.Millisecond
	DefaultDoubleClickMaxOffset = 5
)

type clickEvent struct {
	down        bool
	pointerType string
	pos         geom.XYCoords
	at          time.Time
}

// DoubleClick buffers two press/release pairs. The buffer resets when the
// sequence times out, travels too far, switches pointer type or arrives out
// of order.
type DoubleClick struct {
	Timeout   time.Duration
	MaxOffset float64

	events []clickEvent
}

// NewDoubleClick creates a detector. Non-positive arguments select the
// defaults.
func NewDoubleClick(timeout time.Duration, maxOffset float64) *DoubleClick {
	if timeout <= 0 {
		timeout = DefaultDoubleClickTimeout
	}
	if maxOffset <= 0 {
		maxOffset = DefaultDoubleClickMaxOffset
	}
	return &DoubleClick{Timeout: timeout, MaxOffset: maxOffset}
}

// Down records a press.
func (d *DoubleClick) Down(pointerType string, pos geom.XYCoords, at time.Time) {
	d.record(clickEvent{down: true, pointerType: pointerType, pos: pos, at: at})
}

// Up records a release and reports whether it completed a double click.
func (d *DoubleClick) Up(pointerType string, pos geom.XYCoords, at time.Time) bool {
	d.record(clickEvent{pointerType: pointerType, pos: pos, at: at})
	if len(d.events) == 4 {
		d.Reset()
		return true
	}
	return false
}

// Reset forgets the buffered sequence.
func (d *DoubleClick) Reset() {
	d.events = d.events[:0]
}

func (d *DoubleClick) record(ev clickEvent) {
	if len(d.events) > 0 && !d.continues(ev) {
		d.Reset()
	}
	// A sequence always starts with a press.
	if len(d.events) == 0 && !ev.down {
		return
	}
	d.events = append(d.events, ev)
}

func (d *DoubleClick) continues(ev clickEvent) bool {
	first, last := d.events[0], d.events[len(d.events)-1]
	return ev.down != last.down &&
		ev.pointerType == first.pointerType &&
		ev.at.Sub(first.at) <= d.Timeout &&
		geom.Distance(ev.pos, first.pos) <= d.MaxOffset
}
