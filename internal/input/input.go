// Package input defines the device-independent pointer and key events the
// scene consumes. Front ends translate their native events into these.
package input

import (
	"encoding/json"
	"fmt"
)

// PointerType is the kind of pointer event.
type PointerType int

const (
	PointerMove PointerType = iota
	PointerPress
	PointerRelease
)

func (t PointerType) String() string {
	switch t {
	case PointerMove:
		return "move"
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	}
	return fmt.Sprintf("pointer(%d)", int(t))
}

func (t PointerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PointerType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "move":
		*t = PointerMove
	case "press", "down":
		*t = PointerPress
	case "release", "up":
		*t = PointerRelease
	default:
		return fmt.Errorf("unknown pointer type %q", s)
	}
	return nil
}

// Buttons is a bit set of held pointer buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Has reports whether every button in b is held.
func (bs Buttons) Has(b Buttons) bool { return bs&b == b }

// PixelPoint is a position or displacement in window pixels, y down.
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointerEvent is a single pointer sample in window pixel coordinates.
// Delta is the motion since the previous sample.
type PointerEvent struct {
	Type     PointerType `json:"type"`
	Position PixelPoint  `json:"position"`
	Delta    PixelPoint  `json:"delta"`
	Buttons  Buttons     `json:"buttons"`
}

// IsDrag reports whether e is a move with the primary button held.
func (e PointerEvent) IsDrag() bool {
	return e.Type == PointerMove && e.Buttons.Has(ButtonPrimary)
}

// Key identifies a keyboard key the scene reacts to.
type Key string

const (
	KeyLeft   Key = "ArrowLeft"
	KeyRight  Key = "ArrowRight"
	KeyUp     Key = "ArrowUp"
	KeyDown   Key = "ArrowDown"
	KeyEscape Key = "Escape"
)

// KeyEvent is a key press. Printable keys use their character as Key.
type KeyEvent struct {
	Key Key `json:"key"`
}

// Tracker derives pointer deltas and held buttons for front ends that only
// report absolute positions.
type Tracker struct {
	last    PixelPoint
	seen    bool
	buttons Buttons
}

// Press records a button press at pos.
func (t *Tracker) Press(pos PixelPoint, b Buttons) PointerEvent {
	t.buttons |= b
	return t.event(PointerPress, pos)
}

// Release records a button release at pos.
func (t *Tracker) Release(pos PixelPoint, b Buttons) PointerEvent {
	t.buttons &^= b
	return t.event(PointerRelease, pos)
}

// Move records pointer motion to pos.
func (t *Tracker) Move(pos PixelPoint) PointerEvent {
	return t.event(PointerMove, pos)
}

// Sample records a position report from a front end that only knows which
// buttons are held. Newly held buttons yield a press, dropped ones a
// release, anything else a move.
func (t *Tracker) Sample(pos PixelPoint, held Buttons) PointerEvent {
	switch {
	case held&^t.buttons != 0:
		return t.Press(pos, held&^t.buttons)
	case t.buttons&^held != 0:
		return t.Release(pos, t.buttons&^held)
	default:
		return t.Move(pos)
	}
}

func (t *Tracker) event(typ PointerType, pos PixelPoint) PointerEvent {
	ev := PointerEvent{Type: typ, Position: pos, Buttons: t.buttons}
	if t.seen {
		ev.Delta = PixelPoint{X: pos.X - t.last.X, Y: pos.Y - t.last.Y}
	}
	t.last = pos
	t.seen = true
	return ev
}
