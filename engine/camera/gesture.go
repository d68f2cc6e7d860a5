package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

// MouseButton identifies a physical mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

// Modifiers is a bit set of held modifier keys.
type Modifiers int

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// swapsAction reports whether the modifiers swap rotate and pan: ctrl, meta or shift.
func (m Modifiers) swapsAction() bool {
	return m&(ModShift|ModControl|ModSuper) != 0
}

// MouseEvent is a mouse button press, release or cursor move in element pixels.
type MouseEvent struct {
	Button MouseButton
	X, Y   float32
	Mods   Modifiers
}

// TouchEvent lists the active touch points in element pixels.
type TouchEvent struct {
	Touches []mgl32.Vec2
}

// WheelEvent is one wheel step. Negative DeltaY scrolls up.
type WheelEvent struct {
	DeltaY float32
}

// KeyEvent is a key press using the common key codes.
type KeyEvent struct {
	Key int
}

// GestureAnchor is the pointer state captured when a gesture starts. Each move
// produces a new anchor to be passed to the next move; anchors are never
// mutated in place.
type GestureAnchor struct {
	// Point is the last pointer position, or the two-finger midpoint.
	Point mgl32.Vec2
	// Separation is the last distance between two fingers, zero for single-point gestures.
	Separation float32
}

// BeginMouse resolves the pressed button to a begin command and captures the anchor.
// Unmapped buttons produce End so that any previous gesture is dropped.
//
// Parameters:
//   - e: the mouse-down event
//   - buttons: the button mapping
//
// Returns:
//   - GestureAnchor: the anchor for subsequent moves
//   - Command: BeginRotate, BeginPan, BeginDolly or End
func BeginMouse(e MouseEvent, buttons MouseButtons) (GestureAnchor, Command) {
	anchor := GestureAnchor{Point: mgl32.Vec2{e.X, e.Y}}

	var action MouseAction
	switch e.Button {
	case MouseButtonLeft:
		action = buttons.Left
	case MouseButtonMiddle:
		action = buttons.Middle
	case MouseButtonRight:
		action = buttons.Right
	}

	switch action {
	case MouseDolly:
		return anchor, BeginDolly{}
	case MouseRotate:
		if e.Mods.swapsAction() {
			return anchor, BeginPan{}
		}
		return anchor, BeginRotate{}
	case MousePan:
		if e.Mods.swapsAction() {
			return anchor, BeginRotate{}
		}
		return anchor, BeginPan{}
	}
	return anchor, End{}
}

// MouseMove converts a cursor move into the drag command for mode.
// The second return is nil when mode is not a mouse mode.
//
// Parameters:
//   - mode: the active gesture mode
//   - e: the mouse-move event
//
// Returns:
//   - GestureAnchor: the anchor for the next move
//   - Command: DragRotate, DragPan, DragDolly or nil
func (a GestureAnchor) MouseMove(mode Mode, e MouseEvent) (GestureAnchor, Command) {
	p := mgl32.Vec2{e.X, e.Y}
	d := p.Sub(a.Point)
	next := GestureAnchor{Point: p}

	switch mode {
	case ModeRotate:
		return next, DragRotate{DX: d[0], DY: d[1]}
	case ModePan:
		return next, DragPan{DX: d[0], DY: d[1]}
	case ModeDolly:
		return next, DragDolly{DY: d[1]}
	}
	return a, nil
}

// BeginTouchGesture resolves the number of touches to a begin command and captures the anchor.
//
// Parameters:
//   - e: the touch-start event
//   - touches: the touch mapping
//
// Returns:
//   - GestureAnchor: the anchor for subsequent moves
//   - Command: BeginTouch or End
func BeginTouchGesture(e TouchEvent, touches Touches) (GestureAnchor, Command) {
	anchor := touchAnchor(e)
	switch len(e.Touches) {
	case 1:
		switch touches.One {
		case TouchRotate:
			return anchor, BeginTouch{Mode: ModeTouchRotate}
		case TouchPan:
			return anchor, BeginTouch{Mode: ModeTouchPan}
		}
	case 2:
		switch touches.Two {
		case TouchDollyPan:
			return anchor, BeginTouch{Mode: ModeTouchDollyPan}
		case TouchDollyRotate:
			return anchor, BeginTouch{Mode: ModeTouchDollyRotate}
		}
	}
	return anchor, End{}
}

// TouchMove converts a touch move into the commands for mode. Two-finger modes
// produce a Pinch from the separation change followed by a drag from the midpoint motion.
//
// Parameters:
//   - mode: the active gesture mode
//   - e: the touch-move event
//
// Returns:
//   - GestureAnchor: the anchor for the next move
//   - []Command: the commands to apply, in order
func (a GestureAnchor) TouchMove(mode Mode, e TouchEvent) (GestureAnchor, []Command) {
	if len(e.Touches) == 0 {
		return a, nil
	}
	next := touchAnchor(e)
	d := next.Point.Sub(a.Point)

	switch mode {
	case ModeTouchRotate:
		return next, []Command{DragRotate{DX: d[0], DY: d[1]}}
	case ModeTouchPan:
		return next, []Command{DragPan{DX: d[0], DY: d[1]}}
	case ModeTouchDollyPan, ModeTouchDollyRotate:
		var cmds []Command
		if a.Separation > 0 && next.Separation > 0 {
			cmds = append(cmds, Pinch{Ratio: next.Separation / a.Separation})
		}
		if mode == ModeTouchDollyPan {
			cmds = append(cmds, DragPan{DX: d[0], DY: d[1]})
		} else {
			cmds = append(cmds, DragRotate{DX: d[0], DY: d[1]})
		}
		return next, cmds
	}
	return a, nil
}

// KeyCommand maps an arrow key to a KeyPan of speed pixels.
//
// Parameters:
//   - e: the key event
//   - speed: pixels panned per key press
//
// Returns:
//   - Command: the KeyPan command
//   - bool: false if the key is not an arrow key
func KeyCommand(e KeyEvent, speed float32) (Command, bool) {
	switch e.Key {
	case common.KeyUp:
		return KeyPan{DY: speed}, true
	case common.KeyDown:
		return KeyPan{DY: -speed}, true
	case common.KeyLeft:
		return KeyPan{DX: speed}, true
	case common.KeyRight:
		return KeyPan{DX: -speed}, true
	}
	return nil, false
}

// touchAnchor builds an anchor from the first one or two touches.
func touchAnchor(e TouchEvent) GestureAnchor {
	switch len(e.Touches) {
	case 0:
		return GestureAnchor{}
	case 1:
		return GestureAnchor{Point: e.Touches[0]}
	}
	a, b := e.Touches[0], e.Touches[1]
	return GestureAnchor{
		Point:      a.Add(b).Mul(0.5),
		Separation: b.Sub(a).Len(),
	}
}
