package framer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownDirection is returned when a label does not name a canonical view.
var ErrUnknownDirection = errors.New("unknown view direction")

// sideEpsilon lifts the left and right offsets off the horizontal plane so the
// view axis is never exactly perpendicular to a Y-up frame.
const sideEpsilon float32 = 1e-6

// Direction is one of the canonical snap views.
type Direction int

const (
	Angled Direction = iota
	Front
	Back
	Left
	Right
	Top
	Bottom
)

var directionLabels = [...]string{"angled", "front", "back", "left", "right", "top", "bottom"}

var directionOffsets = [...]mgl32.Vec3{
	{0, -1, 1},
	{0, -1, 0},
	{0, 1, 0},
	{-1, 0, sideEpsilon},
	{1, 0, sideEpsilon},
	{0, 0, 1},
	{0, 0, -1},
}

// Directions returns every canonical direction in label order.
func Directions() []Direction {
	return []Direction{Angled, Front, Back, Left, Right, Top, Bottom}
}

func (d Direction) String() string {
	if !d.valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionLabels[d]
}

// Offset returns the unit vector from the framed target toward the camera.
// Invalid directions fall back to the angled view.
func (d Direction) Offset() mgl32.Vec3 {
	if !d.valid() {
		d = Angled
	}
	return directionOffsets[d].Normalize()
}

// ParseDirection resolves a label such as "top" or "Front" to a Direction.
//
// Parameters:
//   - label: the view label, matched case-insensitively
//
// Returns:
//   - Direction: the matching direction
//   - error: wraps ErrUnknownDirection if nothing matches
func ParseDirection(label string) (Direction, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	for i, name := range directionLabels {
		if name == l {
			return Direction(i), nil
		}
	}
	return Angled, fmt.Errorf("%w: %q", ErrUnknownDirection, label)
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(directionLabels[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Direction) valid() bool {
	return d >= 0 && int(d) < len(directionLabels)
}
