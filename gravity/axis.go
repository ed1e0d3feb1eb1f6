package gravity

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/input"
)

// Axis is one of the six world axes a gravity direction may take.
type Axis int

const (
	AxisNone Axis = iota
	AxisDown
	AxisUp
	AxisLeft
	AxisRight
	AxisForward
	AxisBack
)

var axisVecs = [...]mgl64.Vec3{
	AxisNone:    {},
	AxisDown:    {0, -1, 0},
	AxisUp:      {0, 1, 0},
	AxisLeft:    {-1, 0, 0},
	AxisRight:   {1, 0, 0},
	AxisForward: {0, 0, 1},
	AxisBack:    {0, 0, -1},
}

var axisNames = [...]string{
	AxisNone:    "none",
	AxisDown:    "down",
	AxisUp:      "up",
	AxisLeft:    "left",
	AxisRight:   "right",
	AxisForward: "forward",
	AxisBack:    "back",
}

// Axes lists the six valid gravity axes.
var Axes = []Axis{AxisDown, AxisUp, AxisLeft, AxisRight, AxisForward, AxisBack}

// Vec returns the unit vector for a, or zero for AxisNone and unknown values.
func (a Axis) Vec() mgl64.Vec3 {
	if a < 0 || int(a) >= len(axisVecs) {
		return mgl64.Vec3{}
	}
	return axisVecs[a]
}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return fmt.Sprintf("Axis(%d)", int(a))
	}
	return axisNames[a]
}

// ParseAxis parses an axis name such as "down" or "forward".
func ParseAxis(s string) (Axis, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range axisNames {
		if name == s && i != int(AxisNone) {
			return Axis(i), nil
		}
	}
	return AxisNone, fmt.Errorf("unknown gravity axis %q", s)
}

// PreviewAxis maps the held preview keys to a candidate axis. The arrow keys
// select the axis opposite to the way they point; the first held key wins.
func PreviewAxis(in input.Snapshot) Axis {
	switch {
	case in.PreviewUp:
		return AxisDown
	case in.PreviewDown:
		return AxisUp
	case in.PreviewLeft:
		return AxisRight
	case in.PreviewRight:
		return AxisLeft
	case in.PreviewForward:
		return AxisForward
	case in.PreviewBack:
		return AxisBack
	}
	return AxisNone
}
