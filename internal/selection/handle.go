package selection

import "github.com/inamate/vecdraw/internal/geom"

// Handle identifies one of the resize control points drawn on the
// visualisation rectangle.
type Handle int

const (
	HandleNone   Handle = -1
	HandleLeft   Handle = 0
	HandleTop    Handle = 1
	HandleBottom Handle = 2
	HandleRight  Handle = 3
)

// handleCount is the number of resize handles.
const handleCount = 4

// HandleRadius is the hit radius of a handle, in surface units.
const HandleRadius = 6.0

// Horizontal reports whether the handle resizes along the x axis.
func (h Handle) Horizontal() bool {
	return h >= 0 && int(h)%(handleCount-1) == 0
}

// Opposite returns the handle on the other side of the same axis.
func (h Handle) Opposite() Handle {
	switch h {
	case HandleLeft:
		return HandleRight
	case HandleRight:
		return HandleLeft
	case HandleTop:
		return HandleBottom
	case HandleBottom:
		return HandleTop
	}
	return HandleNone
}

func (h Handle) String() string {
	switch h {
	case HandleLeft:
		return "left"
	case HandleTop:
		return "top"
	case HandleBottom:
		return "bottom"
	case HandleRight:
		return "right"
	}
	return "none"
}

// HandlePoints returns the center of every handle of z, indexed by Handle.
func HandlePoints(z geom.Zone) [handleCount]geom.Point {
	c := z.Center()
	return [handleCount]geom.Point{
		HandleLeft:   geom.Pt(z.Left, c.Y),
		HandleTop:    geom.Pt(c.X, z.Top),
		HandleBottom: geom.Pt(c.X, z.Bottom),
		HandleRight:  geom.Pt(z.Right, c.Y),
	}
}
