package editor

import "math"

// Viewport describes the visible region of the canvas. Width and Height are
// screen units; Offset is the world coordinate under the top-left corner.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
	Offset Point   `json:"offset"`
}

// scale returns a safe zoom factor.
func (v Viewport) scale() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// WorldCenter returns the world-space center of the visible canvas.
func (v Viewport) WorldCenter() Point {
	z := v.scale()
	return Point{
		X: v.Offset.X + v.Width/(2*z),
		Y: v.Offset.Y + v.Height/(2*z),
	}
}

// WorldDiagonal returns the diagonal of the visible region in world units.
// SnapSmart uses it as the default neighbor search radius.
func (v Viewport) WorldDiagonal() float64 {
	z := v.scale()
	return math.Hypot(v.Width/z, v.Height/z)
}

// WorldRect returns the visible region in world coordinates.
func (v Viewport) WorldRect() Rect {
	z := v.scale()
	return Rect{X: v.Offset.X, Y: v.Offset.Y, Width: v.Width / z, Height: v.Height / z}
}
