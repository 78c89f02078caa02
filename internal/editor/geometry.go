package editor

import "math"

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// RotateAround rotates p around origin by the given angle in radians.
func (p Point) RotateAround(origin Point, radians float64) Point {
	sin, cos := math.Sincos(radians)
	dx, dy := p.X-origin.X, p.Y-origin.Y
	return Point{
		X: origin.X + dx*cos - dy*sin,
		Y: origin.Y + dx*sin + dy*cos,
	}
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the maximum X of the rect.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum Y of the rect.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ContainsPoint checks if a point is inside the rect.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Overlaps reports whether r and o share interior area. Rects that merely
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.Right(), o.Right())
	maxY := max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Normalized returns the rect with non-negative width and height, flipping
// the origin as needed. Marquee rects arrive in drag order, not min/max order.
func (r Rect) Normalized() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Corners returns the four corners in clockwise order from the top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}
}

// Sides describes a shape's occupied extent in world coordinates. All values
// are derived from the shape's current fields on every call; nothing here is
// cached.
type Sides struct {
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
	Top     float64 `json:"top"`
	Bottom  float64 `json:"bottom"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

// SidesOf derives sides from an axis-aligned rect.
func SidesOf(r Rect) Sides {
	return Sides{
		Left:    r.X,
		Right:   r.Right(),
		Top:     r.Y,
		Bottom:  r.Bottom(),
		CenterX: r.X + r.Width/2,
		CenterY: r.Y + r.Height/2,
	}
}

// Rect converts sides back to an axis-aligned rect.
func (s Sides) Rect() Rect {
	return Rect{X: s.Left, Y: s.Top, Width: s.Right - s.Left, Height: s.Bottom - s.Top}
}

// Width returns the horizontal extent.
func (s Sides) Width() float64 { return s.Right - s.Left }

// Height returns the vertical extent.
func (s Sides) Height() float64 { return s.Bottom - s.Top }

// quadOverlapsRect tests a convex quadrilateral against an axis-aligned rect
// using separating axes. Touching without shared interior area counts as no
// overlap, matching Rect.Overlaps.
func quadOverlapsRect(quad [4]Point, r Rect) bool {
	rc := r.Corners()

	// Axes of the rect (unit X/Y) plus the two edge normals of the quad.
	axes := [4]Point{
		{1, 0},
		{0, 1},
		edgeNormal(quad[0], quad[1]),
		edgeNormal(quad[1], quad[2]),
	}

	for _, axis := range axes {
		qMin, qMax := projectOnto(quad[:], axis)
		rMin, rMax := projectOnto(rc[:], axis)
		if qMax <= rMin || rMax <= qMin {
			return false
		}
	}
	return true
}

func edgeNormal(a, b Point) Point {
	return Point{X: -(b.Y - a.Y), Y: b.X - a.X}
}

func projectOnto(pts []Point, axis Point) (lo, hi float64) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, p := range pts {
		d := p.X*axis.X + p.Y*axis.Y
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

// circleOverlapsRect reports whether a circle shares interior area with an
// axis-aligned rect.
func circleOverlapsRect(center Point, radius float64, r Rect) bool {
	cx := clamp(center.X, r.X, r.Right())
	cy := clamp(center.Y, r.Y, r.Bottom())
	dx, dy := center.X-cx, center.Y-cy
	return dx*dx+dy*dy < radius*radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
