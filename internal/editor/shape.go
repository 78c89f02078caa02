package editor

// Kind identifies a shape variant. The set is closed within this package;
// adding a kind means adding a type that implements Shape.
type Kind string

const (
	KindRectangle Kind = "rect"
	KindCircle    Kind = "circle"
	KindText      Kind = "text"
	KindImage     Kind = "image"
)

// Shape is the geometry contract every placeable entity implements.
// Sides, hit tests, and scaling are derived from the shape's current fields
// on every call, so the Transformer and SnapSmart never branch on kind.
type Shape interface {
	// Meta returns the fields shared by all kinds. Callers mutate position
	// and flags through it.
	Meta() *Base

	Kind() Kind

	// Sides returns the occupied axis-aligned extent in the shape's local,
	// unrotated frame. Rotation is deliberately ignored here; marquee and
	// click tests account for it separately.
	Sides() Sides

	// ScaleFrom sets this shape's size fields to orig's scaled by (sx, sy).
	// orig must be a snapshot of the same shape (same kind and id).
	ScaleFrom(orig Shape, sx, sy float64)

	// IntersectsRect reports whether the shape, with rotation applied,
	// shares interior area with r.
	IntersectsRect(r Rect) bool

	// ContainsPoint reports whether p lies inside the shape, with rotation
	// applied. Used for click hit-testing.
	ContainsPoint(p Point) bool

	// Clone returns an independent value copy. Transform sessions snapshot
	// shapes with it so live mutation can never reach the snapshot.
	Clone() Shape
}

// Base holds the fields common to every shape kind. Pos semantics are
// kind-specific: top-left for rectangles and images, center for circles,
// text baseline origin for text.
type Base struct {
	ID        string  `json:"id"`
	Pos       Point   `json:"pos"`
	Rotation  float64 `json:"rotation"` // radians about Pos
	Visible   bool    `json:"visible"`
	Draggable bool    `json:"draggable"`
	Selected  bool    `json:"-"`
}

// Meta implements Shape.
func (b *Base) Meta() *Base { return b }

// MoveBy translates the shape's anchor point.
func (b *Base) MoveBy(dx, dy float64) {
	b.Pos.X += dx
	b.Pos.Y += dy
}

// rotatedQuad maps the local extent to world corners, rotated about Pos.
func rotatedQuad(b *Base, local Rect) [4]Point {
	corners := local.Corners()
	var out [4]Point
	for i, c := range corners {
		out[i] = c.RotateAround(b.Pos, b.Rotation)
	}
	return out
}

func intersectsRotated(s Shape, r Rect) bool {
	b := s.Meta()
	local := s.Sides().Rect()
	if b.Rotation == 0 {
		return local.Overlaps(r)
	}
	return quadOverlapsRect(rotatedQuad(b, local), r)
}

func containsRotated(s Shape, p Point) bool {
	b := s.Meta()
	// Undo the shape's rotation and test in the local frame.
	if b.Rotation != 0 {
		p = p.RotateAround(b.Pos, -b.Rotation)
	}
	return s.Sides().Rect().ContainsPoint(p)
}

// Rectangle is an axis-aligned rectangle anchored at its top-left corner.
type Rectangle struct {
	Base
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) Sides() Sides {
	return SidesOf(Rect{X: r.Pos.X, Y: r.Pos.Y, Width: r.Width, Height: r.Height})
}

func (r *Rectangle) ScaleFrom(orig Shape, sx, sy float64) {
	o := orig.(*Rectangle)
	r.Width = o.Width * sx
	r.Height = o.Height * sy
}

func (r *Rectangle) IntersectsRect(rect Rect) bool { return intersectsRotated(r, rect) }
func (r *Rectangle) ContainsPoint(p Point) bool    { return containsRotated(r, p) }

func (r *Rectangle) Clone() Shape {
	c := *r
	return &c
}

// Circle is anchored at its center.
type Circle struct {
	Base
	Radius float64 `json:"radius"`
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Sides() Sides {
	return Sides{
		Left:    c.Pos.X - c.Radius,
		Right:   c.Pos.X + c.Radius,
		Top:     c.Pos.Y - c.Radius,
		Bottom:  c.Pos.Y + c.Radius,
		CenterX: c.Pos.X,
		CenterY: c.Pos.Y,
	}
}

// ScaleFrom scales by the dominant axis: circles cannot stretch
// anisotropically.
func (c *Circle) ScaleFrom(orig Shape, sx, sy float64) {
	o := orig.(*Circle)
	c.Radius = o.Radius * max(sx, sy)
}

func (c *Circle) IntersectsRect(rect Rect) bool {
	// Rotation never changes a circle's footprint.
	return circleOverlapsRect(c.Pos, c.Radius, rect)
}

func (c *Circle) ContainsPoint(p Point) bool {
	return p.Dist(c.Pos) <= c.Radius
}

func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}

// TextAlign is the horizontal alignment of a text shape relative to its
// anchor point.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Text is anchored at its baseline origin. Font measurement is a host
// concern: the renderer supplies MeasuredWidth, MeasuredHeight and Ascent,
// and re-measures after a resize. Until it does, the measured metrics scale
// with the font size so bounds stay consistent mid-gesture.
type Text struct {
	Base
	Content     string    `json:"content"`
	FontSize    float64   `json:"fontSize"`
	Align       TextAlign `json:"align"`
	Padding     float64   `json:"padding"`
	BorderWidth float64   `json:"borderWidth"`

	MeasuredWidth  float64 `json:"measuredWidth"`
	MeasuredHeight float64 `json:"measuredHeight"`
	Ascent         float64 `json:"ascent"`
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) alignOffset() float64 {
	switch t.Align {
	case AlignCenter:
		return -t.MeasuredWidth / 2
	case AlignRight:
		return -t.MeasuredWidth
	default:
		return 0
	}
}

func (t *Text) Sides() Sides {
	left := t.Pos.X + t.alignOffset() - t.Padding - t.BorderWidth/2
	top := t.Pos.Y - t.Ascent - t.Padding - t.BorderWidth/2
	right := left + t.MeasuredWidth + 2*t.Padding + t.BorderWidth
	bottom := top + t.MeasuredHeight + 2*t.Padding + t.BorderWidth
	return Sides{
		Left:    left,
		Right:   right,
		Top:     top,
		Bottom:  bottom,
		CenterX: (left + right) / 2,
		CenterY: (top + bottom) / 2,
	}
}

// ScaleFrom scales the font by the dominant axis: text reflows rather than
// stretches.
func (t *Text) ScaleFrom(orig Shape, sx, sy float64) {
	o := orig.(*Text)
	s := max(sx, sy)
	t.FontSize = o.FontSize * s
	t.MeasuredWidth = o.MeasuredWidth * s
	t.MeasuredHeight = o.MeasuredHeight * s
	t.Ascent = o.Ascent * s
}

func (t *Text) IntersectsRect(rect Rect) bool { return intersectsRotated(t, rect) }
func (t *Text) ContainsPoint(p Point) bool    { return containsRotated(t, p) }

func (t *Text) Clone() Shape {
	c := *t
	return &c
}

// Image is an axis-aligned raster placement anchored at its top-left corner.
// Decoding pixels is the host's job; the engine only needs the placed size.
type Image struct {
	Base
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	AssetID string  `json:"assetId"`
}

func (im *Image) Kind() Kind { return KindImage }

func (im *Image) Sides() Sides {
	return SidesOf(Rect{X: im.Pos.X, Y: im.Pos.Y, Width: im.Width, Height: im.Height})
}

func (im *Image) ScaleFrom(orig Shape, sx, sy float64) {
	o := orig.(*Image)
	im.Width = o.Width * sx
	im.Height = o.Height * sy
}

func (im *Image) IntersectsRect(rect Rect) bool { return intersectsRotated(im, rect) }
func (im *Image) ContainsPoint(p Point) bool    { return containsRotated(im, p) }

func (im *Image) Clone() Shape {
	c := *im
	return &c
}
