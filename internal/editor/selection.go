package editor

// Detect returns the visible shapes that overlap the marquee rect. A shape
// that merely touches the rect's edge is not included. Rotated shapes are
// tested with their rotated corners, not their axis-aligned approximation.
//
// Callers are expected to gate the call by a minimum drag distance: a
// near-zero marquee must not reach Detect at all, so an existing selection
// is never cleared by an accidental click.
func Detect(shapes []Shape, marquee Rect) []Shape {
	marquee = marquee.Normalized()

	var hits []Shape
	for _, s := range shapes {
		if !s.Meta().Visible {
			continue
		}
		if s.IntersectsRect(marquee) {
			hits = append(hits, s)
		}
	}
	return hits
}

// TopShapeAt returns the frontmost visible shape containing p, or nil.
// Shapes are ordered back to front, so the scan runs in reverse.
func TopShapeAt(shapes []Shape, p Point) Shape {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if !s.Meta().Visible {
			continue
		}
		if s.ContainsPoint(p) {
			return s
		}
	}
	return nil
}
