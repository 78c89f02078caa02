package editor

// HandleID identifies one of the eight resize handles on the selection box.
type HandleID int

const (
	HandleTopLeft HandleID = iota
	HandleTopCenter
	HandleTopRight
	HandleMiddleLeft
	HandleMiddleRight
	HandleBottomLeft
	HandleBottomCenter
	HandleBottomRight
)

// Handle is a resize grip. Size is in world units, already compensated for
// zoom so the on-screen size stays constant.
type Handle struct {
	ID     HandleID `json:"id"`
	Center Point    `json:"center"`
	Size   float64  `json:"size"`
}

// ContainsPoint reports whether p falls inside the handle's hit box.
func (h Handle) ContainsPoint(p Point) bool {
	half := h.Size / 2
	return p.X >= h.Center.X-half && p.X <= h.Center.X+half &&
		p.Y >= h.Center.Y-half && p.Y <= h.Center.Y+half
}

// Normalized handle positions on the box: {0, 0.5, 1}² without the center.
var handleAnchors = map[HandleID][2]float64{
	HandleTopLeft:      {0, 0},
	HandleTopCenter:    {0.5, 0},
	HandleTopRight:     {1, 0},
	HandleMiddleLeft:   {0, 0.5},
	HandleMiddleRight:  {1, 0.5},
	HandleBottomLeft:   {0, 1},
	HandleBottomCenter: {0.5, 1},
	HandleBottomRight:  {1, 1},
}

func (id HandleID) onLeft() bool {
	return id == HandleTopLeft || id == HandleMiddleLeft || id == HandleBottomLeft
}

func (id HandleID) onRight() bool {
	return id == HandleTopRight || id == HandleMiddleRight || id == HandleBottomRight
}

func (id HandleID) onTop() bool {
	return id == HandleTopLeft || id == HandleTopCenter || id == HandleTopRight
}

func (id HandleID) onBottom() bool {
	return id == HandleBottomLeft || id == HandleBottomCenter || id == HandleBottomRight
}

type gesture int

const (
	gestureIdle gesture = iota
	gestureMoving
	gestureResizing
)

// Transformer owns the current selection set and drives group move and
// anchor-preserving group resize. One Transformer serves one canvas; a drag
// gesture runs pointer-down → pointer-move* → pointer-up and never overlaps
// another.
type Transformer struct {
	selection []Shape
	byID      map[string]Shape

	padding    float64
	handleSize float64
	minSize    float64

	state        gesture
	activeHandle HandleID
	startPointer Point
	lastPointer  Point

	// Gesture-start snapshots. Value copies: live mutation during the drag
	// can never reach them, which is what keeps the anchor invariant exact.
	origBox    Rect
	origShapes map[string]Shape

	onCommit func()
}

// TransformerConfig tunes the transformer. Zero values fall back to
// defaults.
type TransformerConfig struct {
	Padding    float64 // box padding around the selection
	HandleSize float64 // on-screen handle size before zoom compensation
	MinSize    float64 // resize floor preventing inversion or collapse
}

const (
	defaultHandleSize = 10.0
	defaultMinSize    = 10.0
)

// NewTransformer creates an empty transformer.
func NewTransformer(cfg TransformerConfig) *Transformer {
	if cfg.HandleSize <= 0 {
		cfg.HandleSize = defaultHandleSize
	}
	if cfg.MinSize <= 0 {
		cfg.MinSize = defaultMinSize
	}
	return &Transformer{
		byID:       make(map[string]Shape),
		padding:    cfg.Padding,
		handleSize: cfg.HandleSize,
		minSize:    cfg.MinSize,
	}
}

// OnCommit registers the hook fired when a move or resize gesture ends.
// The host decides what to snapshot for undo/persistence.
func (t *Transformer) OnCommit(fn func()) { t.onCommit = fn }

// Selection returns the selected shapes in insertion order.
func (t *Transformer) Selection() []Shape { return t.selection }

// Selected reports whether the shape with the given id is selected.
func (t *Transformer) Selected(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Select replaces the selection set. The previous selection is cleared, not
// merged: marquee selection is exclusive in this engine.
func (t *Transformer) Select(shapes []Shape) {
	t.Clear()
	for _, s := range shapes {
		t.Add(s)
	}
}

// Add inserts a shape into the selection set. Duplicate ids are ignored.
func (t *Transformer) Add(s Shape) {
	id := s.Meta().ID
	if _, ok := t.byID[id]; ok {
		return
	}
	t.byID[id] = s
	t.selection = append(t.selection, s)
	s.Meta().Selected = true
}

// Remove drops a shape from the selection set.
func (t *Transformer) Remove(id string) {
	s, ok := t.byID[id]
	if !ok {
		return
	}
	delete(t.byID, id)
	for i, sel := range t.selection {
		if sel.Meta().ID == id {
			t.selection = append(t.selection[:i], t.selection[i+1:]...)
			break
		}
	}
	s.Meta().Selected = false
}

// Clear empties the selection set.
func (t *Transformer) Clear() {
	for _, s := range t.selection {
		s.Meta().Selected = false
	}
	t.selection = nil
	t.byID = make(map[string]Shape)
}

// Box returns the union bounding box of the selection, without padding.
// An empty selection yields the zero rect.
func (t *Transformer) Box() Rect {
	var box Rect
	for i, s := range t.selection {
		r := s.Sides().Rect()
		if i == 0 {
			box = r
		} else {
			box = box.Union(r)
		}
	}
	return box
}

// paddedBox returns the selection box grown by the configured padding.
func (t *Transformer) paddedBox() Rect {
	box := t.Box()
	return Rect{
		X:      box.X - t.padding,
		Y:      box.Y - t.padding,
		Width:  box.Width + 2*t.padding,
		Height: box.Height + 2*t.padding,
	}
}

// Handles returns the eight resize handles laid out on the padded box.
// Hit boxes scale inversely with zoom so their screen size stays constant.
// An empty selection yields no handles.
func (t *Transformer) Handles(zoom float64) []Handle {
	if len(t.selection) == 0 {
		return nil
	}
	if zoom <= 0 {
		zoom = 1
	}
	box := t.paddedBox()
	size := t.handleSize / zoom

	handles := make([]Handle, 0, len(handleAnchors))
	for id := HandleTopLeft; id <= HandleBottomRight; id++ {
		n := handleAnchors[id]
		handles = append(handles, Handle{
			ID: id,
			Center: Point{
				X: box.X + n[0]*box.Width,
				Y: box.Y + n[1]*box.Height,
			},
			Size: size,
		})
	}
	return handles
}

// HandleAt returns the handle under p, if any.
func (t *Transformer) HandleAt(p Point, zoom float64) (HandleID, bool) {
	for _, h := range t.Handles(zoom) {
		if h.ContainsPoint(p) {
			return h.ID, true
		}
	}
	return 0, false
}

// Moving reports whether a move gesture is in progress.
func (t *Transformer) Moving() bool { return t.state == gestureMoving }

// Resizing reports whether a resize gesture is in progress.
func (t *Transformer) Resizing() bool { return t.state == gestureResizing }

// Active reports whether any gesture is in progress.
func (t *Transformer) Active() bool { return t.state != gestureIdle }

// PointerDown routes a pointer-down in world coordinates. A hit on a handle
// starts a resize; a hit inside the selection box starts a move. Returns
// whether the event was consumed. A pointer-down during an open gesture is
// ignored: gestures are non-reentrant.
func (t *Transformer) PointerDown(p Point, zoom float64) bool {
	if t.state != gestureIdle || len(t.selection) == 0 {
		return false
	}

	if id, ok := t.HandleAt(p, zoom); ok {
		t.state = gestureResizing
		t.activeHandle = id
		t.startPointer = p
		t.snapshot()
		return true
	}

	if t.paddedBox().ContainsPoint(p) {
		t.BeginMove(p)
		return true
	}

	return false
}

// BeginMove starts a move gesture from p without hit-testing. The editor
// uses it when a click lands on a shape that was just selected.
func (t *Transformer) BeginMove(p Point) {
	if t.state != gestureIdle || len(t.selection) == 0 {
		return
	}
	t.state = gestureMoving
	t.lastPointer = p
}

// snapshot captures per-shape position and size plus the pre-gesture box.
func (t *Transformer) snapshot() {
	t.origBox = t.Box()
	t.origShapes = make(map[string]Shape, len(t.selection))
	for _, s := range t.selection {
		t.origShapes[s.Meta().ID] = s.Clone()
	}
}

// PointerMove advances the current gesture.
func (t *Transformer) PointerMove(p Point) {
	switch t.state {
	case gestureMoving:
		dx, dy := p.X-t.lastPointer.X, p.Y-t.lastPointer.Y
		t.Translate(dx, dy)
		t.lastPointer = p
	case gestureResizing:
		t.resizeTo(p)
	}
}

// Translate moves every selected shape by (dx, dy).
func (t *Transformer) Translate(dx, dy float64) {
	for _, s := range t.selection {
		s.Meta().MoveBy(dx, dy)
	}
}

// resizeTo recomputes the whole resize from the gesture-start snapshot.
// Measuring from the start pointer instead of accumulating per-tick deltas
// keeps repeated ticks from compounding rounding error.
func (t *Transformer) resizeTo(p Point) {
	totalX := p.X - t.startPointer.X
	totalY := p.Y - t.startPointer.Y

	newWidth := t.origBox.Width
	newHeight := t.origBox.Height
	switch {
	case t.activeHandle.onRight():
		newWidth = max(newWidth+totalX, t.minSize)
	case t.activeHandle.onLeft():
		newWidth = max(newWidth-totalX, t.minSize)
	}
	switch {
	case t.activeHandle.onBottom():
		newHeight = max(newHeight+totalY, t.minSize)
	case t.activeHandle.onTop():
		newHeight = max(newHeight-totalY, t.minSize)
	}

	// A zero-size original axis leaves the scale undefined; treat it as 1
	// so a degenerate selection is a no-op on that axis.
	sx, sy := 1.0, 1.0
	if t.origBox.Width > 0 {
		sx = newWidth / t.origBox.Width
	}
	if t.origBox.Height > 0 {
		sy = newHeight / t.origBox.Height
	}

	anchor := t.anchorPoint()
	for _, s := range t.selection {
		orig, ok := t.origShapes[s.Meta().ID]
		if !ok {
			continue
		}
		op := orig.Meta().Pos
		s.Meta().Pos = Point{
			X: anchor.X + (op.X-anchor.X)*sx,
			Y: anchor.Y + (op.Y-anchor.Y)*sy,
		}
		s.ScaleFrom(orig, sx, sy)
	}
}

// anchorPoint is the corner of the original box opposite the active handle.
// It is the invariant point of the resize.
func (t *Transformer) anchorPoint() Point {
	a := Point{X: t.origBox.X, Y: t.origBox.Y}
	if t.activeHandle.onLeft() {
		a.X = t.origBox.Right()
	}
	if t.activeHandle.onTop() {
		a.Y = t.origBox.Bottom()
	}
	return a
}

// PointerUp ends the current gesture unconditionally and fires the commit
// hook. All per-gesture snapshot state is discarded.
func (t *Transformer) PointerUp() {
	if t.state == gestureIdle {
		return
	}
	t.state = gestureIdle
	t.origShapes = nil
	t.origBox = Rect{}
	if t.onCommit != nil {
		t.onCommit()
	}
}
