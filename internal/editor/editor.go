package editor

import "fmt"

// Config tunes the editor core. Zero values fall back to defaults.
type Config struct {
	Snap          SnapConfig
	Transformer   TransformerConfig
	DragThreshold float64 // minimum marquee drag distance before Detect runs
}

const defaultDragThreshold = 4.0

// Editor wires the transform and alignment engine together: it owns the
// live shape list, the Transformer, SnapSmart, and the viewport, routes
// pointer events, and exposes pure render data to the host. Everything runs
// on the host's frame loop; nothing here blocks or spawns goroutines.
type Editor struct {
	shapes []Shape // back-to-front z-order
	byID   map[string]Shape

	viewport    Viewport
	transformer *Transformer
	snap        *SnapSmart

	dragThreshold float64

	marqueeActive bool
	marqueeStart  Point
	pointer       Point

	onCommit func()
}

// New creates an editor with the given tuning.
func New(cfg Config) *Editor {
	if cfg.DragThreshold <= 0 {
		cfg.DragThreshold = defaultDragThreshold
	}
	e := &Editor{
		byID:          make(map[string]Shape),
		viewport:      Viewport{Zoom: 1},
		transformer:   NewTransformer(cfg.Transformer),
		snap:          NewSnapSmart(cfg.Snap),
		dragThreshold: cfg.DragThreshold,
	}
	e.transformer.OnCommit(func() {
		if e.onCommit != nil {
			e.onCommit()
		}
	})
	return e
}

// OnCommit registers the hook fired when a move or resize gesture ends.
// It carries no payload: the host decides what to snapshot.
func (e *Editor) OnCommit(fn func()) { e.onCommit = fn }

// SetViewport updates the visible region used for snapping and handle
// sizing.
func (e *Editor) SetViewport(vp Viewport) { e.viewport = vp }

// Viewport returns the current viewport.
func (e *Editor) Viewport() Viewport { return e.viewport }

// AddShape appends a shape at the front of the z-order.
func (e *Editor) AddShape(s Shape) error {
	id := s.Meta().ID
	if id == "" {
		return fmt.Errorf("shape has no id")
	}
	if _, ok := e.byID[id]; ok {
		return fmt.Errorf("duplicate shape id %q", id)
	}
	e.byID[id] = s
	e.shapes = append(e.shapes, s)
	return nil
}

// RemoveShape drops a shape from the scene and the selection.
func (e *Editor) RemoveShape(id string) {
	if _, ok := e.byID[id]; !ok {
		return
	}
	delete(e.byID, id)
	for i, s := range e.shapes {
		if s.Meta().ID == id {
			e.shapes = append(e.shapes[:i], e.shapes[i+1:]...)
			break
		}
	}
	e.transformer.Remove(id)
}

// ShapeByID returns the shape with the given id, or nil.
func (e *Editor) ShapeByID(id string) Shape { return e.byID[id] }

// Shapes returns the scene's shapes in z-order.
func (e *Editor) Shapes() []Shape { return e.shapes }

// SetShapes replaces the whole scene and clears the selection.
func (e *Editor) SetShapes(shapes []Shape) error {
	e.transformer.Clear()
	e.snap.Unbind()
	e.shapes = nil
	e.byID = make(map[string]Shape, len(shapes))
	for _, s := range shapes {
		if err := e.AddShape(s); err != nil {
			return err
		}
	}
	return nil
}

// Transformer exposes the selection owner, mainly for tests and hosts that
// manage selection programmatically.
func (e *Editor) Transformer() *Transformer { return e.transformer }

// SelectedIDs returns the ids of the selected shapes in insertion order.
func (e *Editor) SelectedIDs() []string {
	sel := e.transformer.Selection()
	ids := make([]string, len(sel))
	for i, s := range sel {
		ids[i] = s.Meta().ID
	}
	return ids
}

// ClearSelection empties the selection set.
func (e *Editor) ClearSelection() { e.transformer.Clear() }

// PointerDown routes a pointer-down in world coordinates: resize handle
// first, then the selection box, then a shape under the cursor, and finally
// an empty-canvas marquee.
func (e *Editor) PointerDown(p Point) {
	e.pointer = p

	if e.transformer.PointerDown(p, e.viewport.scale()) {
		if e.transformer.Moving() {
			e.snap.Bind(TargetGroup(e.transformer))
		}
		return
	}

	if s := TopShapeAt(e.shapes, p); s != nil && s.Meta().Draggable {
		e.transformer.Select([]Shape{s})
		e.transformer.BeginMove(p)
		e.snap.Bind(TargetGroup(e.transformer))
		return
	}

	e.marqueeActive = true
	e.marqueeStart = p
}

// PointerMove applies pointer input for the current tick. Snap adjustment
// runs later in Update, after all input for the frame is applied.
func (e *Editor) PointerMove(p Point) {
	e.pointer = p
	if e.transformer.Active() {
		e.transformer.PointerMove(p)
	}
}

// PointerUp ends the current gesture. Remaining snap offsets are applied
// before the commit hook fires, so the committed geometry is the snapped
// geometry.
func (e *Editor) PointerUp(p Point) {
	e.pointer = p

	if e.marqueeActive {
		e.marqueeActive = false
		if e.marqueeStart.Dist(p) >= e.dragThreshold {
			rect := Rect{
				X:      e.marqueeStart.X,
				Y:      e.marqueeStart.Y,
				Width:  p.X - e.marqueeStart.X,
				Height: p.Y - e.marqueeStart.Y,
			}
			e.transformer.Select(Detect(e.shapes, rect))
		}
		return
	}

	if e.transformer.Active() {
		e.snap.Commit()
		e.snap.Unbind()
		e.transformer.PointerUp()
	}
}

// Update runs the per-frame pipeline after input has been applied:
// snap-adjust, then bounds recompute through the render-data queries.
// Called once per frame while the editor is active.
func (e *Editor) Update() {
	if e.snap.Bound() {
		e.snap.Update(e.shapes, e.viewport)
	}
}

// SelectionBox returns the selection's union bounding box.
func (e *Editor) SelectionBox() Rect { return e.transformer.Box() }

// Handles returns the selection's resize handles, zoom-compensated.
func (e *Editor) Handles() []Handle { return e.transformer.Handles(e.viewport.scale()) }

// Guides returns the current tick's alignment guide lines.
func (e *Editor) Guides() []Guide { return e.snap.Guides() }

// Marquee returns the in-progress marquee rect, if one is being dragged.
func (e *Editor) Marquee() (Rect, bool) {
	if !e.marqueeActive {
		return Rect{}, false
	}
	r := Rect{
		X:      e.marqueeStart.X,
		Y:      e.marqueeStart.Y,
		Width:  e.pointer.X - e.marqueeStart.X,
		Height: e.pointer.Y - e.marqueeStart.Y,
	}
	return r.Normalized(), true
}
