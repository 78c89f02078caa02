package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/drawdeck/drawdeck/backend-go/internal/scene"
)

// DocumentState wraps the authoritative scene document for a room and
// applies operations to it under a lock.
type DocumentState struct {
	mu        sync.RWMutex
	doc       *scene.Document
	serverSeq int64
	dirty     bool
	renamed   bool
}

func NewDocumentState(doc *scene.Document) *DocumentState {
	return &DocumentState{doc: doc}
}

// Snapshot returns the current document serialized to JSON along with the
// server sequence number it reflects.
func (ds *DocumentState) Snapshot() (json.RawMessage, int64, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	data, err := json.Marshal(ds.doc)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal document: %w", err)
	}
	return data, ds.serverSeq, nil
}

// Document returns the live document. Callers must not mutate it.
func (ds *DocumentState) Document() *scene.Document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.doc
}

// Dirty reports whether operations have been applied since the last call
// to ClearDirty.
func (ds *DocumentState) Dirty() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.dirty
}

func (ds *DocumentState) ClearDirty() {
	ds.mu.Lock()
	ds.dirty = false
	ds.renamed = false
	ds.mu.Unlock()
}

// PendingRename reports whether a project rename has been applied since the
// last save, along with the name to persist. The project row is updated
// outside the document snapshot, so savers need to know about it separately.
func (ds *DocumentState) PendingRename() (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.doc.Project.Name, ds.renamed
}

// ApplyOperation validates op against the current document, applies it, and
// returns the new server sequence number.
func (ds *DocumentState) ApplyOperation(op *Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	var err error
	switch op.Type {
	case OpShapeTransform:
		err = ds.applyTransform(op)
	case OpShapeCreate:
		err = ds.applyCreate(op)
	case OpShapeDelete:
		err = ds.applyDelete(op)
	case OpShapeVisibility:
		err = ds.applyVisibility(op)
	case OpShapeReorder:
		err = ds.applyReorder(op)
	case OpSceneUpdate:
		err = ds.applySceneUpdate(op)
	case OpProjectRename:
		err = ds.applyProjectRename(op)
	default:
		err = fmt.Errorf("unknown operation type %q", op.Type)
	}
	if err != nil {
		return 0, err
	}

	ds.serverSeq++
	ds.dirty = true
	ds.doc.Project.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return ds.serverSeq, nil
}

func (ds *DocumentState) findShape(id string) (int, *scene.ShapeNode) {
	for i := range ds.doc.Shapes {
		if ds.doc.Shapes[i].ID == id {
			return i, &ds.doc.Shapes[i]
		}
	}
	return -1, nil
}

// applyTransform merges partial numeric updates into a shape. The x, y, and
// rotation keys address the node; everything else addresses the
// kind-specific data payload.
func (ds *DocumentState) applyTransform(op *Operation) error {
	_, node := ds.findShape(op.ShapeID)
	if node == nil {
		return fmt.Errorf("shape %q not found", op.ShapeID)
	}
	if len(op.Transform) == 0 {
		return fmt.Errorf("transform operation without transform payload")
	}

	var changes map[string]float64
	if err := json.Unmarshal(op.Transform, &changes); err != nil {
		return fmt.Errorf("decode transform: %w", err)
	}

	dataChanges := make(map[string]float64)
	for key, value := range changes {
		switch key {
		case "x":
			node.X = value
		case "y":
			node.Y = value
		case "rotation":
			node.Rotation = value
		default:
			dataChanges[key] = value
		}
	}

	if len(dataChanges) == 0 {
		return nil
	}

	// Merge into the opaque data payload without knowing the shape kind.
	var data map[string]interface{}
	if len(node.Data) > 0 {
		if err := json.Unmarshal(node.Data, &data); err != nil {
			return fmt.Errorf("decode shape data: %w", err)
		}
	} else {
		data = make(map[string]interface{})
	}
	for key, value := range dataChanges {
		data[key] = value
	}

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode shape data: %w", err)
	}
	node.Data = merged
	return nil
}

func (ds *DocumentState) applyCreate(op *Operation) error {
	if len(op.Shape) == 0 {
		return fmt.Errorf("create operation without shape payload")
	}

	var node scene.ShapeNode
	if err := json.Unmarshal(op.Shape, &node); err != nil {
		return fmt.Errorf("decode shape: %w", err)
	}
	if node.ID == "" {
		return fmt.Errorf("shape id is required")
	}
	if i, _ := ds.findShape(node.ID); i >= 0 {
		return fmt.Errorf("shape %q already exists", node.ID)
	}

	if op.Index != nil && *op.Index >= 0 && *op.Index < len(ds.doc.Shapes) {
		i := *op.Index
		ds.doc.Shapes = append(ds.doc.Shapes, scene.ShapeNode{})
		copy(ds.doc.Shapes[i+1:], ds.doc.Shapes[i:])
		ds.doc.Shapes[i] = node
	} else {
		ds.doc.Shapes = append(ds.doc.Shapes, node)
	}
	return nil
}

func (ds *DocumentState) applyDelete(op *Operation) error {
	i, _ := ds.findShape(op.ShapeID)
	if i < 0 {
		return fmt.Errorf("shape %q not found", op.ShapeID)
	}
	ds.doc.Shapes = append(ds.doc.Shapes[:i], ds.doc.Shapes[i+1:]...)
	return nil
}

func (ds *DocumentState) applyVisibility(op *Operation) error {
	_, node := ds.findShape(op.ShapeID)
	if node == nil {
		return fmt.Errorf("shape %q not found", op.ShapeID)
	}
	if op.Visible == nil {
		return fmt.Errorf("visibility operation without visible flag")
	}
	node.Visible = *op.Visible
	return nil
}

func (ds *DocumentState) applyReorder(op *Operation) error {
	i, _ := ds.findShape(op.ShapeID)
	if i < 0 {
		return fmt.Errorf("shape %q not found", op.ShapeID)
	}
	j := op.NewIndex
	if j < 0 || j >= len(ds.doc.Shapes) {
		return fmt.Errorf("reorder index %d out of range", j)
	}

	node := ds.doc.Shapes[i]
	ds.doc.Shapes = append(ds.doc.Shapes[:i], ds.doc.Shapes[i+1:]...)
	ds.doc.Shapes = append(ds.doc.Shapes, scene.ShapeNode{})
	copy(ds.doc.Shapes[j+1:], ds.doc.Shapes[j:])
	ds.doc.Shapes[j] = node
	return nil
}

func (ds *DocumentState) applySceneUpdate(op *Operation) error {
	if len(op.Changes) == 0 {
		return fmt.Errorf("scene update without changes")
	}

	var changes struct {
		Name       *string `json:"name"`
		Width      *int    `json:"width"`
		Height     *int    `json:"height"`
		Background *string `json:"background"`
	}
	if err := json.Unmarshal(op.Changes, &changes); err != nil {
		return fmt.Errorf("decode scene changes: %w", err)
	}

	if changes.Name != nil {
		ds.doc.Scene.Name = *changes.Name
	}
	if changes.Width != nil {
		if *changes.Width <= 0 {
			return fmt.Errorf("scene width must be positive")
		}
		ds.doc.Scene.Width = *changes.Width
	}
	if changes.Height != nil {
		if *changes.Height <= 0 {
			return fmt.Errorf("scene height must be positive")
		}
		ds.doc.Scene.Height = *changes.Height
	}
	if changes.Background != nil {
		ds.doc.Scene.Background = *changes.Background
	}
	return nil
}

func (ds *DocumentState) applyProjectRename(op *Operation) error {
	if op.Name == "" {
		return fmt.Errorf("rename operation without name")
	}
	ds.doc.Project.Name = op.Name
	ds.renamed = true
	return nil
}
