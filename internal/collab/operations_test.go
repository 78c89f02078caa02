package collab

import (
	"encoding/json"
	"testing"

	"github.com/drawdeck/drawdeck/backend-go/internal/scene"
)

func testDoc() *scene.Document {
	doc := scene.NewEmptyDocument("proj_1", "Test", "scene_1")
	rect, _ := json.Marshal(scene.RectData{Width: 100, Height: 50})
	circle, _ := json.Marshal(scene.CircleData{Radius: 30})
	doc.Shapes = []scene.ShapeNode{
		{ID: "shape_a", Type: scene.ShapeTypeRect, X: 10, Y: 20, Visible: true, Draggable: true, Data: rect},
		{ID: "shape_b", Type: scene.ShapeTypeCircle, X: 200, Y: 100, Visible: true, Draggable: true, Data: circle},
	}
	return doc
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestApplyTransform(t *testing.T) {
	ds := NewDocumentState(testDoc())

	seq, err := ds.ApplyOperation(&Operation{
		ID:      "op_1",
		Type:    OpShapeTransform,
		ShapeID: "shape_a",
		Transform: raw(t, map[string]float64{
			"x": 150, "y": 75, "rotation": 0.5, "width": 120,
		}),
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}

	node := ds.Document().Shapes[0]
	if node.X != 150 || node.Y != 75 || node.Rotation != 0.5 {
		t.Errorf("node placement = %+v", node)
	}

	var data scene.RectData
	if err := json.Unmarshal(node.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	// width updated inside the payload, height untouched.
	if data.Width != 120 || data.Height != 50 {
		t.Errorf("data = %+v, want width 120 height 50", data)
	}

	if !ds.Dirty() {
		t.Error("expected dirty after operation")
	}
}

func TestApplyTransformUnknownShape(t *testing.T) {
	ds := NewDocumentState(testDoc())

	_, err := ds.ApplyOperation(&Operation{
		Type:      OpShapeTransform,
		ShapeID:   "shape_missing",
		Transform: raw(t, map[string]float64{"x": 1}),
	})
	if err == nil {
		t.Fatal("expected error for unknown shape")
	}
	if ds.Dirty() {
		t.Error("rejected operation must not mark the document dirty")
	}
}

func TestApplyCreateAndDelete(t *testing.T) {
	ds := NewDocumentState(testDoc())

	node := scene.ShapeNode{
		ID: "shape_c", Type: scene.ShapeTypeRect, X: 0, Y: 0, Visible: true,
		Data: raw(t, scene.RectData{Width: 10, Height: 10}),
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeCreate, Shape: raw(t, node)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := len(ds.Document().Shapes); got != 3 {
		t.Fatalf("shapes = %d, want 3", got)
	}

	// Duplicate id is rejected.
	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeCreate, Shape: raw(t, node)}); err == nil {
		t.Fatal("expected duplicate create to fail")
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeDelete, ShapeID: "shape_c"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(ds.Document().Shapes); got != 2 {
		t.Errorf("shapes = %d, want 2", got)
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeDelete, ShapeID: "shape_c"}); err == nil {
		t.Fatal("expected delete of missing shape to fail")
	}
}

func TestApplyCreateAtIndex(t *testing.T) {
	ds := NewDocumentState(testDoc())
	idx := 0

	node := scene.ShapeNode{
		ID: "shape_back", Type: scene.ShapeTypeRect,
		Data: raw(t, scene.RectData{Width: 5, Height: 5}),
	}
	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeCreate, Shape: raw(t, node), Index: &idx}); err != nil {
		t.Fatalf("create: %v", err)
	}

	shapes := ds.Document().Shapes
	if shapes[0].ID != "shape_back" || shapes[1].ID != "shape_a" {
		t.Errorf("order = [%s %s %s]", shapes[0].ID, shapes[1].ID, shapes[2].ID)
	}
}

func TestApplyVisibility(t *testing.T) {
	ds := NewDocumentState(testDoc())
	hidden := false

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeVisibility, ShapeID: "shape_a", Visible: &hidden}); err != nil {
		t.Fatalf("visibility: %v", err)
	}
	if ds.Document().Shapes[0].Visible {
		t.Error("expected shape hidden")
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeVisibility, ShapeID: "shape_a"}); err == nil {
		t.Error("expected missing visible flag to fail")
	}
}

func TestApplyReorder(t *testing.T) {
	ds := NewDocumentState(testDoc())

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeReorder, ShapeID: "shape_a", NewIndex: 1}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	shapes := ds.Document().Shapes
	if shapes[0].ID != "shape_b" || shapes[1].ID != "shape_a" {
		t.Errorf("order = [%s %s]", shapes[0].ID, shapes[1].ID)
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpShapeReorder, ShapeID: "shape_a", NewIndex: 5}); err == nil {
		t.Error("expected out-of-range index to fail")
	}
}

func TestApplySceneUpdateAndRename(t *testing.T) {
	ds := NewDocumentState(testDoc())

	if _, err := ds.ApplyOperation(&Operation{
		Type:    OpSceneUpdate,
		Changes: raw(t, map[string]any{"name": "Act II", "width": 1920, "height": 1080}),
	}); err != nil {
		t.Fatalf("scene update: %v", err)
	}

	sc := ds.Document().Scene
	if sc.Name != "Act II" || sc.Width != 1920 || sc.Height != 1080 {
		t.Errorf("scene = %+v", sc)
	}

	if _, err := ds.ApplyOperation(&Operation{
		Type:    OpSceneUpdate,
		Changes: raw(t, map[string]any{"width": -5}),
	}); err == nil {
		t.Error("expected negative width to fail")
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpProjectRename, Name: "Renamed"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if ds.Document().Project.Name != "Renamed" {
		t.Errorf("project name = %q", ds.Document().Project.Name)
	}
}

func TestPendingRename(t *testing.T) {
	ds := NewDocumentState(testDoc())

	if _, renamed := ds.PendingRename(); renamed {
		t.Fatal("fresh state must not report a pending rename")
	}

	// A content edit alone never flags a rename.
	if _, err := ds.ApplyOperation(&Operation{
		Type:      OpShapeTransform,
		ShapeID:   "shape_a",
		Transform: raw(t, map[string]float64{"x": 5}),
	}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if _, renamed := ds.PendingRename(); renamed {
		t.Error("transform must not report a pending rename")
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpProjectRename, Name: "Storyboard v2"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	name, renamed := ds.PendingRename()
	if !renamed || name != "Storyboard v2" {
		t.Errorf("pending rename = (%q, %v), want (Storyboard v2, true)", name, renamed)
	}

	// Saving clears the flag so the next save does not rename again.
	ds.ClearDirty()
	if _, renamed := ds.PendingRename(); renamed {
		t.Error("expected no pending rename after ClearDirty")
	}
}

func TestServerSeqIncrements(t *testing.T) {
	ds := NewDocumentState(testDoc())

	for i := int64(1); i <= 3; i++ {
		seq, err := ds.ApplyOperation(&Operation{
			Type:      OpShapeTransform,
			ShapeID:   "shape_a",
			Transform: raw(t, map[string]float64{"x": float64(i)}),
		})
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if seq != i {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}

	_, seq, err := ds.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if seq != 3 {
		t.Errorf("snapshot seq = %d, want 3", seq)
	}
}

func TestUnknownOperationType(t *testing.T) {
	ds := NewDocumentState(testDoc())

	if _, err := ds.ApplyOperation(&Operation{Type: "shape.explode"}); err == nil {
		t.Fatal("expected unknown operation type to fail")
	}
}

func TestClearDirty(t *testing.T) {
	ds := NewDocumentState(testDoc())

	if ds.Dirty() {
		t.Fatal("fresh state must be clean")
	}

	if _, err := ds.ApplyOperation(&Operation{Type: OpProjectRename, Name: "X"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !ds.Dirty() {
		t.Fatal("expected dirty")
	}

	ds.ClearDirty()
	if ds.Dirty() {
		t.Error("expected clean after ClearDirty")
	}
}
