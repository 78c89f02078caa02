package scene

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/drawdeck/drawdeck/backend-go/internal/editor"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestMaterialize(t *testing.T) {
	doc := &Document{
		Shapes: []ShapeNode{
			{
				ID: "shape_r", Type: ShapeTypeRect, X: 10, Y: 20, Visible: true, Draggable: true,
				Data: mustJSON(t, RectData{Width: 100, Height: 50}),
			},
			{
				ID: "shape_c", Type: ShapeTypeCircle, X: 200, Y: 100, Rotation: 0.5, Visible: true,
				Data: mustJSON(t, CircleData{Radius: 30}),
			},
			{
				ID: "shape_t", Type: ShapeTypeText, X: 50, Y: 300, Visible: true,
				Data: mustJSON(t, TextData{Content: "hi", FontSize: 16, Align: "center", MeasuredWidth: 40, MeasuredHeight: 18, Ascent: 13}),
			},
			{
				ID: "shape_i", Type: ShapeTypeImage, X: 400, Y: 400, Visible: true,
				Data: mustJSON(t, ImageData{AssetID: "asset_1", Width: 64, Height: 48}),
			},
		},
	}

	shapes, err := Materialize(doc)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(shapes) != 4 {
		t.Fatalf("got %d shapes, want 4", len(shapes))
	}

	r, ok := shapes[0].(*editor.Rectangle)
	if !ok {
		t.Fatalf("shape 0 is %T, want *editor.Rectangle", shapes[0])
	}
	if r.ID != "shape_r" || r.Pos.X != 10 || r.Width != 100 || !r.Draggable {
		t.Errorf("rectangle = %+v", r)
	}

	c, ok := shapes[1].(*editor.Circle)
	if !ok {
		t.Fatalf("shape 1 is %T, want *editor.Circle", shapes[1])
	}
	if c.Radius != 30 || c.Rotation != 0.5 {
		t.Errorf("circle = %+v", c)
	}

	txt, ok := shapes[2].(*editor.Text)
	if !ok {
		t.Fatalf("shape 2 is %T, want *editor.Text", shapes[2])
	}
	if txt.Align != editor.AlignCenter || txt.MeasuredWidth != 40 {
		t.Errorf("text = %+v", txt)
	}

	img, ok := shapes[3].(*editor.Image)
	if !ok {
		t.Fatalf("shape 3 is %T, want *editor.Image", shapes[3])
	}
	if img.AssetID != "asset_1" || img.Width != 64 {
		t.Errorf("image = %+v", img)
	}
}

func TestMaterializeUnknownTypeFails(t *testing.T) {
	doc := &Document{
		Shapes: []ShapeNode{
			{ID: "shape_x", Type: "hexagon", Data: json.RawMessage(`{}`)},
		},
	}

	_, err := Materialize(doc)
	if err == nil {
		t.Fatal("expected error for unknown shape type")
	}
	if !strings.Contains(err.Error(), "hexagon") {
		t.Errorf("error %q does not name the offending type", err)
	}
	if !strings.Contains(err.Error(), "shape_x") {
		t.Errorf("error %q does not name the offending shape", err)
	}
}

func TestMaterializeDefaultsTextAlign(t *testing.T) {
	doc := &Document{
		Shapes: []ShapeNode{
			{ID: "shape_t", Type: ShapeTypeText, Data: mustJSON(t, TextData{Content: "x"})},
		},
	}

	shapes, err := Materialize(doc)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if got := shapes[0].(*editor.Text).Align; got != editor.AlignLeft {
		t.Errorf("align = %q, want left", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	doc := NewSampleDocument("proj_test")

	shapes, err := Materialize(doc)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	nodes, err := Snapshot(shapes)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(nodes) != len(doc.Shapes) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(doc.Shapes))
	}

	for i, node := range nodes {
		orig := doc.Shapes[i]
		if node.ID != orig.ID || node.Type != orig.Type {
			t.Errorf("node %d identity = (%s, %s), want (%s, %s)", i, node.ID, node.Type, orig.ID, orig.Type)
		}
		if node.X != orig.X || node.Y != orig.Y || node.Rotation != orig.Rotation {
			t.Errorf("node %d placement changed: %+v", i, node)
		}
	}

	// Geometry survives the round trip: materialize the snapshot again and
	// compare extents.
	again, err := Materialize(&Document{Shapes: nodes})
	if err != nil {
		t.Fatalf("re-materialize: %v", err)
	}
	for i := range shapes {
		if shapes[i].Sides() != again[i].Sides() {
			t.Errorf("shape %d sides changed: %+v vs %+v", i, shapes[i].Sides(), again[i].Sides())
		}
	}
}

func TestSnapshotAfterTransform(t *testing.T) {
	doc := NewSampleDocument("proj_test")
	shapes, err := Materialize(doc)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	shapes[0].Meta().MoveBy(15, -5)

	nodes, err := Snapshot(shapes)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if nodes[0].X != doc.Shapes[0].X+15 || nodes[0].Y != doc.Shapes[0].Y-5 {
		t.Errorf("node 0 = (%v, %v), want moved position", nodes[0].X, nodes[0].Y)
	}
}

func TestNewEmptyDocument(t *testing.T) {
	doc := NewEmptyDocument("proj_1", "My Project", "scene_1")

	if doc.Project.ID != "proj_1" || doc.Project.Name != "My Project" || doc.Project.Version != 1 {
		t.Errorf("project = %+v", doc.Project)
	}
	if doc.Scene.Width != 1280 || doc.Scene.Height != 720 {
		t.Errorf("scene = %+v", doc.Scene)
	}
	if doc.Shapes == nil || len(doc.Shapes) != 0 {
		t.Errorf("shapes = %v, want empty non-nil", doc.Shapes)
	}
	if doc.Project.CreatedAt == "" || doc.Project.UpdatedAt == "" {
		t.Error("expected timestamps set")
	}
}
