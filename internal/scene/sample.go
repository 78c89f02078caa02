package scene

import "encoding/json"

// NewSampleDocument builds the document used by the playground project and
// the wasm demo: a small arrangement that exercises every shape type.
func NewSampleDocument(projectID string) *Document {
	doc := NewEmptyDocument(projectID, "Playground", "scene_sample")

	rect, _ := json.Marshal(RectData{Width: 160, Height: 100, Fill: "#4f8cff"})
	circle, _ := json.Marshal(CircleData{Radius: 45, Fill: "#ff6b6b"})
	text, _ := json.Marshal(TextData{
		Content:        "Drawdeck",
		FontSize:       24,
		Align:          "left",
		Padding:        4,
		MeasuredWidth:  120,
		MeasuredHeight: 28,
		Ascent:         19,
	})
	tilted, _ := json.Marshal(RectData{Width: 90, Height: 90, Fill: "#ffd166"})

	doc.Shapes = []ShapeNode{
		{ID: "shape_sample_rect", Type: ShapeTypeRect, X: 120, Y: 120, Visible: true, Draggable: true, Data: rect},
		{ID: "shape_sample_circle", Type: ShapeTypeCircle, X: 420, Y: 170, Visible: true, Draggable: true, Data: circle},
		{ID: "shape_sample_text", Type: ShapeTypeText, X: 140, Y: 320, Visible: true, Draggable: true, Data: text},
		{ID: "shape_sample_tilted", Type: ShapeTypeRect, X: 560, Y: 300, Rotation: 0.35, Visible: true, Draggable: true, Data: tilted},
	}
	return doc
}
