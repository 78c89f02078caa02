package scene

import (
	"encoding/json"
	"fmt"

	"github.com/drawdeck/drawdeck/backend-go/internal/editor"
)

// Materialize converts document shape nodes into live editor shapes.
// An unregistered shape type is a configuration error and fails the whole
// conversion: defaulting it to a zero-size box would silently corrupt
// selection bounding math.
func Materialize(doc *Document) ([]editor.Shape, error) {
	shapes := make([]editor.Shape, 0, len(doc.Shapes))
	for _, node := range doc.Shapes {
		s, err := materializeNode(node)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", node.ID, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

func materializeNode(node ShapeNode) (editor.Shape, error) {
	base := editor.Base{
		ID:        node.ID,
		Pos:       editor.Point{X: node.X, Y: node.Y},
		Rotation:  node.Rotation,
		Visible:   node.Visible,
		Draggable: node.Draggable,
	}

	switch node.Type {
	case ShapeTypeRect:
		var d RectData
		if err := json.Unmarshal(node.Data, &d); err != nil {
			return nil, fmt.Errorf("rect data: %w", err)
		}
		return &editor.Rectangle{Base: base, Width: d.Width, Height: d.Height}, nil

	case ShapeTypeCircle:
		var d CircleData
		if err := json.Unmarshal(node.Data, &d); err != nil {
			return nil, fmt.Errorf("circle data: %w", err)
		}
		return &editor.Circle{Base: base, Radius: d.Radius}, nil

	case ShapeTypeText:
		var d TextData
		if err := json.Unmarshal(node.Data, &d); err != nil {
			return nil, fmt.Errorf("text data: %w", err)
		}
		align := editor.TextAlign(d.Align)
		if align == "" {
			align = editor.AlignLeft
		}
		return &editor.Text{
			Base:           base,
			Content:        d.Content,
			FontSize:       d.FontSize,
			Align:          align,
			Padding:        d.Padding,
			BorderWidth:    d.BorderWidth,
			MeasuredWidth:  d.MeasuredWidth,
			MeasuredHeight: d.MeasuredHeight,
			Ascent:         d.Ascent,
		}, nil

	case ShapeTypeImage:
		var d ImageData
		if err := json.Unmarshal(node.Data, &d); err != nil {
			return nil, fmt.Errorf("image data: %w", err)
		}
		return &editor.Image{Base: base, Width: d.Width, Height: d.Height, AssetID: d.AssetID}, nil

	default:
		return nil, fmt.Errorf("unknown shape type %q", node.Type)
	}
}

// Snapshot converts live editor shapes back into document nodes, preserving
// z-order. It is the inverse of Materialize.
func Snapshot(shapes []editor.Shape) ([]ShapeNode, error) {
	nodes := make([]ShapeNode, 0, len(shapes))
	for _, s := range shapes {
		node, err := snapshotShape(s)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", s.Meta().ID, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func snapshotShape(s editor.Shape) (ShapeNode, error) {
	b := s.Meta()
	node := ShapeNode{
		ID:        b.ID,
		X:         b.Pos.X,
		Y:         b.Pos.Y,
		Rotation:  b.Rotation,
		Visible:   b.Visible,
		Draggable: b.Draggable,
	}

	var payload any
	switch v := s.(type) {
	case *editor.Rectangle:
		node.Type = ShapeTypeRect
		payload = RectData{Width: v.Width, Height: v.Height}
	case *editor.Circle:
		node.Type = ShapeTypeCircle
		payload = CircleData{Radius: v.Radius}
	case *editor.Text:
		node.Type = ShapeTypeText
		payload = TextData{
			Content:        v.Content,
			FontSize:       v.FontSize,
			Align:          string(v.Align),
			Padding:        v.Padding,
			BorderWidth:    v.BorderWidth,
			MeasuredWidth:  v.MeasuredWidth,
			MeasuredHeight: v.MeasuredHeight,
			Ascent:         v.Ascent,
		}
	case *editor.Image:
		node.Type = ShapeTypeImage
		payload = ImageData{AssetID: v.AssetID, Width: v.Width, Height: v.Height}
	default:
		return ShapeNode{}, fmt.Errorf("unknown shape kind %q", s.Kind())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return ShapeNode{}, err
	}
	node.Data = data
	return node, nil
}
