package scene

import (
	"encoding/json"
	"time"
)

// Document is the persisted form of a Drawdeck project: one flat scene of
// shapes in z-order. Kind-specific fields live in each node's Data payload,
// so the document schema stays stable when a kind grows a field.
type Document struct {
	Project Project     `json:"project"`
	Scene   Scene       `json:"scene"`
	Shapes  []ShapeNode `json:"shapes"`
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Scene struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

type ShapeType string

const (
	ShapeTypeRect   ShapeType = "rect"
	ShapeTypeCircle ShapeType = "circle"
	ShapeTypeText   ShapeType = "text"
	ShapeTypeImage  ShapeType = "image"
)

// ShapeNode is one placed shape. X/Y semantics are type-specific: top-left
// for rect and image, center for circle, baseline origin for text.
type ShapeNode struct {
	ID        string          `json:"id"`
	Type      ShapeType       `json:"type"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Rotation  float64         `json:"rotation"`
	Visible   bool            `json:"visible"`
	Draggable bool            `json:"draggable"`
	Data      json.RawMessage `json:"data"`
}

type RectData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill,omitempty"`
}

type CircleData struct {
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill,omitempty"`
}

type TextData struct {
	Content     string  `json:"content"`
	FontSize    float64 `json:"fontSize"`
	Align       string  `json:"align"`
	Padding     float64 `json:"padding"`
	BorderWidth float64 `json:"borderWidth"`

	// Measured metrics supplied by the host renderer.
	MeasuredWidth  float64 `json:"measuredWidth"`
	MeasuredHeight float64 `json:"measuredHeight"`
	Ascent         float64 `json:"ascent"`
}

type ImageData struct {
	AssetID string  `json:"assetId"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// NewEmptyDocument creates an empty document for a new project.
func NewEmptyDocument(projectID, projectName, sceneID string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		Project: Project{
			ID:        projectID,
			Name:      projectName,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Scene: Scene{
			ID:         sceneID,
			Name:       "Scene 1",
			Width:      1280,
			Height:     720,
			Background: "#1a1a2e",
		},
		Shapes: []ShapeNode{},
	}
}
