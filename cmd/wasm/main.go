//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/drawdeck/drawdeck/backend-go/internal/editor"
	"github.com/drawdeck/drawdeck/backend-go/internal/scene"
)

var (
	ed  *editor.Editor
	doc *scene.Document
)

func main() {
	ed = editor.New(editor.Config{})

	// Create the editor API object
	drawdeckEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	drawdeckEditor.Set("loadDocument", js.FuncOf(loadDocument))
	drawdeckEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	drawdeckEditor.Set("setViewport", js.FuncOf(setViewport))
	drawdeckEditor.Set("pointerDown", js.FuncOf(pointerDown))
	drawdeckEditor.Set("pointerMove", js.FuncOf(pointerMove))
	drawdeckEditor.Set("pointerUp", js.FuncOf(pointerUp))
	drawdeckEditor.Set("update", js.FuncOf(update))
	drawdeckEditor.Set("setSelection", js.FuncOf(setSelection))
	drawdeckEditor.Set("clearSelection", js.FuncOf(clearSelection))

	// --- Queries (frontend ← backend) ---
	drawdeckEditor.Set("snapshotDocument", js.FuncOf(snapshotDocument))
	drawdeckEditor.Set("getShapes", js.FuncOf(getShapes))
	drawdeckEditor.Set("getSelection", js.FuncOf(getSelection))
	drawdeckEditor.Set("getSelectionBox", js.FuncOf(getSelectionBox))
	drawdeckEditor.Set("getHandles", js.FuncOf(getHandles))
	drawdeckEditor.Set("getGuides", js.FuncOf(getGuides))
	drawdeckEditor.Set("getMarquee", js.FuncOf(getMarquee))

	// Register on global scope
	js.Global().Set("drawdeckEditor", drawdeckEditor)

	// Signal that WASM is ready
	js.Global().Set("drawdeckWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func toJSON(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	var d scene.Document
	if err := json.Unmarshal([]byte(args[0].String()), &d); err != nil {
		return errResult(err)
	}

	shapes, err := scene.Materialize(&d)
	if err != nil {
		return errResult(err)
	}
	if err := ed.SetShapes(shapes); err != nil {
		return errResult(err)
	}

	doc = &d
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}

	d := scene.NewSampleDocument(projectID)
	shapes, err := scene.Materialize(d)
	if err != nil {
		return errResult(err)
	}
	if err := ed.SetShapes(shapes); err != nil {
		return errResult(err)
	}

	doc = d
	return okResult()
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	vp := editor.Viewport{
		Width:  args[0].Float(),
		Height: args[1].Float(),
		Zoom:   args[2].Float(),
	}
	if len(args) >= 5 {
		vp.Offset = editor.Point{X: args[3].Float(), Y: args[4].Float()}
	}
	ed.SetViewport(vp)
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerDown(editor.Point{X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerMove(editor.Point{X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerUp(editor.Point{X: args[0].Float(), Y: args[1].Float()})
	return nil
}

// update runs one frame of the snap pipeline. The frontend calls it from
// requestAnimationFrame after forwarding pointer events for the frame.
func update(this js.Value, args []js.Value) interface{} {
	ed.Update()
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		ed.ClearSelection()
		return nil
	}

	arr := args[0]
	length := arr.Length()
	shapes := make([]editor.Shape, 0, length)
	for i := 0; i < length; i++ {
		if s := ed.ShapeByID(arr.Index(i).String()); s != nil {
			shapes = append(shapes, s)
		}
	}
	ed.Transformer().Select(shapes)
	return nil
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	ed.ClearSelection()
	return nil
}

// --- Query Handlers ---

func snapshotDocument(this js.Value, args []js.Value) interface{} {
	if doc == nil {
		return js.ValueOf("null")
	}

	nodes, err := scene.Snapshot(ed.Shapes())
	if err != nil {
		return errResult(err)
	}

	out := *doc
	out.Shapes = nodes
	return toJSON(out)
}

func getShapes(this js.Value, args []js.Value) interface{} {
	nodes, err := scene.Snapshot(ed.Shapes())
	if err != nil {
		return errResult(err)
	}
	return toJSON(nodes)
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return toJSON(ed.SelectedIDs())
}

func getSelectionBox(this js.Value, args []js.Value) interface{} {
	return toJSON(ed.SelectionBox())
}

func getHandles(this js.Value, args []js.Value) interface{} {
	return toJSON(ed.Handles())
}

func getGuides(this js.Value, args []js.Value) interface{} {
	return toJSON(ed.Guides())
}

func getMarquee(this js.Value, args []js.Value) interface{} {
	r, active := ed.Marquee()
	if !active {
		return js.ValueOf("null")
	}
	return toJSON(r)
}
