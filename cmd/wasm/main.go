//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/input"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	shapesEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	shapesEngine.Set("loadDocument", js.FuncOf(loadDocument))
	shapesEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	shapesEngine.Set("resize", js.FuncOf(resize))
	shapesEngine.Set("pointer", js.FuncOf(pointer))
	shapesEngine.Set("key", js.FuncOf(key))
	shapesEngine.Set("commit", js.FuncOf(commit))
	shapesEngine.Set("reset", js.FuncOf(reset))
	shapesEngine.Set("toggleBorders", js.FuncOf(toggleBorders))
	shapesEngine.Set("addShape", js.FuncOf(addShape))
	shapesEngine.Set("removeShape", js.FuncOf(removeShape))

	// --- Queries (frontend ← backend) ---
	shapesEngine.Set("render", js.FuncOf(render))
	shapesEngine.Set("hitTest", js.FuncOf(hitTest))
	shapesEngine.Set("intersects", js.FuncOf(intersects))
	shapesEngine.Set("getDocument", js.FuncOf(getDocument))
	shapesEngine.Set("getPivot", js.FuncOf(getPivot))

	// Register on global scope
	js.Global().Set("shapesEngine", shapesEngine)

	// Signal that WASM is ready
	js.Global().Set("shapesWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := eng.LoadDocument(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	sceneID := "scene_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		sceneID = args[0].String()
	}

	eng.LoadSampleDocument(sceneID)
	return okResult()
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(args[0].Int(), args[1].Int())
	return nil
}

// pointer takes an input.PointerEvent as JSON and reports whether a shape
// was dragged.
func pointer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	var ev input.PointerEvent
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.HandlePointer(ev))
}

func key(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.HandleKey(input.KeyEvent{Key: input.Key(args[0].String())}))
}

func commit(this js.Value, args []js.Value) interface{} {
	eng.CommitTransforms()
	return nil
}

func reset(this js.Value, args []js.Value) interface{} {
	eng.ResetTransforms()
	return nil
}

func toggleBorders(this js.Value, args []js.Value) interface{} {
	eng.ToggleBorders()
	return nil
}

func addShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing shape JSON"})
	}
	var node document.ShapeNode
	if err := json.Unmarshal([]byte(args[0].String()), &node); err != nil {
		return errorResult(err)
	}
	id, err := eng.AddShape(node)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"id": id})
}

func removeShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := eng.RemoveShape(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

// hitTest takes a window pixel position.
func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTestPixel(args[0].Float(), args[1].Float()))
}

func intersects(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "need two shape IDs"})
	}
	hit, err := eng.Intersects(args[0].String(), args[1].String())
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"intersects": hit})
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDocument())
}

func getPivot(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Pivot())
}
