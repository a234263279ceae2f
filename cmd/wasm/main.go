//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/engine"
	"github.com/inamate/vecdraw/internal/tool"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	vecdrawEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	vecdrawEngine.Set("loadDrawing", js.FuncOf(loadDrawing))
	vecdrawEngine.Set("loadSampleDrawing", js.FuncOf(loadSampleDrawing))
	vecdrawEngine.Set("newDrawing", js.FuncOf(newDrawing))
	vecdrawEngine.Set("selectTool", js.FuncOf(selectTool))
	vecdrawEngine.Set("setStyle", js.FuncOf(setStyle))
	vecdrawEngine.Set("mouseDown", js.FuncOf(mouseHandler(eng.MouseDown)))
	vecdrawEngine.Set("mouseMove", js.FuncOf(mouseHandler(eng.MouseMove)))
	vecdrawEngine.Set("mouseUp", js.FuncOf(mouseHandler(eng.MouseUp)))
	vecdrawEngine.Set("mouseLeave", js.FuncOf(mouseHandler(eng.MouseLeave)))
	vecdrawEngine.Set("keyDown", js.FuncOf(keyDown))
	vecdrawEngine.Set("undo", js.FuncOf(undo))
	vecdrawEngine.Set("redo", js.FuncOf(redo))

	// --- Queries (frontend ← backend) ---
	vecdrawEngine.Set("render", js.FuncOf(render))
	vecdrawEngine.Set("hitTest", js.FuncOf(hitTest))
	vecdrawEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	vecdrawEngine.Set("getDrawing", js.FuncOf(getDrawing))
	vecdrawEngine.Set("getState", js.FuncOf(getState))
	vecdrawEngine.Set("canUndo", js.FuncOf(canUndo))
	vecdrawEngine.Set("canRedo", js.FuncOf(canRedo))

	// Register on global scope
	js.Global().Set("vecdrawEngine", vecdrawEngine)

	// Signal that WASM is ready
	js.Global().Set("vecdrawWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

// --- Command Handlers ---

func loadDrawing(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("drawing JSON")
	}
	return result(eng.LoadDrawing(args[0].String()))
}

func loadSampleDrawing(this js.Value, args []js.Value) interface{} {
	drawingID := "sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		drawingID = args[0].String()
	}

	eng.LoadSampleDrawing(drawingID)
	return result(nil)
}

func newDrawing(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return missing("name, width and height")
	}
	id, err := eng.NewDrawing(args[0].String(), args[1].Int(), args[2].Int())
	if err != nil {
		return result(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "id": id})
}

func selectTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("tool name")
	}
	return result(eng.SelectTool(args[0].String()))
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("style JSON")
	}
	var style document.Style
	if err := json.Unmarshal([]byte(args[0].String()), &style); err != nil {
		return result(err)
	}
	eng.SetStyle(style)
	return result(nil)
}

// mouseHandler adapts an engine pointer method to the JS signature
// (x, y, button, shift, ctrl).
func mouseHandler(fn func(tool.MouseEvent) error) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return missing("coordinates")
		}
		ev := tool.MouseEvent{}
		ev.Point.X = args[0].Float()
		ev.Point.Y = args[1].Float()
		if len(args) > 2 {
			ev.Button = tool.Button(args[2].Int())
		}
		if len(args) > 3 {
			ev.Shift = args[3].Truthy()
		}
		if len(args) > 4 {
			ev.Ctrl = args[4].Truthy()
		}
		return result(fn(ev))
	}
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("key")
	}
	k := tool.Key{Key: args[0].String()}
	if len(args) > 1 {
		k.Shift = args[1].Truthy()
	}
	if len(args) > 2 {
		k.Ctrl = args[2].Truthy()
	}
	return result(eng.KeyDown(k))
}

func undo(this js.Value, args []js.Value) interface{} {
	return result(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return result(eng.Redo())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(eng.HitTest(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getDrawing(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDrawing())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetState())
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanRedo())
}
