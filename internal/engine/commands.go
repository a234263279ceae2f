package engine

import (
	"encoding/json"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
)

// Layers a draw command belongs to.
const (
	LayerDraw = "draw"
	LayerTemp = "temp"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path"
	Layer       string        `json:"layer"`                 // "draw" for shapes, "temp" for feedback
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Opacity     float64       `json:"opacity,omitempty"`     // Global alpha
	Dash        string        `json:"dash,omitempty"`        // Dash pattern, "4,4"
	Filter      string        `json:"filter,omitempty"`      // Canvas filter
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// CompileDrawCommands generates the draw command buffer of a surface: the
// draw zone in painter's order (back to front), then the temporary zone.
func CompileDrawCommands(s *document.Surface) []DrawCommand {
	if s == nil {
		return nil
	}

	commands := make([]DrawCommand, 0, s.Len())
	for _, sh := range s.Children() {
		if cmd, ok := compileShape(sh, LayerDraw); ok {
			commands = append(commands, cmd)
		}
	}
	for _, sh := range s.TempChildren() {
		if cmd, ok := compileShape(sh, LayerTemp); ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func compileShape(sh *document.Shape, layer string) (DrawCommand, bool) {
	path := shapePath(sh)
	if len(path) == 0 {
		return DrawCommand{}, false
	}

	return DrawCommand{
		Op:          "path",
		Layer:       layer,
		ObjectID:    sh.ID,
		Transform:   sh.Matrix().ToSlice(),
		Path:        path,
		Fill:        sh.Style.Fill,
		Stroke:      sh.Style.Stroke,
		StrokeWidth: sh.Style.StrokeWidth,
		Opacity:     sh.Style.Opacity,
		Dash:        sh.Style.Dash,
		Filter:      sh.Style.Filter,
	}, true
}

// shapePath generates the local path of a shape.
func shapePath(sh *document.Shape) []PathCommand {
	switch sh.Kind {
	case document.ShapeRect:
		return generateRectPath(sh.X, sh.Y, sh.Width, sh.Height)
	case document.ShapeEllipse:
		return generateEllipsePath(sh.X+sh.Width/2, sh.Y+sh.Height/2, sh.Width/2, sh.Height/2)
	case document.ShapePolygon:
		return generatePolylinePath(sh.Points, true)
	default:
		return generatePolylinePath(sh.Points, false)
	}
}

// generateRectPath generates path commands for a rectangle.
func generateRectPath(x, y, w, h float64) []PathCommand {
	return []PathCommand{
		{"M", x, y},
		{"L", x + w, y},
		{"L", x + w, y + h},
		{"L", x, y + h},
		{"Z"},
	}
}

// generateEllipsePath generates path commands for an ellipse using bezier curves.
func generateEllipsePath(cx, cy, rx, ry float64) []PathCommand {
	// Magic number for bezier approximation of a circle/ellipse
	// k = 4 * (sqrt(2) - 1) / 3 ≈ 0.5522847498
	k := 0.5522847498
	kx, ky := rx*k, ry*k

	// Four bezier curves to approximate an ellipse
	return []PathCommand{
		{"M", cx + rx, cy},
		{"C", cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry},
		{"C", cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy},
		{"C", cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry},
		{"C", cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy},
		{"Z"},
	}
}

// generatePolylinePath generates path commands through the points. A single
// point becomes a zero-length segment so a round cap still shows a dot.
func generatePolylinePath(points []geom.Point, closed bool) []PathCommand {
	if len(points) == 0 {
		return nil
	}

	path := make([]PathCommand, 0, len(points)+1)
	path = append(path, PathCommand{"M", points[0].X, points[0].Y})
	if len(points) == 1 {
		path = append(path, PathCommand{"L", points[0].X, points[0].Y})
	}
	for _, p := range points[1:] {
		path = append(path, PathCommand{"L", p.X, p.Y})
	}
	if closed {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// ZoneToJSON serializes a zone as an x/y/width/height rectangle.
func ZoneToJSON(z geom.Zone) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      z.Left,
		"y":      z.Top,
		"width":  z.Width(),
		"height": z.Height(),
	})
	return string(data)
}
