package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/vecdraw/internal/document"
)

// DrawingSource looks up the current state of a drawing.
type DrawingSource interface {
	Drawing(drawingID string) (*document.Drawing, error)
}

type Handler struct {
	source DrawingSource
}

func NewHandler(source DrawingSource) *Handler {
	return &Handler{source: source}
}

// ExportSVG handles GET /api/drawings/{drawingId}/export.svg.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]
	d, err := h.source.Drawing(drawingID)
	if err != nil {
		slog.Debug("export drawing", "error", err, "drawing", drawingID)
		http.Error(w, "drawing not found", http.StatusNotFound)
		return
	}

	data := SVG(d)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, fileName(d.Name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)

	slog.Info("export complete", "drawing", drawingID, "shapes", len(d.Shapes), "size", len(data))
}

// fileName keeps letters, digits, '-' and '_'.
func fileName(name string) string {
	if name == "" {
		name = "drawing"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

// SVG renders the drawing as a standalone SVG document.
func SVG(d *document.Drawing) []byte {
	var b bytes.Buffer
	w, h := strconv.Itoa(d.Width), strconv.Itoa(d.Height)

	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	attr(&b, "width", w)
	attr(&b, "height", h)
	attr(&b, "viewBox", "0 0 "+w+" "+h)
	b.WriteString(">\n")

	if d.Background != "" {
		b.WriteString("  <rect")
		attr(&b, "width", "100%")
		attr(&b, "height", "100%")
		attr(&b, "fill", d.Background)
		b.WriteString("/>\n")
	}

	for i := range d.Shapes {
		writeShape(&b, &d.Shapes[i])
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

func writeShape(b *bytes.Buffer, sh *document.Shape) {
	b.WriteString("  ")
	switch sh.Kind {
	case document.ShapeRect:
		b.WriteString("<rect")
		attr(b, "x", num(sh.X))
		attr(b, "y", num(sh.Y))
		attr(b, "width", num(sh.Width))
		attr(b, "height", num(sh.Height))
	case document.ShapeEllipse:
		b.WriteString("<ellipse")
		attr(b, "cx", num(sh.X+sh.Width/2))
		attr(b, "cy", num(sh.Y+sh.Height/2))
		attr(b, "rx", num(sh.Width/2))
		attr(b, "ry", num(sh.Height/2))
	case document.ShapePolygon:
		b.WriteString("<polygon")
		attr(b, "points", points(sh))
	default:
		b.WriteString("<polyline")
		attr(b, "points", points(sh))
	}

	attr(b, "id", sh.ID)
	style := sh.Style
	if style.Fill == "" {
		style.Fill = "none"
	}
	attr(b, "fill", style.Fill)
	if style.Stroke != "" {
		attr(b, "stroke", style.Stroke)
		attr(b, "stroke-width", num(style.StrokeWidth))
	}
	if style.Opacity != 0 && style.Opacity != 1 {
		attr(b, "opacity", num(style.Opacity))
	}
	if style.Dash != "" {
		attr(b, "stroke-dasharray", style.Dash)
	}
	if sh.Transform != "" {
		attr(b, "transform", sh.Transform)
	}
	b.WriteString("/>\n")
}

func points(sh *document.Shape) string {
	parts := make([]string, len(sh.Points))
	for i, p := range sh.Points {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(b *bytes.Buffer, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	xml.EscapeText(b, []byte(value))
	b.WriteString(`"`)
}
