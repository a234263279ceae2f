package export

import (
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
)

type drawings map[string]*document.Drawing

func (d drawings) Drawing(id string) (*document.Drawing, error) {
	if dr, ok := d[id]; ok {
		return dr, nil
	}
	return nil, errors.New("not found")
}

func TestSVG(t *testing.T) {
	d := document.NewEmptyDrawing("drw_1", "Test", 200, 100)
	d.Shapes = document.Snapshot{
		{ID: "a", Kind: document.ShapeRect, X: 10, Y: 20, Width: 30, Height: 40,
			Style: document.Style{Fill: "#f00", Stroke: "#000", StrokeWidth: 2, Opacity: 1}},
		{ID: "b", Kind: document.ShapeEllipse, X: 0, Y: 0, Width: 10, Height: 4,
			Style: document.Style{Fill: "none", Stroke: "#000", StrokeWidth: 1, Opacity: 0.5},
			Transform: "scale(1,1) translate(5,0) rotate(0,0,0)"},
		{ID: "c", Kind: document.ShapePolyline, Points: []geom.Point{geom.Pt(0, 0), geom.Pt(1.5, 2)},
			Style: document.Style{Stroke: `"quoted"&`, StrokeWidth: 1, Opacity: 1}},
	}

	out := string(SVG(d))

	assert.Contains(t, out, `<rect x="10" y="20" width="30" height="40" id="a" fill="#f00" stroke="#000" stroke-width="2"/>`)
	assert.Contains(t, out, `<ellipse cx="5" cy="2" rx="5" ry="2" id="b"`)
	assert.Contains(t, out, `opacity="0.5"`)
	assert.Contains(t, out, `transform="scale(1,1) translate(5,0) rotate(0,0,0)"`)
	assert.Contains(t, out, `points="0,0 1.5,2"`)
	assert.Contains(t, out, `stroke="&#34;quoted&#34;&amp;"`)

	// well-formed
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestExportSVGHandler(t *testing.T) {
	d := document.NewEmptyDrawing("drw_1", "My drawing!", 20, 10)
	r := mux.NewRouter()
	r.HandleFunc("/drawings/{drawingId}/export.svg", NewHandler(drawings{"drw_1": d}).ExportSVG)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drawings/drw_1/export.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="My-drawing-.svg"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg "))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drawings/nope/export.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
