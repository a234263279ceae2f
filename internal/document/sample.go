package document

import (
	"time"

	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/typeid"
)

func NewSampleDrawing(drawingID string) *Drawing {
	now := time.Now().UTC().Format(time.RFC3339)

	return &Drawing{
		ID:         drawingID,
		Name:       "Untitled",
		Width:      1280,
		Height:     720,
		Background: "#ffffff",
		CreatedAt:  now,
		UpdatedAt:  now,
		Shapes: Snapshot{
			{
				ID:     typeid.NewShapeID(),
				Kind:   ShapeRect,
				X:      100,
				Y:      100,
				Width:  200,
				Height: 150,
				Style: Style{
					Fill:        "#e94560",
					Stroke:      "#1a1a2e",
					StrokeWidth: 4,
					Opacity:     1,
				},
			},
			{
				ID:     typeid.NewShapeID(),
				Kind:   ShapeEllipse,
				X:      400,
				Y:      150,
				Width:  160,
				Height: 100,
				Style: Style{
					Fill:        "#0f3460",
					Stroke:      "#16213e",
					StrokeWidth: 2,
					Opacity:     1,
				},
				Transform: "scale(1,1) translate(0,0) rotate(20,480,200)",
			},
			{
				ID:   typeid.NewShapeID(),
				Kind: ShapePolyline,
				Points: []geom.Point{
					{X: 120, Y: 400}, {X: 160, Y: 380}, {X: 210, Y: 420},
					{X: 260, Y: 390}, {X: 300, Y: 430},
				},
				Style: Style{
					Fill:        "none",
					Stroke:      "#533483",
					StrokeWidth: 6,
					Opacity:     1,
				},
			},
			{
				ID:   typeid.NewShapeID(),
				Kind: ShapePolygon,
				Points: []geom.Point{
					{X: 700, Y: 300}, {X: 780, Y: 440}, {X: 620, Y: 440},
				},
				Style: Style{
					Fill:        "#f5a623",
					Stroke:      "#1a1a2e",
					StrokeWidth: 3,
					Opacity:     0.9,
				},
			},
		},
	}
}
