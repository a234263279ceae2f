// Package transform holds the decomposed translate/rotate/scale state of a
// drawing element and the text form it is stored in.
//
// The three components are always written back, and always composed, as
//
//	scale(sx,sy) translate(tx,ty) rotate(a,cx,cy)
//
// whatever order they were edited in. Rendering depends on that order.
package transform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	parsestrconv "github.com/tdewolff/parse/v2/strconv"

	"github.com/inamate/vecdraw/internal/geom"
)

// Element is anything that stores an SVG-style transform attribute.
type Element interface {
	TransformAttr() string
	SetTransformAttr(value string)
}

// Rotation is an SVG rotate(angle, cx, cy), angle in degrees.
type Rotation struct {
	Angle float64 `json:"angle"`
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
}

// Factors are per-axis scale factors.
type Factors struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is the typed form of an element's transform attribute.
type Transform struct {
	Translation geom.Offset `json:"translate"`
	Rotation    Rotation    `json:"rotate"`
	Scaling     Factors     `json:"scale"`
}

var (
	translatePattern = regexp.MustCompile(`translate\(\s*([^\s,)]+)(?:\s*[\s,]\s*([^\s,)]+))?\s*\)`)
	rotatePattern    = regexp.MustCompile(`rotate\(\s*([^\s,)]+)(?:\s*[\s,]\s*([^\s,)]+)\s*[\s,]\s*([^\s,)]+))?\s*\)`)
	scalePattern     = regexp.MustCompile(`scale\(\s*([^\s,)]+)(?:\s*[\s,]\s*([^\s,)]+))?\s*\)`)
)

// Identity returns the neutral transform.
func Identity() Transform {
	return Transform{Scaling: Factors{X: 1, Y: 1}}
}

// Parse reads translate, rotate and scale independently out of s. A component
// that is missing or holds an unreadable number keeps its identity value.
func Parse(s string) Transform {
	t := Identity()

	if m := translatePattern.FindStringSubmatch(s); m != nil {
		if v, ok := parseNumbers(m[1:], 0); ok {
			t.Translation = geom.Offset{X: v[0], Y: v[1]}
		}
	}

	if m := rotatePattern.FindStringSubmatch(s); m != nil {
		if v, ok := parseNumbers(m[1:], 0); ok {
			t.Rotation = Rotation{Angle: v[0], CX: v[1], CY: v[2]}
		}
	}

	if m := scalePattern.FindStringSubmatch(s); m != nil {
		if v, ok := parseNumbers(m[1:], 0); ok {
			t.Scaling = Factors{X: v[0], Y: v[1]}
			// scale(s) means scale(s, s)
			if m[2] == "" {
				t.Scaling.Y = v[0]
			}
		}
	}

	return t
}

// parseNumbers converts regexp captures to floats. Empty optional captures
// take fallback; any token that is not entirely a number fails the group.
func parseNumbers(tokens []string, fallback float64) ([]float64, bool) {
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		if tok == "" {
			values[i] = fallback
			continue
		}
		v, n := parsestrconv.ParseFloat([]byte(tok))
		if n == 0 || n != len(tok) {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// String serializes the transform in the fixed scale, translate, rotate order.
func (t Transform) String() string {
	return fmt.Sprintf("scale(%s,%s) translate(%s,%s) rotate(%s,%s,%s)",
		formatNumber(t.Scaling.X), formatNumber(t.Scaling.Y),
		formatNumber(t.Translation.X), formatNumber(t.Translation.Y),
		formatNumber(t.Rotation.Angle), formatNumber(t.Rotation.CX), formatNumber(t.Rotation.CY),
	)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Matrix composes Scale * Translate * RotateAbout, so rotate applies first.
func (t Transform) Matrix() geom.Matrix2D {
	return geom.Scale(t.Scaling.X, t.Scaling.Y).
		Multiply(geom.Translate(t.Translation.X, t.Translation.Y)).
		Multiply(geom.RotateAbout(t.Rotation.Angle, t.Rotation.CX, t.Rotation.CY))
}

// Translate accumulates a delta into the translate component.
func (t *Transform) Translate(dx, dy float64) {
	t.Translation.X += dx
	t.Translation.Y += dy
}

// GetTranslate returns the translate component.
func (t Transform) GetTranslate() (float64, float64) {
	return t.Translation.X, t.Translation.Y
}

// MinScale is the smallest scale magnitude ScaleAbout produces. Scale is the
// outermost component, so a zero scale would collapse the element onto the
// surface origin whatever its translate.
const MinScale = 1e-6

// ScaleAbout applies a further visual scale of (fx, fy) around pivot, given
// in surface coordinates. The scale component is multiplied and translate is
// corrected so that pivot does not move. A factor that would bring an axis
// below MinScale is clamped to it, keeping its sign; an axis already at zero
// is left alone.
func (t *Transform) ScaleAbout(pivot geom.Point, fx, fy float64) {
	t.Scaling.X, t.Translation.X = scaleAxis(t.Scaling.X, t.Translation.X, pivot.X, fx)
	t.Scaling.Y, t.Translation.Y = scaleAxis(t.Scaling.Y, t.Translation.Y, pivot.Y, fy)
}

func scaleAxis(scale, translate, pivot, f float64) (float64, float64) {
	if scale == 0 {
		return scale, translate
	}
	if math.Abs(scale*f) < MinScale {
		f = math.Copysign(MinScale/math.Abs(scale), f)
	}
	next := scale * f
	return next, translate + (1-f)*pivot/next
}

// Shift moves the element by a visual (surface space) delta. Translate sits
// inside scale, so the delta is divided by the current scale.
func (t *Transform) Shift(dx, dy float64) {
	if t.Scaling.X != 0 {
		t.Translation.X += dx / t.Scaling.X
	}
	if t.Scaling.Y != 0 {
		t.Translation.Y += dy / t.Scaling.Y
	}
}

// Attached is a Transform bound to the element it was read from. Mutating
// methods write the full transform string back to the element.
type Attached struct {
	Transform
	element Element
}

// New parses the element's current transform.
func New(el Element) *Attached {
	return &Attached{Transform: Parse(el.TransformAttr()), element: el}
}

// Element returns the bound element.
func (a *Attached) Element() Element {
	return a.element
}

// Translate accumulates a delta and rewrites the element's transform.
func (a *Attached) Translate(dx, dy float64) {
	a.Transform.Translate(dx, dy)
	a.Apply()
}

// Clone returns an independent copy bound to the same element.
func (a *Attached) Clone() *Attached {
	return &Attached{Transform: a.Transform, element: a.element}
}

// Apply writes the current state to the element.
func (a *Attached) Apply() {
	a.element.SetTransformAttr(a.Transform.String())
}

// TranslateAll moves every element by the same delta. Each element is
// reparsed so only its translate component changes.
func TranslateAll[E Element](elements []E, dx, dy float64) {
	for _, el := range elements {
		New(el).Translate(dx, dy)
	}
}

// ShiftAll moves every element by the same visual delta, whatever its scale.
func ShiftAll[E Element](elements []E, dx, dy float64) {
	for _, el := range elements {
		a := New(el)
		a.Shift(dx, dy)
		a.Apply()
	}
}
