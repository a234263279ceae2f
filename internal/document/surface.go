package document

// Snapshot is a value copy of the draw zone at one instant.
type Snapshot []Shape

// Clone deep-copies every shape of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for i := range s {
		out[i] = *s[i].Clone()
	}
	return out
}

// IDs lists the shape IDs in order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s))
	for i := range s {
		ids[i] = s[i].ID
	}
	return ids
}

// Surface is the live drawing: the draw zone holds the persisted shapes in
// painter's order, the temporary zone holds in-progress visual feedback that
// is never captured by history.
type Surface struct {
	Width      float64
	Height     float64
	Background string

	drawZone []*Shape
	tempZone []*Shape
}

// NewSurface creates an empty surface.
func NewSurface(width, height float64, background string) *Surface {
	return &Surface{Width: width, Height: height, Background: background}
}

// NewSurfaceFromDrawing creates a surface holding a copy of the drawing's shapes.
func NewSurfaceFromDrawing(d *Drawing) *Surface {
	s := NewSurface(float64(d.Width), float64(d.Height), d.Background)
	s.Restore(d.Shapes)
	return s
}

// Children returns the draw zone shapes. The slice is a copy, the shapes are live.
func (s *Surface) Children() []*Shape {
	out := make([]*Shape, len(s.drawZone))
	copy(out, s.drawZone)
	return out
}

// Len returns the number of draw zone shapes.
func (s *Surface) Len() int {
	return len(s.drawZone)
}

// Append adds shapes on top of the draw zone.
func (s *Surface) Append(shapes ...*Shape) {
	s.drawZone = append(s.drawZone, shapes...)
}

// Find returns the live draw zone shape with the given ID, or nil.
func (s *Surface) Find(id string) *Shape {
	for _, sh := range s.drawZone {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

// Remove deletes a draw zone shape. It reports whether the shape was present.
func (s *Surface) Remove(id string) bool {
	var removed bool
	s.drawZone, removed = removeByID(s.drawZone, id)
	return removed
}

// Clear removes every draw zone shape.
func (s *Surface) Clear() {
	s.drawZone = nil
}

// Capture deep-copies the draw zone.
func (s *Surface) Capture() Snapshot {
	snap := make(Snapshot, len(s.drawZone))
	for i, sh := range s.drawZone {
		snap[i] = *sh.Clone()
	}
	return snap
}

// Restore replaces the draw zone with copies of the snapshot's shapes.
// A nil or empty snapshot leaves the draw zone empty.
func (s *Surface) Restore(snap Snapshot) {
	s.Clear()
	for i := range snap {
		s.drawZone = append(s.drawZone, snap[i].Clone())
	}
}

// TempChildren returns the temporary zone shapes.
func (s *Surface) TempChildren() []*Shape {
	out := make([]*Shape, len(s.tempZone))
	copy(out, s.tempZone)
	return out
}

// SetTemp inserts or replaces the temporary shape with the same ID.
func (s *Surface) SetTemp(sh *Shape) {
	for i, existing := range s.tempZone {
		if existing.ID == sh.ID {
			s.tempZone[i] = sh
			return
		}
	}
	s.tempZone = append(s.tempZone, sh)
}

// RemoveTemp deletes a temporary shape.
func (s *Surface) RemoveTemp(id string) {
	s.tempZone, _ = removeByID(s.tempZone, id)
}

// ClearTemp empties the temporary zone.
func (s *Surface) ClearTemp() {
	s.tempZone = nil
}

func removeByID(shapes []*Shape, id string) ([]*Shape, bool) {
	for i, sh := range shapes {
		if sh.ID == id {
			return append(shapes[:i:i], shapes[i+1:]...), true
		}
	}
	return shapes, false
}
