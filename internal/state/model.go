package state

import (
	"time"

	"InkBoard/internal/geom"
)

// StrokeID identifies one version of a stroke. Every clone or move produces a
// new, larger id.
type StrokeID uint64

// Handle is the arena address of a stroke. Slot stays the same across the
// versions of one stroke; Gen counts those versions. The zero Handle means the
// stroke has never been stored.
type Handle struct {
	Slot int
	Gen  uint32
}

func (h Handle) IsZero() bool { return h.Slot == 0 }

// Point is one sampled position of a stroke.
type Point struct {
	geom.Point
	Pressure float32       `json:"pressure"`
	Time     time.Duration `json:"t"` // since the first sample
}

// Stroke is one continuous pen, mouse or touch drag.
type Stroke struct {
	ID        StrokeID         `json:"-"`
	Handle    Handle           `json:"-"`
	Points    []Point          `json:"points"`
	Transform geom.Translation `json:"transform"`
	Selected  bool             `json:"-"`
	Color     string           `json:"color"`
	Width     float32          `json:"width"`
	Time      time.Time        `json:"time"`
}

// NewStroke builds an unstored stroke from raw positions.
func NewStroke(positions []geom.Point, color string, width float32, at time.Time) Stroke {
	points := make([]Point, len(positions))
	for i, p := range positions {
		points[i] = Point{Point: p, Pressure: 0.5}
	}
	return Stroke{Points: points, Color: color, Width: width, Time: at}
}

// Clone returns a deep copy of s.
func (s Stroke) Clone() Stroke {
	c := s
	c.Points = make([]Point, len(s.Points))
	copy(c.Points, s.Points)
	return c
}

// Positions returns the sampled positions with the transform applied.
func (s Stroke) Positions() []geom.Point {
	out := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = s.Transform.Apply(p.Point)
	}
	return out
}

// Bounds returns the bounding rectangle of the transformed stroke.
func (s Stroke) Bounds() geom.Rect {
	return geom.BoundsOf(s.Positions())
}

// SameGeometry reports whether a and b draw the same ink, ignoring identity
// and selection.
func SameGeometry(a, b Stroke) bool {
	if len(a.Points) != len(b.Points) || a.Transform != b.Transform ||
		a.Color != b.Color || a.Width != b.Width {
		return false
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			return false
		}
	}
	return true
}

// IDs returns the ids of strokes in order.
func IDs(strokes []Stroke) []StrokeID {
	ids := make([]StrokeID, len(strokes))
	for i, s := range strokes {
		ids[i] = s.ID
	}
	return ids
}

// UnionBounds returns the union of the bounds of strokes.
func UnionBounds(strokes []Stroke) geom.Rect {
	r := geom.EmptyRect
	for _, s := range strokes {
		r = r.Union(s.Bounds())
	}
	return r
}
