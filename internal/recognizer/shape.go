package recognizer

import (
	"math"

	"InkBoard/internal/analysis"
	"InkBoard/internal/geom"
)

const (
	closeRatio    = 0.2  // start-end gap over diagonal for a closed stroke
	simplifyRatio = 0.03 // simplification tolerance over diagonal
	roundness     = 0.15 // max spread of radii over their mean for an ellipse
	angleSlack    = 12.0 // degrees
	sideSlack     = 0.12 // relative difference of equal sides
	minShapeSize  = 16
)

// shape is a closed stroke matched to a drawing kind.
type shape struct {
	kind   analysis.DrawingKind
	points []geom.Point
	center geom.Point
}

// classify matches a single stroke against the known shapes.
func classify(pts []geom.Point) (shape, bool) {
	if len(pts) < 8 {
		return shape{}, false
	}
	bounds := geom.BoundsOf(pts)
	diag := float64(bounds.Min.Distance(bounds.Max))
	if diag < minShapeSize || pts[0].Distance(pts[len(pts)-1]) > closeRatio*diag {
		return shape{}, false
	}

	vertices := dropStraight(simplify(pts, simplifyRatio*diag))
	if n := len(vertices); n >= 3 && n <= 6 {
		return shape{kind: polygonKind(vertices), points: vertices, center: centroid(vertices)}, true
	}
	if isRound(pts, bounds) {
		c := bounds.Center()
		kind := analysis.DrawingKindEllipse
		if w, h := bounds.Width(), bounds.Height(); math.Abs(float64(w-h)) <= sideSlack*float64(max(w, h)) {
			kind = analysis.DrawingKindCircle
		}
		return shape{
			kind: kind,
			points: []geom.Point{
				geom.Pt(bounds.Min.X, c.Y),
				geom.Pt(c.X, bounds.Min.Y),
				geom.Pt(bounds.Max.X, c.Y),
				geom.Pt(c.X, bounds.Max.Y),
			},
			center: c,
		}, true
	}
	return shape{}, false
}

// simplify is Ramer-Douglas-Peucker over an open polyline.
func simplify(pts []geom.Point, eps float64) []geom.Point {
	if len(pts) < 3 {
		return append([]geom.Point(nil), pts...)
	}
	first, last := pts[0], pts[len(pts)-1]
	idx, far := 0, 0.0
	for i := 1; i < len(pts)-1; i++ {
		if d := pts[i].SegmentDistance(first, last); d > far {
			idx, far = i, d
		}
	}
	if far <= eps {
		return []geom.Point{first, last}
	}
	left := simplify(pts[:idx+1], eps)
	right := simplify(pts[idx:], eps)
	return append(left[:len(left)-1], right...)
}

// dropStraight turns a simplified closed outline into its corners: the
// closing duplicate and vertices on a straight run are removed.
func dropStraight(pts []geom.Point) []geom.Point {
	if len(pts) > 1 && pts[0].Distance(pts[len(pts)-1]) < 1e-3 {
		pts = pts[:len(pts)-1]
	}
	bounds := geom.BoundsOf(pts)
	minSide := 0.08 * bounds.Min.Distance(bounds.Max)
	for changed := true; changed && len(pts) > 3; {
		changed = false
		for i := range pts {
			prev := pts[(i+len(pts)-1)%len(pts)]
			next := pts[(i+1)%len(pts)]
			if math.Abs(180-angle(prev, pts[i], next)) < 2*angleSlack || pts[i].Distance(next) < minSide {
				pts = append(pts[:i:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	return pts
}

func polygonKind(v []geom.Point) analysis.DrawingKind {
	switch len(v) {
	case 3:
		return triangleKind(v)
	case 4:
		return quadKind(v)
	case 5:
		return analysis.DrawingKindPentagon
	default:
		return analysis.DrawingKindHexagon
	}
}

func triangleKind(v []geom.Point) analysis.DrawingKind {
	s := sides(v)
	a, b, c := s[0], s[1], s[2]
	for i := range v {
		if near(angle(v[(i+2)%3], v[i], v[(i+1)%3]), 90) {
			return analysis.DrawingKindRightTriangle
		}
	}
	switch {
	case same(a, b) && same(b, c):
		return analysis.DrawingKindEquilateralTriangle
	case same(a, b) || same(b, c) || same(a, c):
		return analysis.DrawingKindIsoscelesTriangle
	}
	return analysis.DrawingKindTriangle
}

func quadKind(v []geom.Point) analysis.DrawingKind {
	s := sides(v)
	square := true
	for i := range v {
		if !near(angle(v[(i+3)%4], v[i], v[(i+1)%4]), 90) {
			square = false
		}
	}
	equal := same(s[0], s[1]) && same(s[1], s[2]) && same(s[2], s[3])
	p1 := parallel(v[0], v[1], v[3], v[2])
	p2 := parallel(v[1], v[2], v[0], v[3])
	switch {
	case square && equal:
		return analysis.DrawingKindSquare
	case square:
		return analysis.DrawingKindRectangle
	case equal:
		return analysis.DrawingKindDiamond
	case p1 && p2:
		return analysis.DrawingKindParallelogram
	case p1 || p2:
		return analysis.DrawingKindTrapezoid
	}
	return analysis.DrawingKindQuadrilateral
}

// isRound reports whether pts lie near the ellipse inscribed in bounds.
func isRound(pts []geom.Point, bounds geom.Rect) bool {
	c := bounds.Center()
	rx, ry := float64(bounds.Width())/2, float64(bounds.Height())/2
	if rx == 0 || ry == 0 {
		return false
	}
	var sum, sumSq float64
	for _, p := range pts {
		r := math.Hypot(float64(p.X-c.X)/rx, float64(p.Y-c.Y)/ry)
		sum += r
		sumSq += r * r
	}
	n := float64(len(pts))
	mean := sum / n
	spread := math.Sqrt(math.Max(sumSq/n-mean*mean, 0))
	return spread/mean < roundness
}

func sides(v []geom.Point) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i].Distance(v[(i+1)%len(v)])
	}
	return out
}

// angle returns the angle at b, in degrees.
func angle(a, b, c geom.Point) float64 {
	u, w := a.Sub(b), c.Sub(b)
	dot := float64(u.X*w.X + u.Y*w.Y)
	n := math.Hypot(float64(u.X), float64(u.Y)) * math.Hypot(float64(w.X), float64(w.Y))
	if n == 0 {
		return 180
	}
	return math.Acos(math.Max(-1, math.Min(1, dot/n))) * 180 / math.Pi
}

// parallel reports whether segment ab runs parallel to segment cd.
func parallel(a, b, c, d geom.Point) bool {
	u, w := b.Sub(a), d.Sub(c)
	cross := float64(u.X*w.Y - u.Y*w.X)
	n := math.Hypot(float64(u.X), float64(u.Y)) * math.Hypot(float64(w.X), float64(w.Y))
	return n > 0 && math.Abs(cross/n) < math.Sin(angleSlack*math.Pi/180)
}

func near(deg, want float64) bool { return math.Abs(deg-want) <= angleSlack }

func same(a, b float64) bool { return math.Abs(a-b) <= sideSlack*math.Max(a, b) }

func centroid(pts []geom.Point) geom.Point {
	var x, y float64
	for _, p := range pts {
		x += float64(p.X)
		y += float64(p.Y)
	}
	n := float64(len(pts))
	return geom.Pt(float32(x/n), float32(y/n))
}
