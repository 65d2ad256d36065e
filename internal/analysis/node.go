package analysis

import (
	"fmt"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// Kind is the kind of a recognized node.
type Kind int

const (
	KindRoot Kind = iota
	KindWritingRegion
	KindParagraph
	KindLine
	KindListItem
	KindInkWord
	KindInkBullet
	KindInkDrawing
)

var kindNames = [...]string{
	KindRoot:          "root",
	KindWritingRegion: "writing_region",
	KindParagraph:     "paragraph",
	KindLine:          "line",
	KindListItem:      "list_item",
	KindInkWord:       "word",
	KindInkBullet:     "bullet",
	KindInkDrawing:    "drawing",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("analysis: unknown node kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("analysis: unknown node kind %q", b)
}

// DrawingKind is the recognized shape of an InkDrawing node.
type DrawingKind int

const (
	DrawingKindDrawing DrawingKind = iota
	DrawingKindCircle
	DrawingKindEllipse
	DrawingKindTriangle
	DrawingKindIsoscelesTriangle
	DrawingKindEquilateralTriangle
	DrawingKindRightTriangle
	DrawingKindQuadrilateral
	DrawingKindRectangle
	DrawingKindSquare
	DrawingKindDiamond
	DrawingKindTrapezoid
	DrawingKindParallelogram
	DrawingKindPentagon
	DrawingKindHexagon
)

var drawingKindNames = [...]string{
	DrawingKindDrawing:             "drawing",
	DrawingKindCircle:              "circle",
	DrawingKindEllipse:             "ellipse",
	DrawingKindTriangle:            "triangle",
	DrawingKindIsoscelesTriangle:   "isosceles_triangle",
	DrawingKindEquilateralTriangle: "equilateral_triangle",
	DrawingKindRightTriangle:       "right_triangle",
	DrawingKindQuadrilateral:       "quadrilateral",
	DrawingKindRectangle:           "rectangle",
	DrawingKindSquare:              "square",
	DrawingKindDiamond:             "diamond",
	DrawingKindTrapezoid:           "trapezoid",
	DrawingKindParallelogram:       "parallelogram",
	DrawingKindPentagon:            "pentagon",
	DrawingKindHexagon:             "hexagon",
}

func (k DrawingKind) String() string {
	if k.Known() {
		return drawingKindNames[k]
	}
	return fmt.Sprintf("drawing_kind(%d)", int(k))
}

// Known reports whether k is one of the declared drawing kinds.
func (k DrawingKind) Known() bool {
	return k >= 0 && int(k) < len(drawingKindNames)
}

// IsEllipse reports circles and ellipses.
func (k DrawingKind) IsEllipse() bool {
	return k == DrawingKindCircle || k == DrawingKindEllipse
}

// IsPolygon reports the closed polygonal kinds.
func (k DrawingKind) IsPolygon() bool {
	return k.Known() && k != DrawingKindDrawing && !k.IsEllipse()
}

// MarshalText encodes k by name. Unknown kinds are encoded by number so a
// remote recognizer can still report them.
func (k DrawingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DrawingKind) UnmarshalText(b []byte) error {
	for i, name := range drawingKindNames {
		if name == string(b) {
			*k = DrawingKind(i)
			return nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(string(b), "drawing_kind(%d)", &n); err == nil {
		*k = DrawingKind(n)
		return nil
	}
	return fmt.Errorf("analysis: unknown drawing kind %q", b)
}

// Node is one region of a recognition result. Nodes are read-only once the
// engine has delivered them.
type Node struct {
	Kind        Kind        `json:"kind"`
	DrawingKind DrawingKind `json:"drawing_kind,omitempty"`
	Bounds      geom.Rect   `json:"bounds"`
	// Points are the control points of a drawing. Circles and ellipses mark
	// their left, top, right and bottom extremes in that order.
	Points    []geom.Point     `json:"points,omitempty"`
	Center    geom.Point       `json:"center"`
	Text      string           `json:"text,omitempty"`
	StrokeIDs []state.StrokeID `json:"strokes,omitempty"`
	Children  []*Node          `json:"children,omitempty"`
	Parent    *Node            `json:"-"`
}

// NewRoot returns an empty root node.
func NewRoot() *Node {
	return &Node{Kind: KindRoot}
}

// AddChild appends c to n, sets its parent and returns it.
func (n *Node) AddChild(c *Node) *Node {
	c.Parent = n
	n.Children = append(n.Children, c)
	return c
}

// Link sets the Parent of every node below n. Trees decoded from JSON have
// no parents until linked.
func (n *Node) Link() {
	for _, c := range n.Children {
		c.Parent = n
		c.Link()
	}
}

// IsListParagraph reports a paragraph whose first child is a list item.
func (n *Node) IsListParagraph() bool {
	return n.Kind == KindParagraph && len(n.Children) > 0 && n.Children[0].Kind == KindListItem
}

// CoveredStrokes returns the ids of the strokes n and its descendants cover,
// depth first. A list marker may appear more than once.
func (n *Node) CoveredStrokes() []state.StrokeID {
	var ids []state.StrokeID
	n.walk(func(x *Node) {
		ids = append(ids, x.StrokeIDs...)
	})
	return ids
}

// Find returns the nodes of the given kind below and including n, in
// document order.
func (n *Node) Find(kind Kind) []*Node {
	var out []*Node
	n.walk(func(x *Node) {
		if x.Kind == kind {
			out = append(out, x)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
