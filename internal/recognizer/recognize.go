// Package recognizer provides recognition engines for the board: a local
// geometric recognizer, a client for a remote recognizer and the service
// that serves the local recognizer over websocket.
//
// The local recognizer finds closed shapes and groups the remaining ink
// into words, bullets and lines by proximity. It does not read handwriting;
// words carry a placeholder text.
package recognizer

import (
	"sort"

	"InkBoard/internal/analysis"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// Options tunes the local recognizer.
type Options struct {
	// WordText is the text given to every recognized word.
	WordText string
	// Gap is the distance under which strokes belong to the same word.
	Gap float32
	// BulletSize is the largest extent of a bullet mark.
	BulletSize float32
}

func DefaultOptions() Options {
	return Options{WordText: "ink", Gap: 12, BulletSize: 8}
}

type cluster struct {
	strokes []state.Stroke
	bounds  geom.Rect
}

func (c *cluster) ids() []state.StrokeID { return state.IDs(c.strokes) }

// Recognize builds a recognition tree over strokes.
func Recognize(strokes []state.Stroke, opts Options) *analysis.Node {
	root := analysis.NewRoot()
	var ink []*cluster
	for _, c := range clusters(strokes, opts.Gap) {
		if len(c.strokes) == 1 {
			if sh, ok := classify(c.strokes[0].Positions()); ok {
				root.AddChild(&analysis.Node{
					Kind:        analysis.KindInkDrawing,
					DrawingKind: sh.kind,
					Bounds:      c.bounds,
					Points:      sh.points,
					Center:      sh.center,
					StrokeIDs:   c.ids(),
				})
				continue
			}
		}
		ink = append(ink, c)
	}

	if len(ink) > 0 {
		region := root.AddChild(&analysis.Node{Kind: analysis.KindWritingRegion})
		for _, line := range lines(ink) {
			region.AddChild(paragraph(line, opts))
		}
		fitBounds(region)
	}
	fitBounds(root)
	return root
}

// paragraph turns one line of clusters into a paragraph. A line that opens
// with a bullet becomes a list item.
func paragraph(line []*cluster, opts Options) *analysis.Node {
	para := &analysis.Node{Kind: analysis.KindParagraph}
	parent := para
	first := line[0]
	if len(line) > 1 && max(first.bounds.Width(), first.bounds.Height()) <= opts.BulletSize {
		item := para.AddChild(&analysis.Node{Kind: analysis.KindListItem})
		item.AddChild(&analysis.Node{
			Kind:      analysis.KindInkBullet,
			Bounds:    first.bounds,
			Center:    first.bounds.Center(),
			Text:      "•",
			StrokeIDs: first.ids(),
		})
		parent = item
		line = line[1:]
	}
	ln := parent.AddChild(&analysis.Node{Kind: analysis.KindLine})
	for _, c := range line {
		ln.AddChild(&analysis.Node{
			Kind:      analysis.KindInkWord,
			Bounds:    c.bounds,
			Center:    c.bounds.Center(),
			Text:      opts.WordText,
			StrokeIDs: c.ids(),
		})
	}
	fitBounds(para)
	return para
}

// clusters groups strokes whose bounds come within gap of each other.
func clusters(strokes []state.Stroke, gap float32) []*cluster {
	parent := make([]int, len(strokes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	bounds := make([]geom.Rect, len(strokes))
	for i, s := range strokes {
		bounds[i] = s.Bounds().Inset(-gap / 2)
	}
	for i := range strokes {
		for j := i + 1; j < len(strokes); j++ {
			if bounds[i].Overlaps(bounds[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	byRoot := map[int]*cluster{}
	var out []*cluster
	for i, s := range strokes {
		r := find(i)
		c, ok := byRoot[r]
		if !ok {
			c = &cluster{bounds: geom.EmptyRect}
			byRoot[r] = c
			out = append(out, c)
		}
		c.strokes = append(c.strokes, s)
		c.bounds = c.bounds.Union(s.Bounds())
	}
	return out
}

// lines groups clusters whose vertical extents overlap by at least half of
// the shorter one, top to bottom and left to right.
func lines(cs []*cluster) [][]*cluster {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].bounds.Center().Y < cs[j].bounds.Center().Y })
	var out [][]*cluster
	var extent geom.Rect
	for _, c := range cs {
		if len(out) > 0 && sameLine(extent, c.bounds) {
			last := len(out) - 1
			out[last] = append(out[last], c)
			extent = extent.Union(c.bounds)
			continue
		}
		out = append(out, []*cluster{c})
		extent = c.bounds
	}
	for _, line := range out {
		sort.SliceStable(line, func(i, j int) bool { return line[i].bounds.Min.X < line[j].bounds.Min.X })
	}
	return out
}

func sameLine(a, b geom.Rect) bool {
	top := max(a.Min.Y, b.Min.Y)
	bottom := min(a.Max.Y, b.Max.Y)
	return bottom-top >= 0.5*min(a.Height(), b.Height())
}

// fitBounds sets the bounds of container nodes to the union of their
// children.
func fitBounds(n *analysis.Node) geom.Rect {
	if len(n.Children) == 0 {
		return n.Bounds
	}
	r := geom.EmptyRect
	for _, c := range n.Children {
		r = r.Union(fitBounds(c))
	}
	n.Bounds = r
	n.Center = r.Center()
	return r
}
