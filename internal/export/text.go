package export

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"InkBoard/internal/render"
)

// Text writes a plain summary of pg: the strokes with their extent, then the
// typeset elements.
func Text(w io.Writer, pg Page, at time.Time) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "InkBoard Export\n")
	fmt.Fprintf(bw, "===============\n")
	fmt.Fprintf(bw, "Exported: %s\n\n", at.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(bw, "Total strokes: %d\n\n", len(pg.Strokes))
	for i, st := range pg.Strokes {
		fmt.Fprintf(bw, "Stroke %d:\n", i+1)
		fmt.Fprintf(bw, "  Points: %d\n", len(st.Points))
		fmt.Fprintf(bw, "  Color: %s\n", st.Color)
		fmt.Fprintf(bw, "  Time: %s\n", st.Time.Format("2006-01-02 15:04:05"))
		if pts := st.Positions(); len(pts) > 0 {
			fmt.Fprintf(bw, "  Start: (%.2f, %.2f)\n", pts[0].X, pts[0].Y)
			if len(pts) > 1 {
				fmt.Fprintf(bw, "  End: (%.2f, %.2f)\n", pts[len(pts)-1].X, pts[len(pts)-1].Y)
			}
		}
		fmt.Fprintf(bw, "\n")
	}

	fmt.Fprintf(bw, "Typeset elements: %d\n\n", len(pg.Elements))
	for _, e := range pg.Elements {
		b := e.Bounds()
		switch el := e.(type) {
		case *render.Text:
			fmt.Fprintf(bw, "Text %q at (%.2f, %.2f)\n", el.Text, b.Min.X, b.Min.Y)
		case *render.Ellipse:
			fmt.Fprintf(bw, "Ellipse %.2fx%.2f at (%.2f, %.2f)\n", el.Width, el.Height, el.Center.X, el.Center.Y)
		case *render.Polygon:
			fmt.Fprintf(bw, "Polygon with %d points at (%.2f, %.2f)\n", len(el.Points), b.Min.X, b.Min.Y)
		default:
			fmt.Fprintf(bw, "Element %s at (%.2f, %.2f)\n", e.ElementID(), b.Min.X, b.Min.Y)
		}
	}
	return bw.Flush()
}
