// Package export writes the board to files outside the app.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

const (
	scale   = 1.0 / 3 // millimetres per canvas unit
	margin  = 10.0    // mm
	ptPerMM = 72 / 25.4
)

// Page is what gets exported: the ink on the canvas and the typeset
// elements drawn over it.
type Page struct {
	Strokes  []state.Stroke
	Elements []render.Element
}

func (pg Page) bounds() geom.Rect {
	r := state.UnionBounds(pg.Strokes)
	for _, e := range pg.Elements {
		r = r.Union(e.Bounds())
	}
	return r
}

// PDF renders pg on a single A4 page.
func PDF(w io.Writer, pg Page) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	p.SetFont("Helvetica", "", 12)
	tr := p.UnicodeTranslatorFromDescriptor("")

	origin := geom.Point{}
	if b := pg.bounds(); !b.IsEmpty() {
		origin = b.Min
	}
	x := func(v float32) float64 { return margin + float64(v-origin.X)*scale }
	y := func(v float32) float64 { return margin + float64(v-origin.Y)*scale }

	for _, st := range pg.Strokes {
		setDraw(p, st.Color)
		p.SetLineWidth(max(float64(st.Width)*scale, 0.2))
		pts := st.Positions()
		if len(pts) == 1 {
			p.Circle(x(pts[0].X), y(pts[0].Y), float64(st.Width)*scale/2, "F")
			continue
		}
		for i := 1; i < len(pts); i++ {
			p.Line(x(pts[i-1].X), y(pts[i-1].Y), x(pts[i].X), y(pts[i].Y))
		}
	}

	for _, e := range pg.Elements {
		switch el := e.(type) {
		case *render.Text:
			r, g, b := rgb(el.Color)
			p.SetTextColor(r, g, b)
			p.SetFontSize(float64(el.FontSize) * scale * ptPerMM)
			p.Text(x(el.Origin.X), y(el.Origin.Y+el.Size.Y), tr(el.Text))
		case *render.Ellipse:
			setDraw(p, el.Color)
			p.SetLineWidth(float64(el.Thickness) * scale)
			p.Ellipse(x(el.Center.X), y(el.Center.Y),
				float64(el.Width)/2*scale, float64(el.Height)/2*scale,
				-el.Rotation, "D")
		case *render.Polygon:
			setDraw(p, el.Color)
			p.SetLineWidth(float64(el.Thickness) * scale)
			pts := make([]gofpdf.PointType, len(el.Points))
			for i, pt := range el.Points {
				pts[i] = gofpdf.PointType{X: x(pt.X), Y: y(pt.Y)}
			}
			p.Polygon(pts, "D")
		default:
			return fmt.Errorf("export: unsupported element %T", e)
		}
	}
	return p.Output(w)
}

func setDraw(p *gofpdf.Fpdf, color string) {
	r, g, b := rgb(color)
	p.SetDrawColor(r, g, b)
	p.SetFillColor(r, g, b)
}

// rgb falls back to black for colors it cannot parse.
func rgb(s string) (int, int, int) {
	c, ok := config.ParseColor(s)
	if !ok {
		return 0, 0, 0
	}
	return int(c.R), int(c.G), int(c.B)
}
