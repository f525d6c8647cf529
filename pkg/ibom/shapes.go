package ibom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// textRole marks footprint reference and value texts for the viewer
type textRole int

const (
	textPlain textRole = iota
	textReference
	textValue
)

// parseShape translates one native shape. It returns nil, after logging
// once, for shapes the document cannot express.
func (p *Parser) parseShape(s board.Shape) Drawing {
	switch d := s.(type) {
	case *board.Segment:
		return &SegmentDrawing{
			Type:  "segment",
			Start: Normalize(d.Start),
			End:   Normalize(d.End),
			Width: NormalizeLength(float64(d.Attributes.Stroke.Width)),
		}

	case *board.Circle:
		return &CircleDrawing{
			Type:   "circle",
			Start:  Normalize(d.Center),
			Radius: NormalizeLength(d.Radius()),
			Width:  NormalizeLength(float64(d.Attributes.Stroke.Width)),
			Filled: boolInt(d.Attributes.Fill.Filled),
		}

	case *board.Arc:
		return p.parseArc(d)

	case *board.Polygon:
		drawing := &PolygonDrawing{
			Type:     "polygon",
			Polygons: p.parsePolygons(d.Polygons),
		}
		if !d.Attributes.Fill.Filled {
			filled := 0
			width := NormalizeLength(float64(d.Attributes.Stroke.Width))
			drawing.Filled = &filled
			drawing.Width = &width
		}
		return drawing

	case *board.Bezier:
		return &CurveDrawing{
			Type:  "curve",
			Start: Normalize(d.Start),
			CPA:   Normalize(d.Control1),
			CPB:   Normalize(d.Control2),
			End:   Normalize(d.End),
			Width: NormalizeLength(float64(d.Attributes.Stroke.Width)),
		}

	case *board.Rectangle:
		start := Normalize(d.TopLeft)
		end := Normalize(d.BottomRight)
		filled := boolInt(d.Attributes.Fill.Filled)
		width := NormalizeLength(float64(d.Attributes.Stroke.Width))
		return &PolygonDrawing{
			Type: "polygon",
			Polygons: [][]Point{{
				start,
				{end[0], start[1]},
				end,
				{start[0], end[1]},
			}},
			Filled: &filled,
			Width:  &width,
		}

	case *board.Text:
		return p.parseText(d, textPlain)
	}

	p.logger.Info("unsupported shape, skipping", "type", fmt.Sprintf("%T", s))
	return nil
}

// parseArc derives centre, radius and angles from the three arc points. A
// degenerate arc keeps its chord midpoint as centre and reports null
// angles.
func (p *Parser) parseArc(a *board.Arc) Drawing {
	drawing := &ArcDrawing{
		Type:  "arc",
		Width: NormalizeLength(float64(a.Attributes.Stroke.Width)),
	}
	center, ok := a.Center()
	if !ok {
		mid := board.Vector2{X: (a.Start.X + a.End.X) / 2, Y: (a.Start.Y + a.End.Y) / 2}
		drawing.Start = Normalize(mid)
		drawing.Radius = NormalizeLength(a.End.Sub(a.Start).Length() / 2)
		return drawing
	}
	drawing.Start = Normalize(center)
	drawing.Radius = NormalizeLength(a.Radius())
	if a1, a2, ok := a.Angles(); ok {
		start, end := degrees(a1), degrees(a2)
		drawing.StartAngle = &start
		drawing.EndAngle = &end
	}
	return drawing
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// parseText renders a text through the board. The value is expanded on a
// copy; the board text is left untouched. Stroke fonts become an SVG path,
// outline fonts become polygons moved to board coordinates.
func (p *Parser) parseText(t *board.Text, role textRole) Drawing {
	expanded := *t
	expanded.Value = p.board.ExpandTextVariables(t)

	shapes, ok := p.board.TextAsShapes(&expanded)
	if !ok {
		p.logger.Info("unsupported text, skipping", "text", t.Value)
		return nil
	}

	var ref, val int
	switch role {
	case textReference:
		ref = 1
	case textValue:
		val = 1
	}

	if len(shapes.Polygons) > 0 {
		polys := make([]board.PolygonWithHoles, len(shapes.Polygons))
		for i, poly := range shapes.Polygons {
			polys[i] = poly.Moved(shapes.Offset)
		}
		return &PolygonTextDrawing{
			Type:     "text",
			Polygons: p.parsePolygons(polys),
			Filled:   1,
			Ref:      ref,
			Val:      val,
		}
	}

	return &StrokeTextDrawing{
		Type:      "text",
		SVGPath:   svgPath(shapes.Segments),
		Thickness: NormalizeLength(float64(t.Attributes.StrokeWidth)),
		Filled:    0,
		Ref:       ref,
		Val:       val,
	}
}

// svgPath joins stroke segments into an SVG path string, continuing a
// subpath while segments connect.
func svgPath(segments []board.Segment) string {
	var b strings.Builder
	var last board.Vector2
	for i, s := range segments {
		if i == 0 || s.Start != last {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("M ")
			writePoint(&b, Normalize(s.Start))
		}
		b.WriteString(" L ")
		writePoint(&b, Normalize(s.End))
		last = s.End
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(strconv.FormatFloat(pt[0], 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(pt[1], 'f', -1, 64))
}
