package font

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// LineSpacing is the distance between baselines as a multiple of the text
// height.
const LineSpacing = 1.62

// Render lays out value with the attributes and position of t. Outline
// font texts yield filled polygons relative to TextShapes.Offset (the text
// position); stroke font texts yield segments in board coordinates with
// the text thickness as width.
func (s *Source) Render(t *board.Text, value string) (board.TextShapes, error) {
	attrs := t.Attributes
	face := FaceFor(attrs.Bold, attrs.Italic)
	value = norm.NFC.String(value)

	s.mu.Lock()
	placed, err := s.layout(face, value, attrs)
	s.mu.Unlock()
	if err != nil {
		return board.TextShapes{}, err
	}

	// em space -> board space: scale, mirror, rotate.
	toLocal := func(p point) board.Vector2 {
		x := p.X * float64(attrs.Size.X)
		y := p.Y * float64(attrs.Size.Y)
		if attrs.Mirrored {
			x = -x
		}
		v := board.Vector2{X: int64(math.Round(x)), Y: int64(math.Round(y))}
		return v.Rotated(attrs.Angle)
	}

	var out board.TextShapes
	if attrs.IsOutlineFont() {
		out.Offset = t.Position
		for _, contour := range placed {
			pts := make([]board.Vector2, len(contour))
			for i, p := range contour {
				pts[i] = toLocal(p)
			}
			out.Polygons = append(out.Polygons, board.PolygonWithHoles{Outline: board.NewPolyLine(pts...)})
		}
		return out, nil
	}

	for _, contour := range placed {
		for i := range contour {
			a := toLocal(contour[i]).Add(t.Position)
			b := toLocal(contour[(i+1)%len(contour)]).Add(t.Position)
			seg := board.Segment{
				LayerItem: board.LayerItem{OnLayer: t.Layer()},
				Start:     a,
				End:       b,
			}
			seg.Attributes.Stroke.Width = attrs.StrokeWidth
			out.Segments = append(out.Segments, seg)
		}
	}
	return out, nil
}

// layout places the glyphs of value in em units relative to the text
// anchor, honouring justification and line breaks. s.mu must be held.
func (s *Source) layout(face Face, value string, attrs board.TextAttributes) ([][]point, error) {
	lines := strings.Split(value, "\n")

	widths := make([]float64, len(lines))
	for i, line := range lines {
		for _, r := range line {
			g, err := s.glyph(face, r)
			if err != nil {
				return nil, err
			}
			widths[i] += g.advance
		}
	}

	// Block height in em units: first line cap height plus line gaps.
	height := 1 + float64(len(lines)-1)*LineSpacing
	var top float64
	switch attrs.VerticalAlignment {
	case board.VAlignTop:
		top = 0
	case board.VAlignBottom:
		top = -height
	default:
		top = -height / 2
	}

	var placed [][]point
	for i, line := range lines {
		var x float64
		switch attrs.HorizontalAlignment {
		case board.HAlignLeft:
			x = 0
		case board.HAlignRight:
			x = -widths[i]
		default:
			x = -widths[i] / 2
		}
		baseline := top + 1 + float64(i)*LineSpacing

		for _, r := range line {
			g, err := s.glyph(face, r)
			if err != nil {
				return nil, err
			}
			if _, seen := s.used[r]; !seen || face == FaceRegular {
				s.used[r] = g
			}
			for _, c := range g.contours {
				moved := make([]point, len(c))
				for j, p := range c {
					moved[j] = point{X: p.X + x, Y: p.Y + baseline}
				}
				placed = append(placed, moved)
			}
			x += g.advance
		}
	}
	return placed, nil
}
