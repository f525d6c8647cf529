package board

import (
	"math"
	"unicode/utf8"
)

// Shape is the closed set of drawable board items. Only types declared in
// this package implement it.
type Shape interface {
	Layer() BoardLayer
	BoundingBox() Box2
	isShape()
}

// LayerItem carries the layer of a drawable item.
type LayerItem struct {
	OnLayer BoardLayer
}

// Layer returns the layer the item is drawn on.
func (i LayerItem) Layer() BoardLayer { return i.OnLayer }

func (LayerItem) isShape() {}

// StrokeAttributes describes an outline stroke.
type StrokeAttributes struct {
	Width int64
}

// FillAttributes describes area fill.
type FillAttributes struct {
	Filled bool
}

// GraphicAttributes groups stroke and fill of a graphic shape.
type GraphicAttributes struct {
	Stroke StrokeAttributes
	Fill   FillAttributes
}

// Segment is a straight line.
type Segment struct {
	LayerItem
	Start      Vector2
	End        Vector2
	Attributes GraphicAttributes
}

// BoundingBox implements Shape.
func (s *Segment) BoundingBox() Box2 {
	return BoxFromPoints(s.Start, s.End).Inflated(s.Attributes.Stroke.Width / 2)
}

// Arc is a circular arc through three points.
type Arc struct {
	LayerItem
	Start      Vector2
	Mid        Vector2
	End        Vector2
	Attributes GraphicAttributes
}

// Center returns the arc centre, or false for degenerate arcs.
func (a *Arc) Center() (Vector2, bool) {
	return ArcCenter(a.Start, a.Mid, a.End)
}

// Radius returns the arc radius in nanometres, 0 for degenerate arcs.
func (a *Arc) Radius() float64 {
	c, ok := a.Center()
	if !ok {
		return 0
	}
	return a.Start.Sub(c).Length()
}

// Angles returns start and end angles in radians, ordered so the arc runs
// from the first to the second in increasing direction. ok is false when
// the arc is degenerate.
func (a *Arc) Angles() (start, end float64, ok bool) {
	return arcAngles(a.Start, a.Mid, a.End)
}

// BoundingBox implements Shape.
func (a *Arc) BoundingBox() Box2 {
	return arcBoundingBox(a.Start, a.Mid, a.End).Inflated(a.Attributes.Stroke.Width / 2)
}

// Circle is a full circle given by its centre and a point on the rim.
type Circle struct {
	LayerItem
	Center      Vector2
	RadiusPoint Vector2
	Attributes  GraphicAttributes
}

// Radius returns the radius in nanometres.
func (c *Circle) Radius() float64 {
	return c.RadiusPoint.Sub(c.Center).Length()
}

// BoundingBox implements Shape.
func (c *Circle) BoundingBox() Box2 {
	r := int64(math.Round(c.Radius())) + c.Attributes.Stroke.Width/2
	return Box2{
		Pos:  Vector2{X: c.Center.X - r, Y: c.Center.Y - r},
		Size: Vector2{X: 2 * r, Y: 2 * r},
	}
}

// Rectangle is an axis aligned rectangle.
type Rectangle struct {
	LayerItem
	TopLeft     Vector2
	BottomRight Vector2
	Attributes  GraphicAttributes
}

// BoundingBox implements Shape.
func (r *Rectangle) BoundingBox() Box2 {
	return BoxFromPoints(r.TopLeft, r.BottomRight).Inflated(r.Attributes.Stroke.Width / 2)
}

// Polygon is a set of polygons with holes.
type Polygon struct {
	LayerItem
	Polygons   []PolygonWithHoles
	Attributes GraphicAttributes
}

// BoundingBox implements Shape.
func (p *Polygon) BoundingBox() Box2 {
	var pts []Vector2
	for _, poly := range p.Polygons {
		pts = append(pts, poly.Outline.Points()...)
	}
	return BoxFromPoints(pts...).Inflated(p.Attributes.Stroke.Width / 2)
}

// Bezier is a cubic Bezier curve.
type Bezier struct {
	LayerItem
	Start      Vector2
	Control1   Vector2
	Control2   Vector2
	End        Vector2
	Attributes GraphicAttributes
}

// BoundingBox implements Shape. The control polygon hull is used, which
// always contains the curve.
func (b *Bezier) BoundingBox() Box2 {
	return BoxFromPoints(b.Start, b.Control1, b.Control2, b.End).Inflated(b.Attributes.Stroke.Width / 2)
}

// HorizontalAlignment of a text block.
type HorizontalAlignment int

const (
	HAlignCenter HorizontalAlignment = iota
	HAlignLeft
	HAlignRight
)

// VerticalAlignment of a text block.
type VerticalAlignment int

const (
	VAlignCenter VerticalAlignment = iota
	VAlignTop
	VAlignBottom
)

// TextAttributes describes how a text is rendered.
type TextAttributes struct {
	FontName            string // empty selects the KiCad stroke font
	Size                Vector2
	StrokeWidth         int64
	Angle               Angle
	Bold                bool
	Italic              bool
	Mirrored            bool
	Visible             bool
	HorizontalAlignment HorizontalAlignment
	VerticalAlignment   VerticalAlignment
}

// IsOutlineFont reports whether the text uses a filled TrueType font.
func (a TextAttributes) IsOutlineFont() bool {
	return a.FontName != ""
}

// Text is a single text item. Value may contain ${VAR} references.
type Text struct {
	LayerItem
	Value      string
	Position   Vector2
	Attributes TextAttributes
}

// BoundingBox implements Shape. The box is an estimate from the character
// count and font size; exact extents need glyph outlines.
func (t *Text) BoundingBox() Box2 {
	w := int64(utf8.RuneCountInString(t.Value)) * t.Attributes.Size.X
	h := t.Attributes.Size.Y
	return Box2{
		Pos:  Vector2{X: t.Position.X - w/2, Y: t.Position.Y - h/2},
		Size: Vector2{X: w, Y: h},
	}
}

// TextBox is a framed multi-line text block.
type TextBox struct {
	LayerItem
	Value       string
	TopLeft     Vector2
	BottomRight Vector2
	Attributes  TextAttributes
}

// BoundingBox implements Shape.
func (t *TextBox) BoundingBox() Box2 {
	return BoxFromPoints(t.TopLeft, t.BottomRight)
}

// TextShapes is the geometry of a rendered text: stroke segments in board
// coordinates for stroke fonts, or filled polygons relative to Offset for
// outline fonts.
type TextShapes struct {
	Segments []Segment
	Polygons []PolygonWithHoles
	Offset   Vector2
}
