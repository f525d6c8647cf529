package board

// ArcNode is a circular arc embedded in a polyline outline.
type ArcNode struct {
	Start Vector2
	Mid   Vector2
	End   Vector2
}

// PolyLineNode is either a plain vertex or an arc segment.
type PolyLineNode struct {
	Point Vector2
	Arc   *ArcNode
}

// PointNode returns a vertex node.
func PointNode(p Vector2) PolyLineNode {
	return PolyLineNode{Point: p}
}

// ArcNodeOf returns an arc node.
func ArcNodeOf(start, mid, end Vector2) PolyLineNode {
	return PolyLineNode{Arc: &ArcNode{Start: start, Mid: mid, End: end}}
}

// HasArc reports whether the node is an arc segment.
func (n PolyLineNode) HasArc() bool {
	return n.Arc != nil
}

// HasPoint reports whether the node is a plain vertex.
func (n PolyLineNode) HasPoint() bool {
	return n.Arc == nil
}

// PolyLine is an ordered chain of nodes.
type PolyLine struct {
	Nodes  []PolyLineNode
	Closed bool
}

// NewPolyLine builds a closed polyline from plain vertices.
func NewPolyLine(pts ...Vector2) PolyLine {
	nodes := make([]PolyLineNode, len(pts))
	for i, p := range pts {
		nodes[i] = PointNode(p)
	}
	return PolyLine{Nodes: nodes, Closed: true}
}

// Points returns every coordinate referenced by the polyline, arc points
// included.
func (l PolyLine) Points() []Vector2 {
	pts := make([]Vector2, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.Arc != nil {
			pts = append(pts, n.Arc.Start, n.Arc.Mid, n.Arc.End)
			continue
		}
		pts = append(pts, n.Point)
	}
	return pts
}

func (l PolyLine) transformed(f func(Vector2) Vector2) PolyLine {
	out := PolyLine{Nodes: make([]PolyLineNode, len(l.Nodes)), Closed: l.Closed}
	for i, n := range l.Nodes {
		if n.Arc != nil {
			out.Nodes[i] = ArcNodeOf(f(n.Arc.Start), f(n.Arc.Mid), f(n.Arc.End))
			continue
		}
		out.Nodes[i] = PointNode(f(n.Point))
	}
	return out
}

// PolygonWithHoles is an outline plus zero or more hole contours.
type PolygonWithHoles struct {
	Outline PolyLine
	Holes   []PolyLine
}

// Transformed returns a deep copy with f applied to every coordinate.
// The receiver is never modified.
func (p PolygonWithHoles) Transformed(f func(Vector2) Vector2) PolygonWithHoles {
	out := PolygonWithHoles{Outline: p.Outline.transformed(f)}
	if len(p.Holes) > 0 {
		out.Holes = make([]PolyLine, len(p.Holes))
		for i, h := range p.Holes {
			out.Holes[i] = h.transformed(f)
		}
	}
	return out
}

// Moved returns a translated deep copy.
func (p PolygonWithHoles) Moved(delta Vector2) PolygonWithHoles {
	return p.Transformed(func(v Vector2) Vector2 { return v.Add(delta) })
}

// Rotated returns a deep copy rotated around the origin.
func (p PolygonWithHoles) Rotated(angle Angle) PolygonWithHoles {
	return p.Transformed(func(v Vector2) Vector2 { return v.Rotated(angle) })
}

// BoundingBox returns the box of the outline.
func (p PolygonWithHoles) BoundingBox() Box2 {
	return BoxFromPoints(p.Outline.Points()...)
}
