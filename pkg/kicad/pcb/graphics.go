package pcb

import (
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// transform maps item-local coordinates to board coordinates: rotate by
// angle, then translate by origin. The zero value is the identity.
type transform struct {
	origin board.Vector2
	angle  board.Angle
}

func (t transform) apply(v board.Vector2) board.Vector2 {
	return v.Rotated(t.angle).Add(t.origin)
}

// axisAligned reports whether the rotation keeps rectangles axis aligned
func (t transform) axisAligned() bool {
	return math.Mod(t.angle.Degrees(), 90) == 0
}

// graphicKind strips the gr_/fp_ prefix of a graphic node name
func graphicKind(name string) string {
	for _, prefix := range []string{"gr_", "fp_"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// isShapeNode reports whether a node is a drawable graphic (not text)
func isShapeNode(name string) bool {
	if !strings.HasPrefix(name, "gr_") && !strings.HasPrefix(name, "fp_") {
		return false
	}
	switch graphicKind(name) {
	case "line", "rect", "circle", "arc", "poly", "curve", "text_box":
		return true
	}
	return false
}

// parseShape converts a gr_*/fp_* graphic node into a board shape.
// Expected formats:
//
//	(gr_line (start x y) (end x y) (stroke (width w) (type solid)) (layer "F.SilkS"))
//	(gr_rect (start x y) (end x y) (stroke ...) (fill solid) (layer ...))
//	(gr_circle (center x y) (end x y) (stroke ...) (fill none) (layer ...))
//	(gr_arc (start x y) (mid x y) (end x y) (stroke ...) (layer ...))
//	(gr_poly (pts (xy x y) ...) (stroke ...) (fill solid) (layer ...))
//	(gr_curve (pts (xy x y) (xy x y) (xy x y) (xy x y)) (stroke ...) (layer ...))
func parseShape(node kicadsexp.Sexp, tr transform) (board.Shape, error) {
	name, err := sexp.GetNodeName(node)
	if err != nil {
		return nil, err
	}

	layer := board.LayerItem{OnLayer: sexp.GetLayer(node)}
	attrs := board.GraphicAttributes{
		Stroke: board.StrokeAttributes{Width: sexp.GetStrokeWidth(node)},
		Fill:   board.FillAttributes{Filled: sexp.GetFilled(node)},
	}

	switch graphicKind(name) {
	case "line":
		start, end, err := startEnd(node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &board.Segment{LayerItem: layer, Start: tr.apply(start), End: tr.apply(end), Attributes: attrs}, nil

	case "rect":
		start, end, err := startEnd(node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		corners := []board.Vector2{
			tr.apply(start),
			tr.apply(board.Vector2{X: end.X, Y: start.Y}),
			tr.apply(end),
			tr.apply(board.Vector2{X: start.X, Y: end.Y}),
		}
		if tr.axisAligned() {
			box := board.BoxFromPoints(corners...)
			return &board.Rectangle{LayerItem: layer, TopLeft: box.Pos, BottomRight: box.End(), Attributes: attrs}, nil
		}
		// A rotated rectangle is no longer a rectangle
		return &board.Polygon{
			LayerItem:  layer,
			Polygons:   []board.PolygonWithHoles{{Outline: board.NewPolyLine(corners...)}},
			Attributes: attrs,
		}, nil

	case "circle":
		center, err := sexp.GetChildXY(node, "center")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		end, err := sexp.GetChildXY(node, "end")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &board.Circle{LayerItem: layer, Center: tr.apply(center), RadiusPoint: tr.apply(end), Attributes: attrs}, nil

	case "arc":
		start, end, err := startEnd(node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		mid, err := sexp.GetChildXY(node, "mid")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &board.Arc{LayerItem: layer, Start: tr.apply(start), Mid: tr.apply(mid), End: tr.apply(end), Attributes: attrs}, nil

	case "poly":
		ptsNode, ok := sexp.FindNode(node, "pts")
		if !ok {
			return nil, fmt.Errorf("%s: missing required 'pts'", name)
		}
		nodes, err := sexp.GetPoints(ptsNode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		outline := board.PolyLine{Nodes: nodes, Closed: true}
		poly := board.PolygonWithHoles{Outline: outline}.Transformed(tr.apply)
		return &board.Polygon{LayerItem: layer, Polygons: []board.PolygonWithHoles{poly}, Attributes: attrs}, nil

	case "curve":
		ptsNode, ok := sexp.FindNode(node, "pts")
		if !ok {
			return nil, fmt.Errorf("%s: missing required 'pts'", name)
		}
		pts := sexp.FindAllNodes(ptsNode, "xy")
		if len(pts) != 4 {
			return nil, fmt.Errorf("%s: expected 4 control points, got %d", name, len(pts))
		}
		var p [4]board.Vector2
		for i, n := range pts {
			if p[i], err = sexp.GetXY(n); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			p[i] = tr.apply(p[i])
		}
		return &board.Bezier{LayerItem: layer, Start: p[0], Control1: p[1], Control2: p[2], End: p[3], Attributes: attrs}, nil

	case "text_box":
		start, end, err := startEnd(node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		value, _ := sexp.GetString(node, 1)
		effects, _ := sexp.FindNode(node, "effects")
		return &board.TextBox{
			LayerItem:   layer,
			Value:       value,
			TopLeft:     tr.apply(start),
			BottomRight: tr.apply(end),
			Attributes:  sexp.GetEffects(effects),
		}, nil
	}

	return nil, fmt.Errorf("unsupported graphic %q", name)
}

func startEnd(node kicadsexp.Sexp) (board.Vector2, board.Vector2, error) {
	start, err := sexp.GetChildXY(node, "start")
	if err != nil {
		return board.Vector2{}, board.Vector2{}, err
	}
	end, err := sexp.GetChildXY(node, "end")
	if err != nil {
		return board.Vector2{}, board.Vector2{}, err
	}
	return start, end, nil
}

// parseText converts a text node into a board text. valueIndex is the
// position of the value string in the node:
//
//	(gr_text "value" (at x y [angle]) (layer "F.SilkS") (effects ...))       index 1
//	(fp_text reference "R1" (at x y [angle]) (layer "F.SilkS") hide (effects ...)) index 2
//	(property "Reference" "R1" (at x y [angle]) (layer "F.SilkS") (hide yes) ...) index 2
//
// Text angles are written as absolute on-screen angles, so only the
// position is transformed.
func parseText(node kicadsexp.Sexp, valueIndex int, tr transform) (*board.Text, error) {
	value, err := sexp.GetString(node, valueIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text value: %w", err)
	}

	text := &board.Text{
		LayerItem: board.LayerItem{OnLayer: sexp.GetLayer(node)},
		Value:     value,
	}

	effects, _ := sexp.FindNode(node, "effects")
	text.Attributes = sexp.GetEffects(effects)

	if atNode, ok := sexp.FindNode(node, "at"); ok {
		pos, angle, err := sexp.GetAt(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse text position: %w", err)
		}
		text.Position = tr.apply(pos)
		text.Attributes.Angle = angle
	} else {
		text.Position = tr.origin
	}

	// Legacy bare "hide" and KiCad 8 "(hide yes)" outside effects
	if sexp.HasFlag(node, "hide") {
		text.Attributes.Visible = false
	}
	return text, nil
}
