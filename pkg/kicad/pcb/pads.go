package pcb

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

var padTypes = map[string]board.PadType{
	"thru_hole":    board.PadTypePTH,
	"smd":          board.PadTypeSMD,
	"connect":      board.PadTypeEdgeConnector,
	"np_thru_hole": board.PadTypeNPTH,
}

var padShapes = map[string]board.PadStackShape{
	"circle":    board.PadShapeCircle,
	"rect":      board.PadShapeRectangle,
	"oval":      board.PadShapeOval,
	"trapezoid": board.PadShapeTrapezoid,
	"roundrect": board.PadShapeRoundRect,
	"custom":    board.PadShapeCustom,
}

// parsePad extracts a pad definition from a footprint
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) (net n "name") ...)
// The pad angle is absolute; the position is footprint-local.
func (p *loader) parsePad(node kicadsexp.Sexp, tr transform) (*board.Pad, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected pad list, got leaf")
	}

	pad := &board.Pad{}

	// Parse pad number/name (second element after "pad")
	number, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	// Parse pad type (third element: thru_hole, smd, connect, np_thru_hole)
	padType, err := sexp.GetString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padTypes[padType]

	// Parse pad shape (fourth element: circle, rect, oval, roundrect, trapezoid, custom)
	shapeName, err := sexp.GetString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}

	// Parse position (at x y [angle])
	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, angle, err := sexp.GetAt(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	pad.Position = tr.apply(pos)
	pad.Padstack.Angle = angle

	// Parse size
	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	size, err := sexp.GetXY(sizeNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad size: %w", err)
	}

	layer := board.PadStackLayer{
		Shape: padShapes[shapeName],
		Size:  size,
	}

	if n, ok := sexp.FindNode(node, "roundrect_rratio"); ok {
		layer.CornerRoundingRatio, _ = sexp.GetFloat(n, 1)
	}
	if n, ok := sexp.FindNode(node, "chamfer_ratio"); ok {
		layer.ChamferRatio, _ = sexp.GetFloat(n, 1)
	}
	if n, ok := sexp.FindNode(node, "chamfer"); ok {
		layer.ChamferedCorners = board.ChamferedRectCorners{
			TopLeft:     sexp.HasSymbol(n, "top_left"),
			TopRight:    sexp.HasSymbol(n, "top_right"),
			BottomLeft:  sexp.HasSymbol(n, "bottom_left"),
			BottomRight: sexp.HasSymbol(n, "bottom_right"),
		}
		if layer.Shape == board.PadShapeRoundRect || layer.Shape == board.PadShapeRectangle {
			layer.Shape = board.PadShapeChamferedRect
		}
	}
	if n, ok := sexp.FindNode(node, "rect_delta"); ok {
		layer.TrapezoidDelta, _ = sexp.GetXY(n)
	}

	// Parse drill (for through-hole pads)
	// Format: (drill d), (drill oval w h), optionally with (offset x y)
	if drillNode, found := sexp.FindNode(node, "drill"); found {
		pad.Padstack.Drill, layer.Offset = parseDrill(drillNode)
	}

	// Custom pad primitives, in pad-local unrotated coordinates
	if prims, ok := sexp.FindNode(node, "primitives"); ok {
		for _, item := range sexp.GetListItems(prims) {
			shape, err := parseShape(item, transform{})
			if err != nil {
				p.logger.Warn("skipping custom pad primitive", "pad", number, "error", err)
				continue
			}
			layer.CustomShapes = append(layer.CustomShapes, shape)
		}
	}

	// Parse layers
	names := sexp.GetLayerNames(node)
	if names == nil {
		return nil, fmt.Errorf("missing required 'layers' field")
	}
	pad.Padstack.Layers = p.expandLayers(names)

	for _, l := range pad.Padstack.Layers {
		if l.IsCopper() {
			cl := layer
			cl.Layer = l
			pad.Padstack.CopperLayers = append(pad.Padstack.CopperLayers, cl)
		}
	}
	if len(pad.Padstack.CopperLayers) == 0 {
		// Non-plated holes without copper still describe their geometry
		pad.Padstack.CopperLayers = []board.PadStackLayer{layer}
	}

	pad.Net = p.nets.Resolve(node)
	return pad, nil
}

// parseDrill reads a (drill ...) node into drill properties and the pad
// offset it carries.
func parseDrill(node kicadsexp.Sexp) (board.DrillProperties, board.Vector2) {
	drill := board.DrillProperties{Shape: board.DrillShapeCircle}
	var offset board.Vector2
	var values []int64
	for _, item := range sexp.GetListItems(node) {
		if !item.IsLeaf() {
			if name, _ := sexp.GetNodeName(item); name == "offset" {
				offset, _ = sexp.GetXY(item)
			}
			continue
		}
		if item.String() == "oval" {
			drill.Shape = board.DrillShapeOblong
			continue
		}
		if mm, err := strconv.ParseFloat(item.String(), 64); err == nil {
			values = append(values, board.FromMM(mm))
		}
	}
	switch len(values) {
	case 0:
	case 1:
		drill.Diameter = board.Vector2{X: values[0], Y: values[0]}
	default:
		drill.Diameter = board.Vector2{X: values[0], Y: values[1]}
	}
	return drill, offset
}

// expandLayers resolves layer names, expanding the *.Cu, F&B.Cu style
// wildcards against the board's copper layer count.
func (p *loader) expandLayers(names []string) board.LayerSet {
	var set board.LayerSet
	add := func(l board.BoardLayer) {
		if l != board.LayerUndefined && !set.Contains(l) {
			set = append(set, l)
		}
	}
	for _, name := range names {
		switch name {
		case "*.Cu":
			add(board.LayerFCu)
			for i := 1; i <= p.innerCopper; i++ {
				add(board.InnerCopper(i))
			}
			add(board.LayerBCu)
		case "F&B.Cu":
			add(board.LayerFCu)
			add(board.LayerBCu)
		case "*.Mask", "F&B.Mask":
			add(board.LayerFMask)
			add(board.LayerBMask)
		case "*.Paste", "F&B.Paste":
			add(board.LayerFPaste)
			add(board.LayerBPaste)
		case "*.SilkS", "F&B.SilkS":
			add(board.LayerFSilkS)
			add(board.LayerBSilkS)
		default:
			add(board.LayerFromName(name))
		}
	}
	return set
}
