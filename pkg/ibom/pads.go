package ibom

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"

var padShapeNames = map[board.PadStackShape]string{
	board.PadShapeCircle:        "circle",
	board.PadShapeOval:          "oval",
	board.PadShapeRectangle:     "rect",
	board.PadShapeTrapezoid:     "trapezoid",
	board.PadShapeRoundRect:     "roundrect",
	board.PadShapeCustom:        "custom",
	board.PadShapeChamferedRect: "chamfrect",
}

var drillShapeNames = map[board.DrillShape]string{
	board.DrillShapeCircle: "circle",
	board.DrillShapeOblong: "oblong",
}

// parseChamferedCorners packs the chamfered corners into the chamfpos mask
func parseChamferedCorners(c board.ChamferedRectCorners) int {
	ret := 0
	if c.TopLeft {
		ret |= 1
	}
	if c.TopRight {
		ret |= 2
	}
	if c.BottomLeft {
		ret |= 4
	}
	if c.BottomRight {
		ret |= 8
	}
	return ret
}

// trapezoidCorners returns the quad of a trapezoid pad of the given size
// skewed by delta, in pad coordinates.
func trapezoidCorners(size, delta Point) []Point {
	return []Point{
		{size[0]/2 + delta[1]/2, size[1]/2 - delta[0]/2},
		{-size[0]/2 - delta[1]/2, size[1]/2 + delta[0]/2},
		{-size[0]/2 + delta[1]/2, -size[1]/2 - delta[0]/2},
		{size[0]/2 - delta[1]/2, -size[1]/2 + delta[0]/2},
	}
}

// parsePad translates a pad using its first copper layer. It returns nil
// when the padstack shape is not supported.
func (p *Parser) parsePad(pad *board.Pad, includeNets bool) *Pad {
	if len(pad.Padstack.CopperLayers) == 0 {
		p.logger.Info("pad without copper layers, skipping", "pad", pad.Number)
		return nil
	}
	stackLayer := pad.Padstack.CopperLayers[0]

	shape, ok := padShapeNames[stackLayer.Shape]
	if !ok {
		p.logger.Info("unsupported pad shape, skipping", "pad", pad.Number, "shape", stackLayer.Shape.String())
		return nil
	}

	layers := []string{}
	if pad.Padstack.Layers.Contains(board.LayerFCu) {
		layers = append(layers, "F")
	}
	if pad.Padstack.Layers.Contains(board.LayerBCu) {
		layers = append(layers, "B")
	}

	size := Normalize(stackLayer.Size)
	result := &Pad{
		Layers: layers,
		Pos:    Normalize(pad.Position),
		Size:   size,
		Angle:  AngleDegrees(pad.Padstack.Angle),
		Shape:  shape,
	}

	switch shape {
	case "custom":
		polygons := [][]Point{}
		if poly, ok := p.board.PadShapeAsPolygon(pad); ok {
			// The board returns absolute coordinates; the viewer wants them
			// relative to the pad and unrotated.
			local := poly.Moved(pad.Position.Neg()).Rotated(pad.Padstack.Angle.Neg())
			polygons = append(polygons, p.parsePolygon(local.Outline))
		} else {
			p.logger.Warn("custom pad shape could not be retrieved", "pad", pad.Number)
		}
		result.Polygons = &polygons

	case "trapezoid":
		result.Shape = "custom"
		polygons := [][]Point{trapezoidCorners(size, Normalize(stackLayer.TrapezoidDelta))}
		result.Polygons = &polygons

	case "roundrect", "chamfrect":
		radius := stackLayer.CornerRoundingRatio * min(size[0], size[1])
		result.Radius = &radius
		if shape == "chamfrect" {
			chamfPos := parseChamferedCorners(stackLayer.ChamferedCorners)
			chamfRatio := stackLayer.ChamferRatio
			result.ChamfPos = &chamfPos
			result.ChamfRatio = &chamfRatio
		}
	}

	if pad.Type == board.PadTypePTH || pad.Type == board.PadTypeNPTH {
		result.Type = "th"
		drillShape, ok := drillShapeNames[pad.Padstack.Drill.Shape]
		if !ok {
			drillShape = "circle"
		}
		drillSize := Normalize(pad.Padstack.Drill.Diameter)
		result.DrillShape = drillShape
		result.DrillSize = &drillSize
	} else {
		result.Type = "smd"
	}

	result.Offset = Normalize(stackLayer.Offset)

	result.Net = netRef(pad.Net, includeNets)
	return result
}
