package ibom

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"

// copperSides pairs the outer copper layers with their document keys
var copperSides = []struct {
	layer board.BoardLayer
	name  string
}{
	{board.LayerFCu, "F"},
	{board.LayerBCu, "B"},
}

func netRef(n *board.Net, includeNets bool) *string {
	if !includeNets {
		return nil
	}
	name := board.NetName(n)
	return &name
}

func appendSide[T any](split *LayerSplit[T], side string, item T) {
	if side == "F" {
		split.F = append(split.F, item)
	} else {
		split.B = append(split.B, item)
	}
}

// parseTracks buckets tracks, arc tracks and vias by outer copper layer.
// Items on inner layers are not drawn.
func (p *Parser) parseTracks(includeNets bool) LayerSplit[Track] {
	result := newLayerSplit[Track]()

	for _, t := range p.board.Tracks() {
		if t.Layer != board.LayerFCu && t.Layer != board.LayerBCu {
			continue
		}
		appendSide(&result, sideName(t.Layer), Track(&TrackSegment{
			Start: Normalize(t.Start),
			End:   Normalize(t.End),
			Width: NormalizeLength(float64(t.Width)),
			Net:   netRef(t.Net, includeNets),
		}))
	}

	for _, a := range p.board.Arcs() {
		if a.Layer != board.LayerFCu && a.Layer != board.LayerBCu {
			continue
		}
		appendSide(&result, sideName(a.Layer), p.parseArcTrack(a, includeNets))
	}

	for _, v := range p.board.Vias() {
		var width float64
		if len(v.Padstack.CopperLayers) > 0 {
			width = NormalizeLength(float64(v.Padstack.CopperLayers[0].Size.X))
		}
		for _, side := range copperSides {
			if !v.IsOnLayer(side.layer) {
				continue
			}
			via := &TrackVia{
				Start: Normalize(v.Position),
				End:   Normalize(v.Position),
				Width: width,
				Net:   netRef(v.Net, includeNets),
			}
			if v.Padstack.Drill.Tented {
				drill := NormalizeLength(float64(v.Padstack.Drill.Diameter.X))
				via.DrillSize = &drill
			}
			appendSide(&result, side.name, Track(via))
		}
	}

	return result
}

// parseArcTrack translates an arc track. A degenerate arc has no centre
// and is drawn as a straight segment.
func (p *Parser) parseArcTrack(a *board.ArcTrack, includeNets bool) Track {
	width := NormalizeLength(float64(a.Width))
	center, ok := a.Center()
	start, end, angOK := a.Angles()
	if !ok || !angOK {
		p.logger.Warn("degenerate arc track drawn as segment", "start", Normalize(a.Start), "end", Normalize(a.End))
		return &TrackSegment{
			Start: Normalize(a.Start),
			End:   Normalize(a.End),
			Width: width,
			Net:   netRef(a.Net, includeNets),
		}
	}
	return &TrackArc{
		Center:     Normalize(center),
		StartAngle: degrees(start),
		EndAngle:   degrees(end),
		Radius:     NormalizeLength(a.Radius()),
		Width:      width,
		Net:        netRef(a.Net, includeNets),
	}
}
