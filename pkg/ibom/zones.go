package ibom

// parseZones emits the filled polygons of every filled copper zone on the
// outer copper layers. Unfilled zones and rule areas are skipped.
func (p *Parser) parseZones(includeNets bool) LayerSplit[Zone] {
	result := newLayerSplit[Zone]()

	for _, z := range p.board.Zones() {
		if !z.Filled || z.IsRuleArea() {
			continue
		}
		for _, side := range copperSides {
			if !z.Layers.Contains(side.layer) {
				continue
			}
			polys, ok := z.FilledPolygons[side.layer]
			if !ok {
				continue
			}
			appendSide(&result, side.name, Zone{
				Polygons: p.parsePolygons(polys),
				Width:    NormalizeLength(float64(z.MinThickness)),
				Net:      netRef(z.Net, includeNets),
			})
		}
	}

	return result
}
