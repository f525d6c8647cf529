package ibom

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"

// parsePolygon walks a polyline into normalized points. Arc nodes cannot be
// expressed and are dropped with a warning.
func (p *Parser) parsePolygon(line board.PolyLine) []Point {
	result := make([]Point, 0, len(line.Nodes))
	for _, node := range line.Nodes {
		switch {
		case node.HasPoint():
			result = append(result, Normalize(node.Point))
		case node.HasArc():
			p.logger.Warn("arcs in polygons are not supported, dropping arc",
				"start", Normalize(node.Arc.Start), "end", Normalize(node.Arc.End))
		}
	}
	return result
}

// parsePolygonWithHoles returns the outline followed by the holes as
// separate contours.
func (p *Parser) parsePolygonWithHoles(poly board.PolygonWithHoles) [][]Point {
	contours := make([][]Point, 0, 1+len(poly.Holes))
	contours = append(contours, p.parsePolygon(poly.Outline))
	for _, hole := range poly.Holes {
		contours = append(contours, p.parsePolygon(hole))
	}
	return contours
}

// parsePolygons flattens a polygon set into one contour list.
func (p *Parser) parsePolygons(polys []board.PolygonWithHoles) [][]Point {
	contours := make([][]Point, 0, len(polys))
	for _, poly := range polys {
		contours = append(contours, p.parsePolygonWithHoles(poly)...)
	}
	return contours
}
