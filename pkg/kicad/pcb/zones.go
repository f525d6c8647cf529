package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// parseZone extracts a copper zone or rule area. Filled polygons are
// grouped by the layer they were computed for.
// Expected format:
//
//	(zone (net 1) (net_name "GND") (layer "F.Cu") (name "n") (min_thickness 0.25)
//	  (keepout ...) (fill yes ...) (polygon (pts ...)) (filled_polygon (layer "F.Cu") (pts ...)))
func (p *loader) parseZone(node kicadsexp.Sexp) (*board.Zone, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected zone list, got leaf")
	}

	zone := &board.Zone{
		Type:           board.ZoneTypeCopper,
		FilledPolygons: make(map[board.BoardLayer][]board.PolygonWithHoles),
	}

	// Parse net, falling back to (net_name "...") when the code is unknown
	zone.Net = p.nets.Resolve(node)
	if zone.Net == nil {
		if n, ok := sexp.FindNode(node, "net_name"); ok {
			if name, _ := sexp.GetString(n, 1); name != "" {
				if net, ok := p.nets.GetByName(name); ok {
					zone.Net = net
				}
			}
		}
	}

	if n, ok := sexp.FindNode(node, "name"); ok {
		zone.Name, _ = sexp.GetString(n, 1)
	}

	// Single (layer ...) or multi-layer (layers ...)
	if names := sexp.GetLayerNames(node); names != nil {
		zone.Layers = p.expandLayers(names)
	} else if l := sexp.GetLayer(node); l != board.LayerUndefined {
		zone.Layers = board.LayerSet{l}
	}

	if _, ok := sexp.FindNode(node, "keepout"); ok {
		zone.Type = board.ZoneTypeRuleArea
	}

	if n, ok := sexp.FindNode(node, "min_thickness"); ok {
		zone.MinThickness, _ = sexp.GetLength(n, 1)
	}

	// Parse outline polygon
	if polyNode, found := sexp.FindNode(node, "polygon"); found {
		if ptsNode, found := sexp.FindNode(polyNode, "pts"); found {
			nodes, err := sexp.GetPoints(ptsNode)
			if err != nil {
				return nil, fmt.Errorf("failed to parse zone outline: %w", err)
			}
			zone.Outline = board.PolygonWithHoles{Outline: board.PolyLine{Nodes: nodes, Closed: true}}
		}
	}

	// Parse filled polygons
	for _, fpNode := range sexp.FindAllNodes(node, "filled_polygon") {
		layer := sexp.GetLayer(fpNode)
		if layer == board.LayerUndefined && len(zone.Layers) == 1 {
			layer = zone.Layers[0]
		}
		ptsNode, found := sexp.FindNode(fpNode, "pts")
		if !found || layer == board.LayerUndefined {
			continue
		}
		nodes, err := sexp.GetPoints(ptsNode)
		if err != nil {
			p.logger.Warn("skipping zone fill", "line", line(fpNode), "error", err)
			continue
		}
		poly := board.PolygonWithHoles{Outline: board.PolyLine{Nodes: nodes, Closed: true}}
		zone.FilledPolygons[layer] = append(zone.FilledPolygons[layer], poly)
	}

	// (fill yes ...) marks a filled zone. Older files omit it but still
	// carry the fill result.
	if fill, ok := sexp.FindNode(node, "fill"); ok {
		v, _ := sexp.GetString(fill, 1)
		zone.Filled = v == "yes"
	}
	if !zone.Filled && len(zone.FilledPolygons) > 0 {
		zone.Filled = true
	}

	return zone, nil
}
