package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// parseSegment extracts a track segment (copper trace)
// Expected format: (segment (start x y) (end x y) (width w) (layer "layer") (net n) ...)
func (p *loader) parseSegment(node kicadsexp.Sexp) (*board.Track, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected segment list, got leaf")
	}

	start, end, err := startEnd(node)
	if err != nil {
		return nil, err
	}
	track := &board.Track{Start: start, End: end}

	// Parse width
	if widthNode, found := sexp.FindNode(node, "width"); found {
		if track.Width, err = sexp.GetLength(widthNode, 1); err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
	}

	// Parse layer
	track.Layer = sexp.GetLayer(node)
	if track.Layer == board.LayerUndefined {
		return nil, fmt.Errorf("missing required 'layer' field")
	}

	// Parse net (optional - may be unconnected)
	track.Net = p.nets.Resolve(node)
	return track, nil
}

// parseArcTrack extracts a copper arc
// Expected format: (arc (start x y) (mid x y) (end x y) (width w) (layer "layer") (net n) ...)
func (p *loader) parseArcTrack(node kicadsexp.Sexp) (*board.ArcTrack, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected arc list, got leaf")
	}

	start, end, err := startEnd(node)
	if err != nil {
		return nil, err
	}
	mid, err := sexp.GetChildXY(node, "mid")
	if err != nil {
		return nil, err
	}
	arc := &board.ArcTrack{Start: start, Mid: mid, End: end}

	if widthNode, found := sexp.FindNode(node, "width"); found {
		if arc.Width, err = sexp.GetLength(widthNode, 1); err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
	}

	arc.Layer = sexp.GetLayer(node)
	if arc.Layer == board.LayerUndefined {
		return nil, fmt.Errorf("missing required 'layer' field")
	}

	arc.Net = p.nets.Resolve(node)
	return arc, nil
}

// parseVia extracts a via definition
// Expected format: (via [blind|micro] (at x y) (size diameter) (drill diameter) (layers "L1" "L2") (net n) ...)
// tentDefault is the board wide tenting used when the via does not say.
func (p *loader) parseVia(node kicadsexp.Sexp, tentDefault bool) (*board.Via, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected via list, got leaf")
	}

	via := &board.Via{Type: board.ViaTypeThrough}
	switch {
	case sexp.HasSymbol(node, "blind"):
		via.Type = board.ViaTypeBlindBuried
	case sexp.HasSymbol(node, "micro"):
		via.Type = board.ViaTypeMicro
	}

	// Parse position (at x y)
	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, _, err := sexp.GetAt(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	via.Position = pos

	// Parse size (via diameter)
	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	size, err := sexp.GetLength(sizeNode, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse size: %w", err)
	}

	// Parse drill diameter
	drillNode, found := sexp.FindNode(node, "drill")
	if !found {
		return nil, fmt.Errorf("missing required 'drill' field")
	}
	drill, err := sexp.GetLength(drillNode, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drill: %w", err)
	}

	// Parse layers (layer pair)
	names := sexp.GetLayerNames(node)
	if len(names) == 0 {
		return nil, fmt.Errorf("missing required 'layers' field")
	}
	via.Padstack.Layers = p.expandLayers(names)

	via.Padstack.CopperLayers = []board.PadStackLayer{{
		Layer: board.LayerFCu,
		Shape: board.PadShapeCircle,
		Size:  board.Vector2{X: size, Y: size},
	}}

	tented := tentDefault
	if tenting, ok := sexp.FindNode(node, "tenting"); ok {
		tented = isTented(tenting)
	}
	via.Padstack.Drill = board.DrillProperties{
		Shape:    board.DrillShapeCircle,
		Diameter: board.Vector2{X: drill, Y: drill},
		Tented:   tented,
	}

	// Parse net (optional - may be unconnected)
	via.Net = p.nets.Resolve(node)
	return via, nil
}

// isTented reads a tenting node in either the (tenting front back) or the
// (tenting (front yes) (back no)) form. Tenting on either side counts.
func isTented(node kicadsexp.Sexp) bool {
	for _, side := range []string{"front", "back"} {
		if sexp.HasSymbol(node, side) {
			return true
		}
		if n, ok := sexp.FindNode(node, side); ok {
			if v, _ := sexp.GetString(n, 1); v == "yes" || v == "true" {
				return true
			}
		}
	}
	return false
}
