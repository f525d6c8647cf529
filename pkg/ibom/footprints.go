package ibom

import (
	"slices"
	"sort"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// pin1Names are the pad numbers conventionally used for the first pin
var pin1Names = []string{"1", "A", "A1", "P1", "PAD1"}

// sideName returns "F" for the front copper layer and "B" otherwise
func sideName(l board.BoardLayer) string {
	if l == board.LayerFCu {
		return "F"
	}
	return "B"
}

type numberedPad struct {
	number string
	pad    *Pad
}

// selectPin1 marks the first pin among pads sorted by number: the first
// conventional first-pin name, else the smallest number. At most one pad
// is marked.
func selectPin1(pads []numberedPad) {
	if len(pads) == 0 {
		return
	}
	for _, np := range pads {
		if slices.Contains(pin1Names, np.number) {
			np.pad.Pin1 = 1
			return
		}
	}
	pads[0].pad.Pin1 = 1
}

// parseFootprint translates one placed footprint. Only copper drawings are
// kept; silkscreen and fabrication are collected at board level.
func (p *Parser) parseFootprint(fp *board.FootprintInstance, includeNets bool) Footprint {
	box, ok := p.board.ItemBoundingBox(fp)
	if !ok {
		p.logger.Warn("footprint has no bounding box", "ref", fp.ReferenceField.Text.Value)
		box = board.Box2{Pos: fp.Position}
	}
	box = box.Moved(fp.Position.Neg())

	result := Footprint{
		Ref: fp.ReferenceField.Text.Value,
		BBox: FootprintBBox{
			Pos:    Normalize(fp.Position),
			RelPos: Normalize(box.Pos),
			Size:   Normalize(box.Size),
			Angle:  AngleDegrees(fp.Orientation),
		},
		Pads:     []*Pad{},
		Drawings: []FootprintDrawing{},
		Layer:    sideName(fp.Layer),
	}

	for _, s := range fp.Definition.Shapes {
		if l := s.Layer(); l != board.LayerFCu && l != board.LayerBCu {
			continue
		}
		if d := p.parseShape(s); d != nil {
			result.Drawings = append(result.Drawings, FootprintDrawing{Layer: sideName(s.Layer()), Drawing: d})
		}
	}

	var pads []numberedPad
	for _, pad := range fp.Definition.Pads {
		if translated := p.parsePad(pad, includeNets); translated != nil {
			pads = append(pads, numberedPad{number: pad.Number, pad: translated})
		}
	}
	sort.SliceStable(pads, func(i, j int) bool { return pads[i].number < pads[j].number })
	selectPin1(pads)

	for _, np := range pads {
		result.Pads = append(result.Pads, np.pad)
	}
	return result
}

func (p *Parser) parseFootprints(includeNets bool) []Footprint {
	footprints := make([]Footprint, 0, len(p.board.Footprints()))
	for _, fp := range p.board.Footprints() {
		footprints = append(footprints, p.parseFootprint(fp, includeNets))
	}
	return footprints
}
