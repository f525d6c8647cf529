package pcb

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"

// padBoundingBox returns the box of a pad's copper in board coordinates.
// The padstack size is treated as a rectangle rotated by the pad angle.
func padBoundingBox(pad *board.Pad) board.Box2 {
	box := board.Box2{Pos: pad.Position}
	first := true
	merge := func(b board.Box2) {
		if first {
			box, first = b, false
			return
		}
		box = box.Merge(b)
	}

	for _, layer := range pad.Padstack.CopperLayers {
		half := board.Vector2{X: layer.Size.X / 2, Y: layer.Size.Y / 2}
		corners := []board.Vector2{
			{X: -half.X, Y: -half.Y},
			{X: half.X, Y: -half.Y},
			{X: half.X, Y: half.Y},
			{X: -half.X, Y: half.Y},
		}
		for i, c := range corners {
			corners[i] = c.Add(layer.Offset).Rotated(pad.Padstack.Angle).Add(pad.Position)
		}
		merge(board.BoxFromPoints(corners...))

		for _, shape := range layer.CustomShapes {
			b := shape.BoundingBox()
			pts := []board.Vector2{b.Pos, b.End(), {X: b.Pos.X, Y: b.End().Y}, {X: b.End().X, Y: b.Pos.Y}}
			for i, pt := range pts {
				pts[i] = pt.Rotated(pad.Padstack.Angle).Add(pad.Position)
			}
			merge(board.BoxFromPoints(pts...))
		}
	}
	return box
}

// footprintBoundingBox calculates the bounding box of a footprint from its
// pads and graphics. Texts are not included. A footprint without items
// collapses to its position.
func footprintBoundingBox(fp *board.FootprintInstance) (board.Box2, bool) {
	var box board.Box2
	found := false
	merge := func(b board.Box2) {
		if !found {
			box, found = b, true
			return
		}
		box = box.Merge(b)
	}

	for _, pad := range fp.Definition.Pads {
		merge(padBoundingBox(pad))
	}
	for _, shape := range fp.Definition.Shapes {
		merge(shape.BoundingBox())
	}

	if !found {
		return board.Box2{Pos: fp.Position}, true
	}
	return box, true
}

// edgeBoundingBox calculates the extents of the Edge.Cuts drawings of the
// board, footprint edges included. It reports false when there are none.
func (b *Board) edgeBoundingBox() (board.Box2, bool) {
	var box board.Box2
	found := false
	merge := func(s board.Shape) {
		if s.Layer() != board.LayerEdgeCuts {
			return
		}
		if !found {
			box, found = s.BoundingBox(), true
			return
		}
		box = box.Merge(s.BoundingBox())
	}

	for _, s := range b.shapes {
		merge(s)
	}
	for _, fp := range b.footprints {
		for _, s := range fp.Definition.Shapes {
			merge(s)
		}
	}
	return box, found
}
