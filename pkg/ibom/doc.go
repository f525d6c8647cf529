// Package ibom converts an opened KiCad board into the scene document
// consumed by the interactive BOM viewer.
//
// The board is read through the board.Board capability set. Native
// geometry is normalized to millimetres and degrees and reduced to a small
// closed set of drawable primitives: segments, circles, arcs, polygons,
// curves and rendered text.
//
// # Overview
//
// The conversion is a single synchronous pass:
//  1. Collect the board outline from every Edge.Cuts drawing, footprints
//     included. A board without an outline is rejected.
//  2. Collect silkscreen and fabrication drawings, texts included.
//  3. Translate every footprint: copper drawings, pads, bounding box and
//     the pin-1 marker.
//  4. Optionally aggregate tracks, vias, filled zones and the net list.
//
// Constructs the document cannot express are logged and skipped. Only a
// missing outline aborts the conversion.
//
// # Usage
//
//	b, err := pcb.ParseFile("board.kicad_pcb")
//	if err != nil {
//		return err
//	}
//
//	cfg := ibom.DefaultConfig()
//	cfg.IncludeTracks = true
//
//	data, components, err := ibom.NewParser(b, cfg, ibom.WithLogger(logger)).Parse()
//	if errors.Is(err, ibom.ErrMissingOutline) {
//		// ask the user to draw an outline
//	}
package ibom
