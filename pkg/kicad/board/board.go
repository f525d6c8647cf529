package board

// Board is the capability set the normalization engine needs from an opened
// board. Implementations own the snapshot; callers must not modify the
// returned items.
type Board interface {
	// Footprints returns the placed footprints in board order.
	Footprints() []*FootprintInstance
	// Shapes returns the board level graphic shapes.
	Shapes() []Shape
	// Texts returns the board level texts.
	Texts() []*Text
	// Tracks returns the straight copper segments.
	Tracks() []*Track
	// Arcs returns the copper arc tracks.
	Arcs() []*ArcTrack
	// Vias returns the vias.
	Vias() []*Via
	// Zones returns copper zones and rule areas.
	Zones() []*Zone
	// Nets returns every net declared on the board.
	Nets() []*Net
	// TitleBlock returns the drawing sheet fields.
	TitleBlock() TitleBlock
	// ItemBoundingBox returns the bounding box of a footprint in board
	// coordinates.
	ItemBoundingBox(fp *FootprintInstance) (Box2, bool)
	// PadShapeAsPolygon returns the outline of a pad as an absolute
	// polygon, or false when the board cannot produce it.
	PadShapeAsPolygon(pad *Pad) (PolygonWithHoles, bool)
	// ExpandTextVariables returns the value of t with ${VAR} references
	// resolved. t is not modified.
	ExpandTextVariables(t *Text) string
	// TextAsShapes renders t into stroke segments or fill polygons.
	TextAsShapes(t *Text) (TextShapes, bool)
}
