package ibom

// Drawing is one drawable primitive of the scene document. The concrete
// types are the *Drawing structs of this package.
type Drawing interface {
	DrawingType() string
}

// SegmentDrawing is a straight stroke.
type SegmentDrawing struct {
	Type  string  `json:"type"`
	Start Point   `json:"start"`
	End   Point   `json:"end"`
	Width float64 `json:"width"`
}

// CircleDrawing is a stroked or filled circle.
type CircleDrawing struct {
	Type   string  `json:"type"`
	Start  Point   `json:"start"`
	Radius float64 `json:"radius"`
	Width  float64 `json:"width"`
	Filled int     `json:"filled"`
}

// ArcDrawing is a circular arc. The angles are null when the arc is
// degenerate.
type ArcDrawing struct {
	Type       string   `json:"type"`
	Start      Point    `json:"start"`
	Radius     float64  `json:"radius"`
	StartAngle *float64 `json:"startangle"`
	EndAngle   *float64 `json:"endangle"`
	Width      float64  `json:"width"`
}

// PolygonDrawing is a set of contours placed at Pos and rotated by Angle.
// Filled and Width are set only for outlined polygons; filled is the
// default.
type PolygonDrawing struct {
	Type     string    `json:"type"`
	Pos      Point     `json:"pos"`
	Angle    float64   `json:"angle"`
	Polygons [][]Point `json:"polygons"`
	Filled   *int      `json:"filled,omitempty"`
	Width    *float64  `json:"width,omitempty"`
}

// CurveDrawing is a cubic Bezier curve.
type CurveDrawing struct {
	Type  string  `json:"type"`
	Start Point   `json:"start"`
	CPA   Point   `json:"cpa"`
	CPB   Point   `json:"cpb"`
	End   Point   `json:"end"`
	Width float64 `json:"width"`
}

// StrokeTextDrawing is text rendered as strokes along an SVG path.
type StrokeTextDrawing struct {
	Type      string  `json:"type"`
	SVGPath   string  `json:"svgpath"`
	Thickness float64 `json:"thickness"`
	Filled    int     `json:"filled"`
	Ref       int     `json:"ref,omitempty"`
	Val       int     `json:"val,omitempty"`
}

// PolygonTextDrawing is text rendered as filled glyph contours in board
// coordinates.
type PolygonTextDrawing struct {
	Type     string    `json:"type"`
	Polygons [][]Point `json:"polygons"`
	Filled   int       `json:"filled"`
	Ref      int       `json:"ref,omitempty"`
	Val      int       `json:"val,omitempty"`
}

func (*SegmentDrawing) DrawingType() string     { return "segment" }
func (*CircleDrawing) DrawingType() string      { return "circle" }
func (*ArcDrawing) DrawingType() string         { return "arc" }
func (*PolygonDrawing) DrawingType() string     { return "polygon" }
func (*CurveDrawing) DrawingType() string       { return "curve" }
func (*StrokeTextDrawing) DrawingType() string  { return "text" }
func (*PolygonTextDrawing) DrawingType() string { return "text" }

// LayerSplit holds per-side lists keyed F (front) and B (back).
type LayerSplit[T any] struct {
	F []T `json:"F"`
	B []T `json:"B"`
}

func newLayerSplit[T any]() LayerSplit[T] {
	return LayerSplit[T]{F: []T{}, B: []T{}}
}

// Drawings holds the silkscreen and fabrication layers.
type Drawings struct {
	Silkscreen  LayerSplit[Drawing] `json:"silkscreen"`
	Fabrication LayerSplit[Drawing] `json:"fabrication"`
}

// BBox is an axis aligned extent in millimetres.
type BBox struct {
	MinX float64 `json:"minx"`
	MinY float64 `json:"miny"`
	MaxX float64 `json:"maxx"`
	MaxY float64 `json:"maxy"`
}

// FootprintBBox is the footprint box relative to its position. The
// renderer rotates it by Angle around Pos.
type FootprintBBox struct {
	Pos    Point   `json:"pos"`
	RelPos Point   `json:"relpos"`
	Size   Point   `json:"size"`
	Angle  float64 `json:"angle"`
}

// Pad is a footprint pad. Optional fields are nil when absent.
type Pad struct {
	Layers     []string   `json:"layers"`
	Pos        Point      `json:"pos"`
	Size       Point      `json:"size"`
	Angle      float64    `json:"angle"`
	Shape      string     `json:"shape"`
	Polygons   *[][]Point `json:"polygons,omitempty"`
	Radius     *float64   `json:"radius,omitempty"`
	ChamfPos   *int       `json:"chamfpos,omitempty"`
	ChamfRatio *float64   `json:"chamfratio,omitempty"`
	Type       string     `json:"type"`
	DrillShape string     `json:"drillshape,omitempty"`
	DrillSize  *Point     `json:"drillsize,omitempty"`
	Offset     Point      `json:"offset"`
	Pin1       int        `json:"pin1,omitempty"`
	Net        *string    `json:"net,omitempty"`
}

// FootprintDrawing is a copper drawing of a footprint.
type FootprintDrawing struct {
	Layer   string  `json:"layer"`
	Drawing Drawing `json:"drawing"`
}

// Footprint is a placed footprint.
type Footprint struct {
	Ref      string             `json:"ref"`
	BBox     FootprintBBox      `json:"bbox"`
	Pads     []*Pad             `json:"pads"`
	Drawings []FootprintDrawing `json:"drawings"`
	Layer    string             `json:"layer"`
}

// Track is one entry of a per-layer track list: a *TrackSegment, a
// *TrackArc or a *TrackVia.
type Track interface {
	trackKind() string
}

// TrackSegment is a straight copper track.
type TrackSegment struct {
	Start Point   `json:"start"`
	End   Point   `json:"end"`
	Width float64 `json:"width"`
	Net   *string `json:"net,omitempty"`
}

// TrackArc is a copper arc track.
type TrackArc struct {
	Center     Point   `json:"center"`
	StartAngle float64 `json:"startangle"`
	EndAngle   float64 `json:"endangle"`
	Radius     float64 `json:"radius"`
	Width      float64 `json:"width"`
	Net        *string `json:"net,omitempty"`
}

// TrackVia is a via drawn on one copper side. Start and End coincide.
type TrackVia struct {
	Start     Point    `json:"start"`
	End       Point    `json:"end"`
	Width     float64  `json:"width"`
	DrillSize *float64 `json:"drillsize,omitempty"`
	Net       *string  `json:"net,omitempty"`
}

func (*TrackSegment) trackKind() string { return "segment" }
func (*TrackArc) trackKind() string     { return "arc" }
func (*TrackVia) trackKind() string     { return "via" }

// Zone is the filled area of one zone on one copper side.
type Zone struct {
	Polygons [][]Point `json:"polygons"`
	Width    float64   `json:"width"`
	Net      *string   `json:"net,omitempty"`
}

// Metadata describes the board drawing sheet.
type Metadata struct {
	Title    string `json:"title"`
	Revision string `json:"revision"`
	Company  string `json:"company"`
	Date     string `json:"date"`
}

// PcbData is the scene document. Tracks, Zones and Nets are present only
// when enabled in Config.
type PcbData struct {
	EdgesBBox  BBox               `json:"edges_bbox"`
	Edges      []Drawing          `json:"edges"`
	Drawings   Drawings           `json:"drawings"`
	Footprints []Footprint        `json:"footprints"`
	Metadata   Metadata           `json:"metadata"`
	BOM        map[string]any     `json:"bom"`
	FontData   any                `json:"font_data"`
	Tracks     *LayerSplit[Track] `json:"tracks,omitempty"`
	Zones      *LayerSplit[Zone]  `json:"zones,omitempty"`
	Nets       []string           `json:"nets,omitempty"`
}
