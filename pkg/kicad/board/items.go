package board

import "math"

// Net is an electrical net.
type Net struct {
	Code int
	Name string
}

// NetName returns the name of n, or "" for a nil net.
func NetName(n *Net) string {
	if n == nil {
		return ""
	}
	return n.Name
}

// LibraryID names a footprint in its library.
type LibraryID struct {
	Library string
	Name    string
}

func (id LibraryID) String() string {
	if id.Library == "" {
		return id.Name
	}
	return id.Library + ":" + id.Name
}

// FootprintAttributes carries the fabrication flags of a footprint.
type FootprintAttributes struct {
	ExcludeFromBOM      bool
	ExcludeFromPosFiles bool
	DoNotPopulate       bool
}

// Field is a named footprint text field.
type Field struct {
	Name string
	Text Text
}

// FootprintDefinition holds the items of a placed footprint, all in board
// coordinates.
type FootprintDefinition struct {
	ID     LibraryID
	Shapes []Shape
	Pads   []*Pad
	Texts  []*Text
}

// FootprintInstance is a footprint placed on the board.
type FootprintInstance struct {
	Definition     FootprintDefinition
	Position       Vector2
	Orientation    Angle
	Layer          BoardLayer
	Attributes     FootprintAttributes
	ReferenceField Field
	ValueField     Field
	Fields         []Field
}

// AllTexts returns the fields (reference, value, user fields) followed by
// the free texts of the footprint.
func (f *FootprintInstance) AllTexts() []*Text {
	texts := []*Text{&f.ReferenceField.Text, &f.ValueField.Text}
	for i := range f.Fields {
		texts = append(texts, &f.Fields[i].Text)
	}
	return append(texts, f.Definition.Texts...)
}

// Track is a straight copper segment.
type Track struct {
	Start Vector2
	End   Vector2
	Width int64
	Layer BoardLayer
	Net   *Net
}

// ArcTrack is a copper arc through three points.
type ArcTrack struct {
	Start Vector2
	Mid   Vector2
	End   Vector2
	Width int64
	Layer BoardLayer
	Net   *Net
}

// Center returns the arc centre, or false for degenerate arcs.
func (a *ArcTrack) Center() (Vector2, bool) {
	return ArcCenter(a.Start, a.Mid, a.End)
}

// Radius returns the radius in nanometres.
func (a *ArcTrack) Radius() float64 {
	c, ok := a.Center()
	if !ok {
		return 0
	}
	return a.Start.Sub(c).Length()
}

// Angles returns start and end angles in radians; see Arc.Angles.
func (a *ArcTrack) Angles() (start, end float64, ok bool) {
	return arcAngles(a.Start, a.Mid, a.End)
}

// ViaType distinguishes through, blind/buried and micro vias.
type ViaType int

const (
	ViaTypeThrough ViaType = iota
	ViaTypeBlindBuried
	ViaTypeMicro
)

// Via is a plated hole connecting copper layers.
type Via struct {
	Position Vector2
	Type     ViaType
	// Padstack.Layers holds the two end layers of the span.
	Padstack Padstack
	Net      *Net
}

// IsOnLayer reports whether the via spans the copper layer l.
func (v *Via) IsOnLayer(l BoardLayer) bool {
	if !l.IsCopper() {
		return false
	}
	if len(v.Padstack.Layers) == 0 {
		return false
	}
	lo, hi := BoardLayer(math.MaxInt32), LayerUndefined
	for _, x := range v.Padstack.Layers {
		if !x.IsCopper() {
			continue
		}
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return l >= lo && l <= hi
}

// ZoneType distinguishes copper pours from rule areas.
type ZoneType int

const (
	ZoneTypeCopper ZoneType = iota
	ZoneTypeRuleArea
)

// Zone is a copper pour or rule area.
type Zone struct {
	Type           ZoneType
	Name           string
	Layers         LayerSet
	Filled         bool
	Outline        PolygonWithHoles
	FilledPolygons map[BoardLayer][]PolygonWithHoles
	MinThickness   int64
	Net            *Net
}

// IsRuleArea reports whether the zone is a keep-out/rule area.
func (z *Zone) IsRuleArea() bool {
	return z.Type == ZoneTypeRuleArea
}

// TitleBlock holds the drawing sheet fields of the board.
type TitleBlock struct {
	Title    string
	Revision string
	Company  string
	Date     string
	Comments []string
}
