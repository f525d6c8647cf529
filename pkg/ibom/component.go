package ibom

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"

// Component attribute values
const (
	AttrNormal  = "Normal"
	AttrVirtual = "Virtual"
)

// Component is the BOM view of a footprint.
type Component struct {
	Ref         string            `json:"ref"`
	Val         string            `json:"val"`
	Footprint   string            `json:"footprint"`
	Layer       string            `json:"layer"`
	Attr        string            `json:"attr"`
	ExtraFields map[string]string `json:"extra_fields"`
}

// footprintToComponent builds the component of a footprint. Footprints
// excluded from the BOM are marked virtual. Layer is empty for
// footprints on neither outer copper layer.
func footprintToComponent(fp *board.FootprintInstance, extraFields map[string]string) Component {
	attr := AttrNormal
	if fp.Attributes.ExcludeFromBOM {
		attr = AttrVirtual
	}

	var layer string
	switch fp.Layer {
	case board.LayerFCu:
		layer = "F"
	case board.LayerBCu:
		layer = "B"
	}

	return Component{
		Ref:         fp.ReferenceField.Text.Value,
		Val:         fp.ValueField.Text.Value,
		Footprint:   fp.Definition.ID.String(),
		Layer:       layer,
		Attr:        attr,
		ExtraFields: extraFields,
	}
}
