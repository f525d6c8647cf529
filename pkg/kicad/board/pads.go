package board

import "fmt"

// PadType is the electrical/mechanical kind of a pad.
type PadType int

const (
	PadTypeUnknown PadType = iota
	PadTypePTH
	PadTypeSMD
	PadTypeEdgeConnector
	PadTypeNPTH
)

// PadStackShape is the copper shape of one padstack layer.
type PadStackShape int

const (
	PadShapeUnknown PadStackShape = iota
	PadShapeCircle
	PadShapeRectangle
	PadShapeOval
	PadShapeTrapezoid
	PadShapeRoundRect
	PadShapeChamferedRect
	PadShapeCustom
)

func (s PadStackShape) String() string {
	switch s {
	case PadShapeCircle:
		return "PSS_CIRCLE"
	case PadShapeRectangle:
		return "PSS_RECTANGLE"
	case PadShapeOval:
		return "PSS_OVAL"
	case PadShapeTrapezoid:
		return "PSS_TRAPEZOID"
	case PadShapeRoundRect:
		return "PSS_ROUNDRECT"
	case PadShapeChamferedRect:
		return "PSS_CHAMFEREDRECT"
	case PadShapeCustom:
		return "PSS_CUSTOM"
	default:
		return fmt.Sprintf("PSS_UNKNOWN(%d)", int(s))
	}
}

// DrillShape is the hole shape of a through-hole pad or via.
type DrillShape int

const (
	DrillShapeUnknown DrillShape = iota
	DrillShapeCircle
	DrillShapeOblong
)

// ChamferedRectCorners selects the chamfered corners of a rectangle.
type ChamferedRectCorners struct {
	TopLeft     bool
	TopRight    bool
	BottomLeft  bool
	BottomRight bool
}

// PadStackLayer is the geometry of a padstack on one copper layer.
type PadStackLayer struct {
	Layer               BoardLayer
	Shape               PadStackShape
	Size                Vector2
	Offset              Vector2
	CornerRoundingRatio float64
	ChamferRatio        float64
	ChamferedCorners    ChamferedRectCorners
	TrapezoidDelta      Vector2
	// CustomShapes holds the primitives of a custom pad in pad-local,
	// unrotated coordinates.
	CustomShapes []Shape
}

// DrillProperties describes the hole of a padstack.
type DrillProperties struct {
	Shape    DrillShape
	Diameter Vector2
	// Tented is set when the drill is covered by solder mask.
	Tented bool
}

// Padstack is the per-layer definition of a pad or via.
type Padstack struct {
	Layers       LayerSet
	CopperLayers []PadStackLayer
	Drill        DrillProperties
	Angle        Angle
}

// Pad is a footprint pad in board coordinates.
type Pad struct {
	Number   string
	Type     PadType
	Position Vector2
	Padstack Padstack
	Net      *Net
}
