package board

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardLayer identifies a board layer. Copper layers are ordered from front
// to back so a via span can be tested with simple comparisons.
type BoardLayer int

// MaxInnerCopperLayers is the number of inner copper layers KiCad supports.
const MaxInnerCopperLayers = 30

const (
	LayerUndefined BoardLayer = iota
	LayerFCu
	LayerIn1Cu
)

const (
	LayerBCu BoardLayer = LayerIn1Cu + MaxInnerCopperLayers + iota
	LayerFAdhes
	LayerBAdhes
	LayerFPaste
	LayerBPaste
	LayerFSilkS
	LayerBSilkS
	LayerFMask
	LayerBMask
	LayerDwgsUser
	LayerCmtsUser
	LayerEco1User
	LayerEco2User
	LayerEdgeCuts
	LayerMargin
	LayerFCrtYd
	LayerBCrtYd
	LayerFFab
	LayerBFab
)

var layerNames = map[BoardLayer]string{
	LayerFCu:      "F.Cu",
	LayerBCu:      "B.Cu",
	LayerFAdhes:   "F.Adhes",
	LayerBAdhes:   "B.Adhes",
	LayerFPaste:   "F.Paste",
	LayerBPaste:   "B.Paste",
	LayerFSilkS:   "F.SilkS",
	LayerBSilkS:   "B.SilkS",
	LayerFMask:    "F.Mask",
	LayerBMask:    "B.Mask",
	LayerDwgsUser: "Dwgs.User",
	LayerCmtsUser: "Cmts.User",
	LayerEco1User: "Eco1.User",
	LayerEco2User: "Eco2.User",
	LayerEdgeCuts: "Edge.Cuts",
	LayerMargin:   "Margin",
	LayerFCrtYd:   "F.CrtYd",
	LayerBCrtYd:   "B.CrtYd",
	LayerFFab:     "F.Fab",
	LayerBFab:     "B.Fab",
}

// User visible names introduced with KiCad 6 that may appear in place of
// the canonical ones.
var layerAliases = map[string]BoardLayer{
	"F.Adhesive":    LayerFAdhes,
	"B.Adhesive":    LayerBAdhes,
	"F.Silkscreen":  LayerFSilkS,
	"B.Silkscreen":  LayerBSilkS,
	"F.Courtyard":   LayerFCrtYd,
	"B.Courtyard":   LayerBCrtYd,
	"User.Drawings": LayerDwgsUser,
	"User.Comments": LayerCmtsUser,
	"User.Eco1":     LayerEco1User,
	"User.Eco2":     LayerEco2User,
}

// InnerCopper returns the n-th inner copper layer (1-based).
func InnerCopper(n int) BoardLayer {
	if n < 1 || n > MaxInnerCopperLayers {
		return LayerUndefined
	}
	return LayerIn1Cu + BoardLayer(n-1)
}

// IsCopper reports whether l is a conductive layer.
func (l BoardLayer) IsCopper() bool {
	return l >= LayerFCu && l <= LayerBCu
}

// String returns the canonical KiCad layer name.
func (l BoardLayer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	if l >= LayerIn1Cu && l < LayerBCu {
		return fmt.Sprintf("In%d.Cu", int(l-LayerIn1Cu)+1)
	}
	return "Undefined"
}

// LayerFromName resolves a canonical or user visible KiCad layer name.
// Unknown names map to LayerUndefined.
func LayerFromName(name string) BoardLayer {
	for l, n := range layerNames {
		if n == name {
			return l
		}
	}
	if l, ok := layerAliases[name]; ok {
		return l
	}
	if strings.HasPrefix(name, "In") && strings.HasSuffix(name, ".Cu") {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "In"), ".Cu"))
		if err == nil {
			return InnerCopper(n)
		}
	}
	return LayerUndefined
}

// LayerSet is an unordered collection of layers.
type LayerSet []BoardLayer

// Contains reports whether the set holds l.
func (s LayerSet) Contains(l BoardLayer) bool {
	for _, x := range s {
		if x == l {
			return true
		}
	}
	return false
}
