package pcb

import (
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// Layer represents an entry of the board layer table
type Layer struct {
	Number   int              // Layer ordinal as written in the file
	Name     string           // Canonical name (e.g., "F.Cu", "B.SilkS")
	Type     string           // signal, power, mixed, jumper or user
	UserName string           // Optional user visible name
	ID       board.BoardLayer // Resolved layer identifier
}

// NetMap provides efficient lookup of nets by number or name
type NetMap struct {
	byNumber map[int]*board.Net
	byName   map[string]*board.Net
	nets     []*board.Net
}

// NewNetMap creates an empty NetMap
func NewNetMap() *NetMap {
	return &NetMap{
		byNumber: make(map[int]*board.Net),
		byName:   make(map[string]*board.Net),
	}
}

// Add registers a net. Re-adding an existing code returns the known net.
func (nm *NetMap) Add(code int, name string) *board.Net {
	if net, ok := nm.byNumber[code]; ok {
		return net
	}
	net := &board.Net{Code: code, Name: name}
	nm.byNumber[code] = net
	// Only index non-empty names
	if name != "" {
		nm.byName[name] = net
	}
	nm.nets = append(nm.nets, net)
	return net
}

// GetByName retrieves a net by its name (e.g., "GND", "+5V")
func (nm *NetMap) GetByName(name string) (*board.Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

// GetByNumber retrieves a net by its number
func (nm *NetMap) GetByNumber(num int) (*board.Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}

// Nets returns every registered net in declaration order
func (nm *NetMap) Nets() []*board.Net {
	return nm.nets
}

// Resolve looks up the (net ...) child of an item. Both the numbered
// form (net 3) / (net 3 "GND") and the named form (net "GND") are
// accepted. Net 0 and the empty name mean unconnected and yield nil.
func (nm *NetMap) Resolve(node kicadsexp.Sexp) *board.Net {
	netNode, ok := sexp.FindNode(node, "net")
	if !ok {
		return nil
	}
	ref, err := sexp.GetString(netNode, 1)
	if err != nil || ref == "" {
		return nil
	}
	if code, err := strconv.Atoi(ref); err == nil {
		if code == 0 {
			return nil
		}
		if net, ok := nm.GetByNumber(code); ok {
			return net
		}
		name, _ := sexp.GetString(netNode, 2)
		return nm.Add(code, name)
	}
	if net, ok := nm.GetByName(ref); ok {
		return net
	}
	return nm.Add(-len(nm.nets)-1, ref)
}
