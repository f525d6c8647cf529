// Package sexp provides navigation and typed extraction helpers over parsed
// KiCad S-expressions. Coordinates are read in millimetres, as written by
// KiCad 6 and later, and returned in the nanometre units of the board model.
package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// Items returns the elements of a list node, key included.
func Items(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Items()
	}
	// Foreign Sexp implementations: walk Head/Tail.
	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		s = s.Tail()
	}
	return items
}

// FindNode searches for a child node with the given key (first symbol)
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range Items(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child nodes with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range Items(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := Items(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}
	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at head of list")
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range GetListItems(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// HasFlag reports a boolean attribute in either the legacy bare symbol
// form (bold) or the KiCad 8 form (bold yes).
func HasFlag(s kicadsexp.Sexp, name string) bool {
	if HasSymbol(s, name) {
		return true
	}
	if node, ok := FindNode(s, name); ok {
		v, err := GetString(node, 1)
		return err != nil || v == "yes" || v == "true"
	}
	return false
}

// Typed value extraction helpers

// GetString extracts a string value at the given index in a list
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}
	items := Items(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	if sym, ok := items[index].(kicadsexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// Domain-specific extraction helpers

// GetLength reads a millimetre value at index and returns nanometres.
func GetLength(s kicadsexp.Sexp, index int) (int64, error) {
	mm, err := GetFloat(s, index)
	if err != nil {
		return 0, err
	}
	return board.FromMM(mm), nil
}

// GetXY extracts X,Y coordinates from (start X Y), (end X Y), (xy X Y)...
func GetXY(s kicadsexp.Sexp) (board.Vector2, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return board.Vector2{}, fmt.Errorf("failed to parse X: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return board.Vector2{}, fmt.Errorf("failed to parse Y: %w", err)
	}
	return board.VectorFromMM(x, y), nil
}

// GetChildXY finds the child node key and extracts its coordinates.
func GetChildXY(s kicadsexp.Sexp, key string) (board.Vector2, error) {
	node, ok := FindNode(s, key)
	if !ok {
		return board.Vector2{}, fmt.Errorf("missing (%s X Y)", key)
	}
	return GetXY(node)
}

// GetAt extracts position and optional angle from an (at X Y [angle]) node.
// Angles are in degrees.
func GetAt(s kicadsexp.Sexp) (board.Vector2, board.Angle, error) {
	pos, err := GetXY(s)
	if err != nil {
		return board.Vector2{}, board.Angle{}, err
	}
	angle, err := GetFloat(s, 3)
	if err != nil {
		// Angle is optional
		return pos, board.Angle{}, nil
	}
	return pos, board.AngleFromDegrees(angle), nil
}

// GetPoints extracts a (pts (xy ..) (arc (start ..) (mid ..) (end ..)) ...)
// node into polyline nodes.
func GetPoints(s kicadsexp.Sexp) ([]board.PolyLineNode, error) {
	var nodes []board.PolyLineNode
	for _, item := range GetListItems(s) {
		name, err := GetNodeName(item)
		if err != nil {
			continue
		}
		switch name {
		case "xy":
			p, err := GetXY(item)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, board.PointNode(p))
		case "arc":
			start, err := GetChildXY(item, "start")
			if err != nil {
				return nil, err
			}
			mid, err := GetChildXY(item, "mid")
			if err != nil {
				return nil, err
			}
			end, err := GetChildXY(item, "end")
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, board.ArcNodeOf(start, mid, end))
		}
	}
	return nodes, nil
}

// GetStrokeWidth reads the line width of a graphic item, either from
// (stroke (width W)) or from the legacy (width W) child. Missing width
// yields 0.
func GetStrokeWidth(s kicadsexp.Sexp) int64 {
	if stroke, ok := FindNode(s, "stroke"); ok {
		s = stroke
	}
	if widthNode, ok := FindNode(s, "width"); ok {
		if w, err := GetLength(widthNode, 1); err == nil {
			return w
		}
	}
	return 0
}

// GetFilled interprets the (fill ...) child of a graphic item.
// Accepted forms: (fill solid), (fill yes), (fill none), (fill no) and
// (fill (type solid|none)).
func GetFilled(s kicadsexp.Sexp) bool {
	fill, ok := FindNode(s, "fill")
	if !ok {
		return false
	}
	if typeNode, ok := FindNode(fill, "type"); ok {
		fill = typeNode
	}
	v, err := GetString(fill, 1)
	if err != nil {
		return false
	}
	switch v {
	case "solid", "yes", "true":
		return true
	}
	return false
}

// GetLayer reads the (layer "name") child of an item.
func GetLayer(s kicadsexp.Sexp) board.BoardLayer {
	node, ok := FindNode(s, "layer")
	if !ok {
		return board.LayerUndefined
	}
	name, err := GetString(node, 1)
	if err != nil {
		return board.LayerUndefined
	}
	return board.LayerFromName(name)
}

// GetLayerNames reads the raw names of a (layers ...) child, wildcards
// such as "*.Cu" included.
func GetLayerNames(s kicadsexp.Sexp) []string {
	node, ok := FindNode(s, "layers")
	if !ok {
		return nil
	}
	var names []string
	for _, item := range GetListItems(node) {
		if sym, ok := item.(kicadsexp.Symbol); ok {
			names = append(names, string(sym))
		}
	}
	return names
}

// GetEffects reads an (effects ...) node into text attributes. Position
// and angle are not part of effects and are left zero.
func GetEffects(s kicadsexp.Sexp) board.TextAttributes {
	attrs := board.TextAttributes{Visible: true}
	if s == nil {
		return attrs
	}

	if font, ok := FindNode(s, "font"); ok {
		if sizeNode, ok := FindNode(font, "size"); ok {
			// (size H W): height first
			h, _ := GetLength(sizeNode, 1)
			w, _ := GetLength(sizeNode, 2)
			attrs.Size = board.Vector2{X: w, Y: h}
		}
		if thickness, ok := FindNode(font, "thickness"); ok {
			attrs.StrokeWidth, _ = GetLength(thickness, 1)
		}
		if face, ok := FindNode(font, "face"); ok {
			attrs.FontName, _ = GetString(face, 1)
		}
		attrs.Bold = HasFlag(font, "bold")
		attrs.Italic = HasFlag(font, "italic")
	}
	if attrs.StrokeWidth == 0 {
		// KiCad default: size / 8, bold / 5
		div := int64(8)
		if attrs.Bold {
			div = 5
		}
		attrs.StrokeWidth = min(attrs.Size.X, attrs.Size.Y) / div
	}

	if justify, ok := FindNode(s, "justify"); ok {
		for _, item := range GetListItems(justify) {
			sym, ok := item.(kicadsexp.Symbol)
			if !ok {
				continue
			}
			switch string(sym) {
			case "left":
				attrs.HorizontalAlignment = board.HAlignLeft
			case "right":
				attrs.HorizontalAlignment = board.HAlignRight
			case "top":
				attrs.VerticalAlignment = board.VAlignTop
			case "bottom":
				attrs.VerticalAlignment = board.VAlignBottom
			case "mirror":
				attrs.Mirrored = true
			}
		}
	}

	if HasFlag(s, "hide") {
		attrs.Visible = false
	}
	return attrs
}
