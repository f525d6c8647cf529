package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// parseFootprint extracts a placed footprint. Every child item is
// converted to board coordinates.
// Expected format: (footprint "library:name" (layer "layer") (at x y [angle]) ...)
func (p *loader) parseFootprint(node kicadsexp.Sexp) (*board.FootprintInstance, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected footprint list, got leaf")
	}

	fp := &board.FootprintInstance{}

	// Parse footprint name (library:name format, second element after "footprint")
	// Example: "Resistor_SMD:R_0603_1608Metric"
	fpName, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	if lib, name, ok := strings.Cut(fpName, ":"); ok {
		fp.Definition.ID = board.LibraryID{Library: lib, Name: name}
	} else {
		fp.Definition.ID = board.LibraryID{Name: fpName}
	}

	// Parse layer
	fp.Layer = sexp.GetLayer(node)
	if fp.Layer == board.LayerUndefined {
		return nil, fmt.Errorf("missing required 'layer' field")
	}

	// Parse position (at x y [angle])
	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	fp.Position, fp.Orientation, err = sexp.GetAt(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	tr := transform{origin: fp.Position, angle: fp.Orientation}

	// Parse attributes: (attr smd exclude_from_pos_files exclude_from_bom dnp)
	if attrNode, ok := sexp.FindNode(node, "attr"); ok {
		fp.Attributes = board.FootprintAttributes{
			ExcludeFromBOM:      sexp.HasSymbol(attrNode, "exclude_from_bom"),
			ExcludeFromPosFiles: sexp.HasSymbol(attrNode, "exclude_from_pos_files"),
			DoNotPopulate:       sexp.HasSymbol(attrNode, "dnp"),
		}
	}
	if sexp.HasFlag(node, "dnp") {
		fp.Attributes.DoNotPopulate = true
	}

	for _, item := range sexp.GetListItems(node) {
		if item.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(item)
		if err != nil {
			continue
		}

		switch {
		case name == "property":
			// KiCad 8: (property "Reference" "R1" (at ...) (layer ...) ...)
			key, err := sexp.GetString(item, 1)
			if err != nil {
				continue
			}
			text, err := parseText(item, 2, tr)
			if err != nil {
				// Properties without placement are plain key/value pairs
				value, _ := sexp.GetString(item, 2)
				text = &board.Text{Value: value, Position: fp.Position}
			}
			p.addField(fp, key, text)

		case name == "fp_text":
			// KiCad 6/7: (fp_text reference|value|user "text" (at ...) ...)
			kind, _ := sexp.GetString(item, 1)
			text, err := parseText(item, 2, tr)
			if err != nil {
				p.logger.Warn("skipping footprint text", "footprint", fpName, "error", err)
				continue
			}
			switch kind {
			case "reference":
				p.addField(fp, "Reference", text)
			case "value":
				p.addField(fp, "Value", text)
			default:
				fp.Definition.Texts = append(fp.Definition.Texts, text)
			}

		case name == "pad":
			pad, err := p.parsePad(item, tr)
			if err != nil {
				p.logger.Warn("skipping pad", "footprint", fpName, "error", err)
				continue
			}
			fp.Definition.Pads = append(fp.Definition.Pads, pad)

		case isShapeNode(name):
			shape, err := parseShape(item, tr)
			if err != nil {
				p.logger.Warn("skipping footprint graphic", "footprint", fpName, "error", err)
				continue
			}
			fp.Definition.Shapes = append(fp.Definition.Shapes, shape)
		}
	}

	return fp, nil
}

// addField stores a footprint field, routing Reference and Value to their
// dedicated slots.
func (p *loader) addField(fp *board.FootprintInstance, key string, text *board.Text) {
	field := board.Field{Name: key, Text: *text}
	switch key {
	case "Reference":
		fp.ReferenceField = field
	case "Value":
		fp.ValueField = field
	default:
		fp.Fields = append(fp.Fields, field)
	}
}
