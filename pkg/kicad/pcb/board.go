package pcb

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/font"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// maxExpandDepth bounds nested ${VAR} resolution
const maxExpandDepth = 8

// Board is a loaded KiCad PCB. It implements board.Board.
type Board struct {
	Version   int     // File format version
	Generator string  // Generator info (e.g., "pcbnew")
	FileName  string  // Source path, empty when parsed from a reader
	Layers    []Layer // Layer definitions

	footprints []*board.FootprintInstance
	shapes     []board.Shape
	texts      []*board.Text
	tracks     []*board.Track
	arcs       []*board.ArcTrack
	vias       []*board.Via
	zones      []*board.Zone
	nets       []*board.Net
	titleBlock board.TitleBlock
	tentVias   bool

	logger      *slog.Logger
	textVars    *TextVars
	vars        map[string]string
	projectVars map[string]string
	owners      map[*board.Text]*board.FootprintInstance

	fontOnce sync.Once
	fonts    *font.Source
	fontErr  error
}

var _ board.Board = (*Board)(nil)

func (b *Board) addFootprint(fp *board.FootprintInstance) {
	b.footprints = append(b.footprints, fp)
	for _, t := range fp.AllTexts() {
		b.owners[t] = fp
	}
}

// Footprints implements board.Board.
func (b *Board) Footprints() []*board.FootprintInstance { return b.footprints }

// Shapes implements board.Board.
func (b *Board) Shapes() []board.Shape { return b.shapes }

// Texts implements board.Board.
func (b *Board) Texts() []*board.Text { return b.texts }

// Tracks implements board.Board.
func (b *Board) Tracks() []*board.Track { return b.tracks }

// Arcs implements board.Board.
func (b *Board) Arcs() []*board.ArcTrack { return b.arcs }

// Vias implements board.Board.
func (b *Board) Vias() []*board.Via { return b.vias }

// Zones implements board.Board.
func (b *Board) Zones() []*board.Zone { return b.zones }

// Nets implements board.Board.
func (b *Board) Nets() []*board.Net { return b.nets }

// TitleBlock implements board.Board.
func (b *Board) TitleBlock() board.TitleBlock { return b.titleBlock }

// Extents returns the box of the board outline drawings.
func (b *Board) Extents() (board.Box2, bool) { return b.edgeBoundingBox() }

// ItemBoundingBox implements board.Board.
func (b *Board) ItemBoundingBox(fp *board.FootprintInstance) (board.Box2, bool) {
	return footprintBoundingBox(fp)
}

// PadShapeAsPolygon implements board.Board. Only custom pads have an
// outline; it is taken from the first polygon primitive.
func (b *Board) PadShapeAsPolygon(pad *board.Pad) (board.PolygonWithHoles, bool) {
	if len(pad.Padstack.CopperLayers) == 0 {
		return board.PolygonWithHoles{}, false
	}
	layer := pad.Padstack.CopperLayers[0]
	if layer.Shape != board.PadShapeCustom {
		return board.PolygonWithHoles{}, false
	}
	for _, s := range layer.CustomShapes {
		poly, ok := s.(*board.Polygon)
		if !ok || len(poly.Polygons) == 0 {
			continue
		}
		return poly.Polygons[0].Rotated(pad.Padstack.Angle).Moved(pad.Position), true
	}
	return board.PolygonWithHoles{}, false
}

// ExpandTextVariables implements board.Board. Footprint texts resolve
// the variables of their footprint first, then board variables, caller
// supplied variables and project variables.
func (b *Board) ExpandTextVariables(t *board.Text) string {
	fp := b.owners[t]
	resolve := func(name string) (string, bool) {
		if fp != nil {
			if v, ok := footprintVariable(fp, name); ok {
				return v, true
			}
		}
		if v, ok := b.boardVariable(name); ok {
			return v, true
		}
		if v, ok := b.vars[name]; ok {
			return v, true
		}
		v, ok := b.projectVars[strings.ToLower(name)]
		return v, ok
	}

	value := t.Value
	for i := 0; i < maxExpandDepth; i++ {
		next := b.textVars.Expand(value, resolve)
		if next == value {
			break
		}
		value = next
	}
	return value
}

func footprintVariable(fp *board.FootprintInstance, name string) (string, bool) {
	switch name {
	case "REFERENCE":
		return fp.ReferenceField.Text.Value, true
	case "VALUE":
		return fp.ValueField.Text.Value, true
	case "LAYER":
		return fp.Layer.String(), true
	case "FOOTPRINT_NAME":
		return fp.Definition.ID.Name, true
	case "FOOTPRINT_LIBRARY":
		return fp.Definition.ID.Library, true
	}
	for _, f := range fp.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Text.Value, true
		}
	}
	return "", false
}

func (b *Board) boardVariable(name string) (string, bool) {
	tb := b.titleBlock
	switch name {
	case "TITLE":
		return tb.Title, true
	case "REVISION":
		return tb.Revision, true
	case "ISSUE_DATE":
		return tb.Date, true
	case "COMPANY":
		return tb.Company, true
	case "FILENAME":
		if b.FileName != "" {
			return filepath.Base(b.FileName), true
		}
	}
	if n, ok := strings.CutPrefix(name, "COMMENT"); ok {
		idx, err := strconv.Atoi(n)
		if err != nil || idx < 1 || idx > 9 {
			return "", false
		}
		if idx <= len(tb.Comments) {
			return tb.Comments[idx-1], true
		}
		return "", true
	}
	return "", false
}

// TextAsShapes implements board.Board. The value is rendered as is;
// callers expand variables first. The Go fonts stand in for both the KiCad
// stroke font and TrueType faces.
func (b *Board) TextAsShapes(t *board.Text) (board.TextShapes, bool) {
	src, err := b.fontSource()
	if err != nil {
		b.logger.Warn("text rendering unavailable", "error", err)
		return board.TextShapes{}, false
	}
	shapes, err := src.Render(t, t.Value)
	if err != nil {
		b.logger.Warn("failed to render text", "text", t.Value, "error", err)
		return board.TextShapes{}, false
	}
	return shapes, true
}

// FontData returns the outlines of every glyph rendered so far, keyed by
// character.
func (b *Board) FontData() map[string]font.GlyphData {
	src, err := b.fontSource()
	if err != nil {
		return map[string]font.GlyphData{}
	}
	return src.FontData()
}

func (b *Board) fontSource() (*font.Source, error) {
	b.fontOnce.Do(func() {
		if b.fonts == nil {
			b.fonts, b.fontErr = font.NewSource()
		}
	})
	return b.fonts, b.fontErr
}
