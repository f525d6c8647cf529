package ibom

import (
	"log/slog"
	"slices"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/font"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// FontDataSource supplies the font description embedded in the document.
// Boards loaded by package pcb implement it.
type FontDataSource interface {
	FontData() map[string]font.GlyphData
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes diagnostics to l. A nil logger discards them.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFontData overrides the font description source. By default the
// board is used when it implements FontDataSource.
func WithFontData(src FontDataSource) Option {
	return func(p *Parser) { p.fonts = src }
}

// Parser converts one board snapshot into a scene document.
type Parser struct {
	board  board.Board
	config Config
	logger *slog.Logger
	fonts  FontDataSource
}

// NewParser creates a parser for b.
func NewParser(b board.Board, config Config, opts ...Option) *Parser {
	p := &Parser{
		board:  b,
		config: config,
		logger: slog.New(nopHandler{}),
	}
	if src, ok := b.(FontDataSource); ok {
		p.fonts = src
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the scene document and the component list. It fails with
// an error wrapping ErrMissingOutline when no Edge.Cuts drawing exists.
func (p *Parser) Parse() (*PcbData, []Component, error) {
	var shapes []board.Shape
	shapes = append(shapes, p.board.Shapes()...)
	for _, fp := range p.board.Footprints() {
		shapes = append(shapes, fp.Definition.Shapes...)
	}

	edges, bbox, ok := p.parseEdges(shapes)
	if !ok {
		p.logger.Error(missingOutlineHint)
		return nil, nil, &ParseError{Err: ErrMissingOutline, Hint: missingOutlineHint}
	}

	texts := p.collectTexts()
	tb := p.board.TitleBlock()

	data := &PcbData{
		EdgesBBox: BBox{
			MinX: NormalizeLength(float64(bbox.Pos.X)),
			MinY: NormalizeLength(float64(bbox.Pos.Y)),
			MaxX: NormalizeLength(float64(bbox.Pos.X + bbox.Size.X)),
			MaxY: NormalizeLength(float64(bbox.Pos.Y + bbox.Size.Y)),
		},
		Edges: edges,
		Drawings: Drawings{
			Silkscreen: LayerSplit[Drawing]{
				F: p.parseDrawingsOnLayer(shapes, texts, board.LayerFSilkS),
				B: p.parseDrawingsOnLayer(shapes, texts, board.LayerBSilkS),
			},
			Fabrication: LayerSplit[Drawing]{
				F: p.parseDrawingsOnLayer(shapes, texts, board.LayerFFab),
				B: p.parseDrawingsOnLayer(shapes, texts, board.LayerBFab),
			},
		},
		Footprints: p.parseFootprints(p.config.IncludeNets),
		Metadata: Metadata{
			Title:    tb.Title,
			Revision: tb.Revision,
			Company:  tb.Company,
			Date:     tb.Date,
		},
		BOM: map[string]any{},
	}

	if p.config.IncludeTracks {
		tracks := p.parseTracks(p.config.IncludeNets)
		zones := p.parseZones(p.config.IncludeNets)
		data.Tracks = &tracks
		data.Zones = &zones
	}
	if p.config.IncludeNets {
		data.Nets = p.parseNetlist()
	}

	// Glyphs are collected while texts render, so font data comes last
	data.FontData = map[string]font.GlyphData{}
	if p.fonts != nil {
		data.FontData = p.fonts.FontData()
	}

	footprints := p.board.Footprints()
	components := make([]Component, 0, len(footprints))
	for _, fp := range footprints {
		components = append(components, footprintToComponent(fp, map[string]string{}))
	}

	return data, components, nil
}

// parseEdges collects the Edge.Cuts drawings and their merged bounding box.
// ok is false when there are none.
func (p *Parser) parseEdges(shapes []board.Shape) (edges []Drawing, bbox board.Box2, ok bool) {
	edges = []Drawing{}
	for _, s := range shapes {
		if s.Layer() != board.LayerEdgeCuts {
			continue
		}
		d := p.parseShape(s)
		if d == nil {
			continue
		}
		edges = append(edges, d)
		if !ok {
			bbox, ok = s.BoundingBox(), true
		} else {
			bbox = bbox.Merge(s.BoundingBox())
		}
	}
	return edges, bbox, ok
}

// layerText is a text to draw together with its viewer role
type layerText struct {
	text *board.Text
	role textRole
}

// collectTexts gathers the visible board texts and footprint texts.
// Footprint references and values carry their role.
func (p *Parser) collectTexts() []layerText {
	var texts []layerText
	for _, t := range p.board.Texts() {
		if t.Attributes.Visible {
			texts = append(texts, layerText{text: t})
		}
	}
	for _, fp := range p.board.Footprints() {
		for _, t := range fp.AllTexts() {
			if !t.Attributes.Visible {
				continue
			}
			role := textPlain
			switch t {
			case &fp.ReferenceField.Text:
				role = textReference
			case &fp.ValueField.Text:
				role = textValue
			}
			texts = append(texts, layerText{text: t, role: role})
		}
	}
	return texts
}

// parseDrawingsOnLayer translates the shapes and texts on exactly layer.
func (p *Parser) parseDrawingsOnLayer(shapes []board.Shape, texts []layerText, layer board.BoardLayer) []Drawing {
	drawings := []Drawing{}
	for _, s := range shapes {
		if s.Layer() != layer {
			continue
		}
		if d := p.parseShape(s); d != nil {
			drawings = append(drawings, d)
		}
	}
	for _, t := range texts {
		if t.text.Layer() != layer {
			continue
		}
		if d := p.parseText(t.text, t.role); d != nil {
			drawings = append(drawings, d)
		}
	}
	return drawings
}

// parseNetlist returns the sorted, de-duplicated net names.
func (p *Parser) parseNetlist() []string {
	nets := make([]string, 0, len(p.board.Nets()))
	for _, n := range p.board.Nets() {
		nets = append(nets, n.Name)
	}
	slices.Sort(nets)
	return slices.Compact(nets)
}
