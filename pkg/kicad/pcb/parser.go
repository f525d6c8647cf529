// Package pcb loads KiCad 6+ board files (.kicad_pcb) into the board
// model and serves them through board.Board.
package pcb

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/font"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// Option configures board loading
type Option func(*options)

type options struct {
	logger    *slog.Logger
	fonts     *font.Source
	vars      map[string]string
	noProject bool
}

// WithLogger routes loader diagnostics to l
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFontSource shares a glyph source between boards
func WithFontSource(s *font.Source) Option {
	return func(o *options) { o.fonts = s }
}

// WithTextVariables adds text variables. They take precedence over the
// variables of the project file.
func WithTextVariables(vars map[string]string) Option {
	return func(o *options) {
		if o.vars == nil {
			o.vars = make(map[string]string)
		}
		for k, v := range vars {
			o.vars[k] = v
		}
	}
}

// WithoutProject skips reading the .kicad_pro next to the board file
func WithoutProject() Option {
	return func(o *options) { o.noProject = true }
}

// loader holds the state shared while converting one board file
type loader struct {
	logger      *slog.Logger
	nets        *NetMap
	innerCopper int
}

// ParseFile reads and parses a KiCad board file. Text variables of the
// sibling .kicad_pro file are loaded when it exists, and the file
// modification date stands in for a missing title block date.
func ParseFile(filename string, opts ...Option) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	o := newOptions(opts)
	b, err := parse(file, o)
	if err != nil {
		return nil, err
	}
	b.FileName = filename

	if b.titleBlock.Date == "" {
		if info, err := file.Stat(); err == nil {
			b.titleBlock.Date = info.ModTime().Format("2006-01-02 15:04:05")
		}
	}

	if !o.noProject {
		projectFile := ProjectFileFor(filename)
		if _, err := os.Stat(projectFile); err == nil {
			vars, err := LoadProjectVariables(projectFile)
			if err != nil {
				o.logger.Warn("ignoring project text variables", "file", projectFile, "error", err)
			} else {
				b.projectVars = vars
			}
		}
	}

	return b, nil
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader, opts ...Option) (*Board, error) {
	return parse(r, newOptions(opts))
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(nopHandler{})
	}
	return o
}

func parse(r io.Reader, o *options) (*Board, error) {
	// Parse s-expressions directly from reader (streaming, no memory limit)
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	// The root should be a (kicad_pcb ...) expression
	root := sexps[0]

	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", rootName)
	}

	// Parse header (version and generator)
	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	tv, err := NewTextVars()
	if err != nil {
		return nil, err
	}

	b := &Board{
		Version:   version,
		Generator: generator,
		logger:    o.logger,
		fonts:     o.fonts,
		vars:      o.vars,
		textVars:  tv,
		owners:    make(map[*board.Text]*board.FootprintInstance),
	}

	p := &loader{logger: o.logger, nets: NewNetMap()}

	if layersNode, found := sexp.FindNode(root, "layers"); found {
		b.Layers = parseLayers(layersNode)
		for _, l := range b.Layers {
			if l.ID.IsCopper() && l.ID != board.LayerFCu && l.ID != board.LayerBCu {
				p.innerCopper++
			}
		}
	}

	if tb, found := sexp.FindNode(root, "title_block"); found {
		b.titleBlock = parseTitleBlock(tb)
	}

	b.tentVias = parseViaTenting(root)

	// Top level (net N "name") declarations. KiCad 9 may omit them.
	p.parseNets(root)

	for _, item := range sexp.GetListItems(root) {
		if item.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(item)
		if err != nil {
			continue
		}

		switch {
		case name == "gr_text":
			text, err := parseText(item, 1, transform{})
			if err != nil {
				p.logger.Warn("skipping board text", "line", line(item), "error", err)
				continue
			}
			b.texts = append(b.texts, text)

		case isShapeNode(name) && strings.HasPrefix(name, "gr_"):
			shape, err := parseShape(item, transform{})
			if err != nil {
				p.logger.Warn("skipping board graphic", "line", line(item), "error", err)
				continue
			}
			b.shapes = append(b.shapes, shape)

		case name == "footprint" || name == "module":
			fp, err := p.parseFootprint(item)
			if err != nil {
				p.logger.Warn("skipping footprint", "line", line(item), "error", err)
				continue
			}
			b.addFootprint(fp)

		case name == "segment":
			track, err := p.parseSegment(item)
			if err != nil {
				p.logger.Warn("skipping track", "line", line(item), "error", err)
				continue
			}
			b.tracks = append(b.tracks, track)

		case name == "arc":
			arc, err := p.parseArcTrack(item)
			if err != nil {
				p.logger.Warn("skipping arc track", "line", line(item), "error", err)
				continue
			}
			b.arcs = append(b.arcs, arc)

		case name == "via":
			via, err := p.parseVia(item, b.tentVias)
			if err != nil {
				p.logger.Warn("skipping via", "line", line(item), "error", err)
				continue
			}
			b.vias = append(b.vias, via)

		case name == "zone":
			zone, err := p.parseZone(item)
			if err != nil {
				p.logger.Warn("skipping zone", "line", line(item), "error", err)
				continue
			}
			b.zones = append(b.zones, zone)
		}
	}

	b.nets = p.nets.Nets()
	return b, nil
}

// line returns the source line of a node for diagnostics
func line(node kicadsexp.Sexp) int {
	if l, ok := node.(*kicadsexp.List); ok {
		return l.Line()
	}
	return 0
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root kicadsexp.Sexp) (version int, generator string, err error) {
	// Find version node
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	// Extract version number
	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	// Validate version (must be KiCad 6.0 or later)
	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	// Find generator/host node (optional in some files)
	gen := "unknown"
	if hostNode, found := sexp.FindNode(root, "host"); found {
		// Format: (host tool build)
		// Example: (host pcbnew "(6.0.0)")
		if toolName, err := sexp.GetString(hostNode, 1); err == nil {
			gen = toolName
		}
	} else if genNode, found := sexp.FindNode(root, "generator"); found {
		// Newer format: (generator "pcbnew")
		if generatorName, err := sexp.GetString(genNode, 1); err == nil {
			gen = generatorName
		}
	}

	return ver, gen, nil
}

// parseTitleBlock extracts the drawing sheet fields
// Expected format: (title_block (title "T") (date "D") (rev "R") (company "C") (comment 1 "x") ...)
func parseTitleBlock(node kicadsexp.Sexp) board.TitleBlock {
	var tb board.TitleBlock
	get := func(key string) string {
		if n, ok := sexp.FindNode(node, key); ok {
			v, _ := sexp.GetString(n, 1)
			return v
		}
		return ""
	}
	tb.Title = get("title")
	tb.Date = get("date")
	tb.Revision = get("rev")
	tb.Company = get("company")

	for _, c := range sexp.FindAllNodes(node, "comment") {
		idx, err := sexp.GetInt(c, 1)
		if err != nil || idx < 1 || idx > 9 {
			continue
		}
		text, _ := sexp.GetString(c, 2)
		for len(tb.Comments) < idx {
			tb.Comments = append(tb.Comments, "")
		}
		tb.Comments[idx-1] = text
	}
	return tb
}

// parseLayers extracts layer definitions from the layers section
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal) (44 "Edge.Cuts" user) ...)
func parseLayers(node kicadsexp.Sexp) []Layer {
	var layers []Layer
	for _, layerNode := range sexp.GetListItems(node) {
		if layerNode.IsLeaf() {
			continue
		}
		numStr, err := sexp.GetNodeName(layerNode)
		if err != nil {
			continue
		}
		number, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		name, err := sexp.GetString(layerNode, 1)
		if err != nil {
			continue
		}

		// Layer type is optional in some cases
		layerType, err := sexp.GetString(layerNode, 2)
		if err != nil {
			layerType = "user"
		}
		userName, _ := sexp.GetString(layerNode, 3)

		layers = append(layers, Layer{
			Number:   number,
			Name:     name,
			Type:     layerType,
			UserName: userName,
			ID:       board.LayerFromName(name),
		})
	}
	return layers
}

// parseNets registers the top level net declarations
// Expected format: (net 0 "") (net 1 "GND") (net 2 "+5V") ...
func (p *loader) parseNets(root kicadsexp.Sexp) {
	for _, netNode := range sexp.FindAllNodes(root, "net") {
		number, err := sexp.GetInt(netNode, 1)
		if err != nil {
			p.logger.Warn("skipping net declaration", "line", line(netNode), "error", err)
			continue
		}
		// Net 0 is the unconnected net
		if number == 0 {
			continue
		}
		name, _ := sexp.GetString(netNode, 2)
		p.nets.Add(number, name)
	}
}

// parseViaTenting reads the board default for via tenting. KiCad 8+
// writes (setup (tenting front back)); older files write
// (pcbplotparams (plotviaonmask false)) where false means tented.
func parseViaTenting(root kicadsexp.Sexp) bool {
	setup, ok := sexp.FindNode(root, "setup")
	if !ok {
		return false
	}
	if tenting, ok := sexp.FindNode(setup, "tenting"); ok {
		return isTented(tenting)
	}
	if plot, ok := sexp.FindNode(setup, "pcbplotparams"); ok {
		if n, ok := sexp.FindNode(plot, "plotviaonmask"); ok {
			v, _ := sexp.GetString(n, 1)
			return v == "false" || v == "no"
		}
	}
	return false
}
