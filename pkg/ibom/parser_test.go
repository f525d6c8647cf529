package ibom

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/font"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// sampleBoard is a 40x30 mm board with one footprint on each side, some
// silkscreen and fabrication art, tracks and a zone.
func sampleBoard() *fakeBoard {
	gnd := &board.Net{Code: 1, Name: "GND"}
	vcc := &board.Net{Code: 2, Name: "+3V3"}

	r1 := &board.FootprintInstance{
		Position: vec(10, 10),
		Layer:    board.LayerFCu,
		ReferenceField: board.Field{Name: "Reference", Text: board.Text{
			LayerItem:  board.LayerItem{OnLayer: board.LayerFSilkS},
			Value:      "R1",
			Position:   vec(10, 8),
			Attributes: board.TextAttributes{StrokeWidth: mm(0.15), Visible: true},
		}},
		ValueField: board.Field{Name: "Value", Text: board.Text{
			LayerItem:  board.LayerItem{OnLayer: board.LayerFFab},
			Value:      "10k",
			Position:   vec(10, 12),
			Attributes: board.TextAttributes{StrokeWidth: mm(0.1), Visible: true},
		}},
		Fields: []board.Field{{Name: "MPN", Text: board.Text{
			LayerItem: board.LayerItem{OnLayer: board.LayerFFab},
			Value:     "RC0603FR-0710KL",
		}}},
		Definition: board.FootprintDefinition{
			ID: board.LibraryID{Library: "Resistor_SMD", Name: "R_0603"},
			Shapes: []board.Shape{
				&board.Segment{LayerItem: board.LayerItem{OnLayer: board.LayerFSilkS}, Start: vec(9, 9), End: vec(11, 9)},
			},
			Pads: []*board.Pad{
				smdPad("2", board.PadShapeRoundRect, vec(0.8, 0.9)),
				smdPad("1", board.PadShapeRoundRect, vec(0.8, 0.9)),
			},
		},
	}
	r1.Definition.Pads[0].Net = gnd
	r1.Definition.Pads[1].Net = vcc

	j1 := &board.FootprintInstance{
		Position:       vec(30, 20),
		Layer:          board.LayerBCu,
		Attributes:     board.FootprintAttributes{ExcludeFromBOM: true},
		ReferenceField: board.Field{Name: "Reference", Text: board.Text{Value: "J1"}},
		ValueField:     board.Field{Name: "Value", Text: board.Text{Value: "Conn"}},
		Definition: board.FootprintDefinition{
			ID: board.LibraryID{Name: "Conn_01x02"},
			Shapes: []board.Shape{
				// A cutout drawn inside the footprint extends the outline
				&board.Circle{LayerItem: board.LayerItem{OnLayer: board.LayerEdgeCuts}, Center: vec(45, 20), RadiusPoint: vec(46, 20)},
			},
		},
	}

	return &fakeBoard{
		footprints: []*board.FootprintInstance{r1, j1},
		shapes: []board.Shape{
			edgeRect(0, 0, 40, 30),
			&board.Segment{LayerItem: board.LayerItem{OnLayer: board.LayerBSilkS}, Start: vec(1, 1), End: vec(5, 1)},
			&board.Rectangle{LayerItem: board.LayerItem{OnLayer: board.LayerBFab}, TopLeft: vec(2, 2), BottomRight: vec(4, 4)},
			&board.Segment{LayerItem: board.LayerItem{OnLayer: board.LayerCmtsUser}, End: vec(1, 1)},
		},
		texts: []*board.Text{
			{
				LayerItem:  board.LayerItem{OnLayer: board.LayerFSilkS},
				Value:      "${TITLE}",
				Position:   vec(20, 2),
				Attributes: board.TextAttributes{StrokeWidth: mm(0.2), Visible: true},
			},
			{
				LayerItem: board.LayerItem{OnLayer: board.LayerFSilkS},
				Value:     "hidden",
			},
		},
		tracks: []*board.Track{{Start: vec(10, 10), End: vec(20, 10), Width: mm(0.25), Layer: board.LayerFCu, Net: gnd}},
		vias:   []*board.Via{via(vec(20, 10), board.LayerSet{board.LayerFCu, board.LayerBCu}, true)},
		zones: []*board.Zone{{
			Layers:         board.LayerSet{board.LayerBCu},
			Filled:         true,
			FilledPolygons: map[board.BoardLayer][]board.PolygonWithHoles{board.LayerBCu: {square(0, 0, 40)}},
			Net:            gnd,
		}},
		nets:       []*board.Net{{Code: 0, Name: ""}, vcc, gnd, {Code: 3, Name: "GND"}},
		titleBlock: board.TitleBlock{Title: "Sensor", Revision: "B", Company: "Acme", Date: "2024-05-01"},
		vars:       map[string]string{"TITLE": "Sensor"},
	}
}

func TestParseMissingOutline(t *testing.T) {
	fb := sampleBoard()
	fb.shapes = fb.shapes[1:]
	fb.footprints[1].Definition.Shapes = nil

	p, h := newTestParser(fb, DefaultConfig())
	data, components, err := p.Parse()
	if !errors.Is(err, ErrMissingOutline) {
		t.Fatalf("Parse() error = %v, want ErrMissingOutline", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || !strings.Contains(perr.Error(), "pcb outline") {
		t.Errorf("error = %v, want the outline hint", err)
	}
	if data != nil || components != nil {
		t.Errorf("Parse() returned partial results")
	}
	if h.count(slog.LevelError) != 1 {
		t.Errorf("got %d error records, want 1", h.count(slog.LevelError))
	}
}

func TestParseOutlineUntranslatable(t *testing.T) {
	fb := &fakeBoard{shapes: []board.Shape{
		&board.TextBox{
			LayerItem:   board.LayerItem{OnLayer: board.LayerEdgeCuts},
			Value:       "outline?",
			TopLeft:     vec(0, 0),
			BottomRight: vec(10, 10),
		},
	}}

	p, h := newTestParser(fb, DefaultConfig())
	data, components, err := p.Parse()
	if !errors.Is(err, ErrMissingOutline) {
		t.Fatalf("Parse() error = %v, want ErrMissingOutline", err)
	}
	if data != nil || components != nil {
		t.Errorf("Parse() returned partial results")
	}
	if h.count(slog.LevelInfo) != 1 || h.count(slog.LevelError) != 1 {
		t.Errorf("got %d info and %d error records, want 1 and 1",
			h.count(slog.LevelInfo), h.count(slog.LevelError))
	}
}

func TestParseEdges(t *testing.T) {
	p, _ := newTestParser(sampleBoard(), DefaultConfig())
	data, _, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(data.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(data.Edges))
	}
	want := BBox{MinX: 0, MinY: 0, MaxX: 46, MaxY: 30}
	got := data.EdgesBBox
	if !approx(got.MinX, want.MinX) || !approx(got.MinY, want.MinY) || !approx(got.MaxX, want.MaxX) || !approx(got.MaxY, want.MaxY) {
		t.Errorf("edges_bbox = %+v, want %+v", got, want)
	}
}

func TestParseEdgesOnlyRectangle(t *testing.T) {
	fb := sampleBoard()
	fb.footprints[1].Definition.Shapes = nil
	p, _ := newTestParser(fb, DefaultConfig())
	data, _, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := BBox{MinX: 0, MinY: 0, MaxX: 40, MaxY: 30}
	if data.EdgesBBox != want {
		t.Errorf("edges_bbox = %+v, want %+v", data.EdgesBBox, want)
	}
}

func TestParseDrawings(t *testing.T) {
	fb := sampleBoard()
	p, _ := newTestParser(fb, DefaultConfig())
	data, _, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	silkF := data.Drawings.Silkscreen.F
	// footprint segment, board title, R1 reference
	if len(silkF) != 3 {
		t.Fatalf("got %d front silkscreen drawings, want 3", len(silkF))
	}
	if silkF[0].DrawingType() != "segment" {
		t.Errorf("first silkscreen drawing = %s, want segment", silkF[0].DrawingType())
	}
	title := silkF[1].(*StrokeTextDrawing)
	if title.Ref != 0 || title.Val != 0 || !approx(title.Thickness, 0.2) {
		t.Errorf("title text = %+v", title)
	}
	ref := silkF[2].(*StrokeTextDrawing)
	if ref.Ref != 1 {
		t.Errorf("reference text not marked: %+v", ref)
	}

	fabF := data.Drawings.Fabrication.F
	if len(fabF) != 1 || fabF[0].(*StrokeTextDrawing).Val != 1 {
		t.Errorf("front fabrication = %+v, want only the marked value text", fabF)
	}
	if len(data.Drawings.Silkscreen.B) != 1 || len(data.Drawings.Fabrication.B) != 1 {
		t.Errorf("back drawings silk=%d fab=%d, want 1/1",
			len(data.Drawings.Silkscreen.B), len(data.Drawings.Fabrication.B))
	}

	for _, v := range fb.rendered {
		if v == "hidden" || v == "RC0603FR-0710KL" {
			t.Errorf("invisible text %q was rendered", v)
		}
		if strings.Contains(v, "${") {
			t.Errorf("text %q rendered unexpanded", v)
		}
	}
	if fb.texts[0].Value != "${TITLE}" {
		t.Errorf("board text modified: %q", fb.texts[0].Value)
	}
}

func TestParseFootprintsAndMetadata(t *testing.T) {
	p, _ := newTestParser(sampleBoard(), DefaultConfig())
	data, _, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(data.Footprints) != 2 {
		t.Fatalf("got %d footprints, want 2", len(data.Footprints))
	}
	r1 := data.Footprints[0]
	if r1.Ref != "R1" || r1.Layer != "F" || len(r1.Pads) != 2 {
		t.Errorf("R1 = %+v", r1)
	}
	if r1.Pads[0].Pin1 != 1 || r1.Pads[1].Pin1 != 0 {
		t.Errorf("pin 1 marks = %d, %d", r1.Pads[0].Pin1, r1.Pads[1].Pin1)
	}
	if data.Footprints[1].Layer != "B" {
		t.Errorf("J1 layer = %q", data.Footprints[1].Layer)
	}

	want := Metadata{Title: "Sensor", Revision: "B", Company: "Acme", Date: "2024-05-01"}
	if data.Metadata != want {
		t.Errorf("metadata = %+v, want %+v", data.Metadata, want)
	}
}

func TestParseConfigSections(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantTracks bool
		wantNets   bool
	}{
		{"minimal", DefaultConfig(), false, false},
		{"tracks", Config{IncludeTracks: true}, true, false},
		{"nets", Config{IncludeNets: true}, false, true},
		{"all", Config{IncludeTracks: true, IncludeNets: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser(sampleBoard(), tt.config)
			data, _, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if (data.Tracks != nil) != tt.wantTracks || (data.Zones != nil) != tt.wantTracks {
				t.Errorf("tracks/zones present = %v/%v, want %v", data.Tracks != nil, data.Zones != nil, tt.wantTracks)
			}
			if (data.Nets != nil) != tt.wantNets {
				t.Errorf("nets present = %v, want %v", data.Nets != nil, tt.wantNets)
			}
			if got := data.Footprints[0].Pads[0].Net != nil; got != tt.wantNets {
				t.Errorf("pad net present = %v, want %v", got, tt.wantNets)
			}

			out, err := json.Marshal(data)
			if err != nil {
				t.Fatal(err)
			}
			for key, want := range map[string]bool{`"tracks"`: tt.wantTracks, `"zones"`: tt.wantTracks, `"nets"`: tt.wantNets} {
				if strings.Contains(string(out), key) != want {
					t.Errorf("JSON key %s present = %v, want %v", key, !want, want)
				}
			}
		})
	}
}

func TestParseTracksSection(t *testing.T) {
	p, _ := newTestParser(sampleBoard(), Config{IncludeTracks: true, IncludeNets: true})
	data, _, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// segment and via on the front, via on the back
	if len(data.Tracks.F) != 2 || len(data.Tracks.B) != 1 {
		t.Errorf("tracks F=%d B=%d, want 2/1", len(data.Tracks.F), len(data.Tracks.B))
	}
	if len(data.Zones.F) != 0 || len(data.Zones.B) != 1 {
		t.Errorf("zones F=%d B=%d, want 0/1", len(data.Zones.F), len(data.Zones.B))
	}
	want := []string{"", "+3V3", "GND"}
	if len(data.Nets) != len(want) {
		t.Fatalf("nets = %q, want %q", data.Nets, want)
	}
	for i := range want {
		if data.Nets[i] != want[i] {
			t.Errorf("nets[%d] = %q, want %q", i, data.Nets[i], want[i])
		}
	}
}

func TestParseDocumentKeys(t *testing.T) {
	p, _ := newTestParser(sampleBoard(), DefaultConfig())
	data, _, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"edges_bbox", "edges", "drawings", "footprints", "metadata", "bom", "font_data"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document lacks %q", key)
		}
	}
	if string(doc["bom"]) != "{}" {
		t.Errorf("bom = %s, want {}", doc["bom"])
	}
}

func TestParseFontData(t *testing.T) {
	p, _ := newTestParser(sampleBoard(), DefaultConfig())
	data, _, _ := p.Parse()
	if fd, ok := data.FontData.(map[string]font.GlyphData); !ok || len(fd) != 0 {
		t.Errorf("font_data = %#v, want empty table", data.FontData)
	}

	h := &recordHandler{}
	p = NewParser(sampleBoard(), DefaultConfig(), WithLogger(slog.New(h)), WithFontData(fakeFonts{}))
	data, _, _ = p.Parse()
	fd := data.FontData.(map[string]font.GlyphData)
	if g, ok := fd["A"]; !ok || g.W != 0.7 {
		t.Errorf("font_data = %#v", fd)
	}
}

func TestParseComponents(t *testing.T) {
	p, _ := newTestParser(sampleBoard(), DefaultConfig())
	_, components, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("got %d components, want 2", len(components))
	}
	want := []Component{
		{Ref: "R1", Val: "10k", Footprint: "Resistor_SMD:R_0603", Layer: "F", Attr: AttrNormal},
		{Ref: "J1", Val: "Conn", Footprint: "Conn_01x02", Layer: "B", Attr: AttrVirtual},
	}
	for i, w := range want {
		got := components[i]
		if got.Ref != w.Ref || got.Val != w.Val || got.Footprint != w.Footprint || got.Layer != w.Layer || got.Attr != w.Attr {
			t.Errorf("component %d = %+v, want %+v", i, got, w)
		}
		if got.ExtraFields == nil {
			t.Errorf("component %d extra fields are nil", i)
		}
	}
}

func TestNewParserDefaultLogger(t *testing.T) {
	p := NewParser(sampleBoard(), DefaultConfig(), WithLogger(nil))
	if _, _, err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}
