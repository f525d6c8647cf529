package ibom

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

func via(pos board.Vector2, layers board.LayerSet, tented bool) *board.Via {
	return &board.Via{
		Position: pos,
		Padstack: board.Padstack{
			Layers:       layers,
			CopperLayers: []board.PadStackLayer{{Layer: board.LayerFCu, Shape: board.PadShapeCircle, Size: vec(0.6, 0.6)}},
			Drill:        board.DrillProperties{Shape: board.DrillShapeCircle, Diameter: vec(0.3, 0.3), Tented: tented},
		},
	}
}

func TestParseTracksSegments(t *testing.T) {
	gnd := &board.Net{Code: 1, Name: "GND"}
	fb := &fakeBoard{tracks: []*board.Track{
		{Start: vec(0, 0), End: vec(5, 0), Width: mm(0.25), Layer: board.LayerFCu, Net: gnd},
		{Start: vec(0, 1), End: vec(5, 1), Width: mm(0.2), Layer: board.LayerBCu},
		{Start: vec(0, 2), End: vec(5, 2), Width: mm(0.2), Layer: board.InnerCopper(1), Net: gnd},
	}}
	p, _ := newTestParser(fb, DefaultConfig())

	got := p.parseTracks(false)
	if len(got.F) != 1 || len(got.B) != 1 {
		t.Fatalf("tracks F=%d B=%d, want 1/1", len(got.F), len(got.B))
	}
	seg := got.F[0].(*TrackSegment)
	if !approxPoint(seg.End, Point{5, 0}) || !approx(seg.Width, 0.25) || seg.Net != nil {
		t.Errorf("segment = %+v", seg)
	}

	withNets := p.parseTracks(true)
	if n := withNets.F[0].(*TrackSegment).Net; n == nil || *n != "GND" {
		t.Errorf("net = %v, want GND", n)
	}
	if n := withNets.B[0].(*TrackSegment).Net; n == nil || *n != "" {
		t.Errorf("unconnected net = %v, want empty", n)
	}
}

func TestParseTracksVias(t *testing.T) {
	tests := []struct {
		name      string
		via       *board.Via
		wantF     int
		wantB     int
		wantDrill bool
	}{
		{"through", via(vec(1, 1), board.LayerSet{board.LayerFCu, board.LayerBCu}, false), 1, 1, false},
		{"tented", via(vec(1, 1), board.LayerSet{board.LayerFCu, board.LayerBCu}, true), 1, 1, true},
		{"blind front", via(vec(1, 1), board.LayerSet{board.LayerFCu, board.InnerCopper(2)}, false), 1, 0, false},
		{"buried", via(vec(1, 1), board.LayerSet{board.InnerCopper(1), board.InnerCopper(2)}, false), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser(&fakeBoard{vias: []*board.Via{tt.via}}, DefaultConfig())
			got := p.parseTracks(false)
			if len(got.F) != tt.wantF || len(got.B) != tt.wantB {
				t.Fatalf("vias F=%d B=%d, want %d/%d", len(got.F), len(got.B), tt.wantF, tt.wantB)
			}
			for _, tr := range append(got.F, got.B...) {
				v := tr.(*TrackVia)
				if v.Start != v.End || !approxPoint(v.Start, Point{1, 1}) || !approx(v.Width, 0.6) {
					t.Errorf("via = %+v", v)
				}
				if tt.wantDrill != (v.DrillSize != nil) {
					t.Errorf("drillsize = %v, want present %v", v.DrillSize, tt.wantDrill)
				}
				if v.DrillSize != nil && !approx(*v.DrillSize, 0.3) {
					t.Errorf("drillsize = %v, want 0.3", *v.DrillSize)
				}
			}
		})
	}
}

func TestParseTracksOrder(t *testing.T) {
	fb := &fakeBoard{
		tracks: []*board.Track{{End: vec(1, 0), Layer: board.LayerFCu}},
		arcs:   []*board.ArcTrack{{Start: vec(1, 0), Mid: vec(0, 1), End: vec(-1, 0), Layer: board.LayerFCu}},
		vias:   []*board.Via{via(vec(0, 0), board.LayerSet{board.LayerFCu, board.LayerBCu}, false)},
	}
	p, _ := newTestParser(fb, DefaultConfig())
	got := p.parseTracks(false)

	want := []string{"segment", "arc", "via"}
	if len(got.F) != len(want) {
		t.Fatalf("got %d front items, want %d", len(got.F), len(want))
	}
	for i, kind := range want {
		if got.F[i].trackKind() != kind {
			t.Errorf("item %d = %s, want %s", i, got.F[i].trackKind(), kind)
		}
	}
}

func TestParseArcTrack(t *testing.T) {
	p, h := newTestParser(&fakeBoard{}, DefaultConfig())

	a := &board.ArcTrack{Start: vec(12, 2), Mid: vec(2, 12), End: vec(-8, 2), Width: mm(0.3), Layer: board.LayerBCu}
	arc, ok := p.parseArcTrack(a, false).(*TrackArc)
	if !ok {
		t.Fatal("parseArcTrack() is not an arc")
	}
	if !approxPoint(arc.Center, Point{2, 2}) || !approx(arc.Radius, 10) || !approx(arc.Width, 0.3) {
		t.Errorf("arc = %+v", arc)
	}
	if d := arc.StartAngle; d > 1e-6 || d < -1e-6 {
		t.Errorf("startangle = %v, want 0", d)
	}
	if d := arc.EndAngle - 180; d > 1e-6 || d < -1e-6 {
		t.Errorf("endangle = %v, want 180", arc.EndAngle)
	}

	out, _ := json.Marshal(arc)
	for _, key := range []string{`"center"`, `"startangle"`, `"endangle"`, `"radius"`, `"width"`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("JSON %s lacks %s", out, key)
		}
	}
	if len(h.records) != 0 {
		t.Errorf("unexpected diagnostics: %d", len(h.records))
	}
}

func TestParseArcTrackDegenerate(t *testing.T) {
	p, h := newTestParser(&fakeBoard{}, DefaultConfig())
	a := &board.ArcTrack{Start: vec(0, 0), Mid: vec(1, 0), End: vec(2, 0), Width: mm(0.2), Layer: board.LayerFCu}

	seg, ok := p.parseArcTrack(a, false).(*TrackSegment)
	if !ok {
		t.Fatal("degenerate arc is not a segment")
	}
	if !approxPoint(seg.Start, Point{0, 0}) || !approxPoint(seg.End, Point{2, 0}) || !approx(seg.Width, 0.2) {
		t.Errorf("segment = %+v", seg)
	}
	if h.count(slog.LevelWarn) != 1 {
		t.Errorf("got %d warnings, want 1", h.count(slog.LevelWarn))
	}
}
