package ibom

import (
	"context"
	"log/slog"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/font"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
)

// fakeBoard is an in-memory board.Board for engine tests
type fakeBoard struct {
	footprints []*board.FootprintInstance
	shapes     []board.Shape
	texts      []*board.Text
	tracks     []*board.Track
	arcs       []*board.ArcTrack
	vias       []*board.Via
	zones      []*board.Zone
	nets       []*board.Net
	titleBlock board.TitleBlock

	boxes    map[*board.FootprintInstance]board.Box2
	padPolys map[*board.Pad]board.PolygonWithHoles
	vars     map[string]string

	// rendered records the values passed to TextAsShapes
	rendered []string
	noText   bool
}

var _ board.Board = (*fakeBoard)(nil)

func (b *fakeBoard) Footprints() []*board.FootprintInstance { return b.footprints }
func (b *fakeBoard) Shapes() []board.Shape                  { return b.shapes }
func (b *fakeBoard) Texts() []*board.Text                   { return b.texts }
func (b *fakeBoard) Tracks() []*board.Track                 { return b.tracks }
func (b *fakeBoard) Arcs() []*board.ArcTrack                { return b.arcs }
func (b *fakeBoard) Vias() []*board.Via                     { return b.vias }
func (b *fakeBoard) Zones() []*board.Zone                   { return b.zones }
func (b *fakeBoard) Nets() []*board.Net                     { return b.nets }
func (b *fakeBoard) TitleBlock() board.TitleBlock           { return b.titleBlock }

func (b *fakeBoard) ItemBoundingBox(fp *board.FootprintInstance) (board.Box2, bool) {
	box, ok := b.boxes[fp]
	return box, ok
}

func (b *fakeBoard) PadShapeAsPolygon(pad *board.Pad) (board.PolygonWithHoles, bool) {
	poly, ok := b.padPolys[pad]
	return poly, ok
}

func (b *fakeBoard) ExpandTextVariables(t *board.Text) string {
	value := t.Value
	for k, v := range b.vars {
		value = strings.ReplaceAll(value, "${"+k+"}", v)
	}
	return value
}

// TextAsShapes draws every text as a unit square: a filled polygon for
// outline fonts, four stroke segments otherwise.
func (b *fakeBoard) TextAsShapes(t *board.Text) (board.TextShapes, bool) {
	if b.noText {
		return board.TextShapes{}, false
	}
	b.rendered = append(b.rendered, t.Value)
	const s = 1000000
	if t.Attributes.IsOutlineFont() {
		return board.TextShapes{
			Polygons: []board.PolygonWithHoles{{Outline: board.NewPolyLine(
				board.Vector2{X: 0, Y: 0}, board.Vector2{X: s, Y: 0}, board.Vector2{X: s, Y: s})}},
			Offset: t.Position,
		}, true
	}
	p := t.Position
	corners := []board.Vector2{p, {X: p.X + s, Y: p.Y}, {X: p.X + s, Y: p.Y + s}, {X: p.X, Y: p.Y + s}}
	var segs []board.Segment
	for i := range corners {
		segs = append(segs, board.Segment{Start: corners[i], End: corners[(i+1)%len(corners)]})
	}
	return board.TextShapes{Segments: segs}, true
}

// fakeFonts is a FontDataSource returning a fixed table
type fakeFonts struct{}

func (fakeFonts) FontData() map[string]font.GlyphData {
	return map[string]font.GlyphData{"A": {W: 0.7}}
}

// recordHandler captures log records
type recordHandler struct {
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}
func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level) int {
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// newTestParser returns a parser over b with a capturing logger
func newTestParser(b *fakeBoard, cfg Config) (*Parser, *recordHandler) {
	h := &recordHandler{}
	return NewParser(b, cfg, WithLogger(slog.New(h))), h
}

func mm(v float64) int64 { return board.FromMM(v) }

func vec(x, y float64) board.Vector2 { return board.VectorFromMM(x, y) }

func approx(a, b float64) bool {
	d := a - b
	return d > -1e-9 && d < 1e-9
}

func approxPoint(a, b Point) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1])
}

// edgeRect is a zero width board outline from (x1,y1) to (x2,y2)
func edgeRect(x1, y1, x2, y2 float64) *board.Rectangle {
	return &board.Rectangle{
		LayerItem:   board.LayerItem{OnLayer: board.LayerEdgeCuts},
		TopLeft:     vec(x1, y1),
		BottomRight: vec(x2, y2),
	}
}
