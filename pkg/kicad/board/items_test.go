package board

import "testing"

func TestLayerFromName(t *testing.T) {
	tests := []struct {
		name string
		want BoardLayer
	}{
		{"F.Cu", LayerFCu},
		{"B.Cu", LayerBCu},
		{"In1.Cu", LayerIn1Cu},
		{"In30.Cu", InnerCopper(30)},
		{"In31.Cu", LayerUndefined},
		{"F.SilkS", LayerFSilkS},
		{"F.Silkscreen", LayerFSilkS},
		{"B.Fab", LayerBFab},
		{"Edge.Cuts", LayerEdgeCuts},
		{"User.9", LayerUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayerFromName(tt.name); got != tt.want {
				t.Errorf("LayerFromName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if InnerCopper(30) >= LayerBCu {
		t.Errorf("In30.Cu must sort before B.Cu")
	}
	if got := InnerCopper(4).String(); got != "In4.Cu" {
		t.Errorf("String() = %q", got)
	}
}

func TestViaIsOnLayer(t *testing.T) {
	through := &Via{Padstack: Padstack{Layers: LayerSet{LayerFCu, LayerBCu}}}
	blind := &Via{Padstack: Padstack{Layers: LayerSet{LayerFCu, InnerCopper(2)}}}
	buried := &Via{Padstack: Padstack{Layers: LayerSet{InnerCopper(3), InnerCopper(1)}}}

	tests := []struct {
		name  string
		via   *Via
		layer BoardLayer
		want  bool
	}{
		{"through front", through, LayerFCu, true},
		{"through back", through, LayerBCu, true},
		{"through inner", through, InnerCopper(5), true},
		{"through silk", through, LayerFSilkS, false},
		{"blind front", blind, LayerFCu, true},
		{"blind back", blind, LayerBCu, false},
		{"buried reversed front", buried, LayerFCu, false},
		{"buried reversed inner", buried, InnerCopper(2), true},
		{"no layers", &Via{}, LayerFCu, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.via.IsOnLayer(tt.layer); got != tt.want {
				t.Errorf("IsOnLayer(%v) = %v, want %v", tt.layer, got, tt.want)
			}
		})
	}
}

func TestPolygonTransformedIsDeepCopy(t *testing.T) {
	p := PolygonWithHoles{
		Outline: NewPolyLine(Vector2{X: 0, Y: 0}, Vector2{X: 10, Y: 0}, Vector2{X: 10, Y: 10}),
		Holes:   []PolyLine{NewPolyLine(Vector2{X: 2, Y: 2}, Vector2{X: 3, Y: 2}, Vector2{X: 3, Y: 3})},
	}
	p.Outline.Nodes = append(p.Outline.Nodes, ArcNodeOf(Vector2{X: 0, Y: 10}, Vector2{X: -1, Y: 5}, Vector2{X: 0, Y: 0}))

	moved := p.Moved(Vector2{X: 100, Y: 0})
	if moved.Outline.Nodes[1].Point.X != 110 {
		t.Errorf("moved point = %+v", moved.Outline.Nodes[1].Point)
	}
	if moved.Outline.Nodes[3].Arc.Mid.X != 99 {
		t.Errorf("moved arc mid = %+v", moved.Outline.Nodes[3].Arc.Mid)
	}
	if p.Outline.Nodes[1].Point.X != 10 || p.Outline.Nodes[3].Arc.Mid.X != -1 {
		t.Errorf("source polygon was modified")
	}
	if p.Holes[0].Nodes[0].Point.X != 2 || moved.Holes[0].Nodes[0].Point.X != 102 {
		t.Errorf("hole transform wrong")
	}
}

func TestFootprintAllTexts(t *testing.T) {
	fp := &FootprintInstance{
		ReferenceField: Field{Name: "Reference", Text: Text{Value: "R1"}},
		ValueField:     Field{Name: "Value", Text: Text{Value: "10k"}},
		Fields:         []Field{{Name: "MPN", Text: Text{Value: "RC0603"}}},
		Definition:     FootprintDefinition{Texts: []*Text{{Value: "${REFERENCE}"}}},
	}
	var got []string
	for _, tx := range fp.AllTexts() {
		got = append(got, tx.Value)
	}
	want := []string{"R1", "10k", "RC0603", "${REFERENCE}"}
	if len(got) != len(want) {
		t.Fatalf("AllTexts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllTexts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
