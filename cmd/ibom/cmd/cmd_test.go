package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/ibom"
)

const testBoard = `(kicad_pcb (version 20240108) (generator "pcbnew")
  (layers
    (0 "F.Cu" signal)
    (31 "B.Cu" signal)
    (37 "F.SilkS" user "F.Silkscreen")
    (44 "Edge.Cuts" user)
  )
  (net 0 "")
  (net 1 "GND")
  (net 2 "VCC")
  (gr_rect (start 0 0) (end 20 10) (stroke (width 0.1) (type default)) (fill none) (layer "Edge.Cuts"))
  (footprint "Resistor_SMD:R_0603" (layer "F.Cu") (at 5 5)
    (property "Reference" "R1" (at 0 -1.5) (layer "F.SilkS") (effects (font (size 1 1) (thickness 0.15))))
    (property "Value" "10k" (at 0 1.5) (layer "F.Fab") (effects (font (size 1 1) (thickness 0.15))))
    (pad "1" smd rect (at -0.8 0) (size 0.9 0.95) (layers "F.Cu" "F.Paste" "F.Mask") (net 1 "GND"))
    (pad "2" smd rect (at 0.8 0) (size 0.9 0.95) (layers "F.Cu" "F.Paste" "F.Mask") (net 2 "VCC"))
  )
  (segment (start 5 5) (end 15 5) (width 0.25) (layer "F.Cu") (net 1))
  (arc (start 15 5) (mid 16 6) (end 17 5) (width 0.25) (layer "B.Cu") (net 1))
  (via (at 15 5) (size 0.6) (drill 0.3) (layers "F.Cu" "B.Cu") (net 1))
  (zone (net 1) (net_name "GND") (layer "B.Cu") (name "pour")
    (fill yes)
    (polygon (pts (xy 1 1) (xy 11 1) (xy 11 6) (xy 1 6)))
    (filled_polygon (layer "B.Cu") (pts (xy 1.5 1.5) (xy 10.5 1.5) (xy 10.5 5.5)))
  )
)
`

func writeBoard(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.kicad_pcb")
	if err := os.WriteFile(path, []byte(testBoard), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	boardFile := writeBoard(t)
	dir := filepath.Dir(boardFile)
	output := filepath.Join(dir, "pcbdata.json")
	components := filepath.Join(dir, "components.json")

	if _, err := execute(t, "generate", "--include-tracks", "--no-project",
		"-o", output, "--components", components, boardFile); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"edges_bbox", "edges", "drawings", "footprints", "metadata", "bom", "font_data", "tracks", "zones"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document lacks %q", key)
		}
	}
	if _, ok := doc["nets"]; ok {
		t.Errorf("nets emitted without --include-nets")
	}

	raw, err = os.ReadFile(components)
	if err != nil {
		t.Fatal(err)
	}
	var comps []map[string]any
	if err := json.Unmarshal(raw, &comps); err != nil {
		t.Fatalf("invalid components JSON: %v", err)
	}
	if len(comps) != 1 || comps[0]["ref"] != "R1" || comps[0]["val"] != "10k" {
		t.Errorf("components = %v", comps)
	}
}

func TestGenerateMissingFile(t *testing.T) {
	_, err := execute(t, "generate", filepath.Join(t.TempDir(), "missing.kicad_pcb"))
	if err == nil {
		t.Fatal("generate succeeded on a missing file")
	}
}

func TestGenerateMissingOutline(t *testing.T) {
	dir := t.TempDir()
	boardFile := filepath.Join(dir, "bare.kicad_pcb")
	bare := `(kicad_pcb (version 20240108) (generator "pcbnew")
  (gr_line (start 0 0) (end 5 0) (stroke (width 0.1) (type default)) (layer "F.SilkS"))
)`
	if err := os.WriteFile(boardFile, []byte(bare), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "pcbdata.json")

	log, err := execute(t, "generate", "--no-project", "-o", output, boardFile)
	if !errors.Is(err, ibom.ErrMissingOutline) {
		t.Fatalf("generate error = %v, want ErrMissingOutline", err)
	}
	var final bytes.Buffer
	reportError(&final, err)
	if n := strings.Count(log+final.String(), "Please draw pcb outline"); n != 1 {
		t.Errorf("outline hint shown %d times:\n%s%s", n, log, final.String())
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output written for a board without outline: %v", err)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errors.New("boom"))
	if buf.String() != "Error: boom\n" {
		t.Errorf("reportError() wrote %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if err := writeJSON(path, nil, map[string]int{"a": 1}); err != nil {
			t.Fatalf("writeJSON() error = %v", err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(raw), `"a":1`) && !strings.Contains(string(raw), `"a": 1`) {
			t.Errorf("file = %s", raw)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "out.json")
		if err := writeJSON(path, nil, 1); err == nil {
			t.Error("writeJSON() succeeded in a missing directory")
		}
	})

	t.Run("device full", func(t *testing.T) {
		if _, err := os.Stat("/dev/full"); err != nil {
			t.Skip("/dev/full not available")
		}
		if err := writeJSON("/dev/full", nil, strings.Repeat("x", 1<<16)); err == nil {
			t.Error("write failure not reported")
		}
	})
}

func TestInfo(t *testing.T) {
	out, err := execute(t, "info", writeBoard(t))
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{
		"Version: 20240108",
		"Footprints: 1",
		"Tracks: 1 (+1 arcs)",
		"Vias: 1",
		"Zones: 1",
		"pour (GND) on B.Cu: outline 10.00 x 5.00 mm, 4 points",
		"Board size: 20.10 x 10.10 mm",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestNets(t *testing.T) {
	boardFile := writeBoard(t)

	out, err := execute(t, "nets", boardFile)
	if err != nil {
		t.Fatalf("nets failed: %v", err)
	}
	if !strings.Contains(out, "Board: 2 nets") {
		t.Errorf("output = %s", out)
	}

	out, err = execute(t, "nets", boardFile, "GND")
	if err != nil {
		t.Fatalf("nets GND failed: %v", err)
	}
	for _, want := range []string{"Pads (1)", "Tracks (1)", "Arcs (1)", "Vias (1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "nets", boardFile, "NOPE"); err == nil {
		t.Error("unknown net accepted")
	}
}
