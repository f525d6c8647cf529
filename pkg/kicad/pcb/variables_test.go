package pcb

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTextVarsExpand(t *testing.T) {
	tv, err := NewTextVars()
	if err != nil {
		t.Fatalf("NewTextVars() error: %v", err)
	}
	vars := map[string]string{"REF": "U1", "VALUE": "LM358", "EMPTY": ""}
	resolve := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no variables", "no variables"},
		{"single", "${REF}", "U1"},
		{"mixed", "${REF}: ${VALUE} op-amp", "U1: LM358 op-amp"},
		{"unknown kept", "${REF} ${NOPE}", "U1 ${NOPE}"},
		{"empty value", "[${EMPTY}]", "[]"},
		{"dollar literal", "$5 and ${REF}", "$5 and U1"},
		{"unterminated", "${REF", "${REF"},
		{"adjacent", "${REF}${VALUE}", "U1LM358"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tv.Expand(tt.in, resolve); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProjectFileFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"board.kicad_pcb", "board.kicad_pro"},
		{"/tmp/x/my.board.kicad_pcb", "/tmp/x/my.board.kicad_pro"},
		{"noext", "noext.kicad_pro"},
	}
	for _, tt := range tests {
		if got := ProjectFileFor(tt.in); got != tt.want {
			t.Errorf("ProjectFileFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadProjectVariables(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "p.kicad_pro")
	content := `{"board": {}, "text_variables": {"MfgCode": "AB-12", "Build": 3}}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	vars, err := LoadProjectVariables(file)
	if err != nil {
		t.Fatalf("LoadProjectVariables() error: %v", err)
	}
	if vars["mfgcode"] != "AB-12" || vars["build"] != "3" {
		t.Errorf("vars = %v", vars)
	}

	if _, err := LoadProjectVariables(filepath.Join(dir, "missing.kicad_pro")); err == nil {
		t.Error("expected error for missing project")
	}
}
