package pcb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ProjectFileFor returns the .kicad_pro path next to a board file
func ProjectFileFor(boardFile string) string {
	return strings.TrimSuffix(boardFile, filepath.Ext(boardFile)) + ".kicad_pro"
}

// LoadProjectVariables reads the text_variables table of a KiCad project
// file. Keys are returned lower-cased; lookups through the board are
// case-insensitive for project variables.
func LoadProjectVariables(projectFile string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(projectFile)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	vars := make(map[string]string)
	for name, value := range v.GetStringMap("text_variables") {
		vars[strings.ToLower(name)] = cast.ToString(value)
	}
	return vars, nil
}
