package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/ibom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/pcb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outputFile     string
	componentsFile string
	textVars       map[string]string
	noProject      bool
	indent         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <board_file>",
	Short: "Generate the interactive BOM board document",
	Long: `Parses a KiCad board and writes the board document as JSON.

The document holds the board outline and its bounding box, silkscreen and
fabrication drawings, footprints with pads, and the title block metadata.
Tracks, vias and zones are added with --include-tracks; net names with
--include-nets.

Text variables are resolved from footprint fields, the title block, --var
flags and the board's .kicad_pro project file, in that order.

Examples:
  ibom generate board.kicad_pcb -o pcbdata.json
  ibom generate --include-tracks --include-nets board.kicad_pcb
  ibom generate --var VARIANT=lite --components bom.json board.kicad_pcb`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	generateCmd.Flags().StringVar(&componentsFile, "components", "", "also write the component list to this file")
	generateCmd.Flags().Bool("include-tracks", false, "include tracks, vias and zones")
	generateCmd.Flags().Bool("include-nets", false, "include net names")
	generateCmd.Flags().StringToStringVar(&textVars, "var", nil, "text variable override (NAME=value)")
	generateCmd.Flags().BoolVar(&noProject, "no-project", false, "do not read variables from the .kicad_pro file")
	generateCmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")

	_ = viper.BindPFlag("include-tracks", generateCmd.Flags().Lookup("include-tracks"))
	_ = viper.BindPFlag("include-nets", generateCmd.Flags().Lookup("include-nets"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	filename := args[0]
	logger := newLogger(cmd.ErrOrStderr())

	opts := []pcb.Option{pcb.WithLogger(logger), pcb.WithTextVariables(textVars)}
	if noProject {
		opts = append(opts, pcb.WithoutProject())
	}
	board, err := pcb.ParseFile(filename, opts...)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	config := ibom.DefaultConfig()
	config.IncludeTracks = viper.GetBool("include-tracks")
	config.IncludeNets = viper.GetBool("include-nets")

	data, components, err := ibom.NewParser(board, config, ibom.WithLogger(logger)).Parse()
	if err != nil {
		// the parser has already logged the outline hint
		return reportedError{err}
	}

	if err := writeJSON(outputFile, cmd.OutOrStdout(), data); err != nil {
		return err
	}
	if componentsFile != "" {
		if err := writeJSON(componentsFile, nil, components); err != nil {
			return err
		}
	}

	if outputFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s (%d footprints)\n", outputFile, len(data.Footprints))
	}
	return nil
}

// writeJSON encodes v to path, or to fallback when path is empty.
func writeJSON(path string, fallback io.Writer, v any) (err error) {
	w := fallback
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("creating output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output: %w", cerr)
			}
		}()
		w = f
	}

	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err = enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
