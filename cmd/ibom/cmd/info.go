package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/pcb"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <board_file>",
	Short: "Show board summary",
	Long: `Display the file header, title block, item counts and outline size of a
KiCad board.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	b, err := pcb.ParseFile(filename, pcb.WithLogger(newLogger(cmd.ErrOrStderr())))
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	out := cmd.OutOrStdout()
	tb := b.TitleBlock()
	fmt.Fprintf(out, "Board: %s\n", filename)
	fmt.Fprintf(out, "  Version: %d\n", b.Version)
	fmt.Fprintf(out, "  Generator: %s\n", b.Generator)
	if tb.Title != "" {
		fmt.Fprintf(out, "  Title: %s\n", tb.Title)
	}
	if tb.Revision != "" {
		fmt.Fprintf(out, "  Revision: %s\n", tb.Revision)
	}
	if tb.Company != "" {
		fmt.Fprintf(out, "  Company: %s\n", tb.Company)
	}
	fmt.Fprintf(out, "  Date: %s\n", tb.Date)
	fmt.Fprintf(out, "  Layers: %d\n", len(b.Layers))
	fmt.Fprintf(out, "  Nets: %d\n", len(b.Nets()))
	fmt.Fprintf(out, "  Footprints: %d\n", len(b.Footprints()))
	fmt.Fprintf(out, "  Tracks: %d (+%d arcs)\n", len(b.Tracks()), len(b.Arcs()))
	fmt.Fprintf(out, "  Vias: %d\n", len(b.Vias()))
	fmt.Fprintf(out, "  Zones: %d\n", len(b.Zones()))
	for _, z := range b.Zones() {
		printZone(out, z)
	}

	if box, ok := b.Extents(); ok {
		fmt.Fprintf(out, "  Board size: %.2f x %.2f mm\n",
			float64(box.Size.X)*board.NanometersToMM, float64(box.Size.Y)*board.NanometersToMM)
	} else {
		fmt.Fprintln(out, "  Board outline: missing")
	}
	return nil
}

// printZone writes one zone line with the size of its drawn outline.
func printZone(out io.Writer, z *board.Zone) {
	name := z.Name
	if name == "" {
		name = "(unnamed)"
	}
	if z.IsRuleArea() {
		name += " rule area"
	} else if net := board.NetName(z.Net); net != "" {
		name += " (" + net + ")"
	}
	layers := make([]string, len(z.Layers))
	for i, l := range z.Layers {
		layers[i] = l.String()
	}

	pts := z.Outline.Outline.Points()
	if len(pts) == 0 {
		fmt.Fprintf(out, "    %s on %s: no outline\n", name, strings.Join(layers, ","))
		return
	}
	box := z.Outline.BoundingBox()
	fmt.Fprintf(out, "    %s on %s: outline %.2f x %.2f mm, %d points\n",
		name, strings.Join(layers, ","),
		float64(box.Size.X)*board.NanometersToMM, float64(box.Size.Y)*board.NanometersToMM,
		len(pts))
}
