package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/pcb"
	"github.com/spf13/cobra"
)

var netsCmd = &cobra.Command{
	Use:   "nets <board_file> [net_name]",
	Short: "Show PCB net information",
	Long: `Display information about nets in a PCB file.

Without net_name: Lists all nets with pad/track/arc/via counts
With net_name: Shows detailed information for that specific net`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

// netInfo groups the copper items of one net
type netInfo struct {
	pads   []*board.Pad
	tracks []*board.Track
	arcs   []*board.ArcTrack
	vias   []*board.Via
}

func collectNets(b board.Board) map[string]*netInfo {
	nets := make(map[string]*netInfo)
	get := func(n *board.Net) *netInfo {
		name := board.NetName(n)
		info, ok := nets[name]
		if !ok {
			info = &netInfo{}
			nets[name] = info
		}
		return info
	}

	for _, n := range b.Nets() {
		get(n)
	}
	for _, fp := range b.Footprints() {
		for _, pad := range fp.Definition.Pads {
			if pad.Net != nil {
				info := get(pad.Net)
				info.pads = append(info.pads, pad)
			}
		}
	}
	for _, t := range b.Tracks() {
		if t.Net != nil {
			info := get(t.Net)
			info.tracks = append(info.tracks, t)
		}
	}
	for _, a := range b.Arcs() {
		if a.Net != nil {
			info := get(a.Net)
			info.arcs = append(info.arcs, a)
		}
	}
	for _, v := range b.Vias() {
		if v.Net != nil {
			info := get(v.Net)
			info.vias = append(info.vias, v)
		}
	}
	delete(nets, "")
	return nets
}

func runNets(cmd *cobra.Command, args []string) error {
	filename := args[0]

	b, err := pcb.ParseFile(filename, pcb.WithLogger(newLogger(cmd.ErrOrStderr())))
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	nets := collectNets(b)

	if len(args) >= 2 {
		return showNetDetails(cmd.OutOrStdout(), nets, args[1])
	}
	listAllNets(cmd.OutOrStdout(), nets)
	return nil
}

func listAllNets(out io.Writer, nets map[string]*netInfo) {
	fmt.Fprintf(out, "Board: %d nets\n\n", len(nets))
	fmt.Fprintf(out, "%-30s %6s %6s %6s %6s\n", "Net Name", "Pads", "Tracks", "Arcs", "Vias")
	fmt.Fprintln(out, "────────────────────────────────────────────────────────────────")

	names := make([]string, 0, len(nets))
	for name := range nets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := nets[name]
		fmt.Fprintf(out, "%-30s %6d %6d %6d %6d\n", name, len(info.pads), len(info.tracks), len(info.arcs), len(info.vias))
	}
}

func showNetDetails(out io.Writer, nets map[string]*netInfo, netName string) error {
	info, ok := nets[netName]
	if !ok {
		return fmt.Errorf("net '%s' not found", netName)
	}
	mm := func(v int64) float64 { return float64(v) * board.NanometersToMM }

	fmt.Fprintf(out, "Net: %s\n\n", netName)

	fmt.Fprintf(out, "Pads (%d):\n", len(info.pads))
	for _, pad := range info.pads {
		size := board.Vector2{}
		shape := board.PadShapeUnknown
		if len(pad.Padstack.CopperLayers) > 0 {
			size = pad.Padstack.CopperLayers[0].Size
			shape = pad.Padstack.CopperLayers[0].Shape
		}
		fmt.Fprintf(out, "  Pad %-4s: %s %.2f×%.2f mm at (%.2f, %.2f)\n",
			pad.Number, shape,
			mm(size.X), mm(size.Y),
			mm(pad.Position.X), mm(pad.Position.Y))
	}

	fmt.Fprintf(out, "\nTracks (%d):\n", len(info.tracks))
	for i, track := range info.tracks {
		fmt.Fprintf(out, "  Track %d: %.2f mm wide on %s from (%.2f, %.2f) to (%.2f, %.2f)\n",
			i+1, mm(track.Width), track.Layer,
			mm(track.Start.X), mm(track.Start.Y),
			mm(track.End.X), mm(track.End.Y))
	}

	fmt.Fprintf(out, "\nArcs (%d):\n", len(info.arcs))
	for i, arc := range info.arcs {
		fmt.Fprintf(out, "  Arc %d: %.2f mm wide on %s from (%.2f, %.2f) via (%.2f, %.2f) to (%.2f, %.2f)\n",
			i+1, mm(arc.Width), arc.Layer,
			mm(arc.Start.X), mm(arc.Start.Y),
			mm(arc.Mid.X), mm(arc.Mid.Y),
			mm(arc.End.X), mm(arc.End.Y))
	}

	fmt.Fprintf(out, "\nVias (%d):\n", len(info.vias))
	for i, via := range info.vias {
		var size int64
		if len(via.Padstack.CopperLayers) > 0 {
			size = via.Padstack.CopperLayers[0].Size.X
		}
		fmt.Fprintf(out, "  Via %d: %.2f mm diameter, %.2f mm drill at (%.2f, %.2f)\n",
			i+1, mm(size), mm(via.Padstack.Drill.Diameter.X),
			mm(via.Position.X), mm(via.Position.Y))
	}

	return nil
}
