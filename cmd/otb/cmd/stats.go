package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardio"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/connectivity"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
)

var statsByPadCount bool

var statsCmd = &cobra.Command{
	Use:   "stats <board_file>",
	Short: "Show board statistics",
	Long: `Display a summary of a PCB file: item counts, board extent, and
per-net pad/track counts with the unconnected total.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsByPadCount, "by-pad-count", false, "order nets by pad count instead of name")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := boardConfig()
	if err != nil {
		return err
	}

	logger.Debug("loading board", "file", args[0])
	conn := connectivity.New()
	board, err := boardio.LoadFile(args[0], cfg, conn)
	if err != nil {
		return err
	}

	fmt.Printf("Board: %s\n", args[0])
	fmt.Printf("  Footprints:  %d\n", len(board.Footprints()))
	fmt.Printf("  Pads:        %d\n", board.NodeCount())
	fmt.Printf("  Track items: %d\n", board.SegmentCount())
	fmt.Printf("  Zones:       %d\n", len(board.Zones()))
	fmt.Printf("  Nets:        %d\n", board.NetCount())
	fmt.Printf("  Unconnected: %d\n", board.UnconnectedCount())

	edges := board.BoardEdgesBoundingBox()
	if !edges.Empty() {
		fmt.Printf("  Outline:     %.2f x %.2f mm\n",
			geometry.ToMM(edges.Width()), geometry.ToMM(edges.Height()))
	}

	names := board.SortedNetNames(statsByPadCount)
	if len(names) == 0 {
		return nil
	}
	fmt.Printf("\n%-30s %6s %6s\n", "Net", "Pads", "Items")
	for _, name := range names {
		net := board.FindNetByName(name)
		fmt.Printf("%-30s %6d %6d\n", name,
			conn.PadCountInNet(net.Code()),
			len(board.TracksInNet(net.Code())))
	}
	return nil
}

var netsCmd = &cobra.Command{
	Use:   "nets <board_file> [net_name]",
	Short: "Show net details",
	Long: `Without net_name: list all nets. With net_name: show the pads and
track items of that net.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

func runNets(cmd *cobra.Command, args []string) error {
	cfg, err := boardConfig()
	if err != nil {
		return err
	}
	conn := connectivity.New()
	board, err := boardio.LoadFile(args[0], cfg, conn)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		names := board.SortedNetNames(false)
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	net := board.FindNetByName(args[1])
	if net == nil {
		return fmt.Errorf("net %q not found", args[1])
	}
	fmt.Printf("Net %q (code %d)\n", net.Name(), net.Code())

	for _, item := range conn.NetItems(net.Code(), pcb.KindPad) {
		pad := item.(*pcb.Pad)
		owner := "?"
		if fp := pad.Footprint(); fp != nil {
			owner = fp.Reference()
		}
		fmt.Printf("  Pad %s.%s at %s\n", owner, pad.Name(), pad.Position())
	}
	for _, t := range board.TracksInNet(net.Code()) {
		switch it := t.(type) {
		case *pcb.Via:
			fmt.Printf("  Via at %s spanning %s..%s\n", it.Position(), it.TopLayer(), it.BottomLayer())
		default:
			fmt.Printf("  Segment %s..%s on %s\n", t.Start(), t.End(), t.LayerSet().First())
		}
	}
	return nil
}
