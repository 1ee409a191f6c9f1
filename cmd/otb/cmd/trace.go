package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardio"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/connectivity"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
)

var traceCmd = &cobra.Command{
	Use:   "trace <board_file> <net_name> <x,y> [x,y]",
	Short: "Measure a trace or find a track path",
	Long: `With one point: collects the whole trace through the track item at
that point and prints its length, pad-to-die allowance included.

With two points: finds the unbranched track path of the net between them
and prints each hop.

Coordinates are millimetres, e.g. 12.5,30.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func parsePointMM(s string) (geometry.Point, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("point %q: want x,y in mm", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geometry.PointMM(x, y), nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := boardConfig()
	if err != nil {
		return err
	}
	board, err := boardio.LoadFile(args[0], cfg, connectivity.New())
	if err != nil {
		return err
	}
	net := board.FindNetByName(args[1])
	if net == nil {
		return fmt.Errorf("net %q not found", args[1])
	}
	start, err := parsePointMM(args[2])
	if err != nil {
		return err
	}

	if len(args) == 3 {
		return traceLength(board, net, start)
	}

	goal, err := parsePointMM(args[3])
	if err != nil {
		return err
	}
	path, err := board.TracksInNetBetweenPoints(start, goal, net.Code())
	if err != nil {
		return err
	}
	fmt.Printf("Path %s -> %s: %d track items\n", start, goal, len(path))
	total := 0.0
	for i, t := range path {
		total += t.Length()
		if v, ok := t.(*pcb.Via); ok {
			fmt.Printf("  %2d: via at %s\n", i+1, v.Position())
			continue
		}
		fmt.Printf("  %2d: segment %s..%s (%.3f mm)\n", i+1, t.Start(), t.End(), t.Length()/geometry.IUPerMM)
	}
	fmt.Printf("Copper length: %.3f mm\n", total/geometry.IUPerMM)
	return nil
}

func traceLength(board *pcb.Board, net *pcb.NetInfo, at geometry.Point) error {
	var seed pcb.TrackLike
	for _, t := range board.TracksInNet(net.Code()) {
		if t.Start() == at || t.End() == at {
			seed = t
			break
		}
	}
	if seed == nil {
		return fmt.Errorf("no track item of net %q at %s", net.Name(), at)
	}

	info := board.MarkTrace(seed, false)
	fmt.Printf("Trace through %s: %d items\n", at, info.Count())
	fmt.Printf("  Copper length:  %.3f mm\n", info.Length/geometry.IUPerMM)
	fmt.Printf("  Pad-to-die add: %.3f mm\n", info.PadToDieLength/geometry.IUPerMM)
	fmt.Printf("  Total:          %.3f mm\n", (info.Length+info.PadToDieLength)/geometry.IUPerMM)
	return nil
}
