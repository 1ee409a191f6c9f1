package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardio"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/connectivity"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/netsync"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/report"
)

var (
	syncDryRun       bool
	syncByTimestamp  bool
	syncReplace      bool
	syncDeleteExtra  bool
	syncDeleteSingle bool
)

var netsyncCmd = &cobra.Command{
	Use:   "netsync <board_file> <netlist_file>",
	Short: "Reconcile a board with a schematic netlist",
	Long: `Applies a netlist export to a board: updates references, values and
pad nets, and optionally exchanges footprints and removes stale ones.

With --dry-run the full report is produced but the board is not modified.`,
	Args: cobra.ExactArgs(2),
	RunE: runNetsync,
}

func init() {
	rootCmd.AddCommand(netsyncCmd)
	netsyncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "report changes without applying them")
	netsyncCmd.Flags().BoolVar(&syncByTimestamp, "by-timestamp", false, "match footprints by sheet path instead of reference")
	netsyncCmd.Flags().BoolVar(&syncReplace, "replace", false, "exchange footprints whose library id changed")
	netsyncCmd.Flags().BoolVar(&syncDeleteExtra, "delete-extra", false, "remove unlocked footprints absent from the netlist")
	netsyncCmd.Flags().BoolVar(&syncDeleteSingle, "delete-single-pad-nets", false, "dissolve nets left with a single pad")
}

func runNetsync(cmd *cobra.Command, args []string) error {
	cfg, err := boardConfig()
	if err != nil {
		return err
	}

	board, err := boardio.LoadFile(args[0], cfg, connectivity.New())
	if err != nil {
		return err
	}
	nl, err := netlist.ReadFile(args[1])
	if err != nil {
		return err
	}
	nl.DryRun = syncDryRun
	nl.FindByTimeStamp = syncByTimestamp
	nl.ReplaceFootprints = syncReplace
	nl.DeleteExtraFootprints = syncDeleteExtra

	logger.Debug("reconciling", "components", nl.Count(), "dry-run", nl.DryRun)

	collector := &report.Collector{}
	added := netsync.ReplaceNetlist(board, nl, syncDeleteSingle, collector)

	writer := &report.Writer{W: os.Stdout}
	for _, e := range collector.Entries() {
		if e.Severity == report.Info && !verbose {
			continue
		}
		writer.Report(e.Severity, e.Message)
	}
	fmt.Println(netsync.Summary(added, collector))

	if collector.CountSeverity(report.Error) > 0 {
		return fmt.Errorf("netlist reconciliation finished with errors")
	}
	return nil
}
