package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/fraud-cli/internal/monitoring"
	"github.com/sells-group/fraud-cli/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show model performance and prediction monitoring",
	Long:  "Reads GET /model-info and GET /logs/summary concurrently. Either half can fail without hiding the other.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		watch, _ := cmd.Flags().GetDuration("watch")
		cmd.SilenceUsage = true

		agg := monitoring.NewAggregator(newAPI(), cfg.API.MonitoringTimeout())
		out := cmd.OutOrStdout()

		if watch > 0 {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			monitoring.NewWatcher(agg, watch, 0).Run(ctx, func(snap *monitoring.Snapshot) {
				_, _ = fmt.Fprintf(out, "\n-- %s --\n", snap.CollectedAt.Local().Format(time.DateTime))
				_ = writeStats(out, snap, format, "")
			})
			return nil
		}

		return runStats(cmd.Context(), agg, format, xlsxPath, out)
	},
}

func runStats(ctx context.Context, agg *monitoring.Aggregator, format, xlsxPath string, out io.Writer) error {
	return writeStats(out, agg.FetchSnapshot(ctx, 0), format, xlsxPath)
}

func writeStats(out io.Writer, snap *monitoring.Snapshot, format, xlsxPath string) error {
	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, snap); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote %s\n", xlsxPath)
	}
	if format == formatTable {
		formatSnapshot(out, snap)
		return nil
	}
	return encode(out, format, snap)
}

func init() {
	statsCmd.Flags().String("format", formatTable, "output format: table, json or yaml")
	statsCmd.Flags().String("xlsx", "", "also export the snapshot to this .xlsx path")
	statsCmd.Flags().Duration("watch", 0, "refresh on this interval until interrupted (e.g. 30s)")
	rootCmd.AddCommand(statsCmd)
}
