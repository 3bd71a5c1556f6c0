package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight/advisor-cli/internal/store"
)

var statusHours int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored record counts and recent advice usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.Counts(ctx)
		if err != nil {
			return err
		}

		since := time.Now().Add(-time.Duration(statusHours) * time.Hour)
		stats, err := st.AdviceStats(ctx, since)
		if err != nil {
			return err
		}

		formatStatus(os.Stdout, counts, stats, statusHours)
		return nil
	},
}

// formatStatus writes a tabular summary of stored records and advice usage.
func formatStatus(out io.Writer, counts store.Counts, stats store.AdviceStats, hours int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RECORDS\tCOUNT")
	_, _ = fmt.Fprintln(w, "-------\t-----")
	_, _ = fmt.Fprintf(w, "profiles\t%d\n", counts.Profiles)
	_, _ = fmt.Fprintf(w, "sessions\t%d\n", counts.Sessions)
	_, _ = fmt.Fprintf(w, "budgets\t%d\n", counts.Budgets)
	_, _ = fmt.Fprintf(w, "advice log\t%d\n", counts.Advice)
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nLast %dh: %d advice requests, %d in / %d out tokens, $%.4f\n",
		hours, stats.Requests, stats.InputTokens, stats.OutputTokens, stats.CostUSD)
}

func init() {
	statusCmd.Flags().IntVar(&statusHours, "hours", 24, "advice usage lookback window in hours")
	rootCmd.AddCommand(statusCmd)
}
