package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"livestream-sync/core/database"
	"livestream-sync/feature/journal"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRun   string
)

// historyCmd lists recent runs from the run journal.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs from the journal",
	Long: `Lists the most recent sync runs recorded in the journal database.
With --run, lists the per-event outcomes of one run instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the event outcomes of this run id")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	j := journal.New(db, l)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if historyRun != "" {
		outcomes, err := j.Outcomes(ctx, historyRun)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "EVENT\tTITLE\tRESULT\tACTIONS\tERROR")
		for _, o := range outcomes {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.EventID, o.Title, o.Result, o.Actions, o.Error)
		}
		return w.Flush()
	}

	runs, err := j.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "RUN\tSTARTED\tDURATION\tSTATUS\tTOTAL\tNEW\tUPDATED\tDELETED\tSKIPPED\tFAILED")
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		status := r.Status
		if r.DryRun {
			status += " (dry-run)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), duration, status,
			r.Total, r.New, r.Updated, r.Deleted, r.Skipped, r.Failed)
	}
	return w.Flush()
}
