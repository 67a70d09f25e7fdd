package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vrsync/internal/journal"
	"vrsync/internal/textutil"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the download ledger",
	}
	journalCmd.AddCommand(newJournalListCommand(ctx))
	journalCmd.AddCommand(newJournalStatsCommand(ctx))
	journalCmd.AddCommand(newJournalPruneCommand(ctx))
	return journalCmd
}

func newJournalListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var key string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent download attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer ledger.Close()

			runCtx := commandCtx(cmd)
			var entries []journal.Entry
			if key != "" {
				entries, err = ledger.ListByKey(runCtx, key)
			} else {
				entries, err = ledger.List(runCtx, limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Journal is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					string(e.Outcome),
					e.Key,
					humanSize(e.SizeBytes),
					textutil.Truncate(e.Detail, 50),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Outcome", "Key", "Size", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")
	cmd.Flags().StringVar(&key, "key", "", "Show all attempts for one file key")
	return cmd
}

func newJournalStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize download outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer ledger.Close()

			stats, err := ledger.Stats(commandCtx(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Completed: %d\n", stats[journal.OutcomeCompleted])
			fmt.Fprintf(out, "Skipped:   %d\n", stats[journal.OutcomeSkipped])
			fmt.Fprintf(out, "Failed:    %d\n", stats[journal.OutcomeFailed])
			return nil
		},
	}
}

func newJournalPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer ledger.Close()

			pruned, err := ledger.Prune(commandCtx(cmd), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", pruned)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Delete entries older than this duration")
	return cmd
}
