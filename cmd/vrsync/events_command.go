package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vrsync/internal/textutil"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List backend sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := ctx.newClient()
			if err != nil {
				return err
			}
			sessions, err := backend.FetchSessions(commandCtx(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					s.ID,
					textutil.Truncate(s.Title, 40),
					s.Username,
					strconv.Itoa(len(s.VideoList)),
					s.Streaming,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "User", "Videos", "Streaming"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
