package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and adjust device state",
	}
	stateCmd.AddCommand(newStateShowCommand(ctx))
	stateCmd.AddCommand(newStateSetEventCommand(ctx))
	stateCmd.AddCommand(newStateResetCommand(ctx))
	return stateCmd
}

func newStateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current device state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := ctx.openState()
			if err != nil {
				return err
			}
			snap := state.Snapshot()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current event:   %s\n", orNone(snap.CurrentEventID))
			fmt.Fprintf(out, "Streaming video: %s\n", orNone(snap.StreamingVideoID))
			if snap.UpdatedAtUnix > 0 {
				fmt.Fprintf(out, "Updated:         %s\n", time.Unix(snap.UpdatedAtUnix, 0).Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newStateSetEventCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-event <event-id>",
		Short: "Set the current session id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := ctx.openState()
			if err != nil {
				return err
			}
			if err := state.SetEventID(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current event set to %s\n", args[0])
			return nil
		},
	}
}

func newStateResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the session and streaming pointers",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := ctx.openState()
			if err != nil {
				return err
			}
			if err := state.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "State cleared")
			return nil
		},
	}
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}
