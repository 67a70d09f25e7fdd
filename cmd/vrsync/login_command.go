package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var withDownload bool

	cmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Resolve credentials to a session and store its media subset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer, closer, err := ctx.newSyncer()
			if err != nil {
				return err
			}
			defer closer()

			runCtx := commandCtx(cmd)
			session, bundle, err := syncer.Login(runCtx, args[0], args[1])
			if err != nil {
				return err
			}

			state, err := ctx.openState()
			if err != nil {
				return err
			}
			if err := state.SetEventID(session.ID); err != nil {
				return fmt.Errorf("record current session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session: %s (%s)\n", session.Title, session.ID)
			fmt.Fprintf(out, "Videos:  %d\n", len(bundle.Items))

			if withDownload {
				cfg, _ := ctx.ensureConfig()
				result := syncer.DownloadBundle(runCtx, bundle, cfg.Download.MaxPerRun)
				fmt.Fprintf(out, "Downloaded %d of %d (failed %d)\n", result.Downloaded, result.Requested, result.Failed)

				if session.IntroID != "" {
					if _, err := syncer.EnsureIntro(runCtx, session, bundle); err != nil {
						fmt.Fprintf(out, "Intro download failed: %v\n", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDownload, "download", false, "Download the session media after login")
	return cmd
}
