package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var withDownload bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the backend catalog, filter it, and store the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer, closer, err := ctx.newSyncer()
			if err != nil {
				return err
			}
			defer closer()

			cfg, _ := ctx.ensureConfig()
			runCtx := commandCtx(cmd)

			bundle, err := syncer.FetchAndStore(runCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stored %d records to %s\n", len(bundle.Items), cfg.AggregatePath())

			if withDownload {
				result := syncer.DownloadBundle(runCtx, bundle, cfg.Download.MaxPerRun)
				fmt.Fprintf(out, "Downloaded %d of %d (failed %d)\n", result.Downloaded, result.Requested, result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDownload, "download", false, "Download the filtered media after storing the catalog")
	return cmd
}
