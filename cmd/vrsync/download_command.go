package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vrsync/internal/services"
	"vrsync/internal/store"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var maxPerRun int
	var refresh bool
	var id string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download media from the stored catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer, closer, err := ctx.newSyncer()
			if err != nil {
				return err
			}
			defer closer()

			cfg, _ := ctx.ensureConfig()
			runCtx := commandCtx(cmd)

			var bundle store.Bundle
			if refresh {
				bundle, err = syncer.FetchAndStore(runCtx)
			} else {
				bundle, err = store.Load(cfg.AggregatePath())
				if errors.Is(err, services.ErrNotFound) {
					bundle, err = syncer.FetchAndStore(runCtx)
				}
			}
			if err != nil {
				return err
			}

			if id != "" {
				kept := bundle.Items[:0:0]
				for _, rec := range bundle.Items {
					if rec.ID == id {
						kept = append(kept, rec)
					}
				}
				if len(kept) == 0 {
					return fmt.Errorf("record %q not found in catalog", id)
				}
				bundle.Items = kept
			}

			limit := cfg.Download.MaxPerRun
			if maxPerRun > 0 {
				limit = maxPerRun
			}
			result := syncer.DownloadBundle(runCtx, bundle, limit)

			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d of %d (failed %d) into %s\n",
				result.Downloaded, result.Requested, result.Failed, cfg.DownloadDir())
			if result.Failed > 0 {
				return fmt.Errorf("%d downloads failed", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPerRun, "max", 0, "Maximum downloads this run (0 uses the configured limit)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the catalog before downloading")
	cmd.Flags().StringVar(&id, "id", "", "Download only the record with this id")
	return cmd
}
