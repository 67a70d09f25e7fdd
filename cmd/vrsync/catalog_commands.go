package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"vrsync/internal/store"
	"vrsync/internal/textutil"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the stored catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogURLCommand(ctx))
	catalogCmd.AddCommand(newCatalogBundlesCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored catalog records",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(ctx, user)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(bundle.Items))
			for _, rec := range bundle.Items {
				rows = append(rows, []string{
					rec.ID,
					textutil.Truncate(rec.DisplayTitle(), 40),
					rec.MimeType,
					humanSize(rec.SizeBytes),
					textutil.Truncate(rec.ResolvedURL, 60),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Type", "Size", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "List a per-user bundle instead of the aggregate catalog")
	return cmd
}

func newCatalogURLCommand(ctx *commandContext) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "url <record-id>",
		Short: "Print the resolved URL for one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(ctx, user)
			if err != nil {
				return err
			}
			url := bundle.FindURLByID(args[0])
			if url == "" {
				return fmt.Errorf("record %q not found in catalog", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Look up in a per-user bundle instead of the aggregate catalog")
	return cmd
}

func newCatalogBundlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List stored bundle files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			paths, err := store.EnumerateBundles(cfg.Paths.StorageDir, cfg.Fetch.OutputFile, "config.json")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "No bundles")
				return nil
			}

			rows := make([][]string, 0, len(paths))
			for _, path := range paths {
				event, items := "-", "-"
				if bundle, err := store.Load(path); err == nil {
					items = fmt.Sprintf("%d", len(bundle.Items))
					if bundle.EventInfo != nil {
						event = bundle.EventInfo.ID
					}
				}
				rows = append(rows, []string{filepath.Base(path), event, items})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Event", "Items"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func loadBundle(ctx *commandContext, user string) (store.Bundle, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return store.Bundle{}, err
	}
	path := cfg.AggregatePath()
	if user != "" {
		path = cfg.UserBundlePath(user)
	}
	return store.Load(path)
}
