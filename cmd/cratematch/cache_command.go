package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cratematch/internal/catalog"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Search cache utilities",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired entries from the search cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Catalog.CacheEnabled || cfg.Catalog.CachePath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Search cache is disabled.")
				return nil
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			ttl := time.Duration(cfg.Catalog.CacheTTLHours) * time.Hour
			cache, err := catalog.OpenCache(cfg.Catalog.CachePath, ttl, logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			pruned, err := cache.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired entries from %s\n", pruned, cfg.Catalog.CachePath)
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the search cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Catalog.CachePath)
			return nil
		},
	})

	return cacheCmd
}
