package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/cache"
)

func newCacheCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the offline cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cached snapshots",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCache(cmd, g, func(e *env, cs *cache.Store) error {
					for _, kind := range []string{cache.KindAccounts, cache.KindSecurities, cache.KindPage, cache.KindTabulation} {
						keys, err := cs.Keys(cmd.Context(), kind)
						if err != nil {
							return err
						}
						for _, k := range keys {
							e.out.Line("%-12s %s", kind, k)
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCache(cmd, g, func(e *env, cs *cache.Store) error {
					if err := cs.Clear(cmd.Context()); err != nil {
						return err
					}
					e.out.Success("cache cleared")
					return nil
				})
			},
		},
	)
	return cmd
}

func withCache(cmd *cobra.Command, g *globalFlags, fn func(e *env, cs *cache.Store) error) error {
	e, err := loadEnv(cmd, g)
	if err != nil {
		return err
	}
	if e.cfg.Cache.Path == "" {
		return fmt.Errorf("no cache path configured")
	}
	cs, err := cache.Open(e.cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer cs.Close()
	return fn(e, cs)
}
