package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/DeskOS/internal/domain/cache"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/server"
)

func newCacheCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the durable session cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show cached keys and their sizes",
			RunE: withCache(opts, func(cmd *cobra.Command, c *cache.Cache) error {
				renderStats(cmd, c)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every key in the namespace",
			RunE: withCache(opts, func(cmd *cobra.Command, c *cache.Cache) error {
				if !c.ClearAll() {
					return fmt.Errorf("cache %s was only partly cleared", c.Namespace())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Namespace())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Evict expired and corrupt entries",
			RunE: withCache(opts, func(cmd *cobra.Command, c *cache.Cache) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Evicted %d entries\n", c.ClearExpired())
				return nil
			}),
		},
	)
	return cmd
}

func withCache(opts *options, fn func(*cobra.Command, *cache.Cache) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.load()
		if err != nil {
			return err
		}
		if cfg.Cache.Dir == "" {
			return fmt.Errorf("no cache directory configured; set CACHE_DIR or cache.dir")
		}
		c, err := server.OpenCache(cfg.Cache, clock.System{}, logging.Nop().Logger, nil)
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(cmd, c)
	}
}

func renderStats(cmd *cobra.Command, c *cache.Cache) {
	stats := c.Stats()

	keys := make([]string, 0, len(stats.ItemsByKey))
	for k := range stats.ItemsByKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	t.AppendHeader(table.Row{"Key", "Bytes"})
	for _, k := range keys {
		t.AppendRow(table.Row{c.Namespace() + k, stats.ItemsByKey[k]})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d items", stats.TotalItems), stats.TotalSize})
	t.Render()
}
