/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/internal/iobadger"
	"github.com/gnames/gnspecies/internal/iostore"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/spf13/cobra"
)

// getOptimizeCmd returns the optimize command.
func getOptimizeCmd() *cobra.Command {
	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Purge expired cache and compact the store",
		Long: `Remove expired query results and images and give the space back.

This command:
  1. Deletes query results and images older than cache TTL
     (cache.query_ttl, cache.image_ttl)
  2. Runs VACUUM on SQLite or VACUUM ANALYZE on PostgreSQL
  3. Compacts Badger image cache if it is used

Expired data is never returned by searches, so the command is safe
to run at any time.

Examples:
  gnspecies optimize
  gnspecies optimize --backend postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, backendFlag)
			err := runOptimize()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	optimizeCmd.Flags().StringP("backend", "b", "",
		"store backend: sqlite or postgres")

	return optimizeCmd
}

func runOptimize() error {
	ctx := context.Background()

	if cfg.Store.ImageCache == "badger" {
		images := iobadger.New(config.ImageCacheDir(cfg.HomeDir), cfg.Cache.ImageTTL)
		if err := images.Open(); err != nil {
			return err
		}
		err := images.Compact()
		images.Close()
		if err != nil {
			return err
		}
		gn.Info("Image cache compacted")
	}

	if cfg.Store.Backend == "memory" {
		gn.Info("Memory backend has nothing to optimize.")
		return nil
	}

	db, err := iostore.OpenSQL(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	hasTables, err := db.HasTables(ctx)
	if err != nil {
		return err
	}
	if !hasTables {
		gn.Warn(`Warning: Store appears to be empty.
Run 'gnspecies create' first to initialize the schema.`)
		return nil
	}

	stats, err := db.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	gn.Info("Removed <em>%s</em> query results and <em>%s</em> images",
		humanize.Comma(stats.QueryEntries), humanize.Comma(stats.Images))

	if err = db.Vacuum(ctx); err != nil {
		return err
	}
	gn.Info("Store optimization is complete!")
	return nil
}
