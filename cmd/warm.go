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
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnspecies/internal/iofs"
	"github.com/gnames/gnspecies/pkg/search"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// getWarmCmd returns the warm command.
func getWarmCmd() *cobra.Command {
	var concurrency int

	warmCmd := &cobra.Command{
		Use:   "warm <queries-file>",
		Short: "Fill the cache with results of queries from a file",
		Long: `Run searches for every query from a file, one query per line, so
later searches find their results in the cache. Empty lines and lines
starting with '#' are ignored.

It makes sense only with a persistent backend (sqlite or postgres).

Examples:
  gnspecies warm queries.txt --backend sqlite
  gnspecies warm queries.txt -c 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, backendFlag, jobsFlag)
			err := runWarm(args[0], concurrency)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	warmCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4,
		"number of queries searched at the same time")
	warmCmd.Flags().StringP("backend", "b", "",
		"store backend: memory, sqlite or postgres")
	warmCmd.Flags().IntP("jobs", "j", 0,
		"number of concurrent upstream requests")

	return warmCmd
}

func runWarm(path string, concurrency int) error {
	ctx := context.Background()

	queries, err := iofs.ReadLines(path)
	if err != nil {
		return err
	}
	if cfg.Store.Backend == "memory" {
		gn.Warn("<warn>Memory backend keeps cache only until exit</warn>")
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	var found atomic.Int64
	start := time.Now()
	bar := newProgressBar(len(queries), "Queries: ")

	g := errgroup.Group{}
	g.SetLimit(max(concurrency, 1))
	for _, q := range queries {
		g.Go(func() error {
			defer bar.Increment()
			res, err := warmQuery(ctx, svc.searcher, q)
			if err != nil {
				slog.Warn("Cannot warm query", "query", q, "error", err)
				return nil
			}
			found.Add(int64(res))
			return nil
		})
	}
	_ = g.Wait()
	bar.Finish()

	gn.Info("Warmed %s queries, %s species found in %s",
		humanize.Comma(int64(len(queries))),
		humanize.Comma(found.Load()),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

func warmQuery(ctx context.Context, s search.Searcher, query string) (int, error) {
	res, err := s.Search(ctx, query, "")
	if err != nil {
		return 0, err
	}
	return len(res), nil
}

// newProgressBar creates a progress bar with consistent settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
