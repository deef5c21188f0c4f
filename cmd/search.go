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
	"fmt"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/spf13/cobra"
)

// getSearchCmd returns the search command.
func getSearchCmd() *cobra.Command {
	var (
		kingdom string
		pretty  bool
	)

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search species by scientific or common name",
		Long: `Search species by scientific or common name.

The query is looked up in the local cache first. If nothing is cached,
GBIF is asked for accepted species, results are merged, saved and
scored. Images come from iNaturalist.

Results are printed as JSON.

Examples:
  gnspecies search "Panthera leo"
  gnspecies search lion --kingdom Animalia
  gnspecies search oak -k plantae --pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, backendFlag, jobsFlag, minScoreFlag, kingdomPriorityFlag)
			query := strings.Join(args, " ")
			err := runSearch(cmd, query, kingdom, pretty)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	searchCmd.Flags().StringVarP(&kingdom, "kingdom", "k", "",
		"return only species of this kingdom")
	searchCmd.Flags().BoolVarP(&pretty, "pretty", "p", false,
		"print indented JSON")
	addSearchFlags(searchCmd)

	return searchCmd
}

func runSearch(
	cmd *cobra.Command,
	query, kingdom string,
	pretty bool,
) error {
	ctx := context.Background()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	start := time.Now()
	res, err := svc.searcher.Search(ctx, query, kingdom)
	if err != nil {
		return err
	}

	enc := gnfmt.GNjson{Pretty: pretty}
	out, err := enc.Encode(struct {
		Results []taxon.Result `json:"results"`
	}{Results: res})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	gn.Info("Found %d species in %s", len(res),
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}
