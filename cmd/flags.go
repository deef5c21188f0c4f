package cmd

import (
	"fmt"
	"os"

	app "github.com/gnames/gnspecies/pkg"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/spf13/cobra"
)

type funcFlag func(cmd *cobra.Command) []config.Option

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", app.Version, app.Build)
		os.Exit(0)
	}
}

func backendFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("backend") {
		return nil
	}
	s, _ := cmd.Flags().GetString("backend")
	return []config.Option{config.OptStoreBackend(s)}
}

func jobsFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("jobs") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("jobs")
	return []config.Option{config.OptJobsNumber(i)}
}

func minScoreFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("min-score") {
		return nil
	}
	f, _ := cmd.Flags().GetFloat64("min-score")
	return []config.Option{config.OptSearchMinScore(f)}
}

func kingdomPriorityFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("kingdom-priority") {
		return nil
	}
	b, _ := cmd.Flags().GetBool("kingdom-priority")
	return []config.Option{config.OptSearchKingdomPriority(b)}
}

func portFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("port") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("port")
	return []config.Option{config.OptServerPort(i)}
}

// addSearchFlags adds flags shared by commands that run searches.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("backend", "b", "",
		"store backend: memory, sqlite or postgres")
	cmd.Flags().IntP("jobs", "j", 0,
		"number of concurrent upstream requests")
	cmd.Flags().Float64P("min-score", "m", 0,
		"minimal relevance score of results")
	cmd.Flags().Bool("kingdom-priority", false,
		"sort results by kingdom priority after score")
}

// applyFlags updates the global config with explicitly set flags.
func applyFlags(cmd *cobra.Command, flags ...funcFlag) {
	var res []config.Option
	for _, fn := range flags {
		res = append(res, fn(cmd)...)
	}
	if len(res) > 0 {
		cfg.Update(res)
	}
}
