package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hupe1980/shopagent"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Build the retrieval index from document collections",
	Long: `Reads product_manuals.json, faqs.json, and policies.json from the given
directory (default: the configured data dir), chunks and embeds the documents,
and persists the vector index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.DataDir
		if len(args) == 1 {
			dir = args[0]
		}

		agent, err := shopagent.New(func(o *shopagent.Options) {
			o.Config = cfg
			o.Logger = logger
		})
		if err != nil {
			return exitErr(err)
		}
		defer agent.Close()

		var bar *progressbar.ProgressBar
		err = agent.Ingest(cmd.Context(), dir, func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Chunking documents"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
				)
			}
			_ = bar.Set(done)
		})
		if err != nil {
			return exitErr(err)
		}
		if bar != nil {
			_ = bar.Finish()
		}

		stats := agent.Orchestrator().IndexStats()
		fmt.Printf("Indexed %d chunks (dimension %d) into %s\n", stats.Entries, stats.Dimension, cfg.IndexPath)
		return nil
	},
}
