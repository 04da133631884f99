package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupe1980/shopagent/config"
	"github.com/hupe1980/shopagent/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shopagent",
	Short: "Conversational support agent for an electronics storefront",
	Long: `shopagent answers customer questions about products, orders, refunds,
complaints, and deliveries. Product knowledge comes from a local vector index
built over manuals, FAQs, and policy documents.

Example usage:
  shopagent ingest ./data   # Build the retrieval index from document collections
  shopagent serve           # Start the HTTP API`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environments export variables directly
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := logging.LogLevelInfo
		if cfg.LogLevel == "debug" {
			level = logging.LogLevelDebug
		}
		logger = logging.NewLogger(&logging.LoggerConfig{
			Level:     level,
			Format:    cfg.LogFormat,
			Output:    os.Stdout,
			Component: "shopagent",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shopagent.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
}

func exitErr(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
