package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arraypress/edd-register-recount-tools/config"
	"github.com/arraypress/edd-register-recount-tools/internal/logger"
	"github.com/arraypress/edd-register-recount-tools/internal/recount"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "recount",
	Short: "Batch recount tool registry for the store admin",
	Long: `Registers batch recount tools and hosts the admin batch-export
endpoints that drive them. Tools run one page per request; the admin UI
polls the step endpoint until a tool reports completion.`,
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	configPath, _ := rootCmd.PersistentFlags().GetString("config")

	loaded, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	logger.Init(verbose || cfg.Logging.Verbose)
}

// newRegistry builds a registry bounded by the configured batch sizes
func newRegistry() *recount.Registry {
	return recount.NewRegistryWithDefaults(nil, recount.Defaults{
		BatchSize:    cfg.Batch.DefaultBatchSize,
		MaxBatchSize: cfg.Batch.MaxBatchSize,
	})
}
