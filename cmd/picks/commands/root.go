package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "picks",
	Short: "AlphaWeek - weekly ranked stock picks service",
	Long: `AlphaWeek Unified CLI

Weekly stock ranking service: headline sentiment, event impact and
price momentum per ticker, aggregated into one score, top picks
persisted once per week and served behind a subscription gate.

Usage:
  go run ./cmd/picks [command]

Examples:
  go run ./cmd/picks api
  go run ./cmd/picks scheduler
  go run ./cmd/picks run`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
