package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the weekly picks pipeline once",
	Long: `Runs the ranking pipeline immediately for the week ending yesterday.

Safe to repeat: an already-processed week is a no-op.

Example:
  go run ./cmd/picks run
  go run ./cmd/picks run --as-of 2026-01-11`,
	RunE: runPipeline,
}

var runAsOf string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runAsOf, "as-of", "", "run as of this date (YYYY-MM-DD, default today)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AlphaWeek Pipeline Run ===")

	now := time.Now().UTC()
	if runAsOf != "" {
		parsed, err := time.Parse("2006-01-02", runAsOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of date (expected YYYY-MM-DD): %w", err)
		}
		now = parsed
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.runner.Run(context.Background(), now)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	fmt.Printf("\nWindow: %s .. %s\n", result.Window.StartDate(), result.Window.EndDate())

	if result.AlreadyProcessed {
		fmt.Println("Already processed, nothing to do.")
		return nil
	}

	fmt.Printf("Scanned %d tickers, scored %d, skipped %d\n", result.Scanned, result.Scored, len(result.Skipped))
	for ticker, reason := range result.Skipped {
		fmt.Printf("  skipped %-6s %s\n", ticker, reason)
	}

	fmt.Printf("\nWeek %d picks:\n", result.WeekID)
	for _, pick := range result.Picks {
		fmt.Printf("  #%d %-6s score=%.4f\n", pick.Rank, pick.Ticker, pick.Score)
	}

	fmt.Printf("\n✅ Completed in %s\n", result.Duration)
	return nil
}
