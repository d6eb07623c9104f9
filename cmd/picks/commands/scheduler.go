package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/alphaweek/backend/internal/scheduler"
	"github.com/wonny/alphaweek/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the job scheduler",
	Long: `Starts the cron scheduler.

Registered jobs:
  weekly_picks - every Sunday at 12:00 UTC, runs the ranking pipeline
                 for the week that just ended

Re-running an already-processed week is a no-op, so a missed or
restarted scheduler never produces duplicate weeks.

Example:
  go run ./cmd/picks scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AlphaWeek Scheduler ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	sched := scheduler.New(rt.log)

	weeklyJob := jobs.NewWeeklyPicksJob(rt.runner, rt.log)
	if err := sched.AddJob(weeklyJob); err != nil {
		return fmt.Errorf("register weekly job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Println("\n✅ Scheduler running")
	fmt.Printf("  %s  @ %s\n", weeklyJob.Name(), weeklyJob.Schedule())
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down scheduler...")
	return nil
}
