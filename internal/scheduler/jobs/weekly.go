package jobs

import (
	"context"
	"time"

	"github.com/wonny/alphaweek/backend/internal/pipeline"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// WeeklyPicksJob runs the ranking pipeline every Sunday at noon UTC,
// after the scanned week has fully elapsed
type WeeklyPicksJob struct {
	runner *pipeline.Runner
	logger *logger.Logger
}

// NewWeeklyPicksJob creates a new weekly picks job
func NewWeeklyPicksJob(runner *pipeline.Runner, log *logger.Logger) *WeeklyPicksJob {
	return &WeeklyPicksJob{
		runner: runner,
		logger: log,
	}
}

// Name returns the job name
func (j *WeeklyPicksJob) Name() string {
	return "weekly_picks"
}

// Schedule returns the cron schedule: every Sunday at 12:00 UTC
func (j *WeeklyPicksJob) Schedule() string {
	return "0 0 12 * * 0"
}

// Run executes the weekly picks pipeline
func (j *WeeklyPicksJob) Run(ctx context.Context) error {
	result, err := j.runner.Run(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	if result.AlreadyProcessed {
		j.logger.WithFields(map[string]interface{}{
			"week_start": result.Window.StartDate(),
			"week_end":   result.Window.EndDate(),
		}).Info("Weekly picks window already processed")
	}

	return nil
}
