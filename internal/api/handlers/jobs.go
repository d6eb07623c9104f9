package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/alphaweek/backend/internal/pipeline"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// JobsHandler handles operational job triggers
// ⭐ SSOT: job trigger handlers live in this struct and only this struct
type JobsHandler struct {
	runner *pipeline.Runner
	logger *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(runner *pipeline.Runner, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		runner: runner,
		logger: log,
	}
}

// RunWeekly triggers the weekly picks pipeline immediately
// POST /api/jobs/weekly
//
// Safe to call repeatedly: an already-processed window is a no-op.
func (h *JobsHandler) RunWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.Info("Weekly picks run triggered via API")

	result, err := h.runner.Run(ctx, time.Now().UTC())
	if err != nil {
		h.logger.WithError(err).Error("Weekly picks run failed")
		respondError(w, http.StatusInternalServerError, "Weekly run failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
