package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/alphaweek/backend/internal/auth"
	"github.com/wonny/alphaweek/backend/internal/entitlement"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// PicksHandler handles picks API endpoints
// ⭐ SSOT: picks API handlers live in this struct and only this struct
type PicksHandler struct {
	service *entitlement.Service
	logger  *logger.Logger
}

// NewPicksHandler creates a new picks handler
func NewPicksHandler(service *entitlement.Service, log *logger.Logger) *PicksHandler {
	return &PicksHandler{
		service: service,
		logger:  log,
	}
}

// GetCurrent returns the latest week's picks for the caller
// GET /api/picks/current
func (h *PicksHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.UserID(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp, err := h.service.CurrentPicks(ctx, userID, time.Now().UTC())
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve current picks")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve picks")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
