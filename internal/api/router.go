package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/alphaweek/backend/internal/api/handlers"
	"github.com/wonny/alphaweek/backend/internal/auth"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routing configuration lives in this function and only this function
func NewRouter(
	picksHandler *handlers.PicksHandler,
	billingHandler *handlers.BillingHandler,
	jobsHandler *handlers.JobsHandler,
	verifier auth.UserVerifier,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Unauthenticated endpoints: the webhook is authenticated by its
	// signature, the job trigger is an internal operational surface
	api.HandleFunc("/stripe/webhook", billingHandler.Webhook).Methods("POST")
	api.HandleFunc("/jobs/weekly", jobsHandler.RunWeekly).Methods("POST")

	// Endpoints requiring a resolved user
	authed := api.NewRoute().Subrouter()
	authed.Use(auth.Middleware(verifier, log))
	authed.HandleFunc("/picks/current", picksHandler.GetCurrent).Methods("GET")
	authed.HandleFunc("/billing/checkout", billingHandler.CreateCheckout).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "alphaweek-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
