package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/alphaweek/backend/internal/api"
	"github.com/wonny/alphaweek/backend/internal/api/handlers"
	"github.com/wonny/alphaweek/backend/internal/entitlement"
	"github.com/wonny/alphaweek/backend/internal/external/stripe"
	"github.com/wonny/alphaweek/backend/pkg/httputil"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

This command:
- starts the HTTP API server
- serves the current week's picks behind the subscription gate
- handles Stripe checkout and webhooks
- exposes the weekly job trigger

Endpoints:
  GET  /health                   - Health check
  GET  /api/picks/current        - Current week's picks (authenticated)
  POST /api/billing/checkout     - Start subscription checkout (authenticated)
  POST /api/stripe/webhook       - Stripe webhook receiver
  POST /api/jobs/weekly          - Trigger the weekly run

Example:
  go run ./cmd/picks api
  go run ./cmd/picks api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AlphaWeek API Server ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	rt.log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("Initializing API server")

	// Stripe uses its own HTTP client so the scrape rate limiter never
	// delays billing calls
	stripeHTTP := httputil.New(rt.cfg, rt.log)
	stripeClient := stripe.NewClient(stripeHTTP, rt.log, rt.cfg.Stripe)

	picksService := entitlement.NewService(rt.weeks, rt.subs, rt.cache, rt.log)

	picksHandler := handlers.NewPicksHandler(picksService, rt.log)
	billingHandler := handlers.NewBillingHandler(rt.subs, stripeClient, rt.cfg.Stripe, rt.log)
	jobsHandler := handlers.NewJobsHandler(rt.runner, rt.log)

	router := api.NewRouter(picksHandler, billingHandler, jobsHandler, rt.subs, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/picks/current")
	fmt.Println("  POST /api/billing/checkout")
	fmt.Println("  POST /api/stripe/webhook")
	fmt.Println("  POST /api/jobs/weekly")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
