package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"payment-form/config"
	"payment-form/handlers"
	"payment-form/middleware"
	"payment-form/services/payment"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the payment form over HTTP",
		Long: `Serve the payment form to browsers.

Configuration is read from the environment and an optional .env file.

Examples:
  payment-form serve
  payment-form serve --port 8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Server.Port = port
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SERVER_PORT)")
	return cmd
}

func runServe(cfg *config.Config) error {
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("payment_api", cfg.Payment.BaseURL),
		zap.Duration("request_timeout", cfg.Payment.RequestTimeout),
		zap.String("threeds_return_url", cfg.ThreeDS.ReturnURL),
		zap.Int("cpus", runtime.NumCPU()))

	client := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.RequestTimeout, logger)

	formHandler, err := handlers.NewPaymentFormHandler(client, client, cfg.ThreeDS, handlers.SessionOptions{
		Secret: cfg.Session.Secret,
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment form handler: %w", err)
	}
	defer formHandler.Close()

	var limiter *middleware.RateLimiter
	if cfg.Redis.URL != "" {
		limiter, err = middleware.NewRateLimiter(cfg.Redis.URL, logger)
		if err != nil {
			// the form still works without rate limiting
			logger.Warn("Rate limiting disabled", zap.Error(err))
			limiter = nil
		} else {
			defer limiter.Close()
			logger.Info("Successfully connected to Redis")
		}
	}

	router := mux.NewRouter()
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	router.Use(middleware.LoggingMiddleware(logger))
	if limiter != nil {
		router.Use(limiter.RateLimitMiddleware())
	}

	formHandler.Register(router)

	startTime := time.Now()
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Redis     string `json:"redis"`
			Forms     int    `json:"forms"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Redis:     "disabled",
			Forms:     formHandler.Mounted(),
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		if limiter != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			health.Redis = "connected"
			if err := limiter.Ping(ctx); err != nil {
				health.Status = "degraded"
				health.Redis = "error"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	// WriteTimeout has to outlast a full authorize plus 3DS proxy round trip.
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   2*cfg.Payment.RequestTimeout + 10*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logger.Info("Shutdown signal received, gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited properly")
	return nil
}
