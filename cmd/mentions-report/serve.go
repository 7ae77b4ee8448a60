package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/monitoring"
	"github.com/azure/mentions-sentiment-report/internal/scheduler"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type metricsProvider interface {
	GetMetrics() string
}

type reportTrigger interface {
	Trigger()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run reports on a schedule and expose health, metrics and trigger endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, true)

			logrus.Info("Starting mentions report service")

			// Reports are delivered through notifications; only logs go to the console
			service := buildService(cfg, monitoring.WithOutput(io.Discard))

			schedulerService, err := scheduler.NewService(cfg, service)
			if err != nil {
				return err
			}
			if err := schedulerService.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			// Runs after server shutdown, so no new triggers can arrive while it waits
			defer schedulerService.Stop()

			server := &http.Server{
				Addr:         fmt.Sprintf(":%s", cfg.Port),
				Handler:      newRouter(service, schedulerService),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				logrus.Infof("HTTP server starting on port %s", cfg.Port)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logrus.Fatalf("HTTP server failed: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logrus.Info("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.Errorf("Server forced to shutdown: %v", err)
			}

			logrus.Info("Server exited")
			return nil
		},
	}
}

func newRouter(metrics metricsProvider, trigger reportTrigger) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(metrics)).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(trigger)).Methods("POST")
	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(provider metricsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(provider.GetMetrics()))
	}
}

// triggerHandler starts a run in the background; runs queue behind any in progress
func triggerHandler(trigger reportTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trigger.Trigger()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"Report run triggered"}`))
	}
}
