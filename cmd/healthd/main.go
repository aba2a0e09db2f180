package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caffeinatedprojects/networkr-companion/internal/api"
	"github.com/caffeinatedprojects/networkr-companion/internal/config"
	"github.com/caffeinatedprojects/networkr-companion/internal/logging"
	"github.com/caffeinatedprojects/networkr-companion/internal/metrics"
)

func main() {
	logger := logging.New("healthd")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if !config.EnvSite().Configured() {
		logger.Printf("%s or %s not set; /%s/health will answer 500 until both are present",
			config.EnvWebsiteID, config.EnvSecret, cfg.Namespace)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := api.NewRouter(cfg, config.EnvSite, metrics.New(api.Version))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("Starting server on %s (namespace /%s)", cfg.ListenAddr, cfg.Namespace)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exiting")
}
