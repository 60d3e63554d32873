package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/vennlabs/pulseboard/config"
	"github.com/vennlabs/pulseboard/internal/archive"
	"github.com/vennlabs/pulseboard/internal/bookmarks"
	"github.com/vennlabs/pulseboard/internal/clients"
	"github.com/vennlabs/pulseboard/internal/clients/kafka_client"
	"github.com/vennlabs/pulseboard/internal/logging"
	"github.com/vennlabs/pulseboard/internal/monitoring"
	"github.com/vennlabs/pulseboard/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	scorer, err := sentiment.NewScorer(os.Getenv("SENTIMENT_ENGINE"))
	if err != nil {
		slog.Error("[Main] Failed to configure sentiment engine",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer, ok := scorer.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHandler(scorer)

	// The archive pipeline is optional; a missing broker must never keep the
	// analyze path from serving.
	if os.Getenv("KAFKA_BROKER") != "" {
		cfg := kafka_client.GetKafkaConfig()
		var initErr error
		for i := 0; i < 3; i++ {
			initErr = kafka_client.InitKafkaProducer(cfg)
			if initErr == nil {
				break
			}
			slog.Warn("[Main] Kafka init failed, retrying...",
				slog.String("error", initErr.Error()))
			time.Sleep(5 * time.Second)
		}
		if initErr == nil {
			h.archive = archive.NewPublisher()
			defer kafka_client.CloseKafkaProducer()
		} else {
			slog.Error("[Main] Archiving disabled: Kafka unavailable",
				slog.String("error", initErr.Error()))
		}
	}

	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		clients.InitValkey()
		defer clients.CloseValkey()
		h.bookmarks = bookmarks.NewStore(clients.GetValkeyClient())
	}

	if scorer.Name() == sentiment.EngineRemote {
		scoringHealthy := &atomic.Bool{}
		scoringHealthy.Store(true)
		go monitoring.MonitorScoringServiceHealth(ctx, scoringHealthy)
		h.scoringHealthy = scoringHealthy
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("[Main] Server starting",
			slog.String("addr", addr),
			slog.String("engine", scorer.Name()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("[Main] Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("[Main] Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("[Main] Server stopped")
}
