package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vennlabs/pulseboard/config"
	"github.com/vennlabs/pulseboard/internal/clients"
	"github.com/vennlabs/pulseboard/internal/clients/kafka_client"
	"github.com/vennlabs/pulseboard/internal/consumers"
	"github.com/vennlabs/pulseboard/internal/db"
	"github.com/vennlabs/pulseboard/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Valkey backs batch dedupe; DynamoDB receives the rows. Both are
	// required here, unlike on the server.
	clients.InitValkey()
	defer clients.CloseValkey()
	db.InitDynamoDB()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		slog.Info("[Main] Shutting down archiver...")
		cancel()
	}()

	if err := kafka_client.RunConsumer(ctx, consumers.StartArchiveConsumer); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Main] Archiver stopped")
}
