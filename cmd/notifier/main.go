package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"roomly/internal/notifier"
	"roomly/pkg/config"
	"roomly/pkg/events"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier service")

	n := notifier.New(cfg.Log)
	consumer, err := events.NewConsumer(cfg, n.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create event consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close event consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Event consumer stopped", "error", err)
	}

	cfg.Log.Info("Notifier stopped gracefully")
}
