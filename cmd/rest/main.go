package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audio-eval-be/internal/bootstrap"
	"audio-eval-be/internal/config"
	"audio-eval-be/internal/server"
	"audio-eval-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Unable to start: %v", err)
	}
	defer container.Close()

	// 3. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Otel, container.Logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("Main", "Feedback consumer not started", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("Main", "Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
