package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"murmur/internal/bootstrap"
	"murmur/internal/config"
	"murmur/internal/notifications"
	"murmur/internal/observability"
	"murmur/internal/repository"
	"murmur/internal/scheduler"
	"murmur/internal/server"
	"murmur/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "murmur-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TraceExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TraceSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") == "true",
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// In development the publication worker runs in-process so a single
	// binary gives the full experience. Deployments run cmd/worker.
	if strings.EqualFold(cfg.Env, "development") {
		var notifier *notifications.Notifier
		if redisClient != nil {
			notifier = notifications.NewNotifier(redisClient)
			// Echo notification traffic to the log; there is no delivery
			// frontend in a local setup.
			if serr := notifier.StartPatternSubscriber(workerCtx, func(channel, payload string) {
				log.Printf("notification on %s: %s", channel, payload)
			}); serr != nil {
				log.Printf("notification subscriber failed: %v", serr)
			}
		}
		w := scheduler.NewWorker(
			repository.NewScheduleRepository(db),
			repository.NewPostRepository(db),
			repository.NewUserRepository(db),
			storage.NewImageStore(cfg.UploadDir),
			notifier,
		)
		if d, derr := time.ParseDuration(cfg.WorkerInterval); derr == nil {
			w.SetPollInterval(d)
		}
		w.Start(workerCtx)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Tracing shutdown error: %v", err)
	}
}
