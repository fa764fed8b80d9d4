package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"murmur/internal/bootstrap"
	"murmur/internal/config"
	"murmur/internal/notifications"
	"murmur/internal/repository"
	"murmur/internal/scheduler"
	"murmur/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	var notifier *notifications.Notifier
	if redisClient != nil {
		notifier = notifications.NewNotifier(redisClient)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Worker shutting down...")
	cancel()

	if sqlDB, derr := db.DB(); derr == nil {
		_ = sqlDB.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
