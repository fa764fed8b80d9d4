// Package scheduler executes deferred publications from the durable queue.
package scheduler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/notifications"
	"murmur/internal/observability"
	"murmur/internal/repository"
	"murmur/internal/storage"

	"gorm.io/gorm"
)

const (
	defaultPollInterval = time.Second
	defaultStaleAfter   = 10 * time.Minute
	requeueEvery        = time.Minute
)

// Worker polls the scheduled_posts queue and materializes due rows into
// posts. Claims are atomic, so any number of workers can run concurrently.
type Worker struct {
	scheduleRepo repository.ScheduleRepository
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	store        *storage.ImageStore
	notifier     *notifications.Notifier

	pollInterval time.Duration
	staleAfter   time.Duration
	once         sync.Once
}

// NewWorker wires a worker against the given repositories. notifier may be nil.
func NewWorker(
	scheduleRepo repository.ScheduleRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	store *storage.ImageStore,
	notifier *notifications.Notifier,
) *Worker {
	return &Worker{
		scheduleRepo: scheduleRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
		store:        store,
		notifier:     notifier,
		pollInterval: defaultPollInterval,
		staleAfter:   defaultStaleAfter,
	}
}

// SetPollInterval overrides the idle poll interval.
func (w *Worker) SetPollInterval(d time.Duration) {
	if d > 0 {
		w.pollInterval = d
	}
}

// Start runs the polling loop on a new goroutine. Safe to call more than once.
func (w *Worker) Start(ctx context.Context) {
	w.once.Do(func() {
		go w.loop(ctx)
	})
}

func (w *Worker) loop(ctx context.Context) {
	middleware.Logger.Info("scheduler worker started",
		slog.Duration("poll_interval", w.pollInterval),
		slog.Duration("stale_after", w.staleAfter),
	)

	w.requeueStale(ctx)
	lastRequeue := time.Now().UTC()

	for {
		if ctx.Err() != nil {
			middleware.Logger.Info("scheduler worker stopped")
			return
		}
		if time.Since(lastRequeue) >= requeueEvery {
			w.requeueStale(ctx)
			lastRequeue = time.Now().UTC()
		}

		processed, err := w.RunOnce(ctx)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "scheduler poll failed", slog.String("error", err.Error()))
			if !sleepContext(ctx, w.pollInterval) {
				return
			}
			continue
		}
		if !processed {
			if !sleepContext(ctx, w.pollInterval) {
				return
			}
		}
	}
}

// RunOnce claims and executes at most one due publication. Returns false when
// the queue had nothing due. Execution failures are terminal for the row and
// are not returned as errors.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	sp, err := w.scheduleRepo.ClaimNextDue(ctx, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if execErr := w.execute(ctx, sp); execErr != nil {
		reason := classifyFailure(execErr)
		observability.ScheduledPostsFailed.WithLabelValues(reason).Inc()
		middleware.Logger.ErrorContext(ctx, "scheduled post failed",
			slog.Any("scheduled_post_id", sp.ID),
			slog.Any("user_id", sp.UserID),
			slog.String("reason", reason),
			slog.String("error", execErr.Error()),
		)
		if markErr := w.scheduleRepo.MarkFailed(ctx, sp.ID, execErr.Error()); markErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to mark scheduled post as failed",
				slog.Any("scheduled_post_id", sp.ID),
				slog.String("error", markErr.Error()),
			)
		}
	}
	return true, nil
}

// execute materializes one claimed publication into a post.
func (w *Worker) execute(ctx context.Context, sp *models.ScheduledPost) error {
	// The owner may have been deleted between submission and execution.
	if _, err := w.userRepo.GetByID(ctx, sp.UserID); err != nil {
		return fmt.Errorf("owner lookup: %w", err)
	}

	var imagePath string
	if sp.ImageData != "" {
		raw, err := base64.StdEncoding.DecodeString(sp.ImageData)
		if err != nil {
			return fmt.Errorf("decode image payload: %w", err)
		}
		imagePath, err = w.store.Save(raw, sp.ImageName)
		if err != nil {
			return fmt.Errorf("store image: %w", err)
		}
	}

	post := &models.Post{
		Content: sp.Content,
		Image:   imagePath,
		UserID:  sp.UserID,
	}
	if err := w.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	if err := w.scheduleRepo.MarkPublished(ctx, sp.ID, post.ID); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}

	observability.ScheduledPostsPublished.Inc()
	observability.PublishDelay.Observe(time.Since(sp.PublishAt).Seconds())

	if w.notifier != nil {
		if err := w.notifier.PublishPostPublished(ctx, sp.UserID, post.ID); err != nil {
			middleware.Logger.WarnContext(ctx, "post published notification failed",
				slog.Any("post_id", post.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	middleware.Logger.InfoContext(ctx, "scheduled post published",
		slog.Any("scheduled_post_id", sp.ID),
		slog.Any("post_id", post.ID),
		slog.Any("user_id", sp.UserID),
	)
	return nil
}

func (w *Worker) requeueStale(ctx context.Context) {
	n, err := w.scheduleRepo.RequeueStaleProcessing(ctx, w.staleAfter)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "stale requeue failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		observability.ScheduledPostsRequeued.Add(float64(n))
		middleware.Logger.WarnContext(ctx, "requeued stale scheduled posts", slog.Int64("count", n))
	}
}

func classifyFailure(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return "missing_owner"
		case "VALIDATION_ERROR":
			return "invalid_payload"
		}
	}
	return "internal"
}

// sleepContext sleeps for d or until ctx is done. Returns false on ctx done.
func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
