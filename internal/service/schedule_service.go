package service

import (
	"context"
	"encoding/base64"
	"time"

	"murmur/internal/models"
	"murmur/internal/repository"
)

type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
	userRepo     repository.UserRepository
}

type SchedulePostInput struct {
	UserID    uint
	Content   string
	Image     []byte
	ImageName string
	PublishAt time.Time
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository, userRepo repository.UserRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, userRepo: userRepo}
}

// SchedulePost enqueues a deferred publication. The image bytes are captured
// base64-encoded in the row so the worker process needs nothing beyond the
// database to execute it. A publish time in the past is accepted and becomes
// due on the next worker poll.
func (s *ScheduleService) SchedulePost(ctx context.Context, in SchedulePostInput) (*models.ScheduledPost, error) {
	if in.PublishAt.IsZero() {
		return nil, models.NewValidationError("post_at is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	sp := &models.ScheduledPost{
		UserID:    in.UserID,
		Content:   in.Content,
		PublishAt: in.PublishAt.UTC(),
		Status:    models.ScheduledPostStatusQueued,
	}
	if len(in.Image) > 0 {
		sp.ImageData = base64.StdEncoding.EncodeToString(in.Image)
		sp.ImageName = in.ImageName
	}

	if err := s.scheduleRepo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// ListScheduled lists the caller's pending and settled publications.
func (s *ScheduleService) ListScheduled(ctx context.Context, userID uint, limit, offset int) ([]*models.ScheduledPost, error) {
	return s.scheduleRepo.ListByUser(ctx, userID, limit, offset)
}
