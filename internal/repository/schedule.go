package repository

import (
	"context"
	"errors"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository defines storage operations for deferred publications.
// Claiming moves a row from queued to processing so that concurrent workers
// never execute the same publication twice while it is in flight.
type ScheduleRepository interface {
	Create(ctx context.Context, sp *models.ScheduledPost) error
	GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.ScheduledPost, error)
	ClaimNextDue(ctx context.Context, now time.Time) (*models.ScheduledPost, error)
	MarkPublished(ctx context.Context, id uint, postID uint) error
	MarkFailed(ctx context.Context, id uint, errMsg string) error
	RequeueStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository returns a repository implementation for scheduled posts.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, sp *models.ScheduledPost) error {
	if err := r.db.WithContext(ctx).Create(sp).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error) {
	var sp models.ScheduledPost
	if err := r.db.WithContext(ctx).First(&sp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ScheduledPost", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &sp, nil
}

func (r *scheduleRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.ScheduledPost, error) {
	var sps []*models.ScheduledPost
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("publish_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&sps).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return sps, nil
}

// ClaimNextDue atomically claims the oldest queued publication whose publish
// time has passed. Returns gorm.ErrRecordNotFound when nothing is due.
func (r *scheduleRepository) ClaimNextDue(ctx context.Context, now time.Time) (*models.ScheduledPost, error) {
	if r.db.Name() == "postgres" {
		var claimed models.ScheduledPost
		err := r.db.WithContext(ctx).Raw(`
WITH picked AS (
	SELECT id
	FROM scheduled_posts
	WHERE status = ? AND publish_at <= ?
	ORDER BY publish_at, id
	FOR UPDATE SKIP LOCKED
	LIMIT 1
)
UPDATE scheduled_posts s
SET status = ?,
    claimed_at = NOW(),
    attempts = s.attempts + 1,
    last_error = ''
FROM picked
WHERE s.id = picked.id
RETURNING s.*
`, models.ScheduledPostStatusQueued, now, models.ScheduledPostStatusProcessing).Scan(&claimed).Error
		if err != nil {
			return nil, err
		}
		if claimed.ID == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return &claimed, nil
	}

	// SQLite/test fallback (best-effort atomicity).
	var claimed models.ScheduledPost
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND publish_at <= ?", models.ScheduledPostStatusQueued, now).
			Order("publish_at ASC, id ASC").
			First(&claimed).Error; err != nil {
			return err
		}
		res := tx.Model(&models.ScheduledPost{}).
			Where("id = ? AND status = ?", claimed.ID, models.ScheduledPostStatusQueued).
			Updates(map[string]interface{}{
				"status":     models.ScheduledPostStatusProcessing,
				"claimed_at": time.Now().UTC(),
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": "",
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&claimed, claimed.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &claimed, nil
}

func (r *scheduleRepository) MarkPublished(ctx context.Context, id uint, postID uint) error {
	return r.db.WithContext(ctx).Model(&models.ScheduledPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ScheduledPostStatusPublished,
			"post_id":    postID,
			"last_error": "",
			"claimed_at": nil,
		}).Error
}

func (r *scheduleRepository) MarkFailed(ctx context.Context, id uint, errMsg string) error {
	if len(errMsg) > 4000 {
		errMsg = errMsg[:4000]
	}
	return r.db.WithContext(ctx).Model(&models.ScheduledPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ScheduledPostStatusFailed,
			"last_error": errMsg,
			"claimed_at": nil,
		}).Error
}

// RequeueStaleProcessing returns publications stuck in processing to the queue.
// Rows older than olderThan are assumed to belong to a crashed worker.
func (r *scheduleRepository) RequeueStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	res := r.db.WithContext(ctx).Model(&models.ScheduledPost{}).
		Where("status = ? AND claimed_at IS NOT NULL AND claimed_at < ?", models.ScheduledPostStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":     models.ScheduledPostStatusQueued,
			"claimed_at": nil,
		})
	return res.RowsAffected, res.Error
}
