package models

import (
	"time"
)

// ScheduledPostStatus represents the lifecycle state of a deferred publication.
type ScheduledPostStatus string

const (
	// ScheduledPostStatusQueued indicates the publication is waiting for its target time.
	ScheduledPostStatusQueued ScheduledPostStatus = "queued"
	// ScheduledPostStatusProcessing indicates a worker has claimed the publication.
	ScheduledPostStatusProcessing ScheduledPostStatus = "processing"
	// ScheduledPostStatusPublished indicates the post was materialized.
	ScheduledPostStatusPublished ScheduledPostStatus = "published"
	// ScheduledPostStatusFailed indicates a terminal execution failure.
	ScheduledPostStatusFailed ScheduledPostStatus = "failed"
)

// ScheduledPost is a deferred publication: a unit of work persisted at
// submission time and materialized into a Post by the worker at or after
// PublishAt. The image payload is carried base64-encoded so the row is fully
// self-contained across the process boundary.
type ScheduledPost struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	UserID    uint                `gorm:"not null;index" json:"user_id"`
	Content   string              `json:"content"`
	ImageData string              `gorm:"type:text" json:"-"`
	ImageName string              `json:"image_name,omitempty"`
	PublishAt time.Time           `gorm:"not null;index" json:"publish_at"`
	Status    ScheduledPostStatus `gorm:"type:varchar(20);default:'queued';index" json:"status"`
	LastError string              `json:"last_error,omitempty"`
	PostID    *uint               `json:"post_id,omitempty"`
	Attempts  int                 `gorm:"default:0" json:"-"`
	ClaimedAt *time.Time          `json:"-"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ScheduledPost) TableName() string {
	return "scheduled_posts"
}
