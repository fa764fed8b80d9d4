package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `json:"content"`
	Image   string `json:"image"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is computed at query time; never written by the application
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is computed at query time; never written by the application
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
