// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents an account. Email is the login key; there is no separate
// username field.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"unique;not null;index" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Bio            string         `json:"bio"`
	Location       string         `json:"location"`
	ProfilePicture string         `json:"profile_picture"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// FollowersCount is computed at query time; never written by the application
	FollowersCount int `gorm:"->" json:"followers_count"`
	// FollowedByCount is computed at query time; never written by the application
	FollowedByCount int `gorm:"->" json:"followed_by_count"`
}

// FullName returns the display name derived from first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
