// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"murmur/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo users, a follow mesh, posts, comments
// and likes. Development and testing only.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created", len(users))

	if err := createFollowMesh(db, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createCommentsAndLikes(db, users, posts); err != nil {
		return fmt.Errorf("failed to create comments and likes: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, follows, scheduled_posts, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		users = append(users, &models.User{
			Email:     fmt.Sprintf("%s.%s.%d@%s", first, last, gofakeit.Number(100, 999), gofakeit.DomainName()),
			Password:  string(hashedPassword),
			FirstName: first,
			LastName:  last,
			Bio:       gofakeit.Sentence(10),
			Location:  gofakeit.City(),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createFollowMesh(db *gorm.DB, users []*models.User) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	var edges []models.Follow
	for _, u := range users {
		for _, v := range users {
			if u.ID == v.ID {
				continue
			}
			if r.Intn(100) < 20 {
				edges = append(edges, models.Follow{FollowerID: u.ID, FolloweeID: v.ID})
			}
		}
	}
	if len(edges) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error
}

func createPosts(db *gorm.DB, users []*models.User, n int) ([]*models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			Content: gofakeit.Paragraph(1, 3, 5, "\n"),
			UserID:  author.ID,
		}
		// realistic created_at spread over the last 90 days
		daysBack := r.Intn(90)
		hoursBack := r.Intn(24)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createCommentsAndLikes(db *gorm.DB, users []*models.User, posts []*models.Post) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var comments []models.Comment
	var likes []models.Like
	for _, p := range posts {
		for _, u := range users {
			if r.Intn(100) < 10 {
				comments = append(comments, models.Comment{
					Message: gofakeit.Sentence(8),
					UserID:  u.ID,
					PostID:  p.ID,
				})
			}
			if r.Intn(100) < 25 {
				likes = append(likes, models.Like{UserID: u.ID, PostID: p.ID})
			}
		}
	}

	if len(comments) > 0 {
		if err := db.Create(&comments).Error; err != nil {
			return err
		}
	}
	if len(likes) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
			return err
		}
	}
	return nil
}
