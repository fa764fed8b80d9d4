// Package service contains the business logic layer between handlers and repositories.
package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

const maxPostContentLen = 50000

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID  uint
	Content string
	Image   string
}

type ListFeedInput struct {
	ViewerID      uint
	ContentFilter string
	Limit         int
	Offset        int
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost stores an immediate publication. Empty content is allowed.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Content: in.Content,
		Image:   in.Image,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListFeed returns the viewer's feed: own posts plus posts from followed
// authors, oldest first.
func (s *PostService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Post, error) {
	return s.postRepo.ListFeed(ctx, in.ViewerID, in.ContentFilter, in.Limit, in.Offset)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) GetLikedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListLikedBy(ctx, userID, limit, offset)
}

// UpdatePost edits a post's text. Only the author may update, and only the
// content field is mutable after creation.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	post.Content = in.Content

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// AttachImage sets the stored image reference on a post. Only the author may
// attach an image.
func (s *PostService) AttachImage(ctx context.Context, userID, postID uint, image string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	post.Image = image
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost records a like. Repeating a like is a no-op.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// UnlikePost removes a like. Unliking a post that was never liked is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Unlike(ctx, userID, postID)
}
