package service

import (
	"context"
	"strings"

	"murmur/internal/models"
	"murmur/internal/repository"
)

const maxCommentLen = 2000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Message string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Message   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment adds a comment to any visible post. Any authenticated user may
// comment; ownership only gates update and delete.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxCommentLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Message: in.Message,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) GetComment(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}

// ListOwnComments lists the caller's comments, newest first.
func (s *CommentService) ListOwnComments(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error) {
	return s.commentRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *CommentService) ListPostComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}

	if strings.TrimSpace(in.Message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxCommentLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}
	comment.Message = in.Message

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, in.CommentID)
}
