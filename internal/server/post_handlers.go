package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed lists posts by the viewer and everyone the viewer follows, oldest
// first. The tag query parameter filters by content substring.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p, err := parsePagination(c, 10)
	if err != nil {
		return errSilence(err)
	}

	posts, err := s.postService.ListFeed(c.UserContext(), service.ListFeedInput{
		ViewerID:      currentUserID(c),
		ContentFilter: c.Query("tag"),
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(posts)
}

type createPostRequest struct {
	Content string `json:"content" form:"content"`
	PostAt  string `json:"post_at" form:"post_at"`
}

// CreatePost publishes a post immediately, or enqueues a deferred publication
// when the request carries a post_at timestamp. Deferred requests return a
// textual acknowledgment instead of the resource.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, imageName, err := readFormFile(c, "image")
	if err != nil {
		return mapServiceError(c, err)
	}

	userID := currentUserID(c)

	if strings.TrimSpace(req.PostAt) != "" {
		publishAt, perr := time.Parse(time.RFC3339, req.PostAt)
		if perr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid post_at, expected an RFC 3339 timestamp"))
		}

		sp, serr := s.scheduleService.SchedulePost(c.UserContext(), service.SchedulePostInput{
			UserID:    userID,
			Content:   req.Content,
			Image:     image,
			ImageName: imageName,
			PublishAt: publishAt.UTC(),
		})
		if serr != nil {
			return mapServiceError(c, serr)
		}
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Post scheduled for %s", sp.PublishAt.Format(time.RFC3339)),
		})
	}

	var imagePath string
	if image != nil {
		imagePath, err = s.imageStore.Save(image, imageName)
		if err != nil {
			return mapServiceError(c, err)
		}
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  userID,
		Content: req.Content,
		Image:   imagePath,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	if s.notifier != nil {
		if nerr := s.notifier.PublishPostCreated(c.UserContext(), userID, post.ID); nerr != nil {
			middleware.Logger.WarnContext(c.UserContext(), "post created notification failed",
				slog.Any("post_id", post.ID),
				slog.String("error", nerr.Error()),
			)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post with aggregates. Works without a token; the
// liked flag is only meaningful for authenticated viewers.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	viewerID, _ := s.optionalUserID(c)
	post, err := s.postService.GetPost(c.UserContext(), id, viewerID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

type updatePostRequest struct {
	Content string `json:"content" form:"content"`
}

// UpdatePost edits a post's content. Owner only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Content: req.Content,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post together with its comments and likes. Owner only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AttachPostImage stores an uploaded image and attaches it to the post.
// Owner only. Multipart field name: image.
func (s *Server) AttachPostImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	content, filename, err := readFormFile(c, "image")
	if err != nil {
		return mapServiceError(c, err)
	}
	if content == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	stored, err := s.imageStore.Save(content, filename)
	if err != nil {
		return mapServiceError(c, err)
	}

	post, err := s.postService.AttachImage(c.UserContext(), currentUserID(c), id, stored)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

type createCommentRequest struct {
	Message string `json:"message" form:"message"`
}

// CommentOnPost adds a comment to a post. Any authenticated user may comment.
func (s *Server) CommentOnPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Message: req.Message,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(comment)
}

// GetPostComments lists a post's comments, newest first.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	comments, err := s.commentService.ListPostComments(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(comments)
}

// LikePost records a like for the authenticated user. Idempotent.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	if err := s.postService.LikePost(c.UserContext(), currentUserID(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikePost removes a like. Idempotent.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	if err := s.postService.UnlikePost(c.UserContext(), currentUserID(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetLikedPosts lists posts the authenticated user has liked, newest first.
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	p, err := parsePagination(c, 10)
	if err != nil {
		return errSilence(err)
	}

	posts, err := s.postService.GetLikedPosts(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetScheduledPosts lists the authenticated user's pending publications.
func (s *Server) GetScheduledPosts(c *fiber.Ctx) error {
	p, err := parsePagination(c, 10)
	if err != nil {
		return errSilence(err)
	}

	scheduled, err := s.scheduleService.ListScheduled(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(scheduled)
}
