package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyComments lists the authenticated user's own comments, newest first.
func (s *Server) GetMyComments(c *fiber.Ctx) error {
	p, err := parsePagination(c, 10)
	if err != nil {
		return errSilence(err)
	}

	comments, err := s.commentService.ListOwnComments(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(comments)
}

// GetComment returns one of the authenticated user's own comments. Comments
// owned by others are reported as missing rather than forbidden.
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	comment, err := s.commentService.GetComment(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(comment)
}

type updateCommentRequest struct {
	Message string `json:"message" form:"message"`
}

// UpdateComment edits a comment's message. Owner only.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	var req updateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: id,
		Message:   req.Message,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment. Owner only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: id,
	}); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
