package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

type profileResponse struct {
	*models.User
	FullName string `json:"full_name"`
}

func newProfileResponse(u *models.User) profileResponse {
	return profileResponse{User: u, FullName: u.FullName()}
}

// GetProfiles lists all profiles with follow counts. The name query parameter
// filters by substring over email, first name and last name. The listing is
// intentionally unpaged.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	users, err := s.userService.ListProfiles(c.UserContext(), c.Query("name"), 0, 0)
	if err != nil {
		return mapServiceError(c, err)
	}

	out := make([]profileResponse, 0, len(users))
	for i := range users {
		out = append(out, newProfileResponse(&users[i]))
	}
	return c.JSON(out)
}

// GetMyProfile returns the authenticated user's own profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(newProfileResponse(user))
}

// GetProfile returns a single profile with follow counts.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	user, err := s.userService.GetProfile(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(newProfileResponse(user))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
}

// UpdateProfile edits the authenticated user's own profile. Email and
// full_name are read-only.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}
	if id != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only edit your own profile"))
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:    id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Location:  req.Location,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(newProfileResponse(user))
}

// DeleteProfile removes the authenticated user's own account.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}
	if id != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only delete your own account"))
	}

	if err := s.userService.DeleteAccount(c.UserContext(), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FollowProfile adds a follow edge from the authenticated user to :id.
// Repeated follows are no-ops and return the same confirmation.
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	msg, err := s.followService.Follow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// UnfollowProfile removes the follow edge. Idempotent.
func (s *Server) UnfollowProfile(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	msg, err := s.followService.Unfollow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// GetProfileFollowers lists the users following :id.
func (s *Server) GetProfileFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	users, err := s.followService.Followers(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}

	out := make([]profileResponse, 0, len(users))
	for i := range users {
		out = append(out, newProfileResponse(&users[i]))
	}
	return c.JSON(out)
}

// GetProfileFollowedBy lists the users :id follows.
func (s *Server) GetProfileFollowedBy(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	users, err := s.followService.FollowedBy(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}

	out := make([]profileResponse, 0, len(users))
	for i := range users {
		out = append(out, newProfileResponse(&users[i]))
	}
	return c.JSON(out)
}

// UploadProfilePicture stores a new profile picture for the authenticated
// user. Multipart field name: image.
func (s *Server) UploadProfilePicture(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}
	if id != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only change your own picture"))
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

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:         id,
		ProfilePicture: &stored,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(newProfileResponse(user))
}

// GetProfilePicture serves the stored profile picture file.
func (s *Server) GetProfilePicture(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	if user.ProfilePicture == "" {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Picture for user", id))
	}

	path, err := s.imageStore.Resolve(user.ProfilePicture)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.SendFile(path)
}

// GetProfilePosts lists a user's posts, newest first.
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errSilence(err)
	}
	p, err := parsePagination(c, 10)
	if err != nil {
		return errSilence(err)
	}

	posts, err := s.postService.GetUserPosts(c.UserContext(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(posts)
}
