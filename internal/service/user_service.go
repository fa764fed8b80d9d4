package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID         uint
	FirstName      *string
	LastName       *string
	Bio            *string
	Location       *string
	ProfilePicture *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListProfiles lists users with follow counts, optionally filtered by a
// case-insensitive substring over email, first name or last name.
func (s *UserService) ListProfiles(ctx context.Context, nameFilter string, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, nameFilter, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns a user annotated with follow counts.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, id)
}

// UpdateProfile applies a partial update to the caller's own profile. Nil
// fields are left untouched so an empty string can still clear a value.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 150

	if in.FirstName != nil {
		if len(*in.FirstName) > maxNameLen {
			return nil, models.NewValidationError("First name too long (max 150 characters)")
		}
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if len(*in.LastName) > maxNameLen {
			return nil, models.NewValidationError("Last name too long (max 150 characters)")
		}
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the caller's own account.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
