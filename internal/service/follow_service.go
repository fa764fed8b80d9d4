package service

import (
	"context"
	"fmt"

	"murmur/internal/models"
	"murmur/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow adds a directed edge from actor to target and returns a confirmation
// message. Re-following is a no-op; following yourself is allowed.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uint) (string, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return "", err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	if err := s.followRepo.Follow(ctx, actorID, targetID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Add follower: %s to: %s", actor.Email, target.Email), nil
}

// Unfollow removes the edge from actor to target. Unfollowing someone you do
// not follow is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uint) (string, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return "", err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	if err := s.followRepo.Unfollow(ctx, actorID, targetID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Delete follower: %s from: %s", actor.Email, target.Email), nil
}

// Followers lists the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// FollowedBy lists the users that userID follows.
func (s *FollowService) FollowedBy(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.FollowedBy(ctx, userID)
}
