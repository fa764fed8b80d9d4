package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowReturnsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFollowService(env.follows, env.users)
	actor := env.createUser(t, "actor@example.com")
	target := env.createUser(t, "target@example.com")

	msg, err := svc.Follow(testCtx(), actor.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Add follower: actor@example.com to: target@example.com", msg)

	// Re-following yields the same confirmation without creating a second edge.
	again, err := svc.Follow(testCtx(), actor.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, msg, again)
}

func TestFollowMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFollowService(env.follows, env.users)
	actor := env.createUser(t, "actor@example.com")

	_, err := svc.Follow(testCtx(), actor.ID, 404404)
	assertAppErrCode(t, err, "NOT_FOUND")
}

func TestUnfollowReturnsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFollowService(env.follows, env.users)
	actor := env.createUser(t, "actor@example.com")
	target := env.createUser(t, "target@example.com")

	_, err := svc.Follow(testCtx(), actor.ID, target.ID)
	require.NoError(t, err)

	msg, err := svc.Unfollow(testCtx(), actor.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delete follower: actor@example.com from: target@example.com", msg)
}

func TestFollowListingsRequireExistingUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFollowService(env.follows, env.users)

	_, err := svc.Followers(testCtx(), 404404)
	assertAppErrCode(t, err, "NOT_FOUND")

	_, err = svc.FollowedBy(testCtx(), 404404)
	assertAppErrCode(t, err, "NOT_FOUND")
}
