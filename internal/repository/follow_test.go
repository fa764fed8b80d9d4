package repository

import (
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewFollowRepository(db)
	users := createTestUsers(t, db, 2)
	ctx := testCtx()

	require.NoError(t, repo.Follow(ctx, users[0].ID, users[1].ID))
	require.NoError(t, repo.Follow(ctx, users[0].ID, users[1].ID))
	require.NoError(t, repo.Follow(ctx, users[0].ID, users[1].ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	exists, err := repo.Exists(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Direction matters: the reverse edge does not exist.
	exists, err = repo.Exists(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnfollowIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewFollowRepository(db)
	users := createTestUsers(t, db, 2)
	ctx := testCtx()

	require.NoError(t, repo.Follow(ctx, users[0].ID, users[1].ID))
	require.NoError(t, repo.Unfollow(ctx, users[0].ID, users[1].ID))
	// Removing an absent edge is a no-op.
	require.NoError(t, repo.Unfollow(ctx, users[0].ID, users[1].ID))

	exists, err := repo.Exists(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSelfFollowAllowed(t *testing.T) {
	db := testDB(t)
	repo := NewFollowRepository(db)
	user := createTestUser(t, db, "loner@example.com")
	ctx := testCtx()

	require.NoError(t, repo.Follow(ctx, user.ID, user.ID))

	exists, err := repo.Exists(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFollowersAndFollowedBy(t *testing.T) {
	db := testDB(t)
	repo := NewFollowRepository(db)
	users := createTestUsers(t, db, 4)
	ctx := testCtx()

	// users[0] follows users[1] and users[2]; users[3] follows users[0].
	require.NoError(t, repo.Follow(ctx, users[0].ID, users[1].ID))
	require.NoError(t, repo.Follow(ctx, users[0].ID, users[2].ID))
	require.NoError(t, repo.Follow(ctx, users[3].ID, users[0].ID))

	// Followers is the incoming set.
	followers, err := repo.Followers(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, users[3].ID, followers[0].ID)

	// FollowedBy is the outgoing set.
	followedBy, err := repo.FollowedBy(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, followedBy, 2)
	assert.Equal(t, users[1].ID, followedBy[0].ID)
	assert.Equal(t, users[2].ID, followedBy[1].ID)
}

func TestFollowCountsOnProfile(t *testing.T) {
	db := testDB(t)
	followRepo := NewFollowRepository(db)
	userRepo := NewUserRepository(db)
	users := createTestUsers(t, db, 3)
	ctx := testCtx()

	// users[0] follows both others; users[1] follows users[0].
	require.NoError(t, followRepo.Follow(ctx, users[0].ID, users[1].ID))
	require.NoError(t, followRepo.Follow(ctx, users[0].ID, users[2].ID))
	require.NoError(t, followRepo.Follow(ctx, users[1].ID, users[0].ID))

	profile, err := userRepo.GetProfile(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.FollowersCount)
	assert.Equal(t, 2, profile.FollowedByCount)
}

func TestFollowCountDirection(t *testing.T) {
	db := testDB(t)
	followRepo := NewFollowRepository(db)
	userRepo := NewUserRepository(db)
	users := createTestUsers(t, db, 2)
	ctx := testCtx()

	// users[0] follows users[1]: only users[1] gains a follower.
	require.NoError(t, followRepo.Follow(ctx, users[0].ID, users[1].ID))

	target, err := userRepo.GetProfile(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, target.FollowersCount)
	assert.Equal(t, 0, target.FollowedByCount)

	actor, err := userRepo.GetProfile(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, actor.FollowersCount)
	assert.Equal(t, 1, actor.FollowedByCount)
}
