package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	ProfileKeyPrefix  = "profile:%d"
	FollowerKeyPrefix = "user:%d:followers"
)

const (
	UserTTL     = 5 * time.Minute
	ProfileTTL  = 2 * time.Minute
	PostTTL     = 30 * time.Minute
	FollowerTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func FollowerKey(userID uint) string {
	return fmt.Sprintf(FollowerKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateFollowers(ctx context.Context, userID uint) {
	Invalidate(ctx, FollowerKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}
