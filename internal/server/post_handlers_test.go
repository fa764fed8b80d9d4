package server

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"murmur/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPostViaAPI(t *testing.T, app *fiber.App, token, content string) uint {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/posts", token, fiber.Map{"content": content})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &post)
	require.NotZero(t, post.ID)
	return post.ID
}

func TestCreateAndFetchPost(t *testing.T) {
	app, _ := newTestApp(t)
	token, userID := signupUser(t, app, "author@example.com")

	postID := createPostViaAPI(t, app, token, "hello world")

	// Post retrieval is an open read.
	resp := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/posts/%d", postID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var post struct {
		Content string `json:"content"`
		UserID  uint   `json:"user_id"`
		Liked   bool   `json:"liked"`
	}
	decodeJSON(t, resp, &post)
	assert.Equal(t, "hello world", post.Content)
	assert.Equal(t, userID, post.UserID)
	assert.False(t, post.Liked)
}

func TestCreatePostEmptyContent(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, "author@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/posts", token, fiber.Map{"content": ""})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestFeedVisibilityAndOrdering(t *testing.T) {
	app, _ := newTestApp(t)
	viewerToken, _ := signupUser(t, app, "viewer@example.com")
	followedToken, followedID := signupUser(t, app, "followed@example.com")
	strangerToken, _ := signupUser(t, app, "stranger@example.com")

	resp := doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/profiles/%d/follow", followedID), viewerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	createPostViaAPI(t, app, viewerToken, "first post")
	createPostViaAPI(t, app, followedToken, "second post")
	createPostViaAPI(t, app, strangerToken, "invisible post")

	resp = doJSON(t, app, fiber.MethodGet, "/api/posts", viewerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed []struct {
		Content string `json:"content"`
	}
	decodeJSON(t, resp, &feed)
	require.Len(t, feed, 2)
	// Oldest first.
	assert.Equal(t, "first post", feed[0].Content)
	assert.Equal(t, "second post", feed[1].Content)
}

func TestFeedTagFilter(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, "author@example.com")

	createPostViaAPI(t, app, token, "thoughts about gophers")
	createPostViaAPI(t, app, token, "unrelated musings")

	resp := doJSON(t, app, fiber.MethodGet, "/api/posts?tag=gopher", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed []struct {
		Content string `json:"content"`
	}
	decodeJSON(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "thoughts about gophers", feed[0].Content)
}

func TestLikeUnlikeFlow(t *testing.T) {
	app, _ := newTestApp(t)
	authorToken, _ := signupUser(t, app, "author@example.com")
	likerToken, _ := signupUser(t, app, "liker@example.com")

	postID := createPostViaAPI(t, app, authorToken, "like me")

	likeURL := fmt.Sprintf("/api/posts/%d/like", postID)
	resp := doJSON(t, app, fiber.MethodPost, likeURL, likerToken, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Idempotent.
	resp = doJSON(t, app, fiber.MethodPost, likeURL, likerToken, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/posts/%d", postID), likerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var post struct {
		LikesCount int  `json:"likes_count"`
		Liked      bool `json:"liked"`
	}
	decodeJSON(t, resp, &post)
	assert.Equal(t, 1, post.LikesCount)
	assert.True(t, post.Liked)

	// The liker's liked_posts listing includes it.
	resp = doJSON(t, app, fiber.MethodGet, "/api/posts/liked_posts", likerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var liked []struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &liked)
	require.Len(t, liked, 1)
	assert.Equal(t, postID, liked[0].ID)

	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/posts/%d/unlike", postID), likerToken, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCommentOnPost(t *testing.T) {
	app, _ := newTestApp(t)
	authorToken, _ := signupUser(t, app, "author@example.com")
	commenterToken, _ := signupUser(t, app, "commenter@example.com")

	postID := createPostViaAPI(t, app, authorToken, "discuss")
	commentURL := fmt.Sprintf("/api/posts/%d/comment", postID)

	// Empty message is rejected.
	resp := doJSON(t, app, fiber.MethodPost, commentURL, commenterToken, fiber.Map{"message": "  "})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, commentURL, commenterToken, fiber.Map{"message": "well said"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var comment struct {
		Message string `json:"message"`
	}
	decodeJSON(t, resp, &comment)
	assert.Equal(t, "well said", comment.Message)

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/posts/%d/comments", postID), commenterToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var comments []struct {
		Message string `json:"message"`
	}
	decodeJSON(t, resp, &comments)
	require.Len(t, comments, 1)
}

func TestUpdatePostOwnerOnlyHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken, _ := signupUser(t, app, "owner@example.com")
	otherToken, _ := signupUser(t, app, "other@example.com")

	postID := createPostViaAPI(t, app, ownerToken, "original")

	resp := doJSON(t, app, fiber.MethodPatch,
		fmt.Sprintf("/api/posts/%d", postID), otherToken, fiber.Map{"content": "hijack"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPatch,
		fmt.Sprintf("/api/posts/%d", postID), ownerToken, fiber.Map{"content": "edited"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSchedulePostReturnsAck(t *testing.T) {
	app, db := newTestApp(t)
	token, _ := signupUser(t, app, "planner@example.com")

	publishAt := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	resp := doJSON(t, app, fiber.MethodPost, "/api/posts", token, fiber.Map{
		"content": "from the future",
		"post_at": publishAt,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ack struct {
		Message string `json:"message"`
	}
	decodeJSON(t, resp, &ack)
	assert.Contains(t, ack.Message, "Post scheduled for")

	// No post was created; a queued publication was.
	assertCount(t, db, &models.Post{}, 0)
	assertCount(t, db, &models.ScheduledPost{}, 1)

	// The owner can list pending publications.
	resp = doJSON(t, app, fiber.MethodGet, "/api/posts/scheduled", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var scheduled []struct {
		Status  string `json:"status"`
		Content string `json:"content"`
	}
	decodeJSON(t, resp, &scheduled)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "queued", scheduled[0].Status)
	assert.Equal(t, "from the future", scheduled[0].Content)
}

func TestSchedulePostInvalidTimestamp(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, "planner@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/posts", token, fiber.Map{
		"content": "whenever",
		"post_at": "tomorrow-ish",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreatePostPublishesEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app, _ := newTestAppWithRedis(t, rdb)
	token, userID := signupUser(t, app, "author@example.com")

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "notifications:broadcast")
	defer func() { _ = sub.Close() }()
	// Wait for the subscription to be active before posting.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	postID := createPostViaAPI(t, app, token, "hello feed")

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	require.NoError(t, err)

	var event struct {
		Type   string `json:"type"`
		PostID uint   `json:"post_id"`
		UserID uint   `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, "post_created", event.Type)
	assert.Equal(t, postID, event.PostID)
	assert.Equal(t, userID, event.UserID)
}

func assertCount(t *testing.T, db *gorm.DB, model any, want int64) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	require.Equal(t, want, count)
}
