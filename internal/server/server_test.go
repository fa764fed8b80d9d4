package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"murmur/internal/cache"
	"murmur/internal/config"
	"murmur/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	return newTestAppWithRedis(t, nil)
}

func newTestAppWithRedis(t *testing.T, rdb *redis.Client) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	cache.SetClient(nil)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "unit-test-secret-not-for-production",
		Port:      "0",
		Env:       "test",
		UploadDir: t.TempDir(),
	}

	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	return srv.buildApp(), db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// signupUser registers an account through the API and returns its token and ID.
func signupUser(t *testing.T, app *fiber.App, email string) (string, uint) {
	t.Helper()

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.Token)
	require.NotZero(t, out.User.ID)
	return out.Token, out.User.ID
}

func TestHealthEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/health/ready", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	decodeJSON(t, resp, &out)
	require.Equal(t, "healthy", out.Status)
	require.Equal(t, "healthy", out.Checks.Database)
	require.Equal(t, "unavailable", out.Checks.Redis)
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInvalidIDParam(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, fmt.Sprintf("ids%d@example.com", 1))

	resp := doJSON(t, app, fiber.MethodGet, "/api/profiles/banana", token, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
