package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	token, userID := signupUser(t, app, "fresh@example.com")
	assert.NotEmpty(t, token)
	assert.NotZero(t, userID)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "fresh@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &out)
	assert.NotEmpty(t, out.Token)
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)
	signupUser(t, app, "taken@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "taken@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing password.
	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email": "half@example.com",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Malformed email.
	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "not-an-email",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Password too short.
	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "short@example.com",
		"password": "tiny",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	signupUser(t, app, "victim@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "victim@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/profiles/me", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/profiles/me", "garbage-token", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
