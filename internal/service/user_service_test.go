package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	user := env.createUser(t, "me@example.com")

	updated, err := svc.UpdateProfile(testCtx(), UpdateProfileInput{
		UserID: user.ID,
		Bio:    strPtr("new bio"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	// Untouched fields keep their values.
	assert.Equal(t, "Test", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)
}

func TestUpdateProfileClearWithEmptyString(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	user := env.createUser(t, "me@example.com")

	_, err := svc.UpdateProfile(testCtx(), UpdateProfileInput{
		UserID: user.ID,
		Bio:    strPtr("something"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(testCtx(), UpdateProfileInput{
		UserID: user.ID,
		Bio:    strPtr(""),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)
}

func TestUpdateProfileBioTooLong(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	user := env.createUser(t, "me@example.com")

	_, err := svc.UpdateProfile(testCtx(), UpdateProfileInput{
		UserID: user.ID,
		Bio:    strPtr(strings.Repeat("x", 501)),
	})
	assertAppErrCode(t, err, "VALIDATION_ERROR")
}

func TestDeleteAccountMissingUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	err := svc.DeleteAccount(testCtx(), 404404)
	assertAppErrCode(t, err, "NOT_FOUND")
}
