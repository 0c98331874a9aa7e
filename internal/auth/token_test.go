package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/domain"
)

const testSecret = "test-secret"

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour, 30*time.Minute)

	token, expiresAt, err := tm.Issue("alice", domain.ProfileUser)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	subject, err := tm.ExtractSubject(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", subject)

	profile, err := tm.ExtractProfile(token)
	assert.NoError(t, err)
	assert.Equal(t, domain.ProfileUser, profile)

	expired, err := tm.IsExpired(token)
	assert.NoError(t, err)
	assert.False(t, expired)

	assert.True(t, tm.IsValid(token, "alice"))
}

func TestTokenManager_SubjectBinding(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour, 30*time.Minute)

	token, _, err := tm.Issue("alice", domain.ProfileUser)
	assert.NoError(t, err)

	assert.False(t, tm.IsValid(token, "bob"))
	assert.False(t, tm.IsValid(token, ""))
}

func TestTokenManager_ZeroTTLExpiresImmediately(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 0, 30*time.Minute)

	token, _, err := tm.Issue("alice", domain.ProfileUser)
	assert.NoError(t, err)

	expired, err := tm.IsExpired(token)
	assert.NoError(t, err)
	assert.True(t, expired)
	assert.False(t, tm.IsValid(token, "alice"))
}

func TestTokenManager_IsValidIsTotal(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour, 30*time.Minute)

	// Decode failures are "not valid", never an error.
	assert.False(t, tm.IsValid("garbage", "alice"))
	assert.False(t, tm.IsValid("", "alice"))

	other := auth.NewTokenManager("other-secret", time.Hour, 30*time.Minute)
	token, _, err := other.Issue("alice", domain.ProfileUser)
	assert.NoError(t, err)
	assert.False(t, tm.IsValid(token, "alice"))
}

func TestTokenManager_ExtractProfileRejectsUnknownRole(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour, 30*time.Minute)

	token, _, err := tm.Issue("alice", domain.Profile("SUPERUSER"))
	assert.NoError(t, err)

	_, err = tm.ExtractProfile(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RenewIfNeeded(t *testing.T) {
	t.Run("far from expiry returns the same token", func(t *testing.T) {
		tm := auth.NewTokenManager(testSecret, 2*time.Hour, 30*time.Minute)
		token, _, err := tm.Issue("alice", domain.ProfileUser)
		assert.NoError(t, err)

		renewed, err := tm.RenewIfNeeded(token)
		assert.NoError(t, err)
		assert.Equal(t, token, renewed)
	})

	t.Run("inside the window returns a fresh token with same claims", func(t *testing.T) {
		tm := auth.NewTokenManager(testSecret, 10*time.Minute, 30*time.Minute)
		token, _, err := tm.Issue("alice", domain.ProfileAdmin)
		assert.NoError(t, err)

		renewed, err := tm.RenewIfNeeded(token)
		assert.NoError(t, err)
		assert.NotEqual(t, token, renewed)

		subject, err := tm.ExtractSubject(renewed)
		assert.NoError(t, err)
		assert.Equal(t, "alice", subject)

		profile, err := tm.ExtractProfile(renewed)
		assert.NoError(t, err)
		assert.Equal(t, domain.ProfileAdmin, profile)

		// The renewed token restarts the full lifetime.
		codec := auth.NewCodec([]byte(testSecret))
		original, err := codec.Decode(token)
		assert.NoError(t, err)
		fresh, err := codec.Decode(renewed)
		assert.NoError(t, err)
		assert.False(t, fresh.ExpiresAt.Time.Before(original.ExpiresAt.Time))
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), fresh.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("expired token is never extended", func(t *testing.T) {
		tm := auth.NewTokenManager(testSecret, -time.Second, 30*time.Minute)
		token, _, err := tm.Issue("alice", domain.ProfileUser)
		assert.NoError(t, err)

		renewed, err := tm.RenewIfNeeded(token)
		assert.NoError(t, err)
		assert.Equal(t, token, renewed)

		expired, err := tm.IsExpired(renewed)
		assert.NoError(t, err)
		assert.True(t, expired)
	})

	t.Run("undecodable token is an error", func(t *testing.T) {
		tm := auth.NewTokenManager(testSecret, time.Hour, 30*time.Minute)
		_, err := tm.RenewIfNeeded("garbage")
		assert.ErrorIs(t, err, auth.ErrMalformed)
	})
}

func TestTokenManager_IsExpiringSoon(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 10*time.Minute, 30*time.Minute)
	token, _, err := tm.Issue("alice", domain.ProfileUser)
	assert.NoError(t, err)

	soon, err := tm.IsExpiringSoon(token)
	assert.NoError(t, err)
	assert.True(t, soon)

	long := auth.NewTokenManager(testSecret, 24*time.Hour, 30*time.Minute)
	token, _, err = long.Issue("alice", domain.ProfileUser)
	assert.NoError(t, err)

	soon, err = long.IsExpiringSoon(token)
	assert.NoError(t, err)
	assert.False(t, soon)
}
