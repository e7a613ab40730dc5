package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chatkit/core/token"
)

const testSecret = "test-secret-key-at-least-32-bytes-long"

func TestNewService(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		svc, err := token.NewService(testSecret)
		require.NoError(t, err)
		assert.NotNil(t, svc)
		assert.Equal(t, 7*24*time.Hour, svc.TTL())
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := token.NewService("")
		assert.ErrorIs(t, err, token.ErrMissingSecret)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := token.NewService("too-short")
		assert.ErrorIs(t, err, token.ErrSecretTooShort)
	})
}

func TestService_IssueVerify(t *testing.T) {
	svc, err := token.NewService(testSecret, token.WithIssuer("chatkit-test"))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		issued, err := svc.Issue("user-123")
		require.NoError(t, err)
		require.NotEmpty(t, issued.Value)

		claims, err := svc.Verify(issued.Value)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "chatkit-test", claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("unique jti per issuance", func(t *testing.T) {
		first, err := svc.Issue("user-123")
		require.NoError(t, err)
		second, err := svc.Issue("user-123")
		require.NoError(t, err)

		firstClaims, err := svc.Verify(first.Value)
		require.NoError(t, err)
		secondClaims, err := svc.Verify(second.Value)
		require.NoError(t, err)
		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})

	t.Run("empty user", func(t *testing.T) {
		_, err := svc.Issue("")
		assert.ErrorIs(t, err, token.ErrMissingSubject)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not-a-jwt")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other, err := token.NewService("another-secret-key-that-is-32-bytes!!")
		require.NoError(t, err)

		issued, err := other.Issue("user-123")
		require.NoError(t, err)

		_, err = svc.Verify(issued.Value)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}

func TestService_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	svc, err := token.NewService(testSecret,
		token.WithTTL(time.Hour),
		token.WithClock(func() time.Time { return *clock }),
	)
	require.NoError(t, err)

	issued, err := svc.Issue("user-123")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt)

	t.Run("valid before expiry", func(t *testing.T) {
		later := now.Add(59 * time.Minute)
		clock = &later
		_, err := svc.Verify(issued.Value)
		assert.NoError(t, err)
	})

	t.Run("rejected after expiry", func(t *testing.T) {
		later := now.Add(2 * time.Hour)
		clock = &later
		_, err := svc.Verify(issued.Value)
		assert.ErrorIs(t, err, token.ErrExpiredToken)
	})
}
