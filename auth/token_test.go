package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager([]byte("test-secret"), "chat-relay", time.Hour)

	// Given a freshly signed token
	token, err := manager.Generate("user-42")
	req.NoError(err)
	req.NotEmpty(token)

	// When it is validated
	claims, err := manager.Validate(token)

	// Then the claims round-trip
	req.NoError(err)
	req.Equal("user-42", claims.UserID)
	req.Equal("chat-relay", claims.Issuer)
	req.WithinDuration(time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager([]byte("test-secret"), "chat-relay", -time.Minute)

	token, err := manager.Generate("user-42")
	req.NoError(err)

	_, err = manager.Validate(token)
	req.Error(err)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	req := require.New(t)
	signer := NewTokenManager([]byte("secret-a"), "chat-relay", time.Hour)
	checker := NewTokenManager([]byte("secret-b"), "chat-relay", time.Hour)

	token, err := signer.Generate("user-42")
	req.NoError(err)

	_, err = checker.Validate(token)
	req.Error(err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager([]byte("test-secret"), "chat-relay", time.Hour)

	_, err := manager.Validate("not.a.token")
	req.Error(err)
	_, err = manager.Validate("")
	req.Error(err)
}
