package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillhq/quill/internal/common"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID int64, username, email string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:   userID,
		Username: username,
		Email:    email,
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestDeriveSession_DecodesClaims(t *testing.T) {
	access := signedToken(t, 42, "jess", "jess@example.com", time.Hour)

	s, err := DeriveSession(&TokenPair{Access: access, Refresh: "r"})
	require.NoError(t, err)
	require.Equal(t, int64(42), s.UserID)
	require.Equal(t, "jess", s.Username)
	require.Equal(t, "jess@example.com", s.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)
}

func TestDeriveSession_UndecodableToken(t *testing.T) {
	_, err := DeriveSession(&TokenPair{Access: "not-a-jwt", Refresh: "r"})
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDeriveSession_MissingExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "noexp"})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = DeriveSession(&TokenPair{Access: s, Refresh: "r"})
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDeriveSession_NilOrEmptyPair(t *testing.T) {
	_, err := DeriveSession(nil)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = DeriveSession(&TokenPair{})
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAccessExpiry(t *testing.T) {
	access := signedToken(t, 1, "u", "u@example.com", 30*time.Second)

	exp, err := AccessExpiry(access)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(30*time.Second), exp, 5*time.Second)

	_, err = AccessExpiry("garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
