package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillhq/quill/internal/common"
)

// Claims are the token claims the backend embeds into the access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the in-memory "current user", derived from the access token's
// claims. It is always recomputed from the stored pair, never cached across
// a token change.
type Session struct {
	UserID    int64
	Username  string
	Email     string
	ExpiresAt time.Time
}

func decodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// DeriveSession decodes the access token of the given pair into a Session.
// A token that cannot be decoded yields common.ErrInvalidToken; the caller
// must treat the stored pair as corrupt and clear it.
func DeriveSession(pair *TokenPair) (*Session, error) {
	if pair == nil || pair.Access == "" {
		return nil, common.ErrInvalidToken
	}
	claims, err := decodeClaims(pair.Access)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// AccessExpiry returns the expiry instant embedded in the access token.
func AccessExpiry(access string) (time.Time, error) {
	claims, err := decodeClaims(access)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}
