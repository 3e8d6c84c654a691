package api

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillhq/quill/internal/client/auth"
	"github.com/quillhq/quill/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memStore is an in-memory tokenstore.Store for gateway tests.
type memStore struct {
	mu   sync.Mutex
	pair *auth.TokenPair

	sets   int
	clears int
}

func (m *memStore) Get(ctx context.Context) (*auth.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair == nil {
		return nil, nil
	}
	p := *m.pair
	return &p, nil
}

func (m *memStore) Set(ctx context.Context, pair *auth.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := *pair
	m.pair = &p
	m.sets++
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = nil
	m.clears++
	return nil
}

func (m *memStore) current() *auth.TokenPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair == nil {
		return nil
	}
	p := *m.pair
	return &p
}

func accessToken(t *testing.T, username string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:   1,
		Username: username,
		Email:    username + "@example.com",
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newGateway(t *testing.T, baseURL string, store *memStore) *Gateway {
	t.Helper()
	g := New(baseURL, store, 5*time.Second, discardLogger())
	g.http.RetryMax = 0 // keep test failures fast and deterministic
	return g
}
