package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillhq/quill/internal/client/api"
	"github.com/quillhq/quill/internal/client/auth"
	"github.com/quillhq/quill/internal/client/session"
	"github.com/quillhq/quill/internal/logging"
	"github.com/stretchr/testify/require"
)

func stubInputs(t *testing.T, lines []string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		line := lines[i]
		i++
		return line, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

type memStore struct {
	mu   sync.Mutex
	pair *auth.TokenPair
}

func (s *memStore) Get(context.Context) (*auth.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

func (s *memStore) Set(_ context.Context, pair *auth.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testToken(t *testing.T, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   1,
		Username: username,
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestApp(t *testing.T, baseURL string, store *memStore) *App {
	t.Helper()
	log := testLogger()
	gw := api.New(baseURL, store, 5*time.Second, log)
	return &App{
		session: session.New(store, gw, "", log),
		log:     log,
	}
}

func TestLogin_SetsUserName(t *testing.T) {
	silenceOutput(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/token/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(auth.TokenPair{Access: testToken(t, "maya"), Refresh: "r1"})
	}))
	t.Cleanup(srv.Close)

	restore := stubInputs(t, []string{"maya@example.org"}, []byte("secret"))
	defer restore()

	store := &memStore{}
	a := newTestApp(t, srv.URL, store)

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "maya", a.userName)
	require.True(t, a.isLoggedIn())
}

func TestLogin_BadCredentials(t *testing.T) {
	silenceOutput(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	restore := stubInputs(t, []string{"maya@example.org"}, []byte("wrong"))
	defer restore()

	store := &memStore{}
	a := newTestApp(t, srv.URL, store)

	require.Error(t, a.Login(context.Background()))
	require.Empty(t, a.userName)
	require.Nil(t, store.pair)
}

func TestRegister_SendsAccountFields(t *testing.T) {
	silenceOutput(t)

	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/register/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(api.Message{Message: "ok"})
	}))
	t.Cleanup(srv.Close)

	restore := stubInputs(t, []string{"Maya M", "maya@example.org"}, []byte("secret"))
	defer restore()

	a := newTestApp(t, srv.URL, &memStore{})

	require.NoError(t, a.Register(context.Background()))
	require.Equal(t, "Maya M", gotBody["full_name"])
	require.Equal(t, "maya@example.org", gotBody["email"])
	require.Equal(t, "secret", gotBody["password"])
	require.Equal(t, gotBody["password"], gotBody["password2"])
}

func TestLogout_ClearsStateAndStore(t *testing.T) {
	silenceOutput(t)

	store := &memStore{pair: &auth.TokenPair{Access: testToken(t, "maya"), Refresh: "r1"}}
	a := newTestApp(t, "http://127.0.0.1:1", store)
	a.userName = "maya"

	require.NoError(t, a.Logout(context.Background()))
	require.Empty(t, a.userName)
	require.Nil(t, store.pair)
}

func TestWhoami_NotSignedIn(t *testing.T) {
	silenceOutput(t)

	a := newTestApp(t, "http://127.0.0.1:1", &memStore{})
	a.userName = "stale"

	require.NoError(t, a.Whoami(context.Background()))
	require.Empty(t, a.userName)
}
