// Package session ties the token store, the request gateway, and the
// notification machinery into the single session-manager object the rest of
// the application consumes. One Manager is constructed at startup and passed
// by reference; there is no ambient global.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quillhq/quill/internal/client/api"
	"github.com/quillhq/quill/internal/client/auth"
	"github.com/quillhq/quill/internal/client/notifications"
	"github.com/quillhq/quill/internal/client/tokenstore"
	"github.com/quillhq/quill/internal/common"
	"github.com/quillhq/quill/internal/logging"
)

type Manager struct {
	store      tokenstore.Store
	gw         *api.Gateway
	dispatcher *notifications.Dispatcher
	wsURL      string
	log        logging.Logger

	mu        sync.Mutex
	channel   *notifications.Channel
	cancelRun context.CancelFunc
}

// New wires a Manager over an already-configured gateway. Authentication
// failures detected by the gateway (failed refresh, corrupt token) propagate
// here as a single state transition: the notification channel is torn down
// and the next Session call reports anonymous.
func New(store tokenstore.Store, gw *api.Gateway, wsURL string, log logging.Logger) *Manager {
	m := &Manager{
		store: store,
		gw:    gw,
		wsURL: wsURL,
		log:   log,
	}
	m.dispatcher = notifications.NewDispatcher(gw, log)
	gw.OnLogout(m.onAuthFailure)
	return m
}

// Session returns the current user derived from the stored access token, or
// nil when not authenticated. A stored token that cannot be decoded is
// treated as corrupt: the store is cleared and nil is returned.
func (m *Manager) Session(ctx context.Context) (*auth.Session, error) {
	pair, err := m.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	s, err := auth.DeriveSession(pair)
	if err != nil {
		m.log.Warn(ctx, "stored token pair is corrupt, clearing")
		if cerr := m.store.Clear(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, nil
	}
	return s, nil
}

// Login exchanges credentials for a token pair and persists it atomically.
func (m *Manager) Login(ctx context.Context, identifier, secret string) error {
	pair, err := m.gw.Login(ctx, identifier, secret)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := m.store.Set(ctx, pair); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	m.log.Info(ctx, "signed in")
	return nil
}

// Logout drops the credentials and stops the notification stream. Calling
// it while signed out is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	m.CloseNotifications()
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.log.Info(ctx, "signed out")
	return nil
}

// API exposes the typed endpoint surface of the underlying gateway.
func (m *Manager) API() *api.Gateway {
	return m.gw
}

// Do is the guarded generic request entry point.
func (m *Manager) Do(ctx context.Context, method, path string, body, out any) error {
	return m.gw.Do(ctx, method, path, body, out)
}

// SubscribeNotifications registers a toast handler and returns its
// unsubscribe function. Handlers survive channel reopens: the dispatcher,
// and with it the dedup set, lives as long as the Manager.
func (m *Manager) SubscribeNotifications(handler func(notifications.Toast)) func() {
	return m.dispatcher.Subscribe(handler)
}

// ActivateNotification is the click-through on a presented toast.
func (m *Manager) ActivateNotification(ctx context.Context, eventID int64) (string, bool) {
	return m.dispatcher.Activate(ctx, eventID)
}

// OpenNotifications dials the real-time channel with a fresh access token
// and starts dispatching its events. The channel does not reconnect by
// itself; when it drops, call OpenNotifications again.
func (m *Manager) OpenNotifications(ctx context.Context) error {
	token, err := m.gw.AccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("not signed in: " + common.ErrUnauthorized.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.channel != nil {
		return nil
	}

	ch, err := notifications.Dial(ctx, m.wsURL, token, m.log)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.channel = ch
	m.cancelRun = cancel
	go func() {
		m.dispatcher.Run(runCtx, ch.Events())
		m.mu.Lock()
		if m.channel == ch {
			m.channel = nil
			m.cancelRun = nil
		}
		m.mu.Unlock()
	}()

	return nil
}

// CloseNotifications tears the channel down; no events are dispatched
// afterwards. Safe to call when no channel is open.
func (m *Manager) CloseNotifications() {
	m.mu.Lock()
	ch, cancel := m.channel, m.cancelRun
	m.channel = nil
	m.cancelRun = nil
	m.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
	if cancel != nil {
		cancel()
	}
}

// NotificationsOpen reports whether the real-time channel is currently up.
func (m *Manager) NotificationsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channel != nil
}

func (m *Manager) onAuthFailure(ctx context.Context) {
	m.CloseNotifications()
	m.log.Info(ctx, "session ended")
}
