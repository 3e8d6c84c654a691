// Package api is the HTTP side of the client: a single shared gateway that
// guarantees every outgoing request carries a non-expired access token, plus
// typed wrappers for the backend endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/quillhq/quill/internal/client/tokenstore"
	"github.com/quillhq/quill/internal/common"
	"github.com/quillhq/quill/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Gateway is the one long-lived HTTP client of the application. It owns the
// backend base URL, the token store, and the refresh coordinator; every
// request passes through a pre-flight hook (see ensureToken) before it
// leaves the process.
type Gateway struct {
	baseURL string
	http    *retryablehttp.Client
	// bare performs the refresh exchange only. It carries no auth header
	// and must not recurse into the pre-flight hook.
	bare  *http.Client
	store tokenstore.Store
	log   logging.Logger

	refreshing singleflight.Group
	onLogout   func(ctx context.Context)
}

func New(baseURL string, store tokenstore.Store, timeout time.Duration, log logging.Logger) *Gateway {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
		bare:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log,
	}
}

// OnLogout registers the callback fired when an authentication failure
// forces the session to be dropped. Set once, during wiring.
func (g *Gateway) OnLogout(fn func(ctx context.Context)) {
	g.onLogout = fn
}

// Do sends one request through the guarded path: pre-flight token check,
// JSON-encoded body, JSON-decoded response into out (when non-nil).
//
// Requests without a stored token pass through unauthenticated; public
// endpoints tolerate this.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	token, err := g.ensureToken(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Debug(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrNotFound)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, common.ErrMalformedResponse)
	}
	return nil
}

// AccessToken runs the same pre-flight guarantee as Do and returns the
// current access token, or "" when the client is not authenticated. Used by
// the notification channel, which authenticates out-of-band.
func (g *Gateway) AccessToken(ctx context.Context) (string, error) {
	return g.ensureToken(ctx)
}

func (g *Gateway) clearSession(ctx context.Context) {
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error(ctx, "failed to clear token store", "err", err)
	}
	if g.onLogout != nil {
		g.onLogout(ctx)
	}
}
