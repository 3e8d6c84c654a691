package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quillhq/quill/internal/client/auth"
	"github.com/quillhq/quill/internal/common"
)

// RefreshThreshold is how close to expiry an access token may get before
// the pre-flight hook refreshes it instead of attaching it. Refresh happens
// lazily, inline with the first request that needs it, so an idle client
// issues no refresh traffic.
const RefreshThreshold = 60 * time.Second

const refreshPath = "/user/token/refresh/"

// ensureToken is the pre-flight hook run before every request dispatch.
// It returns the access token to attach, or "" for an unauthenticated
// pass-through.
func (g *Gateway) ensureToken(ctx context.Context) (string, error) {
	pair, err := g.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if pair == nil {
		return "", nil
	}

	exp, err := auth.AccessExpiry(pair.Access)
	if err != nil {
		// Corrupt stored token: fail closed. Drop the session and let the
		// request go out unauthenticated.
		g.log.Warn(ctx, "stored access token is undecodable, clearing session")
		g.clearSession(ctx)
		return "", nil
	}

	if time.Until(exp) > RefreshThreshold {
		return pair.Access, nil
	}

	// Expired or about to: join the shared refresh flight. Concurrent
	// triggers collapse into a single exchange and all reuse its outcome.
	v, err, _ := g.refreshing.Do("token-refresh", func() (any, error) {
		return g.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh performs the refresh exchange and atomically replaces the stored
// pair. Any failure — network, rejection, malformed body — drops the whole
// session and surfaces as common.ErrUnauthorized.
func (g *Gateway) refresh(ctx context.Context) (string, error) {
	pair, err := g.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if pair == nil {
		return "", common.ErrUnauthorized
	}

	// Another caller of the same flight may have renewed the pair already.
	if exp, err := auth.AccessExpiry(pair.Access); err == nil && time.Until(exp) > RefreshThreshold {
		return pair.Access, nil
	}

	payload, err := json.Marshal(map[string]string{"refresh": pair.Refresh})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.bare.Do(req)
	if err != nil {
		return "", g.failRefresh(ctx, fmt.Errorf("refresh exchange: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", g.failRefresh(ctx, fmt.Errorf("refresh exchange: status %d", resp.StatusCode))
	}

	var renewed auth.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil || renewed.Access == "" {
		return "", g.failRefresh(ctx, fmt.Errorf("refresh exchange: %w", common.ErrMalformedResponse))
	}
	// The backend may rotate the refresh token or reuse it; whatever the
	// response supplies is authoritative.
	if renewed.Refresh == "" {
		renewed.Refresh = pair.Refresh
	}

	if err := g.store.Set(ctx, &renewed); err != nil {
		return "", err
	}

	g.log.Debug(ctx, "access token refreshed")
	return renewed.Access, nil
}

func (g *Gateway) failRefresh(ctx context.Context, cause error) error {
	g.log.Warn(ctx, "token refresh failed, logging out", "err", cause)
	g.clearSession(ctx)
	return fmt.Errorf("%s: %w", cause, common.ErrUnauthorized)
}
