// Package tokenstore persists the access/refresh token pair across runs.
// It is the single source of truth for credentials: the session is always
// re-derived from what this store currently holds.
package tokenstore

import (
	"context"
	"time"

	"github.com/quillhq/quill/internal/client/auth"
)

// Storage lifetimes for the two records, mirroring the backend cookie
// policy: a short window for the access token, a longer one for the refresh
// token. These are storage expiries, independent of the JWT exp claim.
const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

// Store holds the current token pair.
//
// Contract:
//   - Get returns (nil, nil) when no valid pair is stored; the caller treats
//     that as "not authenticated".
//   - Set persists both tokens with their independent expiries; the
//     overwrite is atomic from the caller's perspective.
//   - Clear removes both tokens unconditionally and is idempotent.
type Store interface {
	Get(ctx context.Context) (*auth.TokenPair, error)
	Set(ctx context.Context, pair *auth.TokenPair) error
	Clear(ctx context.Context) error
}
