package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quillhq/quill/internal/client/auth"
	"github.com/quillhq/quill/internal/dbx"
)

const (
	keyAccess  = "access_token"
	keyRefresh = "refresh_token"
)

// SQLiteStore keeps the token pair in a two-row key/value table with a
// per-row expiry column.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string, now time.Time) (string, error) {
	var value string
	err := q.QueryRowContext(ctx,
		`SELECT value FROM tokens WHERE key = ? AND expires_at > ?`, key, now.UTC()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get tokens[%s]: %w", key, err)
	}
	return value, nil
}

// Get returns the stored pair, or (nil, nil) when either token is missing
// or past its storage expiry. A half-present pair counts as absent.
func (s *SQLiteStore) Get(ctx context.Context) (*auth.TokenPair, error) {
	now := time.Now()

	access, err := s.get(ctx, s.db, keyAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.get(ctx, s.db, keyRefresh, now)
	if err != nil {
		return nil, err
	}
	if access == "" || refresh == "" {
		return nil, nil
	}
	return &auth.TokenPair{Access: access, Refresh: refresh}, nil
}

// Set replaces both tokens in a single transaction so no partially-updated
// pair is ever observable.
func (s *SQLiteStore) Set(ctx context.Context, pair *auth.TokenPair) error {
	if pair == nil || pair.Access == "" || pair.Refresh == "" {
		return errors.New("token pair is incomplete")
	}

	now := time.Now().UTC()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := upsert(ctx, tx, keyAccess, pair.Access, now.Add(AccessTTL)); err != nil {
			return err
		}
		return upsert(ctx, tx, keyRefresh, pair.Refresh, now.Add(RefreshTTL))
	})
}

func upsert(ctx context.Context, tx dbx.DBTX, key, value string, expiresAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tokens (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set tokens[%s]: %w", key, err)
	}
	return nil
}

// Clear removes both tokens. Clearing an already-empty store is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tokens`)
	if err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
