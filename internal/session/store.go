package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adminkit/portal-core/storage/db"
)

// currentSessionID pins the persisted token pair to a single row: the
// application holds at most one active backend session.
const currentSessionID = "current"

// Store persists the backend token pair in sqlite so a sign-in survives
// process restarts. It implements supabase.TokenStore.
type Store struct {
	queries *db.Queries
}

func NewStore(queries *db.Queries) *Store {
	return &Store{queries: queries}
}

func (s *Store) Load(ctx context.Context) (string, string, error) {
	row, err := s.queries.GetAuthSession(ctx, currentSessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("load persisted session: %w", err)
	}
	return row.AccessToken, row.RefreshToken, nil
}

func (s *Store) Save(ctx context.Context, accessToken, refreshToken string) error {
	err := s.queries.UpsertAuthSession(ctx, db.UpsertAuthSessionParams{
		ID:           currentSessionID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.queries.DeleteAuthSession(ctx, currentSessionID); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}
