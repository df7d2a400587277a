package db

import "context"

const getAuthSession = `
SELECT id, access_token, refresh_token, updated_at
FROM auth_sessions
WHERE id = ?
`

func (q *Queries) GetAuthSession(ctx context.Context, id string) (AuthSession, error) {
	row := q.db.QueryRowContext(ctx, getAuthSession, id)
	var s AuthSession
	err := row.Scan(&s.ID, &s.AccessToken, &s.RefreshToken, &s.UpdatedAt)
	return s, err
}

const upsertAuthSession = `
INSERT INTO auth_sessions (id, access_token, refresh_token, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (id) DO UPDATE SET
    access_token = excluded.access_token,
    refresh_token = excluded.refresh_token,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertAuthSessionParams struct {
	ID           string
	AccessToken  string
	RefreshToken string
}

func (q *Queries) UpsertAuthSession(ctx context.Context, arg UpsertAuthSessionParams) error {
	_, err := q.db.ExecContext(ctx, upsertAuthSession, arg.ID, arg.AccessToken, arg.RefreshToken)
	return err
}

const deleteAuthSession = `
DELETE FROM auth_sessions WHERE id = ?
`

func (q *Queries) DeleteAuthSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteAuthSession, id)
	return err
}
