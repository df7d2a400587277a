package db

import (
	"context"
	"database/sql"
)

const createSignInEvent = `
INSERT INTO sign_in_audit (id, email, succeeded, detail)
VALUES (?, ?, ?, ?)
`

type CreateSignInEventParams struct {
	ID        string
	Email     string
	Succeeded bool
	Detail    sql.NullString
}

func (q *Queries) CreateSignInEvent(ctx context.Context, arg CreateSignInEventParams) error {
	_, err := q.db.ExecContext(ctx, createSignInEvent, arg.ID, arg.Email, arg.Succeeded, arg.Detail)
	return err
}

const listRecentSignInEvents = `
SELECT id, email, succeeded, detail, created_at
FROM sign_in_audit
ORDER BY created_at DESC
LIMIT ?
`

func (q *Queries) ListRecentSignInEvents(ctx context.Context, limit int64) ([]SignInEvent, error) {
	rows, err := q.db.QueryContext(ctx, listRecentSignInEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []SignInEvent
	for rows.Next() {
		var e SignInEvent
		if err := rows.Scan(&e.ID, &e.Email, &e.Succeeded, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
