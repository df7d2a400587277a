package db

import "context"

const getUserByUsername = `
SELECT id, username, email, full_name, created_at
FROM users
WHERE username = ?
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByUsername, username)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt)
	return u, err
}

const upsertUserByUsername = `
INSERT INTO users (id, username, email, full_name)
VALUES (?, ?, ?, ?)
ON CONFLICT (username) DO UPDATE SET
    email = excluded.email,
    full_name = excluded.full_name
RETURNING id, username, email, full_name, created_at
`

type UpsertUserByUsernameParams struct {
	ID       string
	Username string
	Email    string
	FullName string
}

func (q *Queries) UpsertUserByUsername(ctx context.Context, arg UpsertUserByUsernameParams) (User, error) {
	row := q.db.QueryRowContext(ctx, upsertUserByUsername, arg.ID, arg.Username, arg.Email, arg.FullName)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt)
	return u, err
}
