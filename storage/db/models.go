package db

import (
	"database/sql"
	"time"
)

type AuthSession struct {
	ID           string
	AccessToken  string
	RefreshToken string
	UpdatedAt    time.Time
}

type User struct {
	ID        string
	Username  string
	Email     string
	FullName  string
	CreatedAt time.Time
}

type SignInEvent struct {
	ID        string
	Email     string
	Succeeded bool
	Detail    sql.NullString
	CreatedAt time.Time
}
